// Package serial pumps diagnostic protocol frames over the USB CDC port.
package serial

import (
	"machine"
	"time"

	"github.com/tuffrabit/tinygo-macropad-rp2040/pkg/protocol"
)

type Serial struct {
	port    machine.Serialer
	handler *protocol.Handler
}

func NewSerial(port machine.Serialer, handler *protocol.Handler) Serial {
	return Serial{
		port:    port,
		handler: handler,
	}
}

// Handle runs the frame loop. Malformed frames are dropped; the host
// retries, the device never stalls. Runs on its own goroutine so the
// input loop keeps its cadence.
func (s *Serial) Handle() {
	for {
		frame, err := protocol.ReadFrame(s)
		if err != nil {
			// Desync or garbage on the wire. Skip until the next sync byte.
			continue
		}

		resp := s.handler.Handle(frame)
		protocol.WriteResponse(s, resp)
	}
}

// Read satisfies io.Reader over the CDC byte interface. ReadByte returns
// an error when no byte is buffered, so poll with a short sleep instead
// of spinning.
func (s *Serial) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	for i := range p {
		for {
			b, err := s.port.ReadByte()
			if err == nil {
				p[i] = b
				break
			}
			time.Sleep(time.Millisecond)
		}
	}
	return len(p), nil
}

// Write satisfies io.Writer.
func (s *Serial) Write(p []byte) (int, error) {
	return s.port.Write(p)
}

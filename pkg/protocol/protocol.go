// Package protocol implements a binary serial protocol for host-side
// diagnostics. Every command is read-only; the binding table is baked into
// the firmware and cannot be changed over the wire.
//
// Frame format:
//
//	[SYNC:1][CMD:1][LEN:2][PAYLOAD:LEN][CRC:2]
//	- SYNC: 0xAA (frame start marker)
//	- CMD: Command byte
//	- LEN: Payload length (uint16, little-endian)
//	- PAYLOAD: Variable length data
//	- CRC: CRC16-CCITT of [CMD][LEN][PAYLOAD]
//
// Response format is identical, with a status byte in place of CMD.
package protocol

import (
	"encoding/binary"
	"errors"
	"io"

	"github.com/tuffrabit/tinygo-macropad-rp2040/pkg/config"
	"github.com/tuffrabit/tinygo-macropad-rp2040/pkg/storage"
)

const (
	SyncByte = 0xAA

	// Command codes (PC → Device)
	CmdPing            = 0x01
	CmdGetVersion      = 0x02
	CmdGetProfile      = 0x03
	CmdGetBootStats    = 0x04
	CmdGetStorageStats = 0x05

	// Response status codes (Device → PC)
	StatusOK          = 0x00
	StatusError       = 0x01
	StatusInvalidCmd  = 0x02
	StatusInvalidData = 0x03
	StatusNotFound    = 0x04
)

var (
	ErrInvalidFrame = errors.New("invalid frame")
	ErrCRCMismatch  = errors.New("CRC mismatch")
)

// Handler processes protocol commands against the active profile and the
// storage manager. A nil storage manager is allowed; stats commands then
// answer StatusError instead of crashing the loop.
type Handler struct {
	profile *config.Profile
	storage *storage.Manager
}

// NewHandler creates a new protocol handler.
func NewHandler(profile *config.Profile, sm *storage.Manager) *Handler {
	return &Handler{
		profile: profile,
		storage: sm,
	}
}

// Frame represents a protocol frame.
type Frame struct {
	Cmd     uint8
	Payload []byte
}

// Response represents a protocol response.
type Response struct {
	Status  uint8
	Payload []byte
}

// ReadFrame reads and validates a frame from the reader.
func ReadFrame(r io.Reader) (*Frame, error) {
	// Read sync byte
	sync := make([]byte, 1)
	if _, err := io.ReadFull(r, sync); err != nil {
		return nil, err
	}
	if sync[0] != SyncByte {
		return nil, ErrInvalidFrame
	}

	// Read header (cmd + len)
	header := make([]byte, 3)
	if _, err := io.ReadFull(r, header); err != nil {
		return nil, err
	}

	cmd := header[0]
	length := binary.LittleEndian.Uint16(header[1:])

	// Sanity check on length
	if length > 512 {
		return nil, ErrInvalidFrame
	}

	// Read payload
	var payload []byte
	if length > 0 {
		payload = make([]byte, length)
		if _, err := io.ReadFull(r, payload); err != nil {
			return nil, err
		}
	}

	// Read CRC
	crcBytes := make([]byte, 2)
	if _, err := io.ReadFull(r, crcBytes); err != nil {
		return nil, err
	}
	receivedCRC := binary.LittleEndian.Uint16(crcBytes)

	// Verify CRC
	calculatedCRC := calcCRC(append(header, payload...))
	if receivedCRC != calculatedCRC {
		return nil, ErrCRCMismatch
	}

	return &Frame{
		Cmd:     cmd,
		Payload: payload,
	}, nil
}

// appendFrame builds a complete frame around the given leading byte
// (command or status) and payload.
func appendFrame(lead uint8, payload []byte) []byte {
	payloadLen := uint16(len(payload))
	buf := make([]byte, 0, 1+1+2+int(payloadLen)+2)

	buf = append(buf, SyncByte, lead)

	lenBytes := make([]byte, 2)
	binary.LittleEndian.PutUint16(lenBytes, payloadLen)
	buf = append(buf, lenBytes...)

	buf = append(buf, payload...)

	// CRC covers everything after the sync byte.
	crc := calcCRC(buf[1:])
	crcBytes := make([]byte, 2)
	binary.LittleEndian.PutUint16(crcBytes, crc)
	return append(buf, crcBytes...)
}

// WriteResponse writes a response frame to the writer.
func WriteResponse(w io.Writer, resp *Response) error {
	_, err := w.Write(appendFrame(resp.Status, resp.Payload))
	return err
}

// WriteFrame writes a request frame (for testing/PC side).
func WriteFrame(w io.Writer, frame *Frame) error {
	_, err := w.Write(appendFrame(frame.Cmd, frame.Payload))
	return err
}

// Handle processes a command frame and returns a response.
func (h *Handler) Handle(frame *Frame) *Response {
	switch frame.Cmd {
	case CmdPing:
		return h.handlePing(frame.Payload)
	case CmdGetVersion:
		return h.handleGetVersion()
	case CmdGetProfile:
		return h.handleGetProfile()
	case CmdGetBootStats:
		return h.handleGetBootStats()
	case CmdGetStorageStats:
		return h.handleGetStorageStats()
	default:
		return &Response{Status: StatusInvalidCmd}
	}
}

// handlePing responds with the same payload (echo).
func (h *Handler) handlePing(payload []byte) *Response {
	return &Response{
		Status:  StatusOK,
		Payload: payload,
	}
}

// handleGetVersion returns firmware and record version info.
// Response: [FirmwareVersionMajor:1][FirmwareVersionMinor:1][RecordVersion:2]
func (h *Handler) handleGetVersion() *Response {
	payload := make([]byte, 4)
	payload[0] = 0 // Firmware major
	payload[1] = 1 // Firmware minor
	binary.LittleEndian.PutUint16(payload[2:], config.CurrentVersion)

	return &Response{
		Status:  StatusOK,
		Payload: payload,
	}
}

// handleGetProfile dumps the active compiled-in profile.
func (h *Handler) handleGetProfile() *Response {
	if h.profile == nil {
		return &Response{Status: StatusNotFound}
	}

	data, err := h.profile.MarshalBinary()
	if err != nil {
		return &Response{Status: StatusError}
	}

	return &Response{
		Status:  StatusOK,
		Payload: data,
	}
}

// handleGetBootStats returns the persisted boot counters.
func (h *Handler) handleGetBootStats() *Response {
	if h.storage == nil {
		return &Response{Status: StatusError}
	}

	var stats config.BootStats
	if err := h.storage.LoadBootStats(&stats); err != nil {
		if err == storage.ErrStatsNotFound {
			return &Response{Status: StatusNotFound}
		}
		return &Response{Status: StatusError}
	}

	data, err := stats.MarshalBinary()
	if err != nil {
		return &Response{Status: StatusError}
	}

	return &Response{
		Status:  StatusOK,
		Payload: data,
	}
}

// handleGetStorageStats returns flash usage statistics.
// Response: [Total:4][Used:4][Free:4]
func (h *Handler) handleGetStorageStats() *Response {
	if h.storage == nil {
		return &Response{Status: StatusError}
	}

	stats, err := h.storage.GetStats()
	if err != nil {
		return &Response{Status: StatusError}
	}

	payload := make([]byte, 12)
	binary.LittleEndian.PutUint32(payload[0:], uint32(stats.TotalSpace))
	binary.LittleEndian.PutUint32(payload[4:], uint32(stats.UsedSpace))
	binary.LittleEndian.PutUint32(payload[8:], uint32(stats.FreeSpace))

	return &Response{
		Status:  StatusOK,
		Payload: payload,
	}
}

// calcCRC calculates CRC16-CCITT.
// Polynomial: 0x1021, Initial: 0xFFFF
func calcCRC(data []byte) uint16 {
	var crc uint16 = 0xFFFF

	for _, b := range data {
		crc ^= uint16(b) << 8
		for i := 0; i < 8; i++ {
			if crc&0x8000 != 0 {
				crc = (crc << 1) ^ 0x1021
			} else {
				crc <<= 1
			}
		}
	}

	return crc
}

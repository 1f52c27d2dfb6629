//go:build nodebug

// Package display provides a no-op stub when built with the nodebug tag.
// This saves memory by excluding the SSD1306 driver and font data.
//
// To build without display support, use:
//
//	tinygo build -tags=nodebug -target=waveshare-rp2040-zero -o firmware.uf2 .
package display

import "github.com/tuffrabit/tinygo-macropad-rp2040/pkg/input"

// Monitor is a no-op stub when the nodebug build tag is used.
type Monitor struct{}

// NewMonitor returns nil when the nodebug build tag is used.
// ShowEvent handles a nil monitor gracefully.
func NewMonitor() *Monitor {
	return nil
}

// ShowEvent is a no-op in nodebug mode.
func (m *Monitor) ShowEvent(ev input.Event) {}

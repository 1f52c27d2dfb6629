// Package leds drives the key backlight NeoPixel chain.
package leds

import (
	"image/color"
)

// ColorWriter pushes a color buffer out to the LED chain. The ws2812 driver
// satisfies it; tests substitute a recorder.
type ColorWriter interface {
	WriteColors(buf []color.RGBA) error
}

// Strip stages per-pixel colors and sends them on demand. Not used in the
// loop hot path; colors are static after boot.
type Strip struct {
	w   ColorWriter
	buf []color.RGBA
}

func NewStrip(w ColorWriter, count int) *Strip {
	return &Strip{
		w:   w,
		buf: make([]color.RGBA, count),
	}
}

// SetColor stages one pixel. Nothing is sent until Show.
func (s *Strip) SetColor(index int, r, g, b uint8) {
	if index < 0 || index >= len(s.buf) {
		return
	}
	s.buf[index] = color.RGBA{R: r, G: g, B: b, A: 0xFF}
}

// Show sends the staged colors to the chain.
func (s *Strip) Show() error {
	return s.w.WriteColors(s.buf)
}

// Clear blanks the whole strip immediately.
func (s *Strip) Clear() error {
	for i := range s.buf {
		s.buf[i] = color.RGBA{A: 0xFF}
	}
	return s.w.WriteColors(s.buf)
}

// LitAll lights every pixel white at the given intensity and sends it.
// This is the bootloader-mode acknowledgment.
func (s *Strip) LitAll(intensity uint8) error {
	for i := range s.buf {
		s.buf[i] = color.RGBA{R: intensity, G: intensity, B: intensity, A: 0xFF}
	}
	return s.w.WriteColors(s.buf)
}

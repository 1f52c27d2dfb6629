//go:build !nodebug

// Package display provides SSD1306 OLED debug output. It shows the most
// recent input events so a board on the bench can be exercised without a
// host-side listener.
//
// To build without display support (saves RAM and flash), use:
//
//	tinygo build -tags=nodebug -target=waveshare-rp2040-zero -o firmware.uf2 .
package display

import (
	"image/color"
	"machine"
	"time"

	"github.com/tuffrabit/tinygo-macropad-rp2040/pkg/input"

	"tinygo.org/x/drivers/ssd1306"
	"tinygo.org/x/tinyfont"
	"tinygo.org/x/tinyfont/freemono"
)

const (
	i2cAddress = 0x3C
	sclPin     = machine.GPIO1
	sdaPin     = machine.GPIO0

	screenWidth  = 128
	screenHeight = 64

	// Three event lines fit the 9pt font on 64 rows.
	lineCount  = 3
	lineHeight = 20
	firstLineY = 16
)

var white = color.RGBA{R: 255, G: 255, B: 255, A: 255}

// Monitor scrolls recent input events on the OLED.
type Monitor struct {
	device *ssd1306.Device
	lines  [lineCount]string
}

// NewMonitor initializes the display. Returns nil when the panel is absent
// or the bus fails to configure; callers treat a nil monitor as disabled.
func NewMonitor() *Monitor {
	i2c := machine.I2C0
	if err := i2c.Configure(machine.I2CConfig{
		Frequency: 400000,
		SCL:       sclPin,
		SDA:       sdaPin,
	}); err != nil {
		return nil
	}

	// Bus stabilization.
	time.Sleep(10 * time.Millisecond)

	dev := ssd1306.NewI2C(i2c)
	dev.Configure(ssd1306.Config{
		Address: i2cAddress,
		Width:   screenWidth,
		Height:  screenHeight,
	})
	dev.ClearDisplay()

	m := &Monitor{device: dev}
	tinyfont.WriteLine(dev, &freemono.Regular9pt7b, 0, firstLineY, "ready", white)
	dev.Display()

	return m
}

// ShowEvent appends an event to the scrollback and redraws.
func (m *Monitor) ShowEvent(ev input.Event) {
	if m == nil {
		return
	}

	copy(m.lines[:], m.lines[1:])
	m.lines[lineCount-1] = ev.String()

	m.device.ClearBuffer()
	for i, line := range m.lines {
		if line == "" {
			continue
		}
		y := int16(firstLineY + i*lineHeight)
		tinyfont.WriteLine(m.device, &freemono.Regular9pt7b, 0, y, line, white)
	}
	m.device.Display()
}

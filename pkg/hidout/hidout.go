// Package hidout adapts the TinyGo USB HID ports to the writer interfaces
// the action dispatcher consumes. Everything here is hardware-facing; the
// dispatcher itself never imports machine.
package hidout

import (
	tgk "machine/usb/hid/keyboard"
	tgm "machine/usb/hid/mouse"

	"github.com/tuffrabit/tinygo-macropad-rp2040/pkg/joystick"
)

// keyPort is the slice of the TinyGo keyboard port the adapter needs.
type keyPort interface {
	Down(c tgk.Keycode) error
	Up(c tgk.Keycode) error
}

// Keyboard translates HID usage codes into TinyGo keycodes.
type Keyboard struct {
	port keyPort
}

// Down presses the key for the given usage code.
func (k *Keyboard) Down(usage uint16) error {
	return k.port.Down(keycodeFor(usage))
}

// Up releases the key for the given usage code.
func (k *Keyboard) Up(usage uint16) error {
	return k.port.Up(keycodeFor(usage))
}

// keycodeFor maps a raw HID usage to the TinyGo keycode encoding. Plain
// keys carry the usage in the low byte under the 0xF000 class; modifier
// usages 0xE0-0xE7 become bitmask keycodes under 0xE000.
func keycodeFor(usage uint16) tgk.Keycode {
	if usage >= 0xE0 && usage <= 0xE7 {
		return tgk.Keycode((1 << (usage - 0xE0)) | 0xE000)
	}
	return tgk.Keycode(usage | 0xF000)
}

// mousePort is the slice of the TinyGo mouse port the adapter needs.
type mousePort interface {
	Press(b tgm.Button)
	Release(b tgm.Button)
	WheelUp()
	WheelDown()
}

// Mouse wraps the TinyGo mouse port.
type Mouse struct {
	port mousePort
}

// Press presses the given button mask.
func (m *Mouse) Press(buttons uint8) {
	m.port.Press(tgm.Button(buttons))
}

// Release releases the given button mask.
func (m *Mouse) Release(buttons uint8) {
	m.port.Release(tgm.Button(buttons))
}

// Wheel sends one wheel detent in the given direction.
func (m *Mouse) Wheel(up bool) {
	if up {
		m.port.WheelUp()
	} else {
		m.port.WheelDown()
	}
}

// Joystick forwards button edges and pushes a report per change. The
// joystick report is state-based, so each edge needs an explicit send.
type Joystick struct {
	port *joystick.Joystick
}

// Press presses a joystick button and reports the new state.
func (j *Joystick) Press(button uint8) {
	j.port.Press(joystick.Button(button))
	j.port.SendState()
}

// Release releases a joystick button and reports the new state.
func (j *Joystick) Release(button uint8) {
	j.port.Release(joystick.Button(button))
	j.port.SendState()
}

// New builds the three HID adapters over the live USB ports.
func New(js *joystick.Joystick) (*Keyboard, *Mouse, *Joystick) {
	return &Keyboard{port: tgk.Port()},
		&Mouse{port: tgm.Port()},
		&Joystick{port: js}
}

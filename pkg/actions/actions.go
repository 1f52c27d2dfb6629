// Package actions maps input events onto USB HID output activity. The
// mapping is data (a binding table built from a config.Profile), so
// remapping never touches the loop or the decoders.
package actions

import (
	"github.com/tuffrabit/tinygo-macropad-rp2040/pkg/config"
	"github.com/tuffrabit/tinygo-macropad-rp2040/pkg/input"
)

// KeyWriter issues keyboard activity. Codes are plain HID usage IDs.
type KeyWriter interface {
	Down(usage uint16) error
	Up(usage uint16) error
}

// MouseWriter issues mouse button and wheel activity. buttons is the HID
// button mask.
type MouseWriter interface {
	Press(buttons uint8)
	Release(buttons uint8)
	Wheel(up bool)
}

// JoystickWriter issues joystick button activity.
type JoystickWriter interface {
	Press(button uint8)
	Release(button uint8)
}

// Table maps input slots to bindings. Frozen after construction and shared
// read-only.
type Table [config.InputSlots]config.Binding

// TableFromProfile builds the dispatch table from a profile. Bindings with
// out-of-range input slots are dropped.
func TableFromProfile(p *config.Profile) Table {
	var t Table
	count := int(p.BindingCount)
	if count > len(p.Bindings) {
		count = len(p.Bindings)
	}
	for i := 0; i < count; i++ {
		b := p.Bindings[i]
		if int(b.Input) < len(t) {
			t[b.Input] = b
		}
	}
	return t
}

// Dispatcher turns events into output actions: presses become key-down,
// releases key-up, and rotations a tap (down immediately followed by up).
// Events whose slot carries no binding are dropped.
type Dispatcher struct {
	table Table
	kb    KeyWriter
	ms    MouseWriter
	js    JoystickWriter
}

func NewDispatcher(table Table, kb KeyWriter, ms MouseWriter, js JoystickWriter) *Dispatcher {
	return &Dispatcher{
		table: table,
		kb:    kb,
		ms:    ms,
		js:    js,
	}
}

// Dispatch issues the output action bound to one event. Output calls are
// fire-and-forget; the transport queues internally and must never block
// the loop.
func (d *Dispatcher) Dispatch(ev input.Event) {
	b := d.table[slotFor(ev)]
	if b.OutputType == config.OutputNone {
		return
	}

	switch ev.Kind {
	case input.KeyPressed:
		d.press(b)
	case input.KeyReleased:
		d.release(b)
	case input.RotatedCW, input.RotatedCCW:
		d.press(b)
		d.release(b)
	}
}

// slotFor routes an event to its binding slot. Key channels share slot
// numbering with config input IDs.
func slotFor(ev input.Event) uint8 {
	switch ev.Kind {
	case input.RotatedCW:
		return config.InputRotateCW
	case input.RotatedCCW:
		return config.InputRotateCCW
	default:
		return uint8(ev.Channel)
	}
}

// modifierBase is the HID usage of Left Control; the eight modifier usages
// follow it contiguously, matching the bits of Binding.Modifiers.
const modifierBase = 0xE0

func (d *Dispatcher) press(b config.Binding) {
	switch b.OutputType {
	case config.OutputKeyboard:
		if d.kb == nil {
			return
		}
		for i := uint8(0); i < 8; i++ {
			if b.Modifiers&(1<<i) != 0 {
				d.kb.Down(uint16(modifierBase + i))
			}
		}
		d.kb.Down(b.OutputValue)
	case config.OutputMouseButton:
		if d.ms != nil {
			d.ms.Press(uint8(b.OutputValue))
		}
	case config.OutputMouseWheel:
		// Wheel movement is an impulse; the release half of a tap is a no-op.
		if d.ms != nil {
			d.ms.Wheel(b.OutputValue == config.WheelUp)
		}
	case config.OutputJoystickButton:
		if d.js != nil {
			d.js.Press(uint8(b.OutputValue))
		}
	}
}

func (d *Dispatcher) release(b config.Binding) {
	switch b.OutputType {
	case config.OutputKeyboard:
		if d.kb == nil {
			return
		}
		d.kb.Up(b.OutputValue)
		for i := uint8(0); i < 8; i++ {
			if b.Modifiers&(1<<i) != 0 {
				d.kb.Up(uint16(modifierBase + i))
			}
		}
	case config.OutputMouseButton:
		if d.ms != nil {
			d.ms.Release(uint8(b.OutputValue))
		}
	case config.OutputJoystickButton:
		if d.js != nil {
			d.js.Release(uint8(b.OutputValue))
		}
	}
}

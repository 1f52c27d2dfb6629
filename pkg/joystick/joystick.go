// Package joystick implements a USB HID joystick device using Report ID 3.
// It pairs with the composite HID descriptor in pkg/composite.
package joystick

import (
	"machine"
	"machine/usb/hid"
)

// Button represents a joystick button (0-7).
type Button uint8

const (
	Button1 Button = 0
	Button2 Button = 1
	Button3 Button = 2
	Button4 Button = 3
	Button5 Button = 4
	Button6 Button = 5
	Button7 Button = 6
	Button8 Button = 7
)

// Joystick represents a USB HID joystick device.
type Joystick struct {
	buttons uint8 // 8 buttons as bits
	x, y    int8
	buf     *hid.RingBuffer
	waitTxc bool
}

var joystickInstance *Joystick

// init registers the joystick with the HID subsystem.
func init() {
	if joystickInstance == nil {
		joystickInstance = &Joystick{
			buf: hid.NewRingBuffer(),
		}
		// Report ID 3 routes these packets to the joystick collection on
		// the host side.
		hid.SetHandler(joystickInstance)
	}
}

// Port returns the joystick instance.
func Port() *Joystick {
	return joystickInstance
}

// TxHandler is called by the USB interrupt when the endpoint is ready to
// transmit. This implements the hidDevicer interface.
func (j *Joystick) TxHandler() bool {
	j.waitTxc = false
	if b, ok := j.buf.Get(); ok {
		j.waitTxc = true
		hid.SendUSBPacket(b)
		return true
	}
	return false
}

// RxHandler handles output reports from the host. Joysticks don't take
// any, so this is a no-op.
func (j *Joystick) RxHandler(b []byte) bool {
	return false
}

// tx sends a report packet, queuing if the endpoint is busy.
func (j *Joystick) tx(b []byte) {
	if machine.USBDev.InitEndpointComplete {
		if j.waitTxc {
			j.buf.Put(b)
		} else {
			j.waitTxc = true
			hid.SendUSBPacket(b)
		}
	}
}

// SetButton sets the state of a button without sending a report.
func (j *Joystick) SetButton(button Button, pressed bool) {
	if button > 7 {
		return
	}
	if pressed {
		j.buttons |= (1 << button)
	} else {
		j.buttons &^= (1 << button)
	}
}

// Press presses a button.
func (j *Joystick) Press(button Button) {
	j.SetButton(button, true)
}

// Release releases a button.
func (j *Joystick) Release(button Button) {
	j.SetButton(button, false)
}

// IsPressed returns true if a button is currently pressed.
func (j *Joystick) IsPressed(button Button) bool {
	if button > 7 {
		return false
	}
	return (j.buttons & (1 << button)) != 0
}

// SetAxes sets both axis values (-127 to 127) without sending a report.
func (j *Joystick) SetAxes(x, y int8) {
	j.x = x
	j.y = y
}

// Reset clears all button and axis states.
func (j *Joystick) Reset() {
	j.buttons = 0
	j.x = 0
	j.y = 0
}

// SendState sends the current joystick state to the host. State changes
// are not visible to the host until this is called, so multiple updates
// can be batched into one report.
func (j *Joystick) SendState() {
	// Report format (4 bytes):
	// Byte 0: Report ID (3)
	// Byte 1: Buttons (1-8)
	// Byte 2: X axis
	// Byte 3: Y axis
	j.tx([]byte{
		0x03,
		j.buttons,
		byte(j.x),
		byte(j.y),
	})
}

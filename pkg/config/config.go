// Package config defines the compiled-in binding table and the small
// binary records the firmware exposes over the diagnostics link.
// All structs are fixed-size and designed for zero-allocation binary
// serialization.
package config

import (
	"encoding/binary"
	"errors"
)

// CurrentVersion is the binary record format version.
// Bump this when making breaking changes; boot stats found in flash with a
// different version are wiped on the next boot.
const CurrentVersion uint16 = 1

// Input slots, one per event source. Key slots share numbering with
// input.Channel.
const (
	InputKey1 uint8 = iota
	InputKey2
	InputKey3
	InputEncoderSwitch
	InputRotateCW
	InputRotateCCW

	InputSlots = 6
)

// OutputType indicates what a binding emits.
type OutputType uint8

const (
	OutputNone OutputType = iota
	OutputKeyboard
	OutputMouseButton
	OutputMouseWheel
	OutputJoystickButton
)

// Wheel directions carried in OutputValue for OutputMouseWheel bindings.
const (
	WheelDown uint16 = 0
	WheelUp   uint16 = 1
)

// Keyboard usage IDs used by the default bindings.
const (
	UsageF13 uint16 = 0x68
	UsageF14 uint16 = 0x69
	UsageF15 uint16 = 0x6A
	UsageF16 uint16 = 0x6B
	UsageF17 uint16 = 0x6C
	UsageF18 uint16 = 0x6D
)

// Binding maps one input slot to one output.
// Total size: 8 bytes
// Packed layout: [Input:1][OutputType:1][OutputValueLo:1][OutputValueHi:1][Modifiers:1][Flags:1][Reserved:2]
type Binding struct {
	Input       uint8      // Input slot (InputKey1..InputRotateCCW)
	OutputType  OutputType // 1 byte
	OutputValue uint16     // HID usage, button mask or wheel direction
	Modifiers   uint8      // HID modifier bits held around keyboard outputs
	Flags       uint8      // Reserved for tap/hold variants
	Reserved    uint16     // Padding to 8 bytes total
}

// Profile is the binding table plus its identity. Profiles are compiled in;
// the binary form exists only so the diagnostics link can dump the active
// table for inspection.
// Total size: 72 bytes
// Layout:
//
//	[0-1]:   Version (uint16)
//	[2-5]:   Flags (uint32)
//	[6]:     BindingCount (uint8)
//	[7]:     Reserved (uint8)
//	[8-23]:  Name ([16]byte)
//	[24-71]: Bindings ([6]Binding)
type Profile struct {
	Version      uint16
	Flags        uint32
	BindingCount uint8
	Reserved     uint8
	Name         [16]byte // UTF-8, null-terminated if shorter
	Bindings     [InputSlots]Binding
}

// BootStats counts device lifecycle events. This is not configuration; the
// binding table itself is never persisted.
// Total size: 12 bytes
// Layout:
//
//	[0-1]:   Version (uint16)
//	[2-5]:   BootCount (uint32)
//	[6-9]:   BootloaderEntries (uint32)
//	[10-11]: Reserved (uint16)
type BootStats struct {
	Version           uint16
	BootCount         uint32
	BootloaderEntries uint32
	Reserved          uint16
}

// Record sizes in their binary form.
const (
	ProfileSize   = 24 + InputSlots*8
	BootStatsSize = 12
)

var ErrInvalidSize = errors.New("invalid record size")

// DefaultProfile returns the compiled-in binding table: the three keys on
// F13-F15, the encoder switch on F17, and rotation tapping F18 (clockwise)
// or F16 (counter-clockwise).
func DefaultProfile() *Profile {
	p := &Profile{
		Version:      CurrentVersion,
		BindingCount: InputSlots,
	}
	p.SetName("default")
	p.Bindings = [InputSlots]Binding{
		{Input: InputKey1, OutputType: OutputKeyboard, OutputValue: UsageF13},
		{Input: InputKey2, OutputType: OutputKeyboard, OutputValue: UsageF14},
		{Input: InputKey3, OutputType: OutputKeyboard, OutputValue: UsageF15},
		{Input: InputEncoderSwitch, OutputType: OutputKeyboard, OutputValue: UsageF17},
		{Input: InputRotateCW, OutputType: OutputKeyboard, OutputValue: UsageF18},
		{Input: InputRotateCCW, OutputType: OutputKeyboard, OutputValue: UsageF16},
	}
	return p
}

// MarshalBinary implements encoding.BinaryMarshaler for Profile.
func (p *Profile) MarshalBinary() ([]byte, error) {
	buf := make([]byte, ProfileSize)
	binary.LittleEndian.PutUint16(buf[0:], p.Version)
	binary.LittleEndian.PutUint32(buf[2:], p.Flags)
	buf[6] = p.BindingCount
	buf[7] = p.Reserved
	copy(buf[8:24], p.Name[:])

	for i := range p.Bindings {
		offset := 24 + i*8
		buf[offset] = p.Bindings[i].Input
		buf[offset+1] = uint8(p.Bindings[i].OutputType)
		binary.LittleEndian.PutUint16(buf[offset+2:], p.Bindings[i].OutputValue)
		buf[offset+4] = p.Bindings[i].Modifiers
		buf[offset+5] = p.Bindings[i].Flags
		binary.LittleEndian.PutUint16(buf[offset+6:], p.Bindings[i].Reserved)
	}

	return buf, nil
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler for Profile.
func (p *Profile) UnmarshalBinary(data []byte) error {
	if len(data) < ProfileSize {
		return ErrInvalidSize
	}

	p.Version = binary.LittleEndian.Uint16(data[0:])
	p.Flags = binary.LittleEndian.Uint32(data[2:])
	p.BindingCount = data[6]
	p.Reserved = data[7]
	copy(p.Name[:], data[8:24])

	for i := range p.Bindings {
		offset := 24 + i*8
		p.Bindings[i].Input = data[offset]
		p.Bindings[i].OutputType = OutputType(data[offset+1])
		p.Bindings[i].OutputValue = binary.LittleEndian.Uint16(data[offset+2:])
		p.Bindings[i].Modifiers = data[offset+4]
		p.Bindings[i].Flags = data[offset+5]
		p.Bindings[i].Reserved = binary.LittleEndian.Uint16(data[offset+6:])
	}

	return nil
}

// MarshalBinary implements encoding.BinaryMarshaler for BootStats.
func (s *BootStats) MarshalBinary() ([]byte, error) {
	buf := make([]byte, BootStatsSize)
	binary.LittleEndian.PutUint16(buf[0:], s.Version)
	binary.LittleEndian.PutUint32(buf[2:], s.BootCount)
	binary.LittleEndian.PutUint32(buf[6:], s.BootloaderEntries)
	binary.LittleEndian.PutUint16(buf[10:], s.Reserved)
	return buf, nil
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler for BootStats.
func (s *BootStats) UnmarshalBinary(data []byte) error {
	if len(data) < BootStatsSize {
		return ErrInvalidSize
	}
	s.Version = binary.LittleEndian.Uint16(data[0:])
	s.BootCount = binary.LittleEndian.Uint32(data[2:])
	s.BootloaderEntries = binary.LittleEndian.Uint32(data[6:])
	s.Reserved = binary.LittleEndian.Uint16(data[10:])
	return nil
}

// GetName returns the profile name as a string (up to null terminator).
func (p *Profile) GetName() string {
	for i, b := range p.Name {
		if b == 0 {
			return string(p.Name[:i])
		}
	}
	return string(p.Name[:])
}

// SetName sets the profile name from a string, truncating to 15 bytes.
// The name is always null-terminated.
func (p *Profile) SetName(name string) {
	b := []byte(name)
	if len(b) > 15 {
		b = b[:15]
	}
	copy(p.Name[:], b)
	p.Name[len(b)] = 0
}

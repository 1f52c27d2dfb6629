package config

import (
	"testing"
)

func TestDefaultProfile(t *testing.T) {
	p := DefaultProfile()

	if p.Version != CurrentVersion {
		t.Errorf("Version: expected %d, got %d", CurrentVersion, p.Version)
	}
	if p.GetName() != "default" {
		t.Errorf("Name: expected 'default', got '%s'", p.GetName())
	}
	if p.BindingCount != InputSlots {
		t.Errorf("BindingCount: expected %d, got %d", InputSlots, p.BindingCount)
	}

	want := map[uint8]uint16{
		InputKey1:          UsageF13,
		InputKey2:          UsageF14,
		InputKey3:          UsageF15,
		InputEncoderSwitch: UsageF17,
		InputRotateCW:      UsageF18,
		InputRotateCCW:     UsageF16,
	}
	for _, b := range p.Bindings {
		if b.OutputType != OutputKeyboard {
			t.Errorf("Slot %d: expected keyboard output, got %d", b.Input, b.OutputType)
		}
		if b.OutputValue != want[b.Input] {
			t.Errorf("Slot %d: expected usage 0x%x, got 0x%x", b.Input, want[b.Input], b.OutputValue)
		}
	}
}

func TestProfileRoundTrip(t *testing.T) {
	original := Profile{
		Version:      CurrentVersion,
		Flags:        0x12345678,
		BindingCount: 2,
	}
	original.SetName("Test Profile")
	original.Bindings[0] = Binding{
		Input:       InputKey1,
		OutputType:  OutputKeyboard,
		OutputValue: UsageF13,
		Modifiers:   0x02, // Left Shift
	}
	original.Bindings[1] = Binding{
		Input:       InputRotateCW,
		OutputType:  OutputMouseWheel,
		OutputValue: WheelUp,
	}

	data, err := original.MarshalBinary()
	if err != nil {
		t.Fatalf("MarshalBinary failed: %v", err)
	}
	if len(data) != ProfileSize {
		t.Errorf("Expected %d bytes, got %d", ProfileSize, len(data))
	}

	var decoded Profile
	if err := decoded.UnmarshalBinary(data); err != nil {
		t.Fatalf("UnmarshalBinary failed: %v", err)
	}

	if decoded.Flags != original.Flags {
		t.Errorf("Flags: expected 0x%x, got 0x%x", original.Flags, decoded.Flags)
	}
	if decoded.GetName() != "Test Profile" {
		t.Errorf("Name: expected 'Test Profile', got '%s'", decoded.GetName())
	}
	if decoded.Bindings[0] != original.Bindings[0] {
		t.Errorf("Bindings[0]: expected %+v, got %+v", original.Bindings[0], decoded.Bindings[0])
	}
	if decoded.Bindings[1] != original.Bindings[1] {
		t.Errorf("Bindings[1]: expected %+v, got %+v", original.Bindings[1], decoded.Bindings[1])
	}
}

func TestBootStatsRoundTrip(t *testing.T) {
	original := BootStats{
		Version:           CurrentVersion,
		BootCount:         42,
		BootloaderEntries: 3,
	}

	data, err := original.MarshalBinary()
	if err != nil {
		t.Fatalf("MarshalBinary failed: %v", err)
	}
	if len(data) != BootStatsSize {
		t.Errorf("Expected %d bytes, got %d", BootStatsSize, len(data))
	}

	var decoded BootStats
	if err := decoded.UnmarshalBinary(data); err != nil {
		t.Fatalf("UnmarshalBinary failed: %v", err)
	}
	if decoded != original {
		t.Errorf("Expected %+v, got %+v", original, decoded)
	}
}

func TestProfileNameHandling(t *testing.T) {
	tests := []struct {
		name     string
		expected string
	}{
		{"Short", "Short"},
		{"ExactlyFifteen!", "ExactlyFifteen!"},
		{"ThisIsAVeryLongNameThatExceeds", "ThisIsAVeryLong"},
		{"", ""},
	}

	for _, tt := range tests {
		p := Profile{}
		p.SetName(tt.name)

		if got := p.GetName(); got != tt.expected {
			t.Errorf("SetName('%s'): expected '%s', got '%s'", tt.name, tt.expected, got)
		}
	}
}

func TestUnmarshalInvalidSize(t *testing.T) {
	var profile Profile
	if err := profile.UnmarshalBinary([]byte{1, 2, 3}); err != ErrInvalidSize {
		t.Errorf("Expected ErrInvalidSize, got %v", err)
	}

	var stats BootStats
	if err := stats.UnmarshalBinary([]byte{1, 2}); err != ErrInvalidSize {
		t.Errorf("Expected ErrInvalidSize, got %v", err)
	}
}

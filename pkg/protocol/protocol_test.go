package protocol

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/tuffrabit/tinygo-macropad-rp2040/pkg/config"
	"github.com/tuffrabit/tinygo-macropad-rp2040/pkg/storage"

	"tinygo.org/x/tinyfs"
)

func newTestHandler(t *testing.T) (*Handler, *storage.Manager) {
	blockDev := tinyfs.NewMemoryDevice(256, 4096, 64)
	mgr, err := storage.New(blockDev, true)
	if err != nil {
		t.Fatalf("Failed to create storage: %v", err)
	}
	return NewHandler(config.DefaultProfile(), mgr), mgr
}

func TestFrameEncodingDecoding(t *testing.T) {
	original := &Frame{
		Cmd:     CmdPing,
		Payload: []byte{1, 2, 3, 4},
	}

	var buf bytes.Buffer
	if err := WriteFrame(&buf, original); err != nil {
		t.Fatalf("WriteFrame failed: %v", err)
	}

	decoded, err := ReadFrame(&buf)
	if err != nil {
		t.Fatalf("ReadFrame failed: %v", err)
	}

	if decoded.Cmd != original.Cmd {
		t.Errorf("Cmd: expected 0x%x, got 0x%x", original.Cmd, decoded.Cmd)
	}
	if !bytes.Equal(decoded.Payload, original.Payload) {
		t.Errorf("Payload: expected %v, got %v", original.Payload, decoded.Payload)
	}
}

func TestResponseRoundTrip(t *testing.T) {
	resp := &Response{
		Status:  StatusOK,
		Payload: []byte{0xDE, 0xAD},
	}

	var buf bytes.Buffer
	if err := WriteResponse(&buf, resp); err != nil {
		t.Fatalf("WriteResponse failed: %v", err)
	}

	// Responses share the frame layout, so ReadFrame can parse them.
	decoded, err := ReadFrame(&buf)
	if err != nil {
		t.Fatalf("ReadFrame failed: %v", err)
	}
	if decoded.Cmd != resp.Status {
		t.Errorf("Status: expected 0x%x, got 0x%x", resp.Status, decoded.Cmd)
	}
	if !bytes.Equal(decoded.Payload, resp.Payload) {
		t.Errorf("Payload: expected %v, got %v", resp.Payload, decoded.Payload)
	}
}

func TestPingCommand(t *testing.T) {
	handler, mgr := newTestHandler(t)
	defer mgr.Close()

	frame := &Frame{
		Cmd:     CmdPing,
		Payload: []byte{0xAA, 0xBB, 0xCC},
	}

	resp := handler.Handle(frame)

	if resp.Status != StatusOK {
		t.Errorf("Expected status OK, got 0x%x", resp.Status)
	}
	if !bytes.Equal(resp.Payload, frame.Payload) {
		t.Errorf("Expected echo payload, got %v", resp.Payload)
	}
}

func TestGetVersion(t *testing.T) {
	handler, mgr := newTestHandler(t)
	defer mgr.Close()

	resp := handler.Handle(&Frame{Cmd: CmdGetVersion})
	if resp.Status != StatusOK {
		t.Fatalf("GetVersion failed: status 0x%x", resp.Status)
	}

	// Response format: [FirmwareMajor:1][FirmwareMinor:1][RecordVersion:2]
	if len(resp.Payload) != 4 {
		t.Fatalf("Expected 4 bytes, got %d", len(resp.Payload))
	}

	recordVersion := binary.LittleEndian.Uint16(resp.Payload[2:4])
	if recordVersion != config.CurrentVersion {
		t.Errorf("Expected record version %d, got %d", config.CurrentVersion, recordVersion)
	}
}

func TestGetProfile(t *testing.T) {
	handler, mgr := newTestHandler(t)
	defer mgr.Close()

	resp := handler.Handle(&Frame{Cmd: CmdGetProfile})
	if resp.Status != StatusOK {
		t.Fatalf("GetProfile failed: status 0x%x", resp.Status)
	}

	var loaded config.Profile
	if err := loaded.UnmarshalBinary(resp.Payload); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}

	if loaded.GetName() != "default" {
		t.Errorf("Name: expected 'default', got '%s'", loaded.GetName())
	}
	if loaded.Bindings[config.InputKey1].OutputValue != config.UsageF13 {
		t.Errorf("Key1 usage: expected 0x%x, got 0x%x",
			config.UsageF13, loaded.Bindings[config.InputKey1].OutputValue)
	}
}

func TestGetProfileWithoutProfile(t *testing.T) {
	handler := NewHandler(nil, nil)

	resp := handler.Handle(&Frame{Cmd: CmdGetProfile})
	if resp.Status != StatusNotFound {
		t.Errorf("Expected StatusNotFound, got 0x%x", resp.Status)
	}
}

func TestGetBootStats(t *testing.T) {
	handler, mgr := newTestHandler(t)
	defer mgr.Close()

	// No record yet.
	resp := handler.Handle(&Frame{Cmd: CmdGetBootStats})
	if resp.Status != StatusNotFound {
		t.Errorf("Expected StatusNotFound before first boot, got 0x%x", resp.Status)
	}

	if _, err := mgr.RecordBoot(); err != nil {
		t.Fatalf("RecordBoot failed: %v", err)
	}

	resp = handler.Handle(&Frame{Cmd: CmdGetBootStats})
	if resp.Status != StatusOK {
		t.Fatalf("GetBootStats failed: status 0x%x", resp.Status)
	}

	var stats config.BootStats
	if err := stats.UnmarshalBinary(resp.Payload); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if stats.BootCount != 1 {
		t.Errorf("Expected boot count 1, got %d", stats.BootCount)
	}
}

func TestStorageStats(t *testing.T) {
	handler, mgr := newTestHandler(t)
	defer mgr.Close()

	resp := handler.Handle(&Frame{Cmd: CmdGetStorageStats})
	if resp.Status != StatusOK {
		t.Fatalf("GetStorageStats failed: status 0x%x", resp.Status)
	}

	// Response format: [Total:4][Used:4][Free:4]
	if len(resp.Payload) != 12 {
		t.Fatalf("Expected 12 bytes, got %d", len(resp.Payload))
	}

	total := binary.LittleEndian.Uint32(resp.Payload[0:4])
	used := binary.LittleEndian.Uint32(resp.Payload[4:8])
	free := binary.LittleEndian.Uint32(resp.Payload[8:12])

	if total == 0 {
		t.Error("Total space should not be zero")
	}
	if used > total {
		t.Errorf("Used space (%d) should not exceed total (%d)", used, total)
	}
	if free > total {
		t.Errorf("Free space (%d) should not exceed total (%d)", free, total)
	}
}

func TestStatsCommandsWithoutStorage(t *testing.T) {
	handler := NewHandler(config.DefaultProfile(), nil)

	for _, cmd := range []uint8{CmdGetBootStats, CmdGetStorageStats} {
		resp := handler.Handle(&Frame{Cmd: cmd})
		if resp.Status != StatusError {
			t.Errorf("Cmd 0x%x: expected StatusError without storage, got 0x%x", cmd, resp.Status)
		}
	}
}

func TestInvalidCommand(t *testing.T) {
	handler, mgr := newTestHandler(t)
	defer mgr.Close()

	resp := handler.Handle(&Frame{Cmd: 0xFF})
	if resp.Status != StatusInvalidCmd {
		t.Errorf("Expected StatusInvalidCmd, got 0x%x", resp.Status)
	}
}

func TestCRCMismatch(t *testing.T) {
	buf := &bytes.Buffer{}
	buf.WriteByte(SyncByte)
	buf.WriteByte(CmdPing)
	lenBytes := make([]byte, 2)
	binary.LittleEndian.PutUint16(lenBytes, 0)
	buf.Write(lenBytes)
	// Write wrong CRC
	buf.Write([]byte{0xFF, 0xFF})

	_, err := ReadFrame(buf)
	if err != ErrCRCMismatch {
		t.Errorf("Expected ErrCRCMismatch, got %v", err)
	}
}

func TestInvalidFrame(t *testing.T) {
	// Write wrong sync byte
	buf := &bytes.Buffer{}
	buf.WriteByte(0x55)

	_, err := ReadFrame(buf)
	if err != ErrInvalidFrame {
		t.Errorf("Expected ErrInvalidFrame, got %v", err)
	}
}

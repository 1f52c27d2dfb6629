// Package storage persists boot statistics using LittleFS. The binding
// table is compiled into the firmware and deliberately never stored here;
// the only persistent record is the boot counter file.
package storage

import (
	"errors"
	"os"
	"strings"

	"github.com/tuffrabit/tinygo-macropad-rp2040/pkg/config"

	"tinygo.org/x/tinyfs"
	"tinygo.org/x/tinyfs/littlefs"
)

const (
	statsDir   = "/stats"
	statsFile  = "/stats/boot.bin"
	tempSuffix = ".tmp"
)

var (
	ErrStatsNotFound = errors.New("boot stats not found")
	ErrInvalidStats  = errors.New("invalid stats data")
)

// Manager handles boot-stats persistence on LittleFS.
type Manager struct {
	fs       *littlefs.LFS
	blockDev tinyfs.BlockDevice
	mounted  bool
}

// Stats provides information about flash usage.
type Stats struct {
	TotalSpace int64
	UsedSpace  int64
	FreeSpace  int64
}

// New mounts the filesystem and performs boot-time cleanup. If format is
// true and the mount fails, the filesystem is formatted and mounted again.
func New(blockDev tinyfs.BlockDevice, format bool) (*Manager, error) {
	lfs := littlefs.New(blockDev)

	// Conservative settings for RP2040 flash.
	lfs.Configure(&littlefs.Config{
		CacheSize:     512,
		LookaheadSize: 128,
	})

	err := lfs.Mount()
	if err != nil {
		if !format {
			return nil, err
		}
		if err := lfs.Format(); err != nil {
			return nil, err
		}
		if err := lfs.Mount(); err != nil {
			return nil, err
		}
	}

	m := &Manager{
		fs:       lfs,
		blockDev: blockDev,
		mounted:  true,
	}

	// Leftover temp files mean a write was interrupted; the original file
	// is still intact, so just drop the temps.
	m.bootCleanup()

	// A version mismatch means the record layout changed under us; start
	// the counters over rather than misread them.
	if wipe, err := m.checkVersion(); err == nil && wipe {
		m.fs.Remove(statsFile)
	}

	return m, nil
}

// Close unmounts the filesystem.
func (m *Manager) Close() error {
	if m.mounted {
		m.mounted = false
		return m.fs.Unmount()
	}
	return nil
}

func (m *Manager) bootCleanup() error {
	f, err := m.fs.Open(statsDir)
	if err != nil {
		// Stats dir might not exist yet.
		return nil
	}
	defer f.Close()

	if !f.IsDir() {
		return nil
	}
	entries, err := f.Readdir(-1)
	if err != nil {
		return err
	}

	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, tempSuffix) {
			m.fs.Remove(statsDir + "/" + name)
		}
	}
	return nil
}

func (m *Manager) checkVersion() (bool, error) {
	var stats config.BootStats
	if err := m.LoadBootStats(&stats); err != nil {
		if err == ErrStatsNotFound {
			return false, nil
		}
		return false, err
	}
	return stats.Version != config.CurrentVersion, nil
}

func (m *Manager) ensureDirs() error {
	if err := m.fs.Mkdir(statsDir, 0755); err != nil && !isExist(err) {
		return err
	}
	return nil
}

// isExist checks if an error is "already exists". LittleFS errors don't
// always match os.IsExist, so the message is checked too.
func isExist(err error) bool {
	if err == nil {
		return false
	}
	if os.IsExist(err) {
		return true
	}
	return strings.Contains(err.Error(), "already exists")
}

// isNotExist folds LittleFS "No directory entry" into the os semantics.
func isNotExist(err error) bool {
	if err == nil {
		return false
	}
	if os.IsNotExist(err) {
		return true
	}
	return strings.Contains(err.Error(), "No directory entry")
}

// LoadBootStats loads the boot statistics record.
func (m *Manager) LoadBootStats(stats *config.BootStats) error {
	f, err := m.fs.Open(statsFile)
	if err != nil {
		if isNotExist(err) {
			return ErrStatsNotFound
		}
		return err
	}
	defer f.Close()

	buf := make([]byte, config.BootStatsSize)
	n, err := f.Read(buf)
	if err != nil {
		return err
	}
	if n != config.BootStatsSize {
		return ErrInvalidStats
	}

	return stats.UnmarshalBinary(buf)
}

// SaveBootStats saves the boot statistics record atomically.
func (m *Manager) SaveBootStats(stats *config.BootStats) error {
	if err := m.ensureDirs(); err != nil {
		return err
	}

	stats.Version = config.CurrentVersion

	data, err := stats.MarshalBinary()
	if err != nil {
		return err
	}

	return m.atomicWrite(statsFile, data)
}

// RecordBoot increments the boot counter and returns the updated record.
// A missing record counts as the first boot.
func (m *Manager) RecordBoot() (config.BootStats, error) {
	var stats config.BootStats
	if err := m.LoadBootStats(&stats); err != nil && err != ErrStatsNotFound {
		return stats, err
	}
	stats.BootCount++
	return stats, m.SaveBootStats(&stats)
}

// RecordBootloaderEntry increments the bootloader-entry counter. Called
// right before control transfers to the bootloader, which never returns.
func (m *Manager) RecordBootloaderEntry() error {
	var stats config.BootStats
	if err := m.LoadBootStats(&stats); err != nil && err != ErrStatsNotFound {
		return err
	}
	stats.BootloaderEntries++
	return m.SaveBootStats(&stats)
}

// GetStats returns flash usage statistics. LittleFS has no direct free-space
// call, so usage is a conservative estimate.
func (m *Manager) GetStats() (*Stats, error) {
	// One stats record plus filesystem overhead.
	used := int64(config.BootStatsSize + 100)
	total := m.blockDev.Size()

	return &Stats{
		TotalSpace: total,
		UsedSpace:  used,
		FreeSpace:  total - used,
	}, nil
}

// atomicWrite writes data to a temporary file, syncs it, then renames.
// The original file is never left in a partially written state.
func (m *Manager) atomicWrite(filepath string, data []byte) error {
	tempPath := filepath + tempSuffix

	// Remove temp file if it exists (from an interrupted previous write).
	m.fs.Remove(tempPath)

	f, err := m.fs.OpenFile(tempPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC)
	if err != nil {
		return err
	}

	if _, err := f.Write(data); err != nil {
		f.Close()
		m.fs.Remove(tempPath)
		return err
	}

	// Sync ensures data hits flash before the rename.
	if syncer, ok := f.(interface{ Sync() error }); ok {
		if err := syncer.Sync(); err != nil {
			f.Close()
			m.fs.Remove(tempPath)
			return err
		}
	}

	if err := f.Close(); err != nil {
		m.fs.Remove(tempPath)
		return err
	}

	// LittleFS rename doesn't replace, so remove the existing file first.
	m.fs.Remove(filepath)

	if err := m.fs.Rename(tempPath, filepath); err != nil {
		m.fs.Remove(tempPath)
		return err
	}

	return nil
}

// Package rom loads program images for the virtual machine.
package rom

import (
	"crypto/sha1"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	// LoadAddress is where programs are placed in the 4 KiB address space.
	LoadAddress = 0x200
	// MaxSize is the largest program that fits above LoadAddress.
	MaxSize = 4096 - LoadAddress
)

var (
	// ErrEmptyROM is returned for zero-length program files.
	ErrEmptyROM = errors.New("rom: program is empty")
	// ErrROMTooLarge is returned for programs that do not fit in memory.
	ErrROMTooLarge = errors.New("rom: program too large")
)

// ROM is a loaded program image.
type ROM struct {
	Name string
	Path string
	SHA1 string
	Data []byte
}

// Size returns the program length in bytes.
func (r ROM) Size() int {
	return len(r.Data)
}

// Load reads a program from disk.
func Load(path string) (ROM, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return ROM{}, fmt.Errorf("rom: cannot read %s: %w", path, err)
	}

	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	r, err := FromBytes(name, data)
	if err != nil {
		return ROM{}, err
	}
	r.Path = path
	return r, nil
}

// FromBytes validates an in-memory program.
func FromBytes(name string, data []byte) (ROM, error) {
	if len(data) == 0 {
		return ROM{}, ErrEmptyROM
	}
	if len(data) > MaxSize {
		return ROM{}, fmt.Errorf("%w: %d bytes, max %d", ErrROMTooLarge, len(data), MaxSize)
	}

	sum := sha1.Sum(data)
	return ROM{
		Name: name,
		SHA1: hex.EncodeToString(sum[:]),
		Data: append([]byte(nil), data...),
	}, nil
}

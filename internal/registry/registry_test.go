package registry

import (
	"testing"

	"github.com/vovakirdan/chip8-runner/internal/core"
)

type nopProcessor struct{}

func (nopProcessor) LoadProgram([]byte) error         { return nil }
func (nopProcessor) Step() error                      { return nil }
func (nopProcessor) Tick()                            {}
func (nopProcessor) PixelAt(int, int) bool            { return false }
func (nopProcessor) UpdateInputs([core.KeyCount]bool) {}
func (nopProcessor) KeyReleased(int)                  {}
func (nopProcessor) SoundActive() bool                { return false }

func TestRegisterAndCreate(t *testing.T) {
	Register("test-nop", "No-op", func() core.Processor { return nopProcessor{} })

	if !Exists("test-nop") {
		t.Fatal("Exists() = false after Register")
	}

	p, err := Create("test-nop")
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}
	if p == nil {
		t.Fatal("Create() returned nil processor")
	}

	found := false
	for _, info := range List() {
		if info.ID == "test-nop" {
			found = true
			if info.Title != "No-op" {
				t.Errorf("Title = %q, expected %q", info.Title, "No-op")
			}
		}
	}
	if !found {
		t.Error("List() does not include registered processor")
	}
}

func TestCreateUnknown(t *testing.T) {
	if _, err := Create("does-not-exist"); err == nil {
		t.Error("Create() should fail for unknown ID")
	}
}

func TestRegisterDuplicatePanics(t *testing.T) {
	Register("test-dup", "Dup", func() core.Processor { return nopProcessor{} })

	defer func() {
		if recover() == nil {
			t.Error("duplicate Register should panic")
		}
	}()
	Register("test-dup", "Dup", func() core.Processor { return nopProcessor{} })
}

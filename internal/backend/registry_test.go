package backend

import (
	"errors"
	"testing"
)

type fakeBackend struct{ seed int64 }

func (f *fakeBackend) Name() string                   { return "fake" }
func (f *fakeBackend) Allocate(int) (Register, error) { return nil, errors.New("unimplemented") }

func TestRegistryOpen(t *testing.T) {
	RegisterFactory("fake", func(seed int64) Backend { return &fakeBackend{seed: seed} })

	b, err := Open("fake", 7)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if fb, ok := b.(*fakeBackend); !ok || fb.seed != 7 {
		t.Fatalf("factory not invoked with seed: %+v", b)
	}

	if _, err := Open("missing", 1); !errors.Is(err, ErrUnknownBackend) {
		t.Fatalf("expected ErrUnknownBackend, got %v", err)
	}

	found := false
	for _, name := range Names() {
		if name == "fake" {
			found = true
		}
	}
	if !found {
		t.Fatalf("registered name missing from %v", Names())
	}
}

func TestRegistryRejectsDuplicates(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic on duplicate registration")
		}
	}()
	RegisterFactory("dup", func(int64) Backend { return &fakeBackend{} })
	RegisterFactory("dup", func(int64) Backend { return &fakeBackend{} })
}

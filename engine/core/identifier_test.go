package core

import (
	"errors"
	"testing"
)

func TestHandleArenaAcquireGet(t *testing.T) {
	a := NewHandleArena[string](4)
	h1 := a.Acquire("sun")
	h2 := a.Acquire("spot")

	if !h1.IsValid() || !h2.IsValid() {
		t.Fatalf("issued handles must be valid: %s %s", h1, h2)
	}
	if h1 == h2 {
		t.Fatalf("handles must differ, got %s twice", h1)
	}
	for h, want := range map[Handle]string{h1: "sun", h2: "spot"} {
		got, err := a.Get(h)
		if err != nil {
			t.Fatalf("Get(%s): %v", h, err)
		}
		if got != want {
			t.Errorf("Get(%s) = %q, want %q", h, got, want)
		}
	}
	if a.Len() != 2 {
		t.Errorf("Len() = %d, want 2", a.Len())
	}
}

func TestHandleArenaReleaseInvalidatesHandle(t *testing.T) {
	a := NewHandleArena[int](1)
	old := a.Acquire(1)
	if err := a.Release(old); err != nil {
		t.Fatalf("Release: %v", err)
	}
	reused := a.Acquire(2)

	if reused.Index != old.Index {
		t.Fatalf("expected slot %d to be reused, got %d", old.Index, reused.Index)
	}
	if reused == old {
		t.Fatalf("reused slot must carry a new generation, got %s", reused)
	}
	if _, err := a.Get(old); !errors.Is(err, ErrStaleHandle) {
		t.Errorf("Get(stale) error = %v, want ErrStaleHandle", err)
	}
	if a.Contains(old) {
		t.Error("Contains(stale) = true")
	}
	if err := a.Release(old); !errors.Is(err, ErrStaleHandle) {
		t.Errorf("double Release error = %v, want ErrStaleHandle", err)
	}
	if v, err := a.Get(reused); err != nil || v != 2 {
		t.Errorf("Get(reused) = %d, %v", v, err)
	}
}

func TestHandleArenaZeroHandle(t *testing.T) {
	a := NewHandleArena[int](1)
	a.Acquire(7)
	var zero Handle
	if zero.IsValid() {
		t.Fatal("zero handle must be invalid")
	}
	if _, err := a.Get(zero); !errors.Is(err, ErrStaleHandle) {
		t.Errorf("Get(zero) error = %v", err)
	}
	if err := a.Set(zero, 1); !errors.Is(err, ErrStaleHandle) {
		t.Errorf("Set(zero) error = %v", err)
	}
}

func TestHandleArenaEachSkipsReleased(t *testing.T) {
	a := NewHandleArena[string](3)
	h1 := a.Acquire("a")
	a.Acquire("b")
	a.Acquire("c")
	if err := a.Release(h1); err != nil {
		t.Fatal(err)
	}

	var seen []string
	a.Each(func(_ Handle, v string) { seen = append(seen, v) })
	if len(seen) != 2 || seen[0] != "b" || seen[1] != "c" {
		t.Errorf("Each visited %v, want [b c]", seen)
	}
}

package core

import "fmt"

// Handle is a generation-checked reference into a HandleArena. The zero
// value is never issued, so it can be used as "no handle".
type Handle struct {
	Index      uint32
	Generation uint32
}

func (h Handle) IsValid() bool {
	return h.Generation != 0
}

func (h Handle) String() string {
	return fmt.Sprintf("%d:%d", h.Index, h.Generation)
}

type arenaSlot[T any] struct {
	owner      T
	generation uint32
	occupied   bool
}

// HandleArena stores owners in reusable slots. Releasing a slot bumps its
// generation so handles issued before the release stop resolving.
type HandleArena[T any] struct {
	slots []arenaSlot[T]
	free  []uint32
}

func NewHandleArena[T any](capacity int) *HandleArena[T] {
	return &HandleArena[T]{
		slots: make([]arenaSlot[T], 0, capacity),
	}
}

func (a *HandleArena[T]) Acquire(owner T) Handle {
	// Existing free spot. Take it.
	if n := len(a.free); n > 0 {
		idx := a.free[n-1]
		a.free = a.free[:n-1]
		slot := &a.slots[idx]
		slot.owner = owner
		slot.occupied = true
		return Handle{Index: idx, Generation: slot.generation}
	}

	// If here, no existing free slots. Push a new one.
	a.slots = append(a.slots, arenaSlot[T]{owner: owner, generation: 1, occupied: true})
	return Handle{Index: uint32(len(a.slots) - 1), Generation: 1}
}

func (a *HandleArena[T]) Get(h Handle) (T, error) {
	var zero T
	if !a.valid(h) {
		return zero, fmt.Errorf("handle %s: %w", h, ErrStaleHandle)
	}
	return a.slots[h.Index].owner, nil
}

// Set replaces the owner of a live handle.
func (a *HandleArena[T]) Set(h Handle, owner T) error {
	if !a.valid(h) {
		return fmt.Errorf("handle %s: %w", h, ErrStaleHandle)
	}
	a.slots[h.Index].owner = owner
	return nil
}

func (a *HandleArena[T]) Release(h Handle) error {
	if !a.valid(h) {
		return fmt.Errorf("release of handle %s: %w", h, ErrStaleHandle)
	}
	var zero T
	slot := &a.slots[h.Index]
	slot.owner = zero
	slot.occupied = false
	slot.generation++
	if slot.generation == 0 {
		// wrapped around; zero is reserved for the invalid handle
		slot.generation = 1
	}
	a.free = append(a.free, h.Index)
	return nil
}

func (a *HandleArena[T]) Contains(h Handle) bool {
	return a.valid(h)
}

// Len returns the number of live entries.
func (a *HandleArena[T]) Len() int {
	return len(a.slots) - len(a.free)
}

// Each visits the live entries in slot order.
func (a *HandleArena[T]) Each(fn func(Handle, T)) {
	for i := range a.slots {
		slot := a.slots[i]
		if slot.occupied {
			fn(Handle{Index: uint32(i), Generation: slot.generation}, slot.owner)
		}
	}
}

func (a *HandleArena[T]) valid(h Handle) bool {
	if !h.IsValid() || int(h.Index) >= len(a.slots) {
		return false
	}
	slot := a.slots[h.Index]
	return slot.occupied && slot.generation == h.Generation
}

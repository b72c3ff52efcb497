package containers

import (
	"errors"
	"testing"
)

func TestRingQueueFIFO(t *testing.T) {
	q := NewRingQueue[int](3)
	if _, err := q.Dequeue(); !errors.Is(err, ErrQueueEmpty) {
		t.Fatalf("Dequeue on empty queue: %v", err)
	}
	for i := 1; i <= 3; i++ {
		if err := q.Enqueue(i); err != nil {
			t.Fatalf("Enqueue(%d): %v", i, err)
		}
	}
	if err := q.Enqueue(4); !errors.Is(err, ErrQueueFull) {
		t.Fatalf("Enqueue on full queue: %v", err)
	}
	if v, _ := q.Peek(); v != 1 {
		t.Errorf("Peek() = %d, want 1", v)
	}
	for want := 1; want <= 3; want++ {
		v, err := q.Dequeue()
		if err != nil || v != want {
			t.Fatalf("Dequeue() = %d, %v; want %d", v, err, want)
		}
	}
	if !q.IsEmpty() {
		t.Error("queue should be empty")
	}
}

func TestRingQueuePushDropsOldest(t *testing.T) {
	q := NewRingQueue[int](3)
	for i := 1; i <= 5; i++ {
		q.Push(i)
	}
	var got []int
	q.Each(func(v int) { got = append(got, v) })
	want := []int{3, 4, 5}
	if len(got) != len(want) {
		t.Fatalf("Each visited %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Each visited %v, want %v", got, want)
		}
	}
	if !q.IsFull() || q.Len() != 3 {
		t.Errorf("Len() = %d, IsFull() = %t", q.Len(), q.IsFull())
	}
}

package core

import "testing"

type listener struct {
	calls int
	last  EventContext
}

func (l *listener) onEvent(ctx EventContext) {
	l.calls++
	l.last = ctx
}

func TestEventSystem(t *testing.T) {
	if !EventSystemInitialize() {
		t.Fatal("EventSystemInitialize failed")
	}
	defer EventSystemShutdown()

	if EventSystemInitialize() {
		t.Error("second EventSystemInitialize should report false")
	}

	a, b := &listener{}, &listener{}
	if !EventRegister(EVENT_CODE_RESIZED, a, a.onEvent) {
		t.Fatal("register a failed")
	}
	if EventRegister(EVENT_CODE_RESIZED, a, a.onEvent) {
		t.Error("duplicate registration should be rejected")
	}
	if !EventRegister(EVENT_CODE_RESIZED, b, b.onEvent) {
		t.Fatal("register b failed")
	}

	data := &ResizeEvent{Width: 800, Height: 600}
	if !EventFire(EventContext{Type: EVENT_CODE_RESIZED, Data: data}) {
		t.Fatal("EventFire reported no listeners")
	}
	if a.calls != 1 || b.calls != 1 {
		t.Fatalf("calls a=%d b=%d, want 1 each", a.calls, b.calls)
	}
	if got := a.last.Data.(*ResizeEvent); got.Width != 800 || got.Height != 600 {
		t.Errorf("unexpected payload %+v", got)
	}

	if !EventUnregister(EVENT_CODE_RESIZED, a) {
		t.Fatal("unregister failed")
	}
	if EventUnregister(EVENT_CODE_RESIZED, a) {
		t.Error("second unregister should report false")
	}
	EventFire(EventContext{Type: EVENT_CODE_RESIZED})
	if a.calls != 1 || b.calls != 2 {
		t.Errorf("after unregister calls a=%d b=%d, want 1 and 2", a.calls, b.calls)
	}

	if EventFire(EventContext{Type: EVENT_CODE_APPLICATION_QUIT}) {
		t.Error("firing a code without listeners should report false")
	}
}

func TestEventSystemNotInitialized(t *testing.T) {
	l := &listener{}
	if EventRegister(EVENT_CODE_RESIZED, l, l.onEvent) {
		t.Error("register without an event system should fail")
	}
	if EventFire(EventContext{Type: EVENT_CODE_RESIZED}) {
		t.Error("fire without an event system should fail")
	}
}

package core

// System internal event codes. Application should use codes beyond 255.
type SystemEventCode int

const (
	// Shuts the application down on the next frame.
	EVENT_CODE_APPLICATION_QUIT SystemEventCode = 0x01

	// Resized/resolution changed from the host.
	/* Context usage:
	 * data := context.Data.(*ResizeEvent)
	 */
	EVENT_CODE_RESIZED SystemEventCode = 0x08

	// The configuration file was changed on disk and parsed successfully.
	/* Context usage:
	 * cfg := context.Data.(*config.Config)
	 */
	EVENT_CODE_CONFIG_RELOADED SystemEventCode = 0x09

	MAX_EVENT_CODE SystemEventCode = 0xFF
)

// This should be more than enough codes...
const MAX_MESSAGE_CODES = 16384

type EventContext struct {
	Type SystemEventCode
	Data interface{}
}

// ResizeEvent carries the new viewport of the host surface. X and Y are non
// zero when rendering into a translated region of a larger surface (e.g. one
// half of a stereo display).
type ResizeEvent struct {
	X      int32
	Y      int32
	Width  uint32
	Height uint32
}

// Callback invoked when an event fires.
type FnOnEvent func(context EventContext)

type registeredEvent struct {
	listener interface{}
	callback FnOnEvent
}

type eventSystemState struct {
	// Lookup table for event codes.
	registered map[SystemEventCode][]*registeredEvent
}

var eventState *eventSystemState

func EventSystemInitialize() bool {
	if eventState != nil {
		return false
	}
	eventState = &eventSystemState{
		registered: make(map[SystemEventCode][]*registeredEvent),
	}
	return true
}

func EventSystemShutdown() error {
	// Free the events arrays. And objects pointed to should be destroyed on their own.
	eventState = nil
	return nil
}

/**
 * Register to listen for when events are sent with the provided code. Events with duplicate
 * listener/code combos will not be registered again and will cause this to return false.
 * @param code The event code to listen for.
 * @param listener A pointer to a listener instance.
 * @param onEvent The callback function to be invoked when the event code is fired.
 * @returns true if the event is successfully registered; otherwise false.
 */
func EventRegister(code SystemEventCode, listener interface{}, onEvent FnOnEvent) bool {
	if eventState == nil || onEvent == nil || code < 0 || code >= MAX_MESSAGE_CODES {
		return false
	}
	for _, e := range eventState.registered[code] {
		if e.listener == listener {
			LogWarn("listener already registered for event code %d", code)
			return false
		}
	}
	eventState.registered[code] = append(eventState.registered[code], &registeredEvent{
		listener: listener,
		callback: onEvent,
	})
	return true
}

/**
 * Unregister from listening for when events are sent with the provided code. If no matching
 * registration is found, this function returns false.
 */
func EventUnregister(code SystemEventCode, listener interface{}) bool {
	if eventState == nil {
		return false
	}
	events := eventState.registered[code]
	for i, e := range events {
		if e.listener == listener {
			eventState.registered[code] = append(events[:i], events[i+1:]...)
			return true
		}
	}
	// Not found.
	return false
}

/**
 * Fires an event to every listener of the given code.
 * @returns true if at least one listener received it.
 */
func EventFire(context EventContext) bool {
	if eventState == nil {
		return false
	}
	events := eventState.registered[context.Type]
	for _, e := range events {
		e.callback(context)
	}
	return len(events) > 0
}

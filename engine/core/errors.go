package core

import (
	"errors"
)

var (
	ErrUnsupportedTarget = errors.New("unsupported render target")
	ErrTooManyLights     = errors.New("too many shadow casting lights for the shadow target")
	ErrInvalidViewport   = errors.New("invalid viewport")
	ErrMissingSlot       = errors.New("render pass input/output slot not bound")
	ErrStaleHandle       = errors.New("stale or invalid handle")
	ErrUnknownEffect     = errors.New("unknown post process effect")
	ErrInvalidConfig     = errors.New("invalid configuration")
	ErrTargetDestroyed   = errors.New("render target already destroyed")
)

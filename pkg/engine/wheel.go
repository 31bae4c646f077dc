package engine

import (
	"fmt"
	"strings"
)

// ZoomKey is the modifier that must be held for scroll-to-zoom.
type ZoomKey string

const (
	ZoomKeyNone  ZoomKey = ""
	ZoomKeyCtrl  ZoomKey = "ctrlKey"
	ZoomKeyShift ZoomKey = "shiftKey"
	ZoomKeyAlt   ZoomKey = "altKey"
)

// ParseZoomKey accepts "ctrlKey"/"ctrl", "shiftKey"/"shift", "altKey"/"alt"
// and the empty string.
func ParseZoomKey(s string) (ZoomKey, error) {
	switch strings.TrimSuffix(strings.ToLower(strings.TrimSpace(s)), "key") {
	case "":
		return ZoomKeyNone, nil
	case "ctrl":
		return ZoomKeyCtrl, nil
	case "shift":
		return ZoomKeyShift, nil
	case "alt":
		return ZoomKeyAlt, nil
	default:
		return ZoomKeyNone, fmt.Errorf("unknown zoom key %q", s)
	}
}

// WheelEvent is a scroll event delivered to the engine's zoom handler.
type WheelEvent struct {
	DeltaX   float64
	DeltaY   float64
	CtrlKey  bool
	ShiftKey bool
	AltKey   bool
	// Native is the platform event, if any.
	Native any
}

// Held reports whether the modifier k is pressed. ZoomKeyNone is always held.
func (e WheelEvent) Held(k ZoomKey) bool {
	switch k {
	case ZoomKeyCtrl:
		return e.CtrlKey
	case ZoomKeyShift:
		return e.ShiftKey
	case ZoomKeyAlt:
		return e.AltKey
	default:
		return true
	}
}

// WheelHandler handles a wheel event.
type WheelHandler func(WheelEvent)

// Wheel is implemented by engines that expose their internal scroll-to-zoom
// handler so it can be wrapped.
type Wheel interface {
	WheelHandler() WheelHandler
	SetWheelHandler(WheelHandler)
}

// ZoomGater is implemented by engines that apply the modifier gate
// themselves, e.g. remote engines where the wheel never leaves the browser.
type ZoomGater interface {
	SetZoomKey(ZoomKey)
}

// GateWheel wraps h so events only reach it while k is held. Other events are
// dropped, letting the page scroll.
func GateWheel(h WheelHandler, k ZoomKey) WheelHandler {
	if h == nil || k == ZoomKeyNone {
		return h
	}
	return func(e WheelEvent) {
		if !e.Held(k) {
			return
		}
		h(e)
	}
}

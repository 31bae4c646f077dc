package engine

import (
	"errors"
	"fmt"
)

// ErrUnknownEvent is returned by ParseEventName for names outside the
// supported set.
var ErrUnknownEvent = errors.New("engine: unknown event")

// EventName is an interaction event emitted by the engine.
type EventName string

const (
	EventClick                       EventName = "click"
	EventDoubleClick                 EventName = "doubleClick"
	EventContext                     EventName = "oncontext"
	EventHold                        EventName = "hold"
	EventRelease                     EventName = "release"
	EventSelect                      EventName = "select"
	EventSelectNode                  EventName = "selectNode"
	EventSelectEdge                  EventName = "selectEdge"
	EventDeselectNode                EventName = "deselectNode"
	EventDeselectEdge                EventName = "deselectEdge"
	EventDragStart                   EventName = "dragStart"
	EventDragging                    EventName = "dragging"
	EventDragEnd                     EventName = "dragEnd"
	EventControlNodeDragging         EventName = "controlNodeDragging"
	EventControlNodeDragEnd          EventName = "controlNodeDragEnd"
	EventHoverNode                   EventName = "hoverNode"
	EventBlurNode                    EventName = "blurNode"
	EventHoverEdge                   EventName = "hoverEdge"
	EventBlurEdge                    EventName = "blurEdge"
	EventZoom                        EventName = "zoom"
	EventShowPopup                   EventName = "showPopup"
	EventHidePopup                   EventName = "hidePopup"
	EventStartStabilizing            EventName = "startStabilizing"
	EventStabilizationProgress       EventName = "stabilizationProgress"
	EventStabilizationIterationsDone EventName = "stabilizationIterationsDone"
	EventStabilized                  EventName = "stabilized"
	EventResize                      EventName = "resize"
	EventInitRedraw                  EventName = "initRedraw"
	EventBeforeDrawing               EventName = "beforeDrawing"
	EventAfterDrawing                EventName = "afterDrawing"
	EventAnimationFinished           EventName = "animationFinished"
	EventConfigChange                EventName = "configChange"
)

var eventNames = map[EventName]struct{}{}

// pointerEvents carry the BaseClick payload (nodes, edges, event, pointer).
var pointerEvents = map[EventName]bool{
	EventClick:       true,
	EventDoubleClick: true,
	EventContext:     true,
	EventHold:        true,
	EventRelease:     true,
	EventSelect:      true,
	EventSelectNode:  true,
	EventSelectEdge:  true,
	EventDragStart:   true,
	EventDragging:    true,
	EventDragEnd:     true,
}

func init() {
	for _, n := range AllEvents() {
		eventNames[n] = struct{}{}
	}
}

// AllEvents returns every supported event name.
func AllEvents() []EventName {
	return []EventName{
		EventClick, EventDoubleClick, EventContext, EventHold, EventRelease,
		EventSelect, EventSelectNode, EventSelectEdge, EventDeselectNode, EventDeselectEdge,
		EventDragStart, EventDragging, EventDragEnd,
		EventControlNodeDragging, EventControlNodeDragEnd,
		EventHoverNode, EventBlurNode, EventHoverEdge, EventBlurEdge,
		EventZoom, EventShowPopup, EventHidePopup,
		EventStartStabilizing, EventStabilizationProgress, EventStabilizationIterationsDone, EventStabilized,
		EventResize, EventInitRedraw, EventBeforeDrawing, EventAfterDrawing,
		EventAnimationFinished, EventConfigChange,
	}
}

// ParseEventName validates s against the supported set.
func ParseEventName(s string) (EventName, error) {
	n := EventName(s)
	if !n.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownEvent, s)
	}
	return n, nil
}

// Valid reports whether n is a supported event.
func (n EventName) Valid() bool {
	_, ok := eventNames[n]
	return ok
}

// HasPointer reports whether n carries node/edge/pointer data.
func (n EventName) HasPointer() bool {
	return pointerEvents[n]
}

// Position is a 2D coordinate.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Pointer locates an interaction in DOM and canvas coordinates.
type Pointer struct {
	DOM    Position `json:"DOM"`
	Canvas Position `json:"canvas"`
}

// Params is the payload of an engine event. Nodes, Edges, Items and Pointer
// are filled for pointer events; Raw always holds the full decoded payload.
type Params struct {
	Event   EventName      `json:"-"`
	Nodes   []string       `json:"nodes,omitempty"`
	Edges   []string       `json:"edges,omitempty"`
	Items   []any          `json:"items,omitempty"`
	Pointer Pointer        `json:"pointer"`
	Raw     map[string]any `json:"-"`
}

// Handler receives event params.
type Handler func(Params)

// Events maps event names to handlers. A nil handler is skipped.
type Events map[EventName]Handler

// DecodeParams builds Params from a decoded event payload.
func DecodeParams(name EventName, raw map[string]any) Params {
	p := Params{Event: name, Raw: raw}
	if raw == nil {
		return p
	}
	p.Nodes = stringList(raw["nodes"])
	p.Edges = stringList(raw["edges"])
	if items, ok := raw["items"].([]any); ok {
		p.Items = items
	}
	if ptr, ok := raw["pointer"].(map[string]any); ok {
		p.Pointer.DOM = position(ptr["DOM"])
		p.Pointer.Canvas = position(ptr["canvas"])
	}
	return p
}

func stringList(v any) []string {
	list, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(list))
	for _, e := range list {
		if s, ok := e.(string); ok {
			out = append(out, s)
		} else {
			out = append(out, fmt.Sprint(e))
		}
	}
	return out
}

func position(v any) Position {
	m, ok := v.(map[string]any)
	if !ok {
		return Position{}
	}
	x, _ := m["x"].(float64)
	y, _ := m["y"].(float64)
	return Position{X: x, Y: y}
}

package live

import (
	"github.com/recera/visgraph/pkg/options"
)

// MessageType represents the type of live protocol frame
type MessageType uint8

const (
	// FrameCommand carries a server-to-client engine command
	FrameCommand MessageType = 0x00
	// FrameEvent carries a client-to-server event or resize notification
	FrameEvent MessageType = 0x01
	// FrameControl carries HELLO, PING and PONG
	FrameControl MessageType = 0x02
)

func (t MessageType) String() string {
	switch t {
	case FrameCommand:
		return "command"
	case FrameEvent:
		return "event"
	case FrameControl:
		return "control"
	default:
		return "unknown"
	}
}

// Control words.
const (
	ControlHello = "HELLO"
	ControlPing  = "PING"
	ControlPong  = "PONG"
)

// Op names a command the browser client executes against vis-network.
type Op string

const (
	OpCreate   Op = "create"
	OpAdd      Op = "add"
	OpUpdate   Op = "update"
	OpRemove   Op = "remove"
	OpOptions  Op = "options"
	OpListen   Op = "listen"
	OpUnlisten Op = "unlisten"
	OpZoomKey  Op = "zoomKey"
	OpRedraw   Op = "redraw"
	OpDestroy  Op = "destroy"
)

// Collection names a live dataset on the client.
type Collection string

const (
	CollectionNodes Collection = "nodes"
	CollectionEdges Collection = "edges"
)

// Command is the JSON payload of a command frame.
type Command struct {
	Op Op `json:"op"`
	// Network identifies the engine instance within the session.
	Network    string           `json:"network"`
	Host       string           `json:"host,omitempty"`
	Collection Collection       `json:"collection,omitempty"`
	Items      []map[string]any `json:"items,omitempty"`
	Keys       []string         `json:"keys,omitempty"`
	Nodes      []map[string]any `json:"nodes,omitempty"`
	Edges      []map[string]any `json:"edges,omitempty"`
	Options    options.Options  `json:"options,omitempty"`
	Event      string           `json:"event,omitempty"`
	ZoomKey    string           `json:"zoomKey,omitempty"`
	// Ref tags an options command so the client can name it in an error reply.
	Ref uint64 `json:"ref,omitempty"`
}

// Message kinds sent by the client.
const (
	KindEvent  = "event"
	KindResize = "resize"
	KindError  = "error"
)

// Message is the JSON payload of an event frame.
type Message struct {
	Kind    string         `json:"kind"`
	Network string         `json:"network,omitempty"`
	Event   string         `json:"event,omitempty"`
	Params  map[string]any `json:"params,omitempty"`
	Host    string         `json:"host,omitempty"`
	Width   float64        `json:"width,omitempty"`
	Height  float64        `json:"height,omitempty"`
	// Op, Ref and Error describe a command the client failed to apply.
	Op    Op     `json:"op,omitempty"`
	Ref   uint64 `json:"ref,omitempty"`
	Error string `json:"error,omitempty"`
}

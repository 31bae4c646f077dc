package vdom

// VKind represents the type of virtual node
type VKind uint8

const (
	// KindElement represents a DOM element node
	KindElement VKind = iota
	// KindText represents a text node
	KindText
	// KindFragment represents a fragment (multiple children without parent)
	KindFragment
)

// Props represents the properties/attributes of a VNode.
//
// Two keys are special: "key" identifies a node among its siblings and "ref"
// holds a callback receiving the platform element once it exists.
type Props map[string]any

// VNode represents a virtual DOM node
type VNode struct {
	Kind  VKind
	Tag   string
	Props Props
	Kids  []VNode
	Key   string
	// Text content (only used when Kind == KindText)
	Text string
}

// NewElement creates a new element VNode
func NewElement(tag string, props Props, children ...*VNode) *VNode {
	n := &VNode{
		Kind:  KindElement,
		Tag:   tag,
		Props: props,
		Kids:  collect(children),
	}
	if key, ok := props["key"].(string); ok {
		n.Key = key
	}
	return n
}

// NewText creates a new text VNode
func NewText(text string) *VNode {
	return &VNode{Kind: KindText, Text: text}
}

// NewFragment creates a new fragment VNode
func NewFragment(children ...*VNode) *VNode {
	return &VNode{Kind: KindFragment, Kids: collect(children)}
}

func collect(children []*VNode) []VNode {
	kids := make([]VNode, 0, len(children))
	for _, child := range children {
		if child != nil {
			kids = append(kids, *child)
		}
	}
	return kids
}

// IsElement returns true if this is an element node
func (v VNode) IsElement() bool {
	return v.Kind == KindElement
}

// Attr returns the string form of an attribute, or "".
func (v VNode) Attr(key string) string {
	if val, ok := v.Props[key]; ok && !IsSpecialProp(key) {
		return PropString(val)
	}
	return ""
}

// IsSpecialProp reports props that are never rendered as attributes.
func IsSpecialProp(key string) bool {
	return key == "key" || key == "ref"
}

package builder

import (
	"strings"

	"github.com/recera/visgraph/pkg/engine"
)

// ID sets the id attribute
func (b *ElementBuilder) ID(id string) *ElementBuilder {
	if id != "" {
		b.props["id"] = id
	}
	return b
}

// Key sets the reconciliation key
func (b *ElementBuilder) Key(key string) *ElementBuilder {
	if key != "" {
		b.props["key"] = key
	}
	return b
}

// Class adds classes to the class attribute
func (b *ElementBuilder) Class(class string) *ElementBuilder {
	cur, _ := b.props["class"].(string)
	if v := appendSep(cur, class, " "); v != "" {
		b.props["class"] = v
	}
	return b
}

// Style appends declarations to the style attribute. Later declarations win
// in the browser, so callers append overrides after defaults.
func (b *ElementBuilder) Style(style string) *ElementBuilder {
	cur, _ := b.props["style"].(string)
	if v := appendSep(strings.TrimSuffix(cur, ";"), strings.TrimSuffix(style, ";"), ";"); v != "" {
		b.props["style"] = v
	}
	return b
}

// Data sets a data attribute
func (b *ElementBuilder) Data(key, value string) *ElementBuilder {
	b.props["data-"+key] = value
	return b
}

// Attr sets a custom attribute
func (b *ElementBuilder) Attr(key string, value any) *ElementBuilder {
	b.props[key] = value
	return b
}

// Attrs sets several custom attributes
func (b *ElementBuilder) Attrs(attrs map[string]any) *ElementBuilder {
	for k, v := range attrs {
		b.props[k] = v
	}
	return b
}

// Ref sets a callback that receives the platform element after creation.
func (b *ElementBuilder) Ref(ref func(engine.Element)) *ElementBuilder {
	if ref != nil {
		b.props["ref"] = ref
	}
	return b
}

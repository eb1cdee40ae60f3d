package vdom

import "strings"

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

// VNodeFlags are bitwise flags for VNode optimizations
type VNodeFlags uint8

const (
	// FlagHasRef indicates this node has a ref callback
	FlagHasRef VNodeFlags = 1 << iota
)

// Props represents the properties/attributes of a VNode
type Props map[string]any

// StyleDecl is a single inline style declaration
type StyleDecl struct {
	Prop  string
	Value string
}

// Style is an ordered list of inline style declarations.
// Order is kept so rendered markup is stable.
type Style []StyleDecl

// String renders the declarations as a style attribute value
func (s Style) String() string {
	var b strings.Builder
	for i, d := range s {
		if i > 0 {
			b.WriteByte(';')
		}
		b.WriteString(d.Prop)
		b.WriteByte(':')
		b.WriteString(d.Value)
	}
	return b.String()
}

// Set returns a copy of s with prop set to value, replacing an earlier declaration
func (s Style) Set(prop, value string) Style {
	out := make(Style, 0, len(s)+1)
	replaced := false
	for _, d := range s {
		if d.Prop == prop {
			out = append(out, StyleDecl{Prop: prop, Value: value})
			replaced = true
			continue
		}
		out = append(out, d)
	}
	if !replaced {
		out = append(out, StyleDecl{Prop: prop, Value: value})
	}
	return out
}

// VNode represents a virtual DOM node
// This struct is immutable - once created, it should never be modified
type VNode struct {
	// Kind determines the type of this node
	Kind VKind

	// Tag is the element tag name (e.g., "div", "svg")
	// Only used when Kind == KindElement
	Tag string

	// Props contains all properties/attributes for this node,
	// including style and ref
	Props Props

	// Kids contains child nodes
	// For KindText, this is nil
	Kids []VNode

	// Flags contains optimization hints
	Flags VNodeFlags

	// Text content (only used when Kind == KindText)
	Text string
}

// NewElement creates a new element VNode
func NewElement(tag string, props Props, children ...*VNode) *VNode {
	flags := VNodeFlags(0)
	if props != nil {
		if _, hasRef := props["ref"]; hasRef {
			flags |= FlagHasRef
		}
	}

	// Convert children pointers to values
	kids := make([]VNode, 0, len(children))
	for _, child := range children {
		if child != nil {
			kids = append(kids, *child)
		}
	}

	return &VNode{
		Kind:  KindElement,
		Tag:   tag,
		Props: props,
		Kids:  kids,
		Flags: flags,
	}
}

// NewText creates a new text VNode
func NewText(text string) *VNode {
	return &VNode{
		Kind: KindText,
		Text: text,
	}
}

// NewFragment creates a new fragment VNode
func NewFragment(children ...*VNode) *VNode {
	kids := make([]VNode, 0, len(children))
	for _, child := range children {
		if child != nil {
			kids = append(kids, *child)
		}
	}

	return &VNode{
		Kind: KindFragment,
		Kids: kids,
	}
}

// IsElement returns true if this is an element node
func (v VNode) IsElement() bool {
	return v.Kind == KindElement
}

// IsText returns true if this is a text node
func (v VNode) IsText() bool {
	return v.Kind == KindText
}

// IsFragment returns true if this is a fragment node
func (v VNode) IsFragment() bool {
	return v.Kind == KindFragment
}

// HasFlag returns true if the specified flag is set
func (v VNode) HasFlag(flag VNodeFlags) bool {
	return v.Flags&flag != 0
}

// TextContent concatenates the text of all descendant text nodes
func (v VNode) TextContent() string {
	if v.Kind == KindText {
		return v.Text
	}
	var b strings.Builder
	for i := range v.Kids {
		b.WriteString(v.Kids[i].TextContent())
	}
	return b.String()
}

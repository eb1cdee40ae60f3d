// Package builder provides a fluent API for constructing vdom trees.
package builder

import (
	"github.com/recera/circles/pkg/dom"
	"github.com/recera/circles/pkg/vango/vdom"
)

// SVGNamespace is the namespace SVG elements are created in
const SVGNamespace = dom.SVGNamespace

// ElementBuilder accumulates props and children for a single element
type ElementBuilder struct {
	tag      string
	props    vdom.Props
	style    vdom.Style
	children []*vdom.VNode
}

// Element starts a builder for an arbitrary tag
func Element(tag string) *ElementBuilder {
	return &ElementBuilder{
		tag:   tag,
		props: make(vdom.Props),
	}
}

// Div starts a <div> builder
func Div() *ElementBuilder { return Element("div") }

// Span starts a <span> builder
func Span() *ElementBuilder { return Element("span") }

// Svg starts an <svg> builder
func Svg() *ElementBuilder { return Element("svg") }

// Path starts an SVG <path> builder
func Path() *ElementBuilder { return Element("path") }

// Circle starts an SVG <circle> builder
func Circle() *ElementBuilder { return Element("circle") }

// Class sets the class attribute
func (b *ElementBuilder) Class(class string) *ElementBuilder {
	if class != "" {
		b.props["class"] = class
	}
	return b
}

// ID sets the id attribute
func (b *ElementBuilder) ID(id string) *ElementBuilder {
	b.props["id"] = id
	return b
}

// Css adds a single inline style declaration
func (b *ElementBuilder) Css(prop, value string) *ElementBuilder {
	b.style = b.style.Set(prop, value)
	return b
}

// Text appends a text child
func (b *ElementBuilder) Text(text string) *ElementBuilder {
	b.children = append(b.children, vdom.NewText(text))
	return b
}

// Children appends child nodes, skipping nils
func (b *ElementBuilder) Children(children ...*vdom.VNode) *ElementBuilder {
	for _, c := range children {
		if c != nil {
			b.children = append(b.children, c)
		}
	}
	return b
}

// Build produces the immutable VNode
func (b *ElementBuilder) Build() *vdom.VNode {
	props := make(vdom.Props, len(b.props)+1)
	for k, v := range b.props {
		props[k] = v
	}
	if len(b.style) > 0 {
		props["style"] = b.style
	}
	return vdom.NewElement(b.tag, props, b.children...)
}

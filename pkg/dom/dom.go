// Package dom defines the slice of the document API the gauges depend on,
// plus helpers to materialise vdom trees against it.
package dom

import (
	"fmt"
	"sort"

	"github.com/recera/circles/pkg/vango/vdom"
)

// SVGNamespace is the namespace SVG elements must be created in
const SVGNamespace = "http://www.w3.org/2000/svg"

// Document is the host document
type Document interface {
	// GetElementByID returns the element with the given id attribute, if any
	GetElementByID(id string) (Element, bool)
	// CreateElement creates an HTML element
	CreateElement(tag string) Element
	// CreateElementNS creates an element in the given namespace
	CreateElementNS(ns, tag string) Element
}

// Element is a node in the host document
type Element interface {
	SetAttribute(key, value string)
	Attribute(key string) string
	SetStyle(prop, value string)
	// SetTextContent replaces all children with the given text
	SetTextContent(text string)
	TextContent() string
	AppendChild(child Element)
	RemoveChild(child Element)
}

// Build materialises a VNode tree into elements created by doc.
// Ref callbacks (props["ref"] of type func(Element)) receive their element
// once its subtree is built. Fragments are not valid roots; nil is returned.
func Build(doc Document, node *vdom.VNode) Element {
	if node == nil || node.Kind != vdom.KindElement {
		return nil
	}
	return buildElement(doc, node, false)
}

// buildElement creates an element and its subtree
func buildElement(doc Document, node *vdom.VNode, inSVG bool) Element {
	svg := inSVG || node.Tag == "svg"

	var el Element
	if svg {
		el = doc.CreateElementNS(SVGNamespace, node.Tag)
	} else {
		el = doc.CreateElement(node.Tag)
	}

	var ref func(Element)
	if node.Props != nil {
		keys := make([]string, 0, len(node.Props))
		for k := range node.Props {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		for _, key := range keys {
			value := node.Props[key]
			switch key {
			case "ref":
				if fn, ok := value.(func(Element)); ok {
					ref = fn
				}
			case "style":
				switch s := value.(type) {
				case vdom.Style:
					for _, d := range s {
						el.SetStyle(d.Prop, d.Value)
					}
				default:
					el.SetAttribute("style", fmt.Sprintf("%v", s))
				}
			default:
				el.SetAttribute(key, fmt.Sprintf("%v", value))
			}
		}
	}

	// Text children collapse into the element's text content; element
	// children are appended after it.
	if text := directText(node); text != "" {
		el.SetTextContent(text)
	}
	appendChildren(doc, el, node.Kids, svg)

	if ref != nil {
		ref(el)
	}
	return el
}

func appendChildren(doc Document, parent Element, kids []vdom.VNode, inSVG bool) {
	for i := range kids {
		kid := &kids[i]
		switch kid.Kind {
		case vdom.KindElement:
			parent.AppendChild(buildElement(doc, kid, inSVG))
		case vdom.KindFragment:
			appendChildren(doc, parent, kid.Kids, inSVG)
		}
	}
}

func directText(node *vdom.VNode) string {
	var text string
	for i := range node.Kids {
		kid := &node.Kids[i]
		switch kid.Kind {
		case vdom.KindText:
			text += kid.Text
		case vdom.KindFragment:
			text += directText(kid)
		}
	}
	return text
}

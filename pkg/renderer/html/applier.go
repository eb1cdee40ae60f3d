package html

import (
	"fmt"
	"html"
	"io"
	"sort"
	"strings"

	"github.com/recera/circles/pkg/vango/vdom"
)

// voidElements are HTML elements that cannot have children
var voidElements = map[string]bool{
	"area":   true,
	"base":   true,
	"br":     true,
	"col":    true,
	"embed":  true,
	"hr":     true,
	"img":    true,
	"input":  true,
	"link":   true,
	"meta":   true,
	"param":  true,
	"source": true,
	"track":  true,
	"wbr":    true,
}

// booleanAttributes are HTML attributes that are boolean flags
var booleanAttributes = map[string]bool{
	"checked":  true,
	"disabled": true,
	"hidden":   true,
	"readonly": true,
	"required": true,
	"selected": true,
}

// HTMLApplier renders VNodes to HTML
type HTMLApplier struct {
	w   io.Writer
	err error
}

// NewHTMLApplier creates a new HTML applier
func NewHTMLApplier(w io.Writer) *HTMLApplier {
	return &HTMLApplier{w: w}
}

// Apply renders a VNode tree to HTML
func (a *HTMLApplier) Apply(node *vdom.VNode) error {
	if node == nil {
		return nil
	}

	a.renderNode(node)
	return a.err
}

// write helper that tracks errors
func (a *HTMLApplier) write(s string) {
	if a.err != nil {
		return
	}
	_, a.err = io.WriteString(a.w, s)
}

// renderNode renders a single VNode
func (a *HTMLApplier) renderNode(node *vdom.VNode) {
	if node == nil || a.err != nil {
		return
	}

	switch node.Kind {
	case vdom.KindText:
		a.write(html.EscapeString(node.Text))

	case vdom.KindElement:
		a.renderElement(node)

	case vdom.KindFragment:
		for i := range node.Kids {
			a.renderNode(&node.Kids[i])
		}
	}
}

// renderElement renders an element node
func (a *HTMLApplier) renderElement(node *vdom.VNode) {
	a.write("<")
	a.write(node.Tag)

	// Attributes are emitted in key order so output is stable
	keys := make([]string, 0, len(node.Props))
	for key := range node.Props {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		value := node.Props[key]
		if key == "ref" {
			continue
		}

		if booleanAttributes[key] {
			if v, ok := value.(bool); ok && v {
				a.write(" ")
				a.write(key)
			}
			continue
		}

		var valueStr string
		switch v := value.(type) {
		case string:
			valueStr = v
		case vdom.Style:
			valueStr = v.String()
		case fmt.Stringer:
			valueStr = v.String()
		case func(), func(string):
			// Callbacks have no markup form
			continue
		default:
			valueStr = fmt.Sprintf("%v", value)
		}

		// Security: prevent javascript: URLs in href/src attributes
		if (key == "href" || key == "src") && strings.HasPrefix(strings.ToLower(valueStr), "javascript:") {
			valueStr = "#"
		}

		a.write(" ")
		a.write(key)
		a.write(`="`)
		a.write(html.EscapeString(valueStr))
		a.write(`"`)
	}

	a.write(">")

	// Void elements don't have closing tags or children
	if voidElements[node.Tag] {
		return
	}

	for i := range node.Kids {
		a.renderNode(&node.Kids[i])
	}

	a.write("</")
	a.write(node.Tag)
	a.write(">")
}

// Render writes node to w
func Render(w io.Writer, node *vdom.VNode) error {
	return NewHTMLApplier(w).Apply(node)
}

// RenderToString is a convenience function to render a VNode to a string
func RenderToString(node *vdom.VNode) (string, error) {
	var buf strings.Builder
	if err := Render(&buf, node); err != nil {
		return "", err
	}
	return buf.String(), nil
}

package dom

import (
	"strconv"

	"github.com/recera/circles/pkg/vango/vdom"
)

// MemoryDocument is an in-process Document used on the server and in tests.
// It is not safe for concurrent use; callers serialise access the way a
// browser serialises access to its UI thread.
type MemoryDocument struct {
	body      *MemoryElement
	nextID    uint32
	observers []func(vdom.Patch)
}

// NewMemoryDocument creates an empty document with a <body>
func NewMemoryDocument() *MemoryDocument {
	d := &MemoryDocument{nextID: 1}
	d.body = d.newElement("", "body")
	return d
}

// Body returns the document body
func (d *MemoryDocument) Body() *MemoryElement {
	return d.body
}

// Observe registers fn to receive a patch for every mutation of a connected node
func (d *MemoryDocument) Observe(fn func(vdom.Patch)) {
	d.observers = append(d.observers, fn)
}

// GetElementByID searches the connected tree for an element with the given id
func (d *MemoryDocument) GetElementByID(id string) (Element, bool) {
	if el := d.body.find(func(e *MemoryElement) bool { return e.Attribute("id") == id }); el != nil {
		return el, true
	}
	return nil, false
}

// CreateElement creates a detached HTML element
func (d *MemoryDocument) CreateElement(tag string) Element {
	return d.newElement("", tag)
}

// CreateElementNS creates a detached element in the given namespace
func (d *MemoryDocument) CreateElementNS(ns, tag string) Element {
	return d.newElement(ns, tag)
}

// NodeByID returns the element with the given node id, if connected
func (d *MemoryDocument) NodeByID(id uint32) (*MemoryElement, bool) {
	el := d.body.find(func(e *MemoryElement) bool { return e.nodeID == id })
	return el, el != nil
}

func (d *MemoryDocument) newElement(ns, tag string) *MemoryElement {
	el := &MemoryElement{doc: d, nodeID: d.nextID, ns: ns, tag: tag}
	d.nextID++
	return el
}

func (d *MemoryDocument) emit(el *MemoryElement, p vdom.Patch) {
	if !el.Connected() {
		return
	}
	for _, fn := range d.observers {
		fn(p)
	}
}

type attr struct {
	key   string
	value string
}

// MemoryElement is an element of a MemoryDocument
type MemoryElement struct {
	doc      *MemoryDocument
	nodeID   uint32
	ns       string
	tag      string
	attrs    []attr
	style    vdom.Style
	text     string
	children []*MemoryElement
	parent   *MemoryElement
}

// NodeID returns the document-unique node id
func (e *MemoryElement) NodeID() uint32 { return e.nodeID }

// Tag returns the tag name
func (e *MemoryElement) Tag() string { return e.tag }

// Namespace returns the namespace URI, empty for HTML elements
func (e *MemoryElement) Namespace() string { return e.ns }

// Parent returns the parent element or nil
func (e *MemoryElement) Parent() *MemoryElement { return e.parent }

// Children returns the element children in document order
func (e *MemoryElement) Children() []*MemoryElement { return e.children }

// Connected reports whether the element is attached under the body
func (e *MemoryElement) Connected() bool {
	for n := e; n != nil; n = n.parent {
		if n == e.doc.body {
			return true
		}
	}
	return false
}

// SetAttribute sets or replaces an attribute, keeping first-set order
func (e *MemoryElement) SetAttribute(key, value string) {
	set := false
	for i := range e.attrs {
		if e.attrs[i].key == key {
			e.attrs[i].value = value
			set = true
			break
		}
	}
	if !set {
		e.attrs = append(e.attrs, attr{key: key, value: value})
	}
	e.doc.emit(e, vdom.Patch{Op: vdom.OpSetAttribute, NodeID: e.nodeID, Key: key, Value: value})
}

// Attribute returns the attribute value or "" when unset
func (e *MemoryElement) Attribute(key string) string {
	for _, a := range e.attrs {
		if a.key == key {
			return a.value
		}
	}
	return ""
}

// SetStyle sets an inline style property
func (e *MemoryElement) SetStyle(prop, value string) {
	e.style = e.style.Set(prop, value)
	e.doc.emit(e, vdom.Patch{Op: vdom.OpSetStyle, NodeID: e.nodeID, Key: prop, Value: value})
}

// Style returns an inline style property or "" when unset
func (e *MemoryElement) Style(prop string) string {
	for _, d := range e.style {
		if d.Prop == prop {
			return d.Value
		}
	}
	return ""
}

// SetTextContent replaces children with text
func (e *MemoryElement) SetTextContent(text string) {
	for _, c := range e.children {
		c.parent = nil
	}
	e.children = nil
	e.text = text
	e.doc.emit(e, vdom.Patch{Op: vdom.OpReplaceText, NodeID: e.nodeID, Value: text})
}

// TextContent returns the concatenated text of the element and its descendants
func (e *MemoryElement) TextContent() string {
	text := e.text
	for _, c := range e.children {
		text += c.TextContent()
	}
	return text
}

// AppendChild appends child, detaching it from any previous parent.
// Elements from other documents are ignored.
func (e *MemoryElement) AppendChild(child Element) {
	c, ok := child.(*MemoryElement)
	if !ok || c.doc != e.doc {
		return
	}
	if c.parent != nil {
		c.parent.RemoveChild(c)
	}
	c.parent = e
	e.children = append(e.children, c)
	e.doc.emit(c, vdom.Patch{Op: vdom.OpInsertNode, NodeID: c.nodeID, ParentID: e.nodeID, Node: c.VNode(true)})
}

// RemoveChild detaches child if it is a direct child of e
func (e *MemoryElement) RemoveChild(child Element) {
	c, ok := child.(*MemoryElement)
	if !ok {
		return
	}
	for i, existing := range e.children {
		if existing != c {
			continue
		}
		// Emit while still connected so observers see the removal
		e.doc.emit(c, vdom.Patch{Op: vdom.OpRemoveNode, NodeID: c.nodeID, ParentID: e.nodeID})
		e.children = append(e.children[:i], e.children[i+1:]...)
		c.parent = nil
		return
	}
}

// ElementsByTag returns all descendants with the given tag in document order
func (e *MemoryElement) ElementsByTag(tag string) []*MemoryElement {
	var out []*MemoryElement
	for _, c := range e.children {
		if c.tag == tag {
			out = append(out, c)
		}
		out = append(out, c.ElementsByTag(tag)...)
	}
	return out
}

// VNode converts the subtree back into a vdom tree. With withIDs set, every
// element carries its node id in a data-nid attribute.
func (e *MemoryElement) VNode(withIDs bool) *vdom.VNode {
	props := make(vdom.Props, len(e.attrs)+2)
	for _, a := range e.attrs {
		props[a.key] = a.value
	}
	if len(e.style) > 0 {
		props["style"] = e.style
	}
	if withIDs {
		props["data-nid"] = strconv.FormatUint(uint64(e.nodeID), 10)
	}

	kids := make([]*vdom.VNode, 0, len(e.children)+1)
	if e.text != "" {
		kids = append(kids, vdom.NewText(e.text))
	}
	for _, c := range e.children {
		kids = append(kids, c.VNode(withIDs))
	}
	return vdom.NewElement(e.tag, props, kids...)
}

func (e *MemoryElement) find(match func(*MemoryElement) bool) *MemoryElement {
	if match(e) {
		return e
	}
	for _, c := range e.children {
		if found := c.find(match); found != nil {
			return found
		}
	}
	return nil
}

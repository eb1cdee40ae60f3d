//go:build js && wasm
// +build js,wasm

package dom

import (
	"syscall/js"
)

// jsDocument adapts the browser document
type jsDocument struct {
	document js.Value
}

// Global returns the browser's document
func Global() Document {
	return &jsDocument{document: js.Global().Get("document")}
}

// GetElementByID wraps document.getElementById
func (d *jsDocument) GetElementByID(id string) (Element, bool) {
	v := d.document.Call("getElementById", id)
	if v.IsNull() || v.IsUndefined() {
		return nil, false
	}
	return &JSElement{v: v}, true
}

// CreateElement wraps document.createElement
func (d *jsDocument) CreateElement(tag string) Element {
	return &JSElement{v: d.document.Call("createElement", tag)}
}

// CreateElementNS wraps document.createElementNS
func (d *jsDocument) CreateElementNS(ns, tag string) Element {
	return &JSElement{v: d.document.Call("createElementNS", ns, tag)}
}

// JSElement wraps a browser element
type JSElement struct {
	v js.Value
}

// Value returns the underlying js.Value
func (e *JSElement) Value() js.Value { return e.v }

// SetAttribute wraps element.setAttribute
func (e *JSElement) SetAttribute(key, value string) {
	e.v.Call("setAttribute", key, value)
}

// Attribute wraps element.getAttribute
func (e *JSElement) Attribute(key string) string {
	v := e.v.Call("getAttribute", key)
	if v.IsNull() || v.IsUndefined() {
		return ""
	}
	return v.String()
}

// SetStyle wraps element.style.setProperty
func (e *JSElement) SetStyle(prop, value string) {
	e.v.Get("style").Call("setProperty", prop, value)
}

// SetTextContent assigns textContent
func (e *JSElement) SetTextContent(text string) {
	e.v.Set("textContent", text)
}

// TextContent reads textContent
func (e *JSElement) TextContent() string {
	return e.v.Get("textContent").String()
}

// AppendChild wraps element.appendChild
func (e *JSElement) AppendChild(child Element) {
	if c, ok := child.(*JSElement); ok {
		e.v.Call("appendChild", c.v)
	}
}

// RemoveChild removes child when it is currently a child of e
func (e *JSElement) RemoveChild(child Element) {
	c, ok := child.(*JSElement)
	if !ok {
		return
	}
	parent := c.v.Get("parentNode")
	if !parent.IsNull() && !parent.IsUndefined() && parent.Equal(e.v) {
		e.v.Call("removeChild", c.v)
	}
}

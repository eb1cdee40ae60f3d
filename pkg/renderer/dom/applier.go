//go:build js && wasm
// +build js,wasm

package dom

import (
	"fmt"
	"strconv"
	"syscall/js"

	"github.com/recera/circles/pkg/vango/vdom"
)

// DOMApplier applies live patch frames to a browser subtree whose elements
// carry data-nid attributes
type DOMApplier struct {
	root    js.Value
	nodeMap map[uint32]js.Value
}

// NewDOMApplier creates an applier rooted at root
func NewDOMApplier(root js.Value) *DOMApplier {
	return &DOMApplier{
		root:    root,
		nodeMap: make(map[uint32]js.Value),
	}
}

// Mount replaces the root content with markup and forgets every cached node
func (a *DOMApplier) Mount(markup string) {
	a.root.Set("innerHTML", markup)
	a.nodeMap = make(map[uint32]js.Value)
}

// Apply applies patches in order. A patch addressed to a node that is no
// longer present is skipped.
func (a *DOMApplier) Apply(patches []vdom.Patch) error {
	for _, patch := range patches {
		if err := a.applyPatch(patch); err != nil {
			return err
		}
	}
	return nil
}

func (a *DOMApplier) applyPatch(patch vdom.Patch) error {
	switch patch.Op {
	case vdom.OpReplaceText:
		if node, ok := a.node(patch.NodeID); ok {
			node.Set("textContent", patch.Value)
		}
	case vdom.OpSetAttribute:
		if node, ok := a.node(patch.NodeID); ok {
			node.Call("setAttribute", patch.Key, patch.Value)
		}
	case vdom.OpSetStyle:
		if node, ok := a.node(patch.NodeID); ok {
			node.Get("style").Call("setProperty", patch.Key, patch.Value)
		}
	case vdom.OpRemoveNode:
		if node, ok := a.node(patch.NodeID); ok {
			node.Call("remove")
			delete(a.nodeMap, patch.NodeID)
		}
	case vdom.OpInsertNode:
		if parent, ok := a.node(patch.ParentID); ok {
			parent.Call("insertAdjacentHTML", "beforeend", patch.Value)
		}
	default:
		return fmt.Errorf("unknown patch operation: %v", patch.Op)
	}
	return nil
}

// node finds the element tagged with id, caching hits while they stay connected
func (a *DOMApplier) node(id uint32) (js.Value, bool) {
	if node, ok := a.nodeMap[id]; ok && node.Get("isConnected").Bool() {
		return node, true
	}
	node := a.root.Call("querySelector", `[data-nid="`+strconv.FormatUint(uint64(id), 10)+`"]`)
	if node.IsNull() || node.IsUndefined() {
		delete(a.nodeMap, id)
		return js.Null(), false
	}
	a.nodeMap[id] = node
	return node, true
}

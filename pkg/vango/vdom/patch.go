package vdom

import (
	"fmt"
)

// PatchOp represents the type of patch operation
type PatchOp uint8

const (
	// OpReplaceText replaces the text content of a node
	OpReplaceText PatchOp = 0x01
	// OpSetAttribute sets or replaces an attribute
	OpSetAttribute PatchOp = 0x02
	// OpRemoveNode removes a node
	OpRemoveNode PatchOp = 0x03
	// OpInsertNode inserts a new node
	OpInsertNode PatchOp = 0x04
	// OpSetStyle sets a single inline style property
	OpSetStyle PatchOp = 0x05
)

// Patch represents a single DOM mutation
type Patch struct {
	Op       PatchOp
	NodeID   uint32
	ParentID uint32 // For insert operations
	Key      string // Attribute or style key
	Value    string // Text content, attribute or style value
	Node     *VNode // For insert operations
}

// IsStructural reports whether the patch changes the shape of the tree
func (p Patch) IsStructural() bool {
	return p.Op == OpInsertNode || p.Op == OpRemoveNode
}

// String returns a human-readable representation of the patch
func (p Patch) String() string {
	switch p.Op {
	case OpReplaceText:
		return fmt.Sprintf("ReplaceText(node=%d, text=%q)", p.NodeID, p.Value)
	case OpSetAttribute:
		return fmt.Sprintf("SetAttribute(node=%d, key=%q, value=%q)", p.NodeID, p.Key, p.Value)
	case OpSetStyle:
		return fmt.Sprintf("SetStyle(node=%d, key=%q, value=%q)", p.NodeID, p.Key, p.Value)
	case OpRemoveNode:
		return fmt.Sprintf("RemoveNode(node=%d, parent=%d)", p.NodeID, p.ParentID)
	case OpInsertNode:
		return fmt.Sprintf("InsertNode(node=%d, parent=%d)", p.NodeID, p.ParentID)
	default:
		return fmt.Sprintf("Unknown(op=%d)", p.Op)
	}
}

package vdom

import (
	"strings"
	"testing"
)

func TestStyle_String(t *testing.T) {
	tests := []struct {
		name     string
		style    Style
		expected string
	}{
		{
			name:     "empty",
			style:    nil,
			expected: "",
		},
		{
			name:     "single declaration",
			style:    Style{{Prop: "position", Value: "relative"}},
			expected: "position:relative",
		},
		{
			name: "keeps declaration order",
			style: Style{
				{Prop: "position", Value: "absolute"},
				{Prop: "top", Value: "0"},
				{Prop: "left", Value: "0"},
			},
			expected: "position:absolute;top:0;left:0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.style.String(); got != tt.expected {
				t.Errorf("String() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestStyle_SetReplacesInPlace(t *testing.T) {
	s := Style{{Prop: "width", Value: "10px"}, {Prop: "height", Value: "10px"}}
	s2 := s.Set("width", "20px")

	if got := s2.String(); got != "width:20px;height:10px" {
		t.Errorf("Set() = %q", got)
	}
	// Original is untouched
	if got := s.String(); got != "width:10px;height:10px" {
		t.Errorf("original mutated: %q", got)
	}

	s3 := s.Set("color", "red")
	if !strings.HasSuffix(s3.String(), ";color:red") {
		t.Errorf("Set() should append new props, got %q", s3.String())
	}
}

func TestNewElement_Flags(t *testing.T) {
	plain := NewElement("div", Props{"class": "a"})
	if plain.HasFlag(FlagHasRef) {
		t.Error("plain element should not have FlagHasRef")
	}

	withRef := NewElement("path", Props{"ref": func() {}})
	if !withRef.HasFlag(FlagHasRef) {
		t.Error("element with ref should have FlagHasRef")
	}
}

func TestNewElement_SkipsNilChildren(t *testing.T) {
	node := NewElement("div", nil, NewText("a"), nil, NewText("b"))
	if len(node.Kids) != 2 {
		t.Fatalf("expected 2 kids, got %d", len(node.Kids))
	}
	if got := node.TextContent(); got != "ab" {
		t.Errorf("TextContent() = %q, want %q", got, "ab")
	}
}

func TestPatch_String(t *testing.T) {
	tests := []struct {
		patch    Patch
		expected string
	}{
		{Patch{Op: OpReplaceText, NodeID: 3, Value: "42"}, `ReplaceText(node=3, text="42")`},
		{Patch{Op: OpSetAttribute, NodeID: 2, Key: "d", Value: "M 0 0"}, `SetAttribute(node=2, key="d", value="M 0 0")`},
		{Patch{Op: OpRemoveNode, NodeID: 5, ParentID: 1}, `RemoveNode(node=5, parent=1)`},
	}

	for _, tt := range tests {
		if got := tt.patch.String(); got != tt.expected {
			t.Errorf("String() = %q, want %q", got, tt.expected)
		}
	}
	if !(Patch{Op: OpInsertNode}).IsStructural() {
		t.Error("insert should be structural")
	}
	if (Patch{Op: OpSetAttribute}).IsStructural() {
		t.Error("set attribute should not be structural")
	}
}

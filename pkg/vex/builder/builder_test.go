package builder

import (
	"testing"

	"github.com/recera/circles/pkg/dom"
	"github.com/recera/circles/pkg/vango/vdom"
)

func TestElementBuilder_SVGAttributes(t *testing.T) {
	node := Path().
		Fill("transparent").
		Stroke("#F00").
		StrokeWidth(10).
		D("M 1 2").
		Build()

	tests := map[string]string{
		"fill":         "transparent",
		"stroke":       "#F00",
		"stroke-width": "10",
		"d":            "M 1 2",
	}
	for key, want := range tests {
		if got := node.Props[key]; got != want {
			t.Errorf("props[%q] = %v, want %q", key, got, want)
		}
	}
}

func TestElementBuilder_NumbersUseShortestForm(t *testing.T) {
	node := Svg().Width(100).Height(12.5).Build()
	if node.Props["width"] != "100" {
		t.Errorf("width = %v", node.Props["width"])
	}
	if node.Props["height"] != "12.5" {
		t.Errorf("height = %v", node.Props["height"])
	}
}

func TestElementBuilder_CssCollectsStyle(t *testing.T) {
	node := Div().
		Css("position", "relative").
		Css("display", "inline-block").
		Css("position", "absolute").
		Build()

	style, ok := node.Props["style"].(vdom.Style)
	if !ok {
		t.Fatalf("style prop has type %T", node.Props["style"])
	}
	if got := style.String(); got != "position:absolute;display:inline-block" {
		t.Errorf("style = %q", got)
	}
}

func TestElementBuilder_NoStyleWithoutCss(t *testing.T) {
	node := Div().Class("").Build()
	if _, ok := node.Props["style"]; ok {
		t.Error("style prop should be absent")
	}
	if _, ok := node.Props["class"]; ok {
		t.Error("empty class should be skipped")
	}
}

func TestElementBuilder_RefAndChildren(t *testing.T) {
	called := false
	node := Div().
		Ref(func(dom.Element) { called = true }).
		Children(Span().Text("a").Build(), nil).
		Text("b").
		Build()

	if !node.HasFlag(vdom.FlagHasRef) {
		t.Error("ref flag should be set")
	}
	if len(node.Kids) != 2 {
		t.Fatalf("expected 2 kids, got %d", len(node.Kids))
	}
	if called {
		t.Error("ref must not run during Build")
	}
	if node.TextContent() != "ab" {
		t.Errorf("TextContent() = %q", node.TextContent())
	}
}

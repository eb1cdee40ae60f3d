package dom

import (
	"testing"

	"github.com/recera/circles/pkg/vango/vdom"
)

func TestBuild_NamespacesSVGSubtree(t *testing.T) {
	doc := NewMemoryDocument()
	tree := vdom.NewElement("div", nil,
		vdom.NewElement("svg", vdom.Props{"width": "100"},
			vdom.NewElement("path", vdom.Props{"d": "M 0 0"}),
		),
		vdom.NewElement("span", nil, vdom.NewText("label")),
	)

	root := Build(doc, tree).(*MemoryElement)

	if root.Namespace() != "" {
		t.Errorf("div should be an HTML element, got ns %q", root.Namespace())
	}
	svg := root.Children()[0]
	if svg.Namespace() != SVGNamespace {
		t.Errorf("svg namespace = %q, want %q", svg.Namespace(), SVGNamespace)
	}
	if path := svg.Children()[0]; path.Namespace() != SVGNamespace {
		t.Errorf("path should inherit the SVG namespace, got %q", path.Namespace())
	}
	if span := root.Children()[1]; span.Namespace() != "" || span.TextContent() != "label" {
		t.Errorf("span = ns %q text %q", span.Namespace(), span.TextContent())
	}
}

func TestBuild_StyleAndRefs(t *testing.T) {
	doc := NewMemoryDocument()

	var captured Element
	tree := vdom.NewElement("div", vdom.Props{
		"style": vdom.Style{{Prop: "position", Value: "relative"}, {Prop: "display", Value: "inline-block"}},
		"ref":   func(el Element) { captured = el },
		"id":    "wrap",
	})

	el := Build(doc, tree).(*MemoryElement)

	if captured != Element(el) {
		t.Fatal("ref callback should receive the built element")
	}
	if el.Style("position") != "relative" || el.Style("display") != "inline-block" {
		t.Errorf("styles not applied: position=%q display=%q", el.Style("position"), el.Style("display"))
	}
	if el.Attribute("ref") != "" || el.Attribute("style") != "" {
		t.Error("ref and style must not leak into attributes")
	}
	if el.Attribute("id") != "wrap" {
		t.Errorf("id = %q", el.Attribute("id"))
	}
}

func TestBuild_RejectsNonElementRoot(t *testing.T) {
	doc := NewMemoryDocument()
	if Build(doc, vdom.NewText("x")) != nil {
		t.Error("text root should not build")
	}
	if Build(doc, nil) != nil {
		t.Error("nil root should not build")
	}
}

func TestMemoryDocument_GetElementByID(t *testing.T) {
	doc := NewMemoryDocument()
	detached := doc.CreateElement("div")
	detached.SetAttribute("id", "ghost")

	if _, ok := doc.GetElementByID("ghost"); ok {
		t.Error("detached elements must not be found")
	}

	doc.Body().AppendChild(detached)
	el, ok := doc.GetElementByID("ghost")
	if !ok || el != detached {
		t.Error("connected element should be found by id")
	}
}

func TestMemoryDocument_ObservesConnectedMutations(t *testing.T) {
	doc := NewMemoryDocument()
	var patches []vdom.Patch
	doc.Observe(func(p vdom.Patch) { patches = append(patches, p) })

	el := doc.CreateElement("div").(*MemoryElement)
	el.SetAttribute("class", "detached")
	if len(patches) != 0 {
		t.Fatalf("detached mutations should not be observed, got %v", patches)
	}

	doc.Body().AppendChild(el)
	el.SetAttribute("class", "live")
	el.SetTextContent("42")
	doc.Body().RemoveChild(el)

	want := []vdom.PatchOp{vdom.OpInsertNode, vdom.OpSetAttribute, vdom.OpReplaceText, vdom.OpRemoveNode}
	if len(patches) != len(want) {
		t.Fatalf("got %d patches (%v), want %d", len(patches), patches, len(want))
	}
	for i, op := range want {
		if patches[i].Op != op {
			t.Errorf("patch %d op = %v, want %v", i, patches[i].Op, op)
		}
		if patches[i].NodeID != el.NodeID() {
			t.Errorf("patch %d node = %d, want %d", i, patches[i].NodeID, el.NodeID())
		}
	}
	if patches[1].Value != "live" || patches[2].Value != "42" {
		t.Errorf("unexpected patch values: %v", patches)
	}
}

func TestMemoryElement_AppendMovesChild(t *testing.T) {
	doc := NewMemoryDocument()
	a := doc.CreateElement("div").(*MemoryElement)
	b := doc.CreateElement("div").(*MemoryElement)
	child := doc.CreateElement("span").(*MemoryElement)

	a.AppendChild(child)
	b.AppendChild(child)

	if len(a.Children()) != 0 {
		t.Error("child should be detached from its previous parent")
	}
	if child.Parent() != b {
		t.Error("child should belong to the new parent")
	}
}

func TestMemoryElement_VNodeRoundTripsShape(t *testing.T) {
	doc := NewMemoryDocument()
	el := Build(doc, vdom.NewElement("div", vdom.Props{"id": "g"},
		vdom.NewElement("span", nil, vdom.NewText("30")),
	)).(*MemoryElement)

	node := el.VNode(true)
	if node.Tag != "div" || node.Props["id"] != "g" {
		t.Fatalf("unexpected root %+v", node)
	}
	if node.Props["data-nid"] == "" {
		t.Error("data-nid should be set when ids are requested")
	}
	if got := node.TextContent(); got != "30" {
		t.Errorf("TextContent() = %q", got)
	}
	if _, ok := el.VNode(false).Props["data-nid"]; ok {
		t.Error("data-nid must be omitted without ids")
	}
}

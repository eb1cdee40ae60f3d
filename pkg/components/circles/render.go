package circles

import (
	"github.com/recera/circles/pkg/dom"
	"github.com/recera/circles/pkg/vango/vdom"
	"github.com/recera/circles/pkg/vex/builder"
)

// handles receive the elements that animations mutate
type handles struct {
	indicator func(dom.Element)
	label     func(dom.Element)
}

// renderTree builds the wrapper, SVG and label for a graph
func renderTree(geom Geometry, o Options, percentage float64, label string, h handles) *vdom.VNode {
	track := builder.Path().
		Fill("transparent").
		Stroke(o.Colors[0]).
		StrokeWidth(o.Width).
		D(geom.ArcPath(100, false))

	indicator := builder.Path().
		Fill("transparent").
		Stroke(o.Colors[1]).
		StrokeWidth(o.Width).
		D(geom.ArcPath(percentage, true))
	if h.indicator != nil {
		indicator.Ref(h.indicator)
	}

	svg := builder.Svg().
		Xmlns().
		Width(geom.Size).
		Height(geom.Size).
		Children(track.Build(), indicator.Build())

	text := builder.Div().
		Css("position", "absolute").
		Css("top", "0").
		Css("left", "0").
		Css("text-align", "center").
		Css("width", "100%").
		Css("font-size", px(geom.Radius*0.7)).
		Css("height", px(geom.Size)).
		Css("line-height", px(geom.Size)).
		Text(label)
	if h.label != nil {
		text.Ref(h.label)
	}

	return builder.Div().
		Css("position", "relative").
		Css("display", "inline-block").
		Children(svg.Build(), text.Build()).
		Build()
}

// StaticVNode renders the final state of a graph without mounting it.
// Used for server-side markup and snapshots.
func StaticVNode(opts Options) *vdom.VNode {
	o := opts.withDefaults()
	p := clampPercent(percentOf(o))
	return renderTree(NewGeometry(o.Radius, o.Width), o, p, o.label(o.Value), handles{})
}

// label formats a label value, rounded to two decimals
func (o Options) label(v float64) string {
	return o.Text(round2(v))
}

func px(v float64) string {
	return num(v) + "px"
}

// RenderVNode returns the graph's current final state as a vdom tree
func (g *Graph) RenderVNode() *vdom.VNode {
	return renderTree(g.geom, g.opts, g.percentage, g.opts.label(g.opts.Value), handles{})
}

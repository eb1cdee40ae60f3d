package circles

import (
	"math"

	"github.com/recera/circles/pkg/dom"
	"github.com/recera/circles/pkg/scheduler"
)

// Graph is a mounted circular progress graph.
//
// A Graph is not safe for concurrent use. All calls, and the frames its
// scheduler runs, must happen on one goroutine: the browser's main thread,
// or a scheduler.Loop on the server.
type Graph struct {
	opts  Options
	geom  Geometry
	doc   dom.Document
	sched scheduler.FrameScheduler

	mount     dom.Element
	wrapper   dom.Element
	indicator dom.Element
	label     dom.Element

	// percentage is the stored target, clamped to [0, 100]
	percentage float64
	// displayed is what the indicator currently shows
	displayed float64

	pathFactor   float64
	numberFactor float64

	anim animator
}

// Create builds a graph inside the element whose id is opts.ID.
//
// When no such element exists, Create mutates nothing and returns a graph
// whose methods are all no-ops; Mounted reports false. A nil scheduler
// renders the final state straight away.
func Create(doc dom.Document, sched scheduler.FrameScheduler, opts Options) *Graph {
	o := opts.withDefaults()
	g := &Graph{
		opts:  o,
		geom:  NewGeometry(o.Radius, o.Width),
		doc:   doc,
		sched: sched,
	}
	g.percentage = clampPercent(g.Percent())

	if doc == nil {
		logf("circles: no document for graph", o.ID)
		return g
	}
	mount, ok := doc.GetElementByID(o.ID)
	if !ok {
		logf("circles: mount element not found:", o.ID)
		return g
	}
	g.mount = mount

	animated := false
	if o.Animated() && sched != nil {
		step := float64(o.Duration) / float64(scheduler.FrameInterval)
		g.pathFactor = g.Percent() / step
		g.numberFactor = o.Value / step
		animated = g.Percent() > 1+g.pathFactor
	}

	g.generate(animated)
	return g
}

// Percent returns value/maxValue*100, unclamped
func (g *Graph) Percent() float64 {
	return percentOf(g.opts)
}

func percentOf(o Options) float64 {
	return o.Value / o.MaxValue * 100
}

// Generate rebuilds the graph at its stored percentage with the label at the
// value. A positive radius replaces the stored one. Generate never animates;
// the previous subtree is removed before the new one is appended.
func (g *Graph) Generate(radius float64) {
	if g.mount == nil {
		return
	}
	if radius > 0 {
		g.opts.Radius = radius
	}
	g.geom = NewGeometry(g.opts.Radius, g.opts.Width)
	g.generate(false)
}

// generate mounts a fresh subtree. With entry set it starts from zero and
// runs the entry animation.
func (g *Graph) generate(entry bool) {
	g.anim.cancel()

	if g.wrapper != nil {
		g.mount.RemoveChild(g.wrapper)
		g.wrapper, g.indicator, g.label = nil, nil, nil
	}

	percentage, labelValue := g.percentage, g.opts.Value
	if entry {
		percentage, labelValue = 0, 0
	}

	g.displayed = percentage
	tree := renderTree(g.geom, g.opts, percentage, g.opts.label(labelValue), handles{
		indicator: func(el dom.Element) { g.indicator = el },
		label:     func(el dom.Element) { g.label = el },
	})
	g.wrapper = dom.Build(g.doc, tree)
	g.mount.AppendChild(g.wrapper)

	if entry {
		g.runEntry()
	}
}

func (g *Graph) runEntry() {
	s := newEntryStepper(g.pathFactor, g.numberFactor, g.Percent(), g.opts.Value,
		g.render,
		func() { g.render(g.percentage, g.opts.Value) },
	)
	g.anim.start(g.sched, s)
}

// UpdatePercent retargets the indicator and moves it one percent per frame
// until the next step would pass the new target. The label is left as is.
// NaN and values that clamp to the current percentage are ignored.
func (g *Graph) UpdatePercent(percent float64) {
	if g.mount == nil || math.IsNaN(percent) || clampPercent(percent) == g.percentage {
		return
	}

	from := g.percentage
	increasing := percent > from
	g.anim.cancel()
	g.percentage = clampPercent(percent)

	if g.sched == nil {
		g.setIndicator(g.percentage)
		return
	}
	target := g.percentage
	g.anim.start(g.sched, newUnitStepper(from, target, increasing, g.setIndicator, func() {
		g.setIndicator(target)
	}))
}

// Stop cancels a running animation and shows its final state
func (g *Graph) Stop() {
	g.anim.cancel()
}

// Animating reports whether frames are still being scheduled
func (g *Graph) Animating() bool {
	return g.anim.state == Animating
}

// State returns the animation state
func (g *Graph) State() AnimationState {
	return g.anim.state
}

// Mounted reports whether Create found its mount element
func (g *Graph) Mounted() bool {
	return g.mount != nil
}

// StoredPercent returns the clamped target percentage
func (g *Graph) StoredPercent() float64 {
	return g.percentage
}

// Displayed returns the percentage the indicator currently shows
func (g *Graph) Displayed() float64 {
	return g.displayed
}

// Geometry returns the current derived sizes
func (g *Graph) Geometry() Geometry {
	return g.geom
}

// Options returns the resolved options
func (g *Graph) Options() Options {
	return g.opts
}

// Element returns the mounted wrapper, or nil
func (g *Graph) Element() dom.Element {
	return g.wrapper
}

// Frames returns how many animation frames have rendered or aborted
func (g *Graph) Frames() int {
	return g.anim.frames
}

func (g *Graph) render(percentage, number float64) {
	g.setIndicator(percentage)
	if g.label != nil {
		g.label.SetTextContent(g.opts.label(number))
	}
}

func (g *Graph) setIndicator(percentage float64) {
	g.displayed = percentage
	if g.indicator != nil {
		g.indicator.SetAttribute("d", g.geom.ArcPath(percentage, true))
	}
}

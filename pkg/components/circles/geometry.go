package circles

import (
	"math"
	"strconv"
	"strings"
)

const (
	// startAngle is where every arc begins: twelve o'clock
	startAngle = -math.Pi / 180 * 90
	// totalSweep is the angle covered at 100%: three quarters of a turn
	totalSweep = math.Pi / 180 * 270
	// arcEpsilon keeps the arc end point distinct from its start point
	arcEpsilon = 0.001
)

// Geometry holds the derived sizes of a graph
type Geometry struct {
	Radius         float64 // outer radius
	StrokeWidth    float64 // ring width
	Size           float64 // SVG canvas width and height
	AdjustedRadius float64 // radius of the ring's centre line
	Start          float64 // start angle in radians, rounded to 3 decimals
	Sweep          float64 // angle covered at 100%
}

// NewGeometry derives the geometry for a radius and stroke width
func NewGeometry(radius, strokeWidth float64) Geometry {
	return Geometry{
		Radius:         radius,
		StrokeWidth:    strokeWidth,
		Size:           radius * 2,
		AdjustedRadius: radius - strokeWidth/2,
		Start:          precise(startAngle),
		Sweep:          totalSweep,
	}
}

// EndAngle returns the end angle for a percentage, clamped to [0, 100] and
// rounded to 3 decimals
func (g Geometry) EndAngle(percentage float64) float64 {
	return precise(startAngle + clampPercent(percentage)/100*g.Sweep)
}

// LargeArc reports the SVG large-arc flag for a percentage
func (g Geometry) LargeArc(percentage float64) bool {
	return g.EndAngle(percentage)-g.Start >= math.Pi
}

// ArcPath returns the SVG path data for an arc covering percentage of the
// sweep. Closed paths end with Z. The result depends only on the inputs.
func (g Geometry) ArcPath(percentage float64, open bool) string {
	end := g.EndAngle(percentage)
	endAdjusted := end - arcEpsilon

	longArc := "0"
	if end-g.Start >= math.Pi {
		longArc = "1"
	}

	parts := []string{
		"M",
		num(g.Radius + g.AdjustedRadius*math.Cos(g.Start)),
		num(g.Radius + g.AdjustedRadius*math.Sin(g.Start)),
		"A",
		num(g.AdjustedRadius), // x radius
		num(g.AdjustedRadius), // y radius
		"0",                   // x-axis rotation
		longArc,
		"1", // clockwise
		num(g.Radius + g.AdjustedRadius*math.Cos(endAdjusted)),
		num(g.Radius + g.AdjustedRadius*math.Sin(endAdjusted)),
	}
	if !open {
		parts = append(parts, "Z")
	}
	return strings.Join(parts, " ")
}

func precise(v float64) float64 {
	return math.Round(v*1000) / 1000
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Package raster draws circular graphs into bitmaps with gogpu/gg.
//
// The gauge is drawn from the same rounded angles the SVG path uses, so a
// PNG snapshot matches what the browser shows for the same percentage.
package raster

import (
	"fmt"
	"image"
	"image/color"
	"io"
	"math"
	"strings"

	"github.com/gogpu/gg"
	"golang.org/x/image/colornames"

	"github.com/recera/circles/pkg/components/circles"
)

// Gauge describes one frame of a circular graph
type Gauge struct {
	Size           int     // canvas width and height in pixels
	Radius         float64 // ring centre line radius
	StrokeWidth    float64
	Start          float64 // radians
	TrackSweep     float64 // radians covered by the track
	IndicatorSweep float64 // radians covered by the indicator
	TrackColor     string
	IndicatorColor string
}

// FromGeometry describes a graph with the given geometry at percentage
func FromGeometry(geom circles.Geometry, percentage float64, colors [2]string) Gauge {
	return Gauge{
		Size:           int(math.Ceil(geom.Size)),
		Radius:         geom.AdjustedRadius,
		StrokeWidth:    geom.StrokeWidth,
		Start:          geom.Start,
		TrackSweep:     geom.EndAngle(100) - geom.Start,
		IndicatorSweep: geom.EndAngle(percentage) - geom.Start,
		TrackColor:     colors[0],
		IndicatorColor: colors[1],
	}
}

// FromGraph describes a graph at its stored percentage
func FromGraph(g *circles.Graph) Gauge {
	return FromGeometry(g.Geometry(), g.StoredPercent(), g.Options().Colors)
}

// Render draws the gauge on a transparent canvas
func Render(g Gauge) (image.Image, error) {
	dc, err := draw(g)
	if err != nil {
		return nil, err
	}
	defer dc.Close()
	return dc.Image(), nil
}

// EncodePNG renders the gauge and writes it to w as PNG
func EncodePNG(w io.Writer, g Gauge) error {
	dc, err := draw(g)
	if err != nil {
		return err
	}
	defer dc.Close()
	return dc.EncodePNG(w)
}

func draw(g Gauge) (*gg.Context, error) {
	if g.Size <= 0 {
		return nil, fmt.Errorf("raster: invalid canvas size %d", g.Size)
	}
	track, err := ParseColor(g.TrackColor)
	if err != nil {
		return nil, err
	}
	indicator, err := ParseColor(g.IndicatorColor)
	if err != nil {
		return nil, err
	}

	dc := gg.NewContext(g.Size, g.Size)
	dc.Clear()
	dc.SetLineWidth(g.StrokeWidth)
	dc.SetLineCap(gg.LineCapButt)

	if err := strokeArc(dc, g, g.TrackSweep, track); err != nil {
		dc.Close()
		return nil, fmt.Errorf("raster: track: %w", err)
	}
	if err := strokeArc(dc, g, g.IndicatorSweep, indicator); err != nil {
		dc.Close()
		return nil, fmt.Errorf("raster: indicator: %w", err)
	}
	if err := dc.FlushGPU(); err != nil {
		dc.Close()
		return nil, fmt.Errorf("raster: flush: %w", err)
	}
	return dc, nil
}

func strokeArc(dc *gg.Context, g Gauge, sweep float64, c color.Color) error {
	if sweep <= 0 {
		return nil
	}
	centre := float64(g.Size) / 2
	dc.ClearPath()
	dc.SetColor(c)
	dc.DrawArc(centre, centre, g.Radius, g.Start, g.Start+sweep)
	return dc.Stroke()
}

// ParseColor accepts the CSS colours a graph is configured with: hex
// notation, named colours and "transparent"
func ParseColor(s string) (color.Color, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	switch {
	case s == "transparent":
		return color.Transparent, nil
	case strings.HasPrefix(s, "#"):
		switch len(s) {
		case 4, 5, 7, 9:
			if strings.Trim(s[1:], "0123456789abcdef") != "" {
				return nil, fmt.Errorf("raster: invalid hex colour %q", s)
			}
			return gg.Hex(s).Color(), nil
		}
		return nil, fmt.Errorf("raster: invalid hex colour %q", s)
	}
	if c, ok := colornames.Map[s]; ok {
		return c, nil
	}
	return nil, fmt.Errorf("raster: unknown colour %q", s)
}

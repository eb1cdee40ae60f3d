package builder

import (
	"strconv"

	"github.com/recera/circles/pkg/dom"
)

// === Sizing Attributes ===

// Width sets the width attribute
func (b *ElementBuilder) Width(width float64) *ElementBuilder {
	b.props["width"] = formatNumber(width)
	return b
}

// Height sets the height attribute
func (b *ElementBuilder) Height(height float64) *ElementBuilder {
	b.props["height"] = formatNumber(height)
	return b
}

// ViewBox sets the viewBox attribute
func (b *ElementBuilder) ViewBox(minX, minY, width, height float64) *ElementBuilder {
	b.props["viewBox"] = formatNumber(minX) + " " + formatNumber(minY) + " " +
		formatNumber(width) + " " + formatNumber(height)
	return b
}

// === SVG Presentation Attributes ===

// Xmlns sets the xmlns attribute to the SVG namespace
func (b *ElementBuilder) Xmlns() *ElementBuilder {
	b.props["xmlns"] = SVGNamespace
	return b
}

// Fill sets the fill attribute
func (b *ElementBuilder) Fill(fill string) *ElementBuilder {
	b.props["fill"] = fill
	return b
}

// Stroke sets the stroke attribute
func (b *ElementBuilder) Stroke(stroke string) *ElementBuilder {
	b.props["stroke"] = stroke
	return b
}

// StrokeWidth sets the stroke-width attribute
func (b *ElementBuilder) StrokeWidth(width float64) *ElementBuilder {
	b.props["stroke-width"] = formatNumber(width)
	return b
}

// D sets the path data attribute
func (b *ElementBuilder) D(d string) *ElementBuilder {
	b.props["d"] = d
	return b
}

// === Generic Attributes ===

// Data sets a data-* attribute
func (b *ElementBuilder) Data(key, value string) *ElementBuilder {
	b.props["data-"+key] = value
	return b
}

// Attr sets an arbitrary attribute
func (b *ElementBuilder) Attr(key string, value interface{}) *ElementBuilder {
	b.props[key] = value
	return b
}

// Ref registers a callback that receives the materialised element
func (b *ElementBuilder) Ref(ref func(dom.Element)) *ElementBuilder {
	b.props["ref"] = ref
	return b
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

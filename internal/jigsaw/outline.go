package jigsaw

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/gogpu/gg"
)

const (
	tabRatio  = 0.2
	neckRatio = 0.4
)

// Outline is the closed cut line of a single piece in local coordinates.
type Outline struct {
	Width   float64
	Height  float64
	Pattern EdgePattern
	path    *gg.Path
}

// TabSize is the depth of a tab or blank on a piece of the given size.
func TabSize(width, height float64) float64 {
	return math.Min(width, height) * tabRatio
}

// OutlinePadding is the margin a renderer has to leave around a piece so
// that protruding tabs stay visible.
func OutlinePadding(width, height float64) float64 {
	return TabSize(width, height)
}

func validDimension(v float64) bool {
	return v > 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}

// edgeFrame walks one side of the piece: a point at distance a along the
// side and o outward from it is start + a*along + o*out.
type edgeFrame struct {
	startX, startY float64
	alongX, alongY float64
	outX, outY     float64
	length         float64
}

func (f edgeFrame) at(a, o float64) (float64, float64) {
	return f.startX + a*f.alongX + o*f.outX, f.startY + a*f.alongY + o*f.outY
}

func (f edgeFrame) emit(p *gg.Path, side Side, tab, neck float64) {
	if side == Flat {
		x, y := f.at(f.length, 0)
		p.LineTo(x, y)
		return
	}
	mid := f.length / 2
	d := float64(side) * tab
	cubic := func(a1, o1, a2, o2, a3, o3 float64) {
		x1, y1 := f.at(a1, o1)
		x2, y2 := f.at(a2, o2)
		x3, y3 := f.at(a3, o3)
		p.CubicTo(x1, y1, x2, y2, x3, y3)
	}

	x, y := f.at(mid-neck, 0)
	p.LineTo(x, y)
	cubic(mid-neck, d*0.3, mid-tab, d*0.3, mid-tab, d*0.6)
	cubic(mid-tab, d, mid+tab, d, mid+tab, d*0.6)
	cubic(mid+tab, d*0.3, mid+neck, d*0.3, mid+neck, 0)
	x, y = f.at(f.length, 0)
	p.LineTo(x, y)
}

// BuildOutline traces the piece clockwise (in screen coordinates) starting
// at its top-left corner: top, right, bottom, left. The whole outline is
// shifted by (offsetX, offsetY).
func BuildOutline(width, height float64, pattern EdgePattern, offsetX, offsetY float64) (*Outline, error) {
	if !validDimension(width) || !validDimension(height) {
		return nil, fmt.Errorf("%w: piece size %vx%v", ErrInvalidDimension, width, height)
	}

	tab := TabSize(width, height)
	neck := tab * neckRatio
	x0, y0 := offsetX, offsetY
	x1, y1 := offsetX+width, offsetY+height

	frames := [4]struct {
		frame edgeFrame
		side  Side
	}{
		{edgeFrame{x0, y0, 1, 0, 0, -1, width}, pattern.Top},
		{edgeFrame{x1, y0, 0, 1, 1, 0, height}, pattern.Right},
		{edgeFrame{x1, y1, -1, 0, 0, 1, width}, pattern.Bottom},
		{edgeFrame{x0, y1, 0, -1, -1, 0, height}, pattern.Left},
	}

	path := gg.NewPath()
	path.MoveTo(x0, y0)
	for _, f := range frames {
		f.frame.emit(path, f.side, tab, neck)
	}
	path.Close()

	return &Outline{
		Width:   width,
		Height:  height,
		Pattern: pattern,
		path:    path,
	}, nil
}

// Path returns the outline as a gg path, ready for clipping or stroking.
func (o *Outline) Path() *gg.Path {
	return o.path
}

func (o *Outline) Elements() []gg.PathElement {
	return o.path.Elements()
}

func (o *Outline) Bounds() gg.Rect {
	return o.path.BoundingBox()
}

func (o *Outline) Contains(x, y float64) bool {
	return o.path.Contains(gg.Pt(x, y))
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// SVG renders the outline as the d attribute of an SVG path element.
func (o *Outline) SVG() string {
	var b strings.Builder
	pt := func(p gg.Point) {
		b.WriteString(formatCoord(p.X))
		b.WriteByte(' ')
		b.WriteString(formatCoord(p.Y))
	}
	for i, elem := range o.path.Elements() {
		if i > 0 {
			b.WriteByte(' ')
		}
		switch e := elem.(type) {
		case gg.MoveTo:
			b.WriteString("M ")
			pt(e.Point)
		case gg.LineTo:
			b.WriteString("L ")
			pt(e.Point)
		case gg.CubicTo:
			b.WriteString("C ")
			pt(e.Control1)
			b.WriteString(", ")
			pt(e.Control2)
			b.WriteString(", ")
			pt(e.Point)
		case gg.Close:
			b.WriteString("Z")
		}
	}
	return b.String()
}

// Package pdftext exposes the text layer of a PDF as positioned words and
// provides literal phrase search over it.
//
// All coordinates are in PDF user space: origin at the lower-left corner
// of the page, y increasing upward. This matches the coordinate space of
// annotation QuadPoints, so regions found here can be handed to the
// annotation writer unchanged.
package pdftext

// Point is a position in PDF user space.
type Point struct {
	X, Y float64
}

// Rect is an axis-aligned rectangle with X0 <= X1 and Y0 <= Y1.
type Rect struct {
	X0, Y0, X1, Y1 float64
}

// Width returns the horizontal extent of the rectangle.
func (r Rect) Width() float64 {
	return r.X1 - r.X0
}

// Height returns the vertical extent of the rectangle.
func (r Rect) Height() float64 {
	return r.Y1 - r.Y0
}

// IsEmpty reports whether the rectangle has no area.
func (r Rect) IsEmpty() bool {
	return r.X1 <= r.X0 || r.Y1 <= r.Y0
}

// Union returns the smallest rectangle covering both r and o.
func (r Rect) Union(o Rect) Rect {
	if o.X0 < r.X0 {
		r.X0 = o.X0
	}
	if o.Y0 < r.Y0 {
		r.Y0 = o.Y0
	}
	if o.X1 > r.X1 {
		r.X1 = o.X1
	}
	if o.Y1 > r.Y1 {
		r.Y1 = o.Y1
	}
	return r
}

// Overlaps reports whether r and o share any area.
func (r Rect) Overlaps(o Rect) bool {
	return r.X0 < o.X1 && o.X0 < r.X1 && r.Y0 < o.Y1 && o.Y0 < r.Y1
}

// Quad returns the rectangle as a quadrilateral.
func (r Rect) Quad() Quad {
	return Quad{
		{r.X0, r.Y0}, // bottom-left
		{r.X1, r.Y0}, // bottom-right
		{r.X1, r.Y1}, // top-right
		{r.X0, r.Y1}, // top-left
	}
}

// Quad is a four-point polygon locating a span of text on a page. The
// corners are in counterclockwise order starting at the bottom-left, the
// order PDF text-markup annotations expect.
type Quad [4]Point

// Bounds returns the axis-aligned bounding rectangle of the quad.
func (q Quad) Bounds() Rect {
	r := Rect{X0: q[0].X, Y0: q[0].Y, X1: q[0].X, Y1: q[0].Y}
	for _, p := range q[1:] {
		if p.X < r.X0 {
			r.X0 = p.X
		}
		if p.X > r.X1 {
			r.X1 = p.X
		}
		if p.Y < r.Y0 {
			r.Y0 = p.Y
		}
		if p.Y > r.Y1 {
			r.Y1 = p.Y
		}
	}
	return r
}

// Word is one token of the page's text layer with its bounding box.
type Word struct {
	Rect Rect
	Text string
}

package canvas

import (
	"fmt"
	"strconv"
	"strings"
)

type Kind int

const (
	KindRectangle Kind = iota
	KindCircle
	KindTriangle
)

var allKinds = []Kind{KindRectangle, KindCircle, KindTriangle}

func (k Kind) String() string {
	switch k {
	case KindRectangle:
		return "rectangle"
	case KindCircle:
		return "circle"
	case KindTriangle:
		return "triangle"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// RGB is an opaque 24-bit color.
type RGB struct {
	R uint8
	G uint8
	B uint8
}

// Hex formats the color as "#RRGGBB".
func (c RGB) Hex() string {
	return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
}

// ParseHex accepts "#RRGGBB", "RRGGBB" or the short "#RGB" form.
func ParseHex(s string) (RGB, error) {
	h := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(h) == 3 {
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
	}
	if len(h) != 6 {
		return RGB{}, fmt.Errorf("color %q: expected 6 hex digits", s)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return RGB{}, fmt.Errorf("color %q: %w", s, err)
	}
	return RGB{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v)}, nil
}

// Shape is positioned by its center in scene space. Size is the bounding
// dimension: side for rectangles, diameter for circles, base and height for
// triangles.
type Shape struct {
	ID       string
	Kind     Kind
	Position Point
	Size     float64
	Color    RGB
}

// Contains reports whether the scene point p lies inside the shape.
func (s Shape) Contains(p Point) bool {
	half := s.Size / 2
	dx := p.X - s.Position.X
	dy := p.Y - s.Position.Y
	switch s.Kind {
	case KindRectangle:
		return dx >= -half && dx <= half && dy >= -half && dy <= half
	case KindCircle:
		return dx*dx+dy*dy <= half*half
	case KindTriangle:
		a, b, c := s.TriangleVertices()
		return pointInTriangle(p, a, b, c)
	}
	return false
}

// TriangleVertices returns the apex, bottom-left and bottom-right corners.
func (s Shape) TriangleVertices() (Point, Point, Point) {
	half := s.Size / 2
	x, y := s.Position.X, s.Position.Y
	return Point{X: x, Y: y - half}, Point{X: x - half, Y: y + half}, Point{X: x + half, Y: y + half}
}

func pointInTriangle(p, a, b, c Point) bool {
	d1 := cross(p, a, b)
	d2 := cross(p, b, c)
	d3 := cross(p, c, a)
	hasNeg := d1 < 0 || d2 < 0 || d3 < 0
	hasPos := d1 > 0 || d2 > 0 || d3 > 0
	return !(hasNeg && hasPos)
}

func cross(p, a, b Point) float64 {
	return (p.X-b.X)*(a.Y-b.Y) - (a.X-b.X)*(p.Y-b.Y)
}

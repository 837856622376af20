package canvas

import "math"

type gestureKind int

const (
	gestureResize gestureKind = iota + 1
	gesturePan
	gestureShapeDrag
)

// gesture lives from pointer-down to pointer-up.
type gesture struct {
	kind  gestureKind
	start Point
	last  Point

	// shapeID is the active resize target or the shape being dragged.
	shapeID string
	// grab is the pointer's scene position relative to the dragged shape's
	// center at press time.
	grab  Point
	moved bool

	prevX    float64
	hasPrevX bool
}

func newGesture(kind gestureKind, p Point) *gesture {
	return &gesture{kind: kind, start: p, last: p}
}

// travelled records p and reports whether the pointer has ever left the
// slop radius around the press point.
func (g *gesture) travelled(p Point, slop float64) bool {
	if !g.moved && math.Hypot(p.X-g.start.X, p.Y-g.start.Y) >= slop {
		g.moved = true
	}
	return g.moved
}

// pinchState tracks the previous two-finger distance between touch events.
type pinchState struct {
	prevDistance float64
	active       bool
}

func (ps *pinchState) ratio(distance float64) (float64, bool) {
	if distance <= 0 || math.IsNaN(distance) || math.IsInf(distance, 0) {
		return 0, false
	}
	if !ps.active {
		ps.active = true
		ps.prevDistance = distance
		return 0, false
	}
	r := distance / ps.prevDistance
	ps.prevDistance = distance
	return r, true
}

func (ps *pinchState) end() {
	*ps = pinchState{}
}

package canvas

import "math"

// Point is a 2D coordinate, in either screen or scene space depending on use.
type Point struct {
	X float64
	Y float64
}

func (p Point) Add(q Point) Point { return Point{X: p.X + q.X, Y: p.Y + q.Y} }
func (p Point) Sub(q Point) Point { return Point{X: p.X - q.X, Y: p.Y - q.Y} }

// Valid reports whether both coordinates are finite. Hosts use NaN to signal
// that no pointer position is available.
func (p Point) Valid() bool {
	return !math.IsNaN(p.X) && !math.IsNaN(p.Y) && !math.IsInf(p.X, 0) && !math.IsInf(p.Y, 0)
}

// Viewport maps scene space to screen space: screen = scene*Scale + Offset.
type Viewport struct {
	Scale  float64
	Offset Point
}

func IdentityViewport() Viewport {
	return Viewport{Scale: 1}
}

func (v Viewport) ScreenToScene(p Point) Point {
	return Point{X: (p.X - v.Offset.X) / v.Scale, Y: (p.Y - v.Offset.Y) / v.Scale}
}

func (v Viewport) SceneToScreen(p Point) Point {
	return Point{X: p.X*v.Scale + v.Offset.X, Y: p.Y*v.Scale + v.Offset.Y}
}

// Zoom scales around a screen anchor. A negative delta zooms in, a positive
// delta zooms out and zero or NaN leaves the viewport unchanged. The scene point
// under the anchor stays under the anchor.
func (v Viewport) Zoom(anchor Point, delta float64, lim ZoomLimits) Viewport {
	if delta == 0 || math.IsNaN(delta) || !anchor.Valid() {
		return v
	}
	newScale := v.Scale
	if delta < 0 {
		newScale *= lim.Factor
	} else {
		newScale /= lim.Factor
	}
	newScale = lim.clamp(newScale)

	pointTo := v.ScreenToScene(anchor)
	return Viewport{
		Scale: newScale,
		Offset: Point{
			X: anchor.X - pointTo.X*newScale,
			Y: anchor.Y - pointTo.Y*newScale,
		},
	}
}

func (v Viewport) Pan(delta Point) Viewport {
	if !delta.Valid() {
		return v
	}
	v.Offset = v.Offset.Add(delta)
	return v
}

// Pinch multiplies the scale by ratio. The offset is left alone, so a pinch
// zooms about the scene origin rather than the pinch midpoint.
func (v Viewport) Pinch(ratio float64, lim ZoomLimits) Viewport {
	if ratio <= 0 || math.IsNaN(ratio) || math.IsInf(ratio, 0) {
		return v
	}
	v.Scale = lim.clamp(v.Scale * ratio)
	return v
}

// ZoomLimits bounds the viewport scale and sets the wheel step.
type ZoomLimits struct {
	Factor   float64
	MinScale float64
	MaxScale float64
}

func DefaultZoomLimits() ZoomLimits {
	return ZoomLimits{Factor: 1.1, MinScale: 0.1, MaxScale: 10}
}

func (l ZoomLimits) clamp(scale float64) float64 {
	if scale > l.MaxScale {
		scale = l.MaxScale
	}
	if scale < l.MinScale {
		scale = l.MinScale
	}
	return scale
}

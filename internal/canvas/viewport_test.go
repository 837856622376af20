package canvas

import (
	"math"
	"testing"
)

const eps = 1e-9

func near(a, b float64) bool { return math.Abs(a-b) <= eps*math.Max(1, math.Abs(b)) }

func nearPoint(a, b Point) bool { return near(a.X, b.X) && near(a.Y, b.Y) }

func TestZoomKeepsAnchorFixed(t *testing.T) {
	lim := DefaultZoomLimits()
	v := Viewport{Scale: 1.7, Offset: Point{X: -35, Y: 12.5}}
	anchors := []Point{{X: 0, Y: 0}, {X: 400, Y: 300}, {X: -80, Y: 1280}, {X: 999.5, Y: 3}}
	deltas := []float64{-1, -1, 1, -3, 1, 1, 1, -1, -1, -1, -1}
	for _, anchor := range anchors {
		cur := v
		for _, d := range deltas {
			before := cur.ScreenToScene(anchor)
			cur = cur.Zoom(anchor, d, lim)
			after := cur.ScreenToScene(anchor)
			if !nearPoint(before, after) {
				t.Fatalf("anchor %v drifted: %v -> %v", anchor, before, after)
			}
			if got := cur.SceneToScreen(before); !nearPoint(got, anchor) {
				t.Fatalf("scene point maps to %v, want %v", got, anchor)
			}
		}
	}
}

func TestWheelZoomInFromIdentity(t *testing.T) {
	v := IdentityViewport().Zoom(Point{X: 400, Y: 300}, -1, DefaultZoomLimits())
	if !near(v.Scale, 1.1) {
		t.Fatalf("expected scale 1.1, got %v", v.Scale)
	}
	if got := v.SceneToScreen(Point{X: 400, Y: 300}); !nearPoint(got, Point{X: 400, Y: 300}) {
		t.Fatalf("scene (400,300) maps to %v", got)
	}
	if !near(v.Offset.X, -40) || !near(v.Offset.Y, -30) {
		t.Fatalf("unexpected offset %v", v.Offset)
	}
}

func TestZoomOutDividesByFactor(t *testing.T) {
	v := IdentityViewport().Zoom(Point{}, 1, DefaultZoomLimits())
	if !near(v.Scale, 1/1.1) {
		t.Fatalf("expected scale 1/1.1, got %v", v.Scale)
	}
}

func TestZeroDeltaIsNoop(t *testing.T) {
	v := Viewport{Scale: 2, Offset: Point{X: 5, Y: 6}}
	if got := v.Zoom(Point{X: 10, Y: 10}, 0, DefaultZoomLimits()); got != v {
		t.Fatalf("zero delta changed viewport: %v", got)
	}
	if got := v.Zoom(Point{X: 10, Y: 10}, math.NaN(), DefaultZoomLimits()); got != v {
		t.Fatalf("NaN delta changed viewport: %v", got)
	}
}

func TestScaleStaysBounded(t *testing.T) {
	lim := DefaultZoomLimits()
	v := IdentityViewport()
	for i := 0; i < 200; i++ {
		v = v.Zoom(Point{X: 10, Y: 20}, -1, lim)
		v = v.Pinch(1.3, lim)
		if v.Scale > lim.MaxScale || v.Scale < lim.MinScale {
			t.Fatalf("scale out of range: %v", v.Scale)
		}
	}
	if v.Scale != lim.MaxScale {
		t.Fatalf("expected scale pinned at max, got %v", v.Scale)
	}
	for i := 0; i < 200; i++ {
		v = v.Pinch(0.5, lim)
		v = v.Zoom(Point{X: 10, Y: 20}, 1, lim)
		if v.Scale > lim.MaxScale || v.Scale < lim.MinScale {
			t.Fatalf("scale out of range: %v", v.Scale)
		}
	}
	if v.Scale != lim.MinScale {
		t.Fatalf("expected scale pinned at min, got %v", v.Scale)
	}
}

func TestZoomAtClampKeepsAnchor(t *testing.T) {
	lim := DefaultZoomLimits()
	v := Viewport{Scale: lim.MaxScale, Offset: Point{X: 3, Y: 4}}
	anchor := Point{X: 250, Y: 125}
	before := v.ScreenToScene(anchor)
	v = v.Zoom(anchor, -1, lim)
	if !nearPoint(before, v.ScreenToScene(anchor)) {
		t.Fatalf("clamped zoom moved the anchor")
	}
}

func TestPinchIgnoresOffsetAndBadRatios(t *testing.T) {
	lim := DefaultZoomLimits()
	v := Viewport{Scale: 1, Offset: Point{X: 7, Y: 9}}
	got := v.Pinch(2, lim)
	if got.Scale != 2 || got.Offset != v.Offset {
		t.Fatalf("unexpected pinch result %v", got)
	}
	for _, r := range []float64{0, -1, math.NaN(), math.Inf(1)} {
		if got := v.Pinch(r, lim); got != v {
			t.Fatalf("ratio %v changed viewport", r)
		}
	}
}

func TestPanAddsDelta(t *testing.T) {
	v := IdentityViewport().Pan(Point{X: 15, Y: -4}).Pan(Point{X: 5, Y: 4})
	if v.Offset != (Point{X: 20, Y: 0}) || v.Scale != 1 {
		t.Fatalf("unexpected pan result %v", v)
	}
}

func TestCoordinateRoundTrip(t *testing.T) {
	views := []Viewport{
		IdentityViewport(),
		{Scale: 0.1, Offset: Point{X: 500, Y: -200}},
		{Scale: 3.3, Offset: Point{X: -17.25, Y: 81}},
		{Scale: 10, Offset: Point{X: 0.5, Y: 0.25}},
	}
	points := []Point{{}, {X: 1, Y: 1}, {X: -640, Y: 480}, {X: 1e5, Y: -3e4}}
	for _, v := range views {
		for _, p := range points {
			if got := v.SceneToScreen(v.ScreenToScene(p)); !nearPoint(got, p) {
				t.Fatalf("round trip %v via %v gave %v", p, v, got)
			}
		}
	}
}

package canvas

import (
	"fmt"
	"math"
	"testing"

	"shapecanvas/internal/platform"
)

func newTestSession(t *testing.T, mutate func(*Options)) *Session {
	t.Helper()
	opts := DefaultOptions()
	if mutate != nil {
		mutate(&opts)
	}
	n := 0
	return NewSession(opts, WithSeed(42), WithIDFunc(func() string {
		n++
		return fmt.Sprintf("shape-%d", n)
	}))
}

func click(s *Session, x, y float64) {
	s.PointerDown(Point{X: x, Y: y}, platform.TargetAuto, "")
	s.PointerUp(Point{X: x, Y: y})
}

func TestBackgroundClickCreatesShapeAtScenePoint(t *testing.T) {
	s := newTestSession(t, nil)
	click(s, 100, 100)

	shapes := s.Shapes()
	if len(shapes) != 1 {
		t.Fatalf("expected 1 shape, got %d", len(shapes))
	}
	if shapes[0].Position != (Point{X: 100, Y: 100}) {
		t.Fatalf("unexpected position %v", shapes[0].Position)
	}
	if shapes[0].ID != "shape-1" {
		t.Fatalf("unexpected id %q", shapes[0].ID)
	}
	lim := s.Options().Sizes
	if shapes[0].Size < lim.SpawnMin || shapes[0].Size > lim.SpawnMax {
		t.Fatalf("spawn size %v outside [%v,%v]", shapes[0].Size, lim.SpawnMin, lim.SpawnMax)
	}
}

func TestClickUsesViewportTransform(t *testing.T) {
	s := newTestSession(t, nil)
	s.Wheel(Point{X: 400, Y: 300}, -1)
	s.SelectMode(ModePanCanvas)
	s.PointerDown(Point{X: 0, Y: 0}, platform.TargetBackground, "")
	s.PointerMove(Point{X: 30, Y: 40})
	s.PointerUp(Point{X: 30, Y: 40})
	s.SelectMode(ModePlaceOnClick)

	screen := Point{X: 1000, Y: 1000}
	want := s.Viewport().ScreenToScene(screen)
	s.PointerDown(screen, platform.TargetBackground, "")
	s.PointerUp(screen)
	shapes := s.Shapes()
	if len(shapes) != 1 || !nearPoint(shapes[0].Position, want) {
		t.Fatalf("expected shape at %v, got %+v", want, shapes)
	}
}

func TestShapeClickOpensEditorWithoutCreating(t *testing.T) {
	s := newTestSession(t, nil)
	click(s, 200, 200)
	click(s, 202, 201)

	if s.ShapeCount() != 1 {
		t.Fatalf("clicking a shape created another: %d shapes", s.ShapeCount())
	}
	ed, ok := s.Editing()
	if !ok {
		t.Fatalf("expected editor to open")
	}
	if ed.ShapeID != "shape-1" || ed.Anchor != (Point{X: 202, Y: 201}) {
		t.Fatalf("unexpected edit target %+v", ed)
	}

	// Background press closes the popup and is swallowed.
	click(s, 900, 900)
	if _, ok := s.Editing(); ok {
		t.Fatalf("expected editor to close")
	}
	if s.ShapeCount() != 1 {
		t.Fatalf("closing click created a shape")
	}
	click(s, 900, 900)
	if s.ShapeCount() != 2 {
		t.Fatalf("expected second shape after popup closed, got %d", s.ShapeCount())
	}
}

func TestShapeClickOpensEditorInAnyMode(t *testing.T) {
	for _, m := range []Mode{ModeDrawToResize, ModePanCanvas, ModeNone} {
		s := newTestSession(t, nil)
		click(s, 50, 50)
		s.SelectMode(m)
		if s.Mode() != m {
			t.Fatalf("expected mode %v, got %v", m, s.Mode())
		}
		before := s.Viewport()
		click(s, 50, 50)
		if _, ok := s.Editing(); !ok {
			t.Fatalf("mode %v: expected editor", m)
		}
		if s.ShapeCount() != 1 || s.Viewport() != before {
			t.Fatalf("mode %v: shape click had side effects", m)
		}
	}
}

func TestShapeDragKeepsGrabOffset(t *testing.T) {
	s := newTestSession(t, nil)
	click(s, 100, 100)
	s.Wheel(Point{}, -1) // scale 1.1, offset 0

	start := Point{X: 112, Y: 108}
	s.PointerDown(start, platform.TargetAuto, "")
	s.PointerMove(Point{X: 122, Y: 108})
	s.PointerMove(Point{X: 134, Y: 130})
	s.PointerUp(Point{X: 134, Y: 130})

	sh, _ := s.Shape("shape-1")
	want := Point{X: 100 + 22/1.1, Y: 100 + 22/1.1}
	if !nearPoint(sh.Position, want) {
		t.Fatalf("expected %v, got %v", want, sh.Position)
	}
	if _, ok := s.Editing(); ok {
		t.Fatalf("drag must not open the editor")
	}
}

func TestTopmostShapeIsDragged(t *testing.T) {
	s := newTestSession(t, nil)
	s.AddShapeAt(Point{X: 10, Y: 10})
	s.AddShapeAt(Point{X: 12, Y: 12})
	s.PointerDown(Point{X: 11, Y: 11}, platform.TargetAuto, "")
	s.PointerMove(Point{X: 61, Y: 11})
	s.PointerUp(Point{X: 61, Y: 11})

	first, _ := s.Shape("shape-1")
	second, _ := s.Shape("shape-2")
	if first.Position != (Point{X: 10, Y: 10}) {
		t.Fatalf("bottom shape moved to %v", first.Position)
	}
	if second.Position != (Point{X: 62, Y: 12}) {
		t.Fatalf("top shape at %v", second.Position)
	}
}

func TestDrawModeGrowsByStep(t *testing.T) {
	s := newTestSession(t, nil)
	s.SelectMode(ModeDrawToResize)
	s.PointerDown(Point{X: 300, Y: 300}, platform.TargetBackground, "")
	id := s.ActiveShape()
	if id == "" {
		t.Fatalf("expected active shape")
	}
	start, _ := s.Shape(id)
	for i := 0; i < 5; i++ {
		s.PointerMove(Point{X: 300 - float64(i), Y: 300})
	}
	s.PointerUp(Point{X: 295, Y: 300})
	if s.ActiveShape() != "" {
		t.Fatalf("active shape not cleared")
	}
	got, _ := s.Shape(id)
	if !near(got.Size, start.Size+5) {
		t.Fatalf("expected size %v, got %v", start.Size+5, got.Size)
	}

	s.PointerMove(Point{X: 400, Y: 400})
	after, _ := s.Shape(id)
	if after.Size != got.Size {
		t.Fatalf("move after release changed size")
	}
}

func TestDrawModeHorizontalGrowth(t *testing.T) {
	s := newTestSession(t, func(o *Options) { o.Growth = GrowthHorizontal })
	s.SelectMode(ModeDrawToResize)
	s.PointerDown(Point{X: 100, Y: 100}, platform.TargetBackground, "")
	id := s.ActiveShape()
	start, _ := s.Shape(id)

	s.PointerMove(Point{X: 140, Y: 100}) // records prevX only
	s.PointerMove(Point{X: 150, Y: 90})
	s.PointerMove(Point{X: 147, Y: 90})
	got, _ := s.Shape(id)
	if !near(got.Size, start.Size+7) {
		t.Fatalf("expected size %v, got %v", start.Size+7, got.Size)
	}
	s.PointerUp(Point{X: 147, Y: 90})

	// A fresh gesture starts without a previous X.
	s.PointerDown(Point{X: 600, Y: 600}, platform.TargetBackground, "")
	id2 := s.ActiveShape()
	start2, _ := s.Shape(id2)
	s.PointerMove(Point{X: 900, Y: 600})
	got2, _ := s.Shape(id2)
	if got2.Size != start2.Size {
		t.Fatalf("first move of a gesture grew the shape")
	}
}

func TestSizesStayBounded(t *testing.T) {
	s := newTestSession(t, func(o *Options) { o.Growth = GrowthHorizontal })
	lim := s.Options().Sizes
	s.SelectMode(ModeDrawToResize)
	s.PointerDown(Point{X: 0, Y: 0}, platform.TargetBackground, "")
	id := s.ActiveShape()
	s.PointerMove(Point{X: 0, Y: 0})
	s.PointerMove(Point{X: 5000, Y: 0})
	if sh, _ := s.Shape(id); sh.Size != lim.Max {
		t.Fatalf("expected max size, got %v", sh.Size)
	}
	s.PointerMove(Point{X: -5000, Y: 0})
	if sh, _ := s.Shape(id); sh.Size != lim.Min {
		t.Fatalf("expected min size, got %v", sh.Size)
	}
	s.PointerUp(Point{X: -5000, Y: 0})

	s.Resize(id, 1e6)
	if sh, _ := s.Shape(id); sh.Size != lim.Max {
		t.Fatalf("resize not clamped: %v", sh.Size)
	}
	s.Resize(id, -3)
	if sh, _ := s.Shape(id); sh.Size != lim.Min {
		t.Fatalf("resize not clamped: %v", sh.Size)
	}
	if s.Resize(id, math.NaN()) {
		t.Fatalf("NaN resize accepted")
	}

	for i := 0; i < 50; i++ {
		s.AddShapeAt(Point{X: float64(i), Y: 0})
	}
	for _, sh := range s.Shapes() {
		if sh.Size < lim.Min || sh.Size > lim.Max {
			t.Fatalf("shape %s size %v out of range", sh.ID, sh.Size)
		}
	}
}

func TestSetOptionsReclampsShapes(t *testing.T) {
	s := newTestSession(t, nil)
	id := s.AddShapeAt(Point{})
	s.Resize(id, 150)
	narrow := DefaultOptions()
	narrow.Sizes = SizeLimits{Min: 10, Max: 60, SpawnMin: 10, SpawnMax: 60}
	narrow.Zoom.MaxScale = 2
	for i := 0; i < 20; i++ {
		s.Wheel(Point{}, -1)
	}
	s.SetOptions(narrow)
	if sh, _ := s.Shape(id); sh.Size != 60 {
		t.Fatalf("expected size 60 after narrowing, got %v", sh.Size)
	}
	if s.Viewport().Scale != 2 {
		t.Fatalf("expected scale 2, got %v", s.Viewport().Scale)
	}
}

func TestPanModeMovesViewport(t *testing.T) {
	s := newTestSession(t, nil)
	s.SelectMode(ModePanCanvas)
	s.PointerDown(Point{X: 10, Y: 10}, platform.TargetBackground, "")
	if !s.Panning() {
		t.Fatalf("expected pan in progress")
	}
	s.PointerMove(Point{X: 20, Y: 15})
	s.PointerMove(Point{X: 50, Y: 5})
	s.PointerUp(Point{X: 50, Y: 5})
	if s.Panning() {
		t.Fatalf("pan did not end")
	}
	if got := s.Viewport().Offset; got != (Point{X: 40, Y: -5}) {
		t.Fatalf("unexpected offset %v", got)
	}
	if s.ShapeCount() != 0 {
		t.Fatalf("pan mode created shapes")
	}
}

func TestNoShapeWhileMidPan(t *testing.T) {
	s := newTestSession(t, nil)
	s.SelectMode(ModePanCanvas)
	s.PointerDown(Point{X: 10, Y: 10}, platform.TargetBackground, "")
	s.SelectMode(ModePlaceOnClick)
	s.PointerDown(Point{X: 30, Y: 30}, platform.TargetBackground, "")
	if s.ShapeCount() != 0 {
		t.Fatalf("shape created during pan")
	}
}

func TestModeToggle(t *testing.T) {
	s := newTestSession(t, nil)
	if s.Mode() != ModePlaceOnClick {
		t.Fatalf("unexpected initial mode %v", s.Mode())
	}
	s.SelectMode(ModePlaceOnClick)
	if s.Mode() != ModeNone {
		t.Fatalf("reselecting should clear mode, got %v", s.Mode())
	}
	click(s, 10, 10)
	if s.ShapeCount() != 0 {
		t.Fatalf("no-mode click created a shape")
	}
	s.SelectMode(ModeDrawToResize)
	s.SelectMode(ModePanCanvas)
	if s.Mode() != ModePanCanvas {
		t.Fatalf("expected pan, got %v", s.Mode())
	}
	s.ReleaseMode(ModePanCanvas)
	if s.Mode() != ModePanCanvas {
		t.Fatalf("toggle policy must ignore release")
	}
}

func TestModeMomentary(t *testing.T) {
	s := newTestSession(t, func(o *Options) { o.Activation = ActivationMomentary })
	s.SelectMode(ModePanCanvas)
	if s.Mode() != ModePanCanvas {
		t.Fatalf("expected pan while held")
	}
	s.SelectMode(ModeDrawToResize)
	s.ReleaseMode(ModePanCanvas)
	if s.Mode() != ModeDrawToResize {
		t.Fatalf("releasing a mode that is no longer active changed mode")
	}
	s.ReleaseMode(ModeDrawToResize)
	if s.Mode() != ModePlaceOnClick {
		t.Fatalf("expected previous mode restored, got %v", s.Mode())
	}
}

func TestPinchZoom(t *testing.T) {
	s := newTestSession(t, nil)
	s.TouchPinch(100)
	if s.Viewport().Scale != 1 {
		t.Fatalf("first pinch sample must not zoom")
	}
	s.TouchPinch(200)
	s.TouchPinch(300)
	if !near(s.Viewport().Scale, 3) {
		t.Fatalf("expected scale 3, got %v", s.Viewport().Scale)
	}
	s.TouchEnd()
	s.TouchPinch(10)
	if !near(s.Viewport().Scale, 3) {
		t.Fatalf("pinch after touch end reused stale distance")
	}
	s.TouchPinch(0)
	s.TouchPinch(5)
	if !near(s.Viewport().Scale, 1.5) {
		t.Fatalf("expected scale 1.5, got %v", s.Viewport().Scale)
	}
}

func TestResetIsIdempotent(t *testing.T) {
	s := newTestSession(t, nil)
	click(s, 100, 100)
	s.Wheel(Point{X: 3, Y: 4}, -1)
	s.SelectMode(ModeDrawToResize)
	s.PointerDown(Point{X: 500, Y: 500}, platform.TargetBackground, "")
	click(s, 100*1.1-3*0.1+1, 100*1.1-4*0.1+1)

	for i := 0; i < 2; i++ {
		s.Reset()
		if s.ShapeCount() != 0 {
			t.Fatalf("reset left shapes")
		}
		if s.Viewport() != IdentityViewport() {
			t.Fatalf("reset left viewport %v", s.Viewport())
		}
		if s.ActiveShape() != "" || s.Panning() {
			t.Fatalf("reset left gesture state")
		}
		if _, ok := s.Editing(); ok {
			t.Fatalf("reset left editor open")
		}
	}
	if s.Mode() != ModeDrawToResize {
		t.Fatalf("reset changed mode to %v", s.Mode())
	}
}

func TestCreateThenReset(t *testing.T) {
	s := newTestSession(t, nil)
	click(s, 100, 100)
	s.Reset()
	if s.ShapeCount() != 0 || s.Viewport() != IdentityViewport() {
		t.Fatalf("unexpected state after reset")
	}
}

func TestUnknownIDsAreNoops(t *testing.T) {
	s := newTestSession(t, nil)
	s.AddShapeAt(Point{X: 1, Y: 1})
	before := s.Shapes()
	if s.MoveShape("missing", Point{X: 9, Y: 9}) || s.Recolor("missing", RGB{R: 1}) || s.Resize("missing", 90) {
		t.Fatalf("mutation of unknown id reported success")
	}
	s.PointerDown(Point{X: 500, Y: 500}, platform.TargetShape, "missing")
	s.PointerUp(Point{X: 500, Y: 500})
	after := s.Shapes()
	if len(after) != 2 || after[0] != before[0] {
		t.Fatalf("unexpected shapes %+v", after)
	}
}

func TestInvalidPointerIsIgnored(t *testing.T) {
	s := newTestSession(t, nil)
	nan := math.NaN()
	s.PointerDown(Point{X: nan, Y: 10}, platform.TargetAuto, "")
	s.Wheel(Point{X: nan, Y: nan}, -1)
	if s.ShapeCount() != 0 || s.Viewport() != IdentityViewport() {
		t.Fatalf("invalid pointer mutated state")
	}
}

func TestRecolorAndPaletteColors(t *testing.T) {
	palette := []RGB{{R: 1, G: 2, B: 3}, {R: 4, G: 5, B: 6}}
	s := newTestSession(t, func(o *Options) {
		o.Colors = ColorPalette
		o.Palette = palette
	})
	for i := 0; i < 20; i++ {
		s.AddShapeAt(Point{})
	}
	for _, sh := range s.Shapes() {
		if sh.Color != palette[0] && sh.Color != palette[1] {
			t.Fatalf("color %v not from palette", sh.Color)
		}
	}
	want := RGB{R: 0xAA, G: 0xBB, B: 0xCC}
	if !s.Recolor("shape-3", want) {
		t.Fatalf("recolor failed")
	}
	if sh, _ := s.Shape("shape-3"); sh.Color != want {
		t.Fatalf("unexpected color %v", sh.Color)
	}
}

func TestHandleDispatchesEvents(t *testing.T) {
	s := newTestSession(t, nil)
	events := []platform.Event{
		{Type: platform.EventPointerDown, X: 100, Y: 100},
		{Type: platform.EventPointerUp, X: 100, Y: 100},
		{Type: platform.EventWheel, X: 400, Y: 300, Delta: -1},
		{Type: platform.EventSelectMode, Mode: "pan"},
		{Type: platform.EventPointerDown, X: 0, Y: 700, Target: platform.TargetBackground},
		{Type: platform.EventPointerMove, X: 10, Y: 700},
		{Type: platform.EventPointerUp, X: 10, Y: 700},
		{Type: platform.EventSelectMode, Mode: "bogus"},
	}
	for _, ev := range events {
		s.Handle(ev)
	}
	if s.ShapeCount() != 1 || s.Mode() != ModePanCanvas {
		t.Fatalf("unexpected state: %d shapes, mode %v", s.ShapeCount(), s.Mode())
	}
	if !near(s.Viewport().Scale, 1.1) || !near(s.Viewport().Offset.X, -30) {
		t.Fatalf("unexpected viewport %v", s.Viewport())
	}
	s.Handle(platform.Event{Type: platform.EventReset})
	if s.ShapeCount() != 0 {
		t.Fatalf("reset event ignored")
	}
}

func TestDirectAddInDrawModeBecomesActive(t *testing.T) {
	s := newTestSession(t, nil)
	if id := s.AddShapeAt(Point{X: 10, Y: 10}); s.ActiveShape() != "" {
		t.Fatalf("place mode add %s became active", id)
	}

	s.SelectMode(ModeDrawToResize)
	id := s.AddShapeAt(Point{X: 10, Y: 10})
	if s.ActiveShape() != id {
		t.Fatalf("expected %s active, got %q", id, s.ActiveShape())
	}
	before, _ := s.Shape(id)
	s.GrowActiveShape(5)
	after, _ := s.Shape(id)
	if !near(after.Size, before.Size+5) {
		t.Fatalf("expected size %v, got %v", before.Size+5, after.Size)
	}

	s.EndActiveShape()
	s.GrowActiveShape(5)
	if ended, _ := s.Shape(id); ended.Size != after.Size {
		t.Fatalf("grow after end changed size to %v", ended.Size)
	}
	if s.AddShapeAt(Point{X: math.NaN()}) != "" || s.ActiveShape() != "" {
		t.Fatalf("invalid point created an active shape")
	}
}

func TestModeSwitchEndsDrawGesture(t *testing.T) {
	s := newTestSession(t, nil)
	s.SelectMode(ModeDrawToResize)
	s.PointerDown(Point{X: 200, Y: 200}, platform.TargetBackground, "")
	id := s.ActiveShape()
	s.PointerMove(Point{X: 201, Y: 200})
	grown, _ := s.Shape(id)

	s.SelectMode(ModePanCanvas)
	if s.ActiveShape() != "" {
		t.Fatalf("active shape kept after leaving draw mode")
	}
	s.PointerMove(Point{X: 240, Y: 200})
	if sh, _ := s.Shape(id); sh.Size != grown.Size {
		t.Fatalf("shape grew under pan mode: %v -> %v", grown.Size, sh.Size)
	}
	if s.Viewport() != IdentityViewport() {
		t.Fatalf("stale draw press panned the view: %v", s.Viewport())
	}
	s.PointerUp(Point{X: 240, Y: 200})

	m := newTestSession(t, func(o *Options) { o.Activation = ActivationMomentary })
	m.SelectMode(ModeDrawToResize)
	m.PointerDown(Point{X: 50, Y: 50}, platform.TargetBackground, "")
	mid := m.ActiveShape()
	m.ReleaseMode(ModeDrawToResize)
	m.PointerMove(Point{X: 60, Y: 50})
	if m.ActiveShape() != "" {
		t.Fatalf("release of draw mode kept the resize target")
	}
	start, _ := m.Shape(mid)
	m.PointerMove(Point{X: 70, Y: 50})
	if sh, _ := m.Shape(mid); sh.Size != start.Size {
		t.Fatalf("shape grew after draw mode was released")
	}
}

package canvas

import (
	"math"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"

	"shapecanvas/internal/platform"
)

// EditTarget is the shape whose popup is open and the screen point the
// popup is anchored to.
type EditTarget struct {
	ShapeID string
	Anchor  Point
}

// Session owns one canvas: its shapes, viewport, mode and in-flight gesture.
// It is not safe for concurrent use; hosts drive it from a single event loop.
type Session struct {
	opts  Options
	rng   *rand.Rand
	newID func() string

	viewport Viewport
	scene    Scene
	mode     modeState
	gesture  *gesture
	pinch    pinchState
	editing  *EditTarget
	// activeID is the shape a draw-to-resize gesture grows.
	activeID string
}

type SessionOption func(*Session)

// WithRand replaces the random source used for kind, color and size.
func WithRand(r *rand.Rand) SessionOption {
	return func(s *Session) { s.rng = r }
}

// WithSeed seeds a deterministic random source.
func WithSeed(seed uint64) SessionOption {
	return func(s *Session) { s.rng = rand.New(rand.NewPCG(seed, seed^0x9E3779B97F4A7C15)) }
}

// WithIDFunc replaces the shape id generator.
func WithIDFunc(fn func() string) SessionOption {
	return func(s *Session) { s.newID = fn }
}

func NewSession(opts Options, options ...SessionOption) *Session {
	opts = opts.normalized()
	now := uint64(time.Now().UnixNano())
	s := &Session{
		opts:     opts,
		rng:      rand.New(rand.NewPCG(now, now>>17)),
		newID:    uuid.NewString,
		viewport: IdentityViewport(),
		mode:     modeState{current: opts.InitialMode, previous: opts.InitialMode},
	}
	for _, o := range options {
		o(s)
	}
	return s
}

func (s *Session) Options() Options   { return s.opts }
func (s *Session) Viewport() Viewport { return s.viewport }
func (s *Session) Mode() Mode         { return s.mode.current }
func (s *Session) Shapes() []Shape    { return s.scene.Shapes() }
func (s *Session) ShapeCount() int    { return s.scene.Len() }

// ActiveShape is the id of the shape a draw gesture is growing, or "".
func (s *Session) ActiveShape() string { return s.activeID }

// Panning reports whether a canvas pan gesture is in progress.
func (s *Session) Panning() bool {
	return s.gesture != nil && s.gesture.kind == gesturePan
}

func (s *Session) Shape(id string) (Shape, bool) {
	return s.scene.Get(id)
}

// Editing returns the shape whose edit popup is open.
func (s *Session) Editing() (EditTarget, bool) {
	if s.editing == nil {
		return EditTarget{}, false
	}
	return *s.editing, true
}

// SetOptions swaps the configuration in place. Existing shapes are clamped
// into the new size range and the viewport into the new scale range.
func (s *Session) SetOptions(opts Options) {
	s.opts = opts.normalized()
	for i := range s.scene.shapes {
		s.scene.shapes[i].Size = s.opts.Sizes.Clamp(s.scene.shapes[i].Size)
	}
	s.viewport.Scale = s.opts.Zoom.clamp(s.viewport.Scale)
}

// HitTest resolves a screen point to the topmost shape under it.
func (s *Session) HitTest(screen Point) (Shape, bool) {
	if !screen.Valid() {
		return Shape{}, false
	}
	return s.scene.HitTest(s.viewport.ScreenToScene(screen))
}

// Handle dispatches one host event.
func (s *Session) Handle(ev platform.Event) {
	p := Point{X: ev.X, Y: ev.Y}
	switch ev.Type {
	case platform.EventPointerDown:
		s.PointerDown(p, ev.Target, ev.ShapeID)
	case platform.EventPointerMove:
		s.PointerMove(p)
	case platform.EventPointerUp:
		s.PointerUp(p)
	case platform.EventWheel:
		s.Wheel(p, ev.Delta)
	case platform.EventTouchPinch:
		s.TouchPinch(ev.Distance)
	case platform.EventTouchEnd:
		s.TouchEnd()
	case platform.EventSelectMode:
		if m, err := ParseMode(ev.Mode); err == nil {
			s.SelectMode(m)
		}
	case platform.EventReleaseMode:
		if m, err := ParseMode(ev.Mode); err == nil {
			s.ReleaseMode(m)
		}
	case platform.EventReset:
		s.Reset()
	}
}

// PointerDown starts a gesture. With TargetAuto the session hit-tests the
// point itself; TargetShape with an unknown id is treated as background.
// Presses that arrive while the canvas is being panned are ignored.
func (s *Session) PointerDown(p Point, target platform.TargetKind, shapeID string) {
	if !p.Valid() || s.Panning() {
		return
	}
	s.abandonGesture()

	var hit Shape
	onShape := false
	switch target {
	case platform.TargetAuto:
		hit, onShape = s.HitTest(p)
	case platform.TargetShape:
		hit, onShape = s.scene.Get(shapeID)
	}

	if onShape {
		s.editing = nil
		g := newGesture(gestureShapeDrag, p)
		g.shapeID = hit.ID
		g.grab = s.viewport.ScreenToScene(p).Sub(hit.Position)
		s.gesture = g
		return
	}

	if s.editing != nil {
		s.editing = nil
		return
	}

	switch s.mode.current {
	case ModePlaceOnClick:
		s.AddShapeAt(s.viewport.ScreenToScene(p))
	case ModeDrawToResize:
		id := s.AddShapeAt(s.viewport.ScreenToScene(p))
		if id == "" {
			return
		}
		g := newGesture(gestureResize, p)
		g.shapeID = id
		s.gesture = g
	case ModePanCanvas:
		s.gesture = newGesture(gesturePan, p)
	}
}

func (s *Session) PointerMove(p Point) {
	if !p.Valid() || s.gesture == nil {
		return
	}
	g := s.gesture
	switch g.kind {
	case gestureResize:
		switch s.opts.Growth {
		case GrowthHorizontal:
			if g.hasPrevX {
				s.GrowActiveShape(p.X - g.prevX)
			}
			g.prevX = p.X
			g.hasPrevX = true
		default:
			s.GrowActiveShape(1)
		}
	case gesturePan:
		s.viewport = s.viewport.Pan(p.Sub(g.last))
	case gestureShapeDrag:
		g.travelled(p, s.opts.ClickSlop)
		s.MoveShape(g.shapeID, s.viewport.ScreenToScene(p).Sub(g.grab))
	}
	g.last = p
}

// PointerUp ends the gesture. A shape press that never left the click slop
// opens the edit popup at the release point.
func (s *Session) PointerUp(p Point) {
	g := s.gesture
	s.gesture = nil
	if g == nil {
		return
	}
	switch g.kind {
	case gestureResize:
		g.hasPrevX = false
		s.EndActiveShape()
	case gestureShapeDrag:
		if !p.Valid() {
			p = g.last
		}
		if !g.travelled(p, s.opts.ClickSlop) {
			if _, ok := s.scene.Get(g.shapeID); ok {
				s.editing = &EditTarget{ShapeID: g.shapeID, Anchor: p}
			}
		}
	}
}

// abandonGesture drops a gesture that never saw its pointer-up.
func (s *Session) abandonGesture() {
	if s.gesture != nil && s.gesture.kind == gestureResize {
		s.EndActiveShape()
	}
	s.gesture = nil
}

func (s *Session) Wheel(anchor Point, delta float64) {
	s.viewport = s.viewport.Zoom(anchor, delta, s.opts.Zoom)
}

// TouchPinch feeds the current two-finger distance. The first call of a
// pinch only records the distance.
func (s *Session) TouchPinch(distance float64) {
	if r, ok := s.pinch.ratio(distance); ok {
		s.viewport = s.viewport.Pinch(r, s.opts.Zoom)
	}
}

func (s *Session) TouchEnd() {
	s.pinch.end()
}

func (s *Session) SelectMode(m Mode) {
	s.mode.selectMode(m, s.opts.Activation)
	s.endResizeOutsideDraw()
}

func (s *Session) ReleaseMode(m Mode) {
	s.mode.releaseMode(m, s.opts.Activation)
	s.endResizeOutsideDraw()
}

// endResizeOutsideDraw stops a draw gesture once draw mode is no longer
// active; growth only happens in draw mode.
func (s *Session) endResizeOutsideDraw() {
	if s.mode.current == ModeDrawToResize {
		return
	}
	if s.gesture != nil && s.gesture.kind == gestureResize {
		s.gesture = nil
	}
	s.EndActiveShape()
}

// AddShapeAt appends a random shape centered on the scene point and returns
// its id. In draw mode the new shape becomes the active resize target.
func (s *Session) AddShapeAt(p Point) string {
	if !p.Valid() {
		return ""
	}
	lim := s.opts.Sizes
	sh := Shape{
		ID:       s.newID(),
		Kind:     allKinds[s.rng.IntN(len(allKinds))],
		Position: p,
		Size:     lim.Clamp(lim.SpawnMin + s.rng.Float64()*(lim.SpawnMax-lim.SpawnMin)),
		Color:    s.randomColor(),
	}
	s.scene.add(sh)
	if s.mode.current == ModeDrawToResize {
		s.activeID = sh.ID
	}
	return sh.ID
}

func (s *Session) randomColor() RGB {
	if s.opts.Colors == ColorPalette && len(s.opts.Palette) > 0 {
		return s.opts.Palette[s.rng.IntN(len(s.opts.Palette))]
	}
	v := s.rng.Uint32()
	return RGB{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v)}
}

// GrowActiveShape changes the active resize target's size by delta.
func (s *Session) GrowActiveShape(delta float64) {
	if s.activeID == "" {
		return
	}
	lim := s.opts.Sizes
	s.scene.update(s.activeID, func(sh *Shape) {
		sh.Size = lim.Clamp(sh.Size + delta)
	})
}

func (s *Session) EndActiveShape() {
	s.activeID = ""
}

func (s *Session) MoveShape(id string, p Point) bool {
	if !p.Valid() {
		return false
	}
	return s.scene.update(id, func(sh *Shape) { sh.Position = p })
}

func (s *Session) Recolor(id string, c RGB) bool {
	return s.scene.update(id, func(sh *Shape) { sh.Color = c })
}

func (s *Session) Resize(id string, size float64) bool {
	if math.IsNaN(size) {
		return false
	}
	lim := s.opts.Sizes
	return s.scene.update(id, func(sh *Shape) { sh.Size = lim.Clamp(size) })
}

func (s *Session) CloseEditor() {
	s.editing = nil
}

// Reset clears shapes and viewport together. The selected mode survives.
func (s *Session) Reset() {
	s.scene.clear()
	s.viewport = IdentityViewport()
	s.gesture = nil
	s.pinch.end()
	s.editing = nil
	s.activeID = ""
}

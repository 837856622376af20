package ui

import (
	"image/color"
	"math"

	"shapecanvas/internal/canvas"
	"shapecanvas/internal/render"
)

type Rect struct {
	X int
	Y int
	W int
	H int
}

func (r Rect) Contains(x, y int) bool {
	return x >= r.X && y >= r.Y && x < r.X+r.W && y < r.Y+r.H
}

func (r Rect) Empty() bool { return r.W <= 0 || r.H <= 0 }

type Action string

const (
	ActionPlace  Action = "place"
	ActionDraw   Action = "draw"
	ActionPan    Action = "pan"
	ActionReset  Action = "reset"
	ActionHelp   Action = "help"
	ActionExport Action = "export"
	ActionCopy   Action = "copy_image"
)

// ModeFor returns the interaction mode a toolbar action selects.
func ModeFor(a Action) (canvas.Mode, bool) {
	switch a {
	case ActionPlace:
		return canvas.ModePlaceOnClick, true
	case ActionDraw:
		return canvas.ModeDrawToResize, true
	case ActionPan:
		return canvas.ModePanCanvas, true
	}
	return canvas.ModeNone, false
}

type Button struct {
	Action Action
	Label  string
	R      Rect
}

var toolbarButtons = []Button{
	{Action: ActionPlace, Label: "Click"},
	{Action: ActionDraw, Label: "Draw"},
	{Action: ActionPan, Label: "Pan"},
	{Action: ActionReset, Label: "Reset"},
	{Action: ActionHelp, Label: "?"},
	{Action: ActionExport, Label: "PNG"},
	{Action: ActionCopy, Label: "Copy"},
}

type Layout struct {
	W         int
	H         int
	Toolbar   Rect
	Buttons   []Button
	StatusBar Rect
}

// ButtonAt returns the toolbar button under (x, y).
func (l Layout) ButtonAt(x, y int) (Button, bool) {
	for _, b := range l.Buttons {
		if b.R.Contains(x, y) {
			return b, true
		}
	}
	return Button{}, false
}

// ComputeLayout centers the toolbar horizontally near the top of the window
// and pins the status bar to the bottom.
func ComputeLayout(w, h int, theme Theme, scale float32) Layout {
	if scale <= 0 {
		scale = 1
	}
	dp := func(v int) int { return int(float32(v) * scale) }

	size := dp(theme.ButtonSize)
	gap := dp(theme.ButtonGap)
	barH := dp(theme.ToolbarHeight)
	n := len(toolbarButtons)
	barW := n*size + (n+1)*gap
	barX := (w - barW) / 2
	barY := dp(theme.ToolbarTop)

	buttons := make([]Button, 0, n)
	x := barX + gap
	y := barY + (barH-size)/2
	for _, b := range toolbarButtons {
		b.R = Rect{X: x, Y: y, W: size, H: size}
		buttons = append(buttons, b)
		x += size + gap
	}

	statusH := dp(theme.StatusHeight)
	return Layout{
		W:         w,
		H:         h,
		Toolbar:   Rect{X: barX, Y: barY, W: barW, H: barH},
		Buttons:   buttons,
		StatusBar: Rect{X: 0, Y: h - statusH, W: w, H: statusH},
	}
}

type Swatch struct {
	Color canvas.RGB
	R     Rect
}

// Popup is the color/size editor anchored at the pointer.
type Popup struct {
	Panel    Rect
	Swatches []Swatch
	Track    Rect
	Minus    Rect
	Plus     Rect
	CopyHex  Rect
	PasteHex Rect
}

// ComputePopup places the popup at the anchor, shifted to stay on screen.
func ComputePopup(anchorX, anchorY, w, h int, palette []canvas.RGB, theme Theme) Popup {
	pw, ph := theme.PopupWidth, theme.PopupHeight
	px := anchorX
	py := anchorY
	if px+pw > w {
		px = w - pw
	}
	if py+ph > h {
		py = h - ph
	}
	if px < 0 {
		px = 0
	}
	if py < 0 {
		py = 0
	}
	p := Popup{Panel: Rect{X: px, Y: py, W: pw, H: ph}}

	sw := theme.SwatchSize
	gap := 4
	cols := (pw - 16 + gap) / (sw + gap)
	if cols < 1 {
		cols = 1
	}
	for i, c := range palette {
		if i >= cols*2 {
			break
		}
		cx := px + 8 + (i%cols)*(sw+gap)
		cy := py + 22 + (i/cols)*(sw+gap)
		p.Swatches = append(p.Swatches, Swatch{Color: c, R: Rect{X: cx, Y: cy, W: sw, H: sw}})
	}

	rowY := py + 22 + 2*(sw+gap) + 18
	p.Minus = Rect{X: px + 8, Y: rowY, W: 20, H: 20}
	p.Plus = Rect{X: px + pw - 28, Y: rowY, W: 20, H: 20}
	p.Track = Rect{X: p.Minus.X + p.Minus.W + 8, Y: rowY + 6, W: p.Plus.X - (p.Minus.X + p.Minus.W) - 16, H: 8}

	btnY := py + ph - 26
	p.CopyHex = Rect{X: px + 8, Y: btnY, W: 60, H: 20}
	p.PasteHex = Rect{X: px + 74, Y: btnY, W: 60, H: 20}
	return p
}

func (p Popup) SwatchAt(x, y int) (canvas.RGB, bool) {
	for _, s := range p.Swatches {
		if s.R.Contains(x, y) {
			return s.Color, true
		}
	}
	return canvas.RGB{}, false
}

// SizeAt maps a screen x on the slider track to a size in lim.
func (p Popup) SizeAt(x int, lim canvas.SizeLimits) float64 {
	if p.Track.W <= 0 {
		return lim.Min
	}
	t := float64(x-p.Track.X) / float64(p.Track.W)
	t = math.Max(0, math.Min(1, t))
	return math.Round(lim.Min + t*(lim.Max-lim.Min))
}

// KnobX is the inverse of SizeAt.
func (p Popup) KnobX(size float64, lim canvas.SizeLimits) int {
	if lim.Max <= lim.Min {
		return p.Track.X
	}
	t := (lim.Clamp(size) - lim.Min) / (lim.Max - lim.Min)
	return p.Track.X + int(math.Round(t*float64(p.Track.W)))
}

// HelpBounds returns the help dialog panel and its close button.
func HelpBounds(w, h int) (panel, closeBtn Rect) {
	pw := int(float64(w) * 0.6)
	ph := int(float64(h) * 0.6)
	if pw > 640 {
		pw = 640
	}
	if ph > 420 {
		ph = 420
	}
	px := (w - pw) / 2
	py := (h - ph) / 2
	panel = Rect{X: px, Y: py, W: pw, H: ph}
	closeBtn = Rect{X: px + pw - 94, Y: py + 12, W: 78, H: 30}
	return panel, closeBtn
}

// HelpLines is the text of the help dialog. Pinch has no anchor, so only the
// wheel is described as zooming around the pointer.
func HelpLines(activation canvas.Activation) []string {
	lines := []string{
		"Click (1): click the canvas to place a random shape",
		"Draw (2): press and drag to grow a new shape",
		"Pan (3): drag the canvas to move the view",
		"Reset (R): remove every shape and reset the view",
		"Mouse wheel: zoom around the pointer | Pinch: zoom the view",
		"Drag a shape to move it; click it to change color and size",
		"Ctrl+C / Ctrl+V: copy or paste the edited shape's color",
		"F1 or Esc closes this dialog",
	}
	if activation == canvas.ActivationMomentary {
		lines = append(lines, "Modes stay active only while their key or button is held")
	}
	return lines
}

func ToRGBA(c canvas.RGB) color.RGBA {
	return color.RGBA{R: c.R, G: c.G, B: c.B, A: 0xFF}
}

// DrawScene paints the background and every shape through the session's
// viewport. The shape being edited gets an outline.
func DrawScene(fb *render.FrameBuffer, session *canvas.Session, theme Theme) {
	fb.Clear(theme.Background)
	vp := session.Viewport()
	editing, isEditing := session.Editing()
	for _, sh := range session.Shapes() {
		if isEditing && sh.ID == editing.ShapeID {
			outline := sh
			outline.Size += 2 * float64(theme.SelectionWidth) / vp.Scale
			drawShape(fb, outline, vp, theme.Selection)
		}
		drawShape(fb, sh, vp, ToRGBA(sh.Color))
	}
}

func drawShape(fb *render.FrameBuffer, sh canvas.Shape, vp canvas.Viewport, c color.RGBA) {
	center := vp.SceneToScreen(sh.Position)
	size := sh.Size * vp.Scale
	switch sh.Kind {
	case canvas.KindRectangle:
		x := int(math.Round(center.X - size/2))
		y := int(math.Round(center.Y - size/2))
		s := int(math.Round(size))
		fb.FillRect(x, y, s, s, c)
	case canvas.KindCircle:
		fb.FillCircle(center.X, center.Y, size/2, c)
	case canvas.KindTriangle:
		a, b, d := sh.TriangleVertices()
		a, b, d = vp.SceneToScreen(a), vp.SceneToScreen(b), vp.SceneToScreen(d)
		fb.FillTriangle(a.X, a.Y, b.X, b.Y, d.X, d.Y, c)
	}
}

// DrawShell paints the toolbar, the edit popup (if open) and the status bar
// over an already drawn scene. Labels are drawn by the host.
func DrawShell(fb *render.FrameBuffer, session *canvas.Session, layout Layout, popup *Popup, theme Theme, mouseX, mouseY int) {
	fb.FillRect(layout.Toolbar.X, layout.Toolbar.Y, layout.Toolbar.W, layout.Toolbar.H, theme.Toolbar)
	fb.StrokeRect(layout.Toolbar.X, layout.Toolbar.Y, layout.Toolbar.W, layout.Toolbar.H, 1, theme.Border)
	for _, b := range layout.Buttons {
		bg := theme.Button
		if b.R.Contains(mouseX, mouseY) {
			bg = theme.ButtonHover
		}
		if m, ok := ModeFor(b.Action); ok && session.Mode() == m {
			bg = theme.ButtonActive
		}
		fb.FillRect(b.R.X, b.R.Y, b.R.W, b.R.H, bg)
		fb.StrokeRect(b.R.X, b.R.Y, b.R.W, b.R.H, 1, theme.Border)
	}

	if popup != nil {
		drawPopup(fb, session, *popup, theme)
	}

	sb := layout.StatusBar
	fb.FillRect(sb.X, sb.Y, sb.W, sb.H, theme.StatusBar)
	fb.StrokeRect(sb.X, sb.Y, sb.W, sb.H, 1, theme.Border)
}

func drawPopup(fb *render.FrameBuffer, session *canvas.Session, p Popup, theme Theme) {
	fb.FillRect(p.Panel.X, p.Panel.Y, p.Panel.W, p.Panel.H, theme.Popup)
	fb.StrokeRect(p.Panel.X, p.Panel.Y, p.Panel.W, p.Panel.H, 1, theme.Border)

	ed, ok := session.Editing()
	if !ok {
		return
	}
	sh, ok := session.Shape(ed.ShapeID)
	if !ok {
		return
	}
	for _, s := range p.Swatches {
		fb.FillRect(s.R.X, s.R.Y, s.R.W, s.R.H, ToRGBA(s.Color))
		border := theme.Border
		if s.Color == sh.Color {
			border = theme.Selection
		}
		fb.StrokeRect(s.R.X, s.R.Y, s.R.W, s.R.H, 1, border)
	}

	for _, r := range []Rect{p.Minus, p.Plus, p.CopyHex, p.PasteHex} {
		fb.FillRect(r.X, r.Y, r.W, r.H, theme.Button)
		fb.StrokeRect(r.X, r.Y, r.W, r.H, 1, theme.Border)
	}
	fb.FillRect(p.Track.X, p.Track.Y, p.Track.W, p.Track.H, theme.SliderTrack)
	lim := session.Options().Sizes
	kx := p.KnobX(sh.Size, lim)
	fb.FillCircle(float64(kx), float64(p.Track.Y)+float64(p.Track.H)/2, 7, theme.SliderKnob)
}

package app

import (
	"errors"
	"fmt"
	"image/color"
	"log/slog"
	"math"
	"path/filepath"
	"strings"

	"shapecanvas/internal/canvas"
	"shapecanvas/internal/config"
	"shapecanvas/internal/export"
	"shapecanvas/internal/platform"
	"shapecanvas/internal/render"
	"shapecanvas/internal/ui"

	"github.com/atotto/clipboard"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"github.com/sqweek/dialog"
	imgclip "golang.design/x/clipboard"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

type fontKey struct {
	size  int
	bold  bool
	scale int
}

type fontBank struct {
	regular *opentype.Font
	bold    *opentype.Font
	cache   map[fontKey]font.Face
}

func newFontBank() fontBank {
	bank := fontBank{cache: map[fontKey]font.Face{}}
	reg, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return bank
	}
	bol, err := opentype.Parse(gobold.TTF)
	if err != nil {
		return bank
	}
	bank.regular = reg
	bank.bold = bol
	return bank
}

// pointerSource says who owns the current press so the release goes to the
// same place.
type pointerSource int

const (
	pointerNone pointerSource = iota
	pointerCanvas
	pointerSlider
	pointerToolbar
)

type App struct {
	theme   ui.Theme
	session *canvas.Session
	cfg     config.Config
	logger  *slog.Logger
	updates <-chan config.Config

	frameBuffer *render.FrameBuffer
	screenImg   *ebiten.Image

	fonts   fontBank
	uiScale float32

	layout ui.Layout
	popup  *ui.Popup

	status    string
	showHelp  bool
	helpRect  ui.Rect
	helpClose ui.Rect

	press       pointerSource
	pressedMode canvas.Mode
	heldKeyMode canvas.Mode
	heldKey     ebiten.Key
	keyHeld     bool
	lastX       int
	lastY       int

	touchIDs []ebiten.TouchID
	touchID  ebiten.TouchID
	touching bool
	pinching bool

	imageClipboardErr  error
	imageClipboardInit bool

	screenW int
	screenH int
}

// New builds the window host around a fresh session. updates may be nil; when
// set, every config received replaces the session options.
func New(cfg config.Config, logger *slog.Logger, updates <-chan config.Config, sessionOpts ...canvas.SessionOption) (*App, error) {
	if logger == nil {
		logger = slog.Default()
	}
	opts, err := cfg.CanvasOptions()
	if err != nil {
		return nil, err
	}
	if cfg.Seed != 0 {
		sessionOpts = append(sessionOpts, canvas.WithSeed(cfg.Seed))
	}
	return &App{
		theme:    ui.DefaultTheme(),
		session:  canvas.NewSession(opts, sessionOpts...),
		cfg:      cfg,
		logger:   logger,
		updates:  updates,
		fonts:    newFontBank(),
		uiScale:  1,
		status:   "Click to place shapes. Press ? for help.",
		touchIDs: make([]ebiten.TouchID, 0, 4),
	}, nil
}

func (a *App) Run() error {
	ebiten.SetWindowTitle(a.cfg.Window.Title)
	ebiten.SetWindowSize(a.cfg.Window.Width, a.cfg.Window.Height)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSizeLimits(480, 360, -1, -1)
	a.logger.Info("opening window", "width", a.cfg.Window.Width, "height", a.cfg.Window.Height,
		"mode", a.session.Mode(), "activation", a.session.Options().Activation)
	if err := ebiten.RunGame(a); err != nil {
		return fmt.Errorf("run game loop: %w", err)
	}
	return nil
}

func (a *App) Update() error {
	a.drainConfigUpdates()
	w, h := a.currentViewportSize()
	a.layout = ui.ComputeLayout(w, h, a.theme, a.uiScale)
	a.popup = a.currentPopup(w, h)

	if inpututil.IsKeyJustPressed(ebiten.KeyF1) {
		a.showHelp = !a.showHelp
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		switch {
		case a.showHelp:
			a.showHelp = false
		case a.popup != nil:
			a.session.CloseEditor()
			a.popup = nil
		}
		return nil
	}
	if a.showHelp {
		a.helpRect, a.helpClose = ui.HelpBounds(w, h)
		if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
			x, y := ebiten.CursorPosition()
			if !a.helpRect.Contains(x, y) || a.helpClose.Contains(x, y) {
				a.showHelp = false
			}
		}
		return nil
	}

	a.handleKeys()
	a.handleMouse()
	a.handleWheel()
	a.handleTouches()
	a.popup = a.currentPopup(w, h)
	return nil
}

func (a *App) drainConfigUpdates() {
	if a.updates == nil {
		return
	}
	for {
		select {
		case cfg, ok := <-a.updates:
			if !ok {
				a.updates = nil
				return
			}
			opts, err := cfg.CanvasOptions()
			if err != nil {
				a.logger.Warn("ignoring config update", "err", err)
				continue
			}
			a.cfg = cfg
			a.session.SetOptions(opts)
			a.status = "Config reloaded"
			a.logger.Info("applied config update", "min_size", opts.Sizes.Min, "max_size", opts.Sizes.Max, "growth", opts.Growth)
		default:
			return
		}
	}
}

var modeKeys = map[ebiten.Key]canvas.Mode{
	ebiten.Key1: canvas.ModePlaceOnClick,
	ebiten.Key2: canvas.ModeDrawToResize,
	ebiten.Key3: canvas.ModePanCanvas,
}

func (a *App) handleKeys() {
	ctrl := ebiten.IsKeyPressed(ebiten.KeyControl) || ebiten.IsKeyPressed(ebiten.KeyMeta)
	for key, m := range modeKeys {
		if inpututil.IsKeyJustPressed(key) {
			a.selectMode(m)
			a.heldKey, a.heldKeyMode, a.keyHeld = key, m, true
		}
		if a.keyHeld && a.heldKey == key && inpututil.IsKeyJustReleased(key) {
			a.releaseMode(a.heldKeyMode)
			a.keyHeld = false
		}
	}
	if !ctrl && inpututil.IsKeyJustPressed(ebiten.KeyR) {
		a.reset()
	}
	if a.popup != nil && ctrl {
		if inpututil.IsKeyJustPressed(ebiten.KeyC) {
			a.copyHex()
		}
		if inpututil.IsKeyJustPressed(ebiten.KeyV) {
			a.pasteHex()
		}
	}
}

func (a *App) handleMouse() {
	x, y := ebiten.CursorPosition()
	moved := x != a.lastX || y != a.lastY
	a.lastX, a.lastY = x, y

	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		a.pointerPressed(x, y)
	} else if ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) && moved {
		a.pointerDragged(x, y)
	}
	if inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft) {
		a.pointerReleased(x, y)
	}
}

func (a *App) pointerPressed(x, y int) {
	if b, ok := a.layout.ButtonAt(x, y); ok {
		a.press = pointerToolbar
		a.pressedMode = canvas.ModeNone
		if m, ok := ui.ModeFor(b.Action); ok {
			a.selectMode(m)
			a.pressedMode = m
			return
		}
		a.invokeAction(b.Action)
		return
	}
	if a.popup != nil && a.popup.Panel.Contains(x, y) {
		a.handlePopupClick(x, y)
		return
	}
	a.press = pointerCanvas
	a.dispatch(platform.Event{Type: platform.EventPointerDown, X: float64(x), Y: float64(y)})
}

func (a *App) pointerDragged(x, y int) {
	switch a.press {
	case pointerCanvas:
		a.dispatch(platform.Event{Type: platform.EventPointerMove, X: float64(x), Y: float64(y)})
	case pointerSlider:
		if a.popup == nil {
			return
		}
		a.resizeEditedTo(a.popup.SizeAt(x, a.session.Options().Sizes))
	}
}

func (a *App) pointerReleased(x, y int) {
	switch a.press {
	case pointerCanvas:
		a.dispatch(platform.Event{Type: platform.EventPointerUp, X: float64(x), Y: float64(y)})
	case pointerToolbar:
		if a.pressedMode != canvas.ModeNone {
			a.releaseMode(a.pressedMode)
		}
	}
	a.press = pointerNone
	a.pressedMode = canvas.ModeNone
}

func (a *App) handleWheel() {
	_, wheelY := ebiten.Wheel()
	if wheelY == 0 {
		return
	}
	x, y := ebiten.CursorPosition()
	if a.layout.Toolbar.Contains(x, y) {
		return
	}
	// Wheel up zooms in.
	a.dispatch(platform.Event{Type: platform.EventWheel, X: float64(x), Y: float64(y), Delta: -wheelY})
}

// handleTouches maps one finger to the pointer and two fingers to a pinch.
func (a *App) handleTouches() {
	a.touchIDs = ebiten.AppendTouchIDs(a.touchIDs[:0])
	if len(a.touchIDs) >= 2 {
		if a.touching {
			x, y := ebiten.TouchPosition(a.touchID)
			a.dispatch(platform.Event{Type: platform.EventPointerUp, X: float64(x), Y: float64(y)})
			a.touching = false
		}
		x0, y0 := ebiten.TouchPosition(a.touchIDs[0])
		x1, y1 := ebiten.TouchPosition(a.touchIDs[1])
		d := math.Hypot(float64(x1-x0), float64(y1-y0))
		a.dispatch(platform.Event{Type: platform.EventTouchPinch, Distance: d})
		a.pinching = true
		return
	}
	if a.pinching {
		a.dispatch(platform.Event{Type: platform.EventTouchEnd})
		a.pinching = false
		return
	}

	if !a.touching {
		for _, id := range inpututil.AppendJustPressedTouchIDs(nil) {
			x, y := ebiten.TouchPosition(id)
			if a.layout.Toolbar.Contains(x, y) || (a.popup != nil && a.popup.Panel.Contains(x, y)) {
				a.pointerPressed(x, y)
				a.pointerReleased(x, y)
				return
			}
			a.touchID, a.touching = id, true
			a.dispatch(platform.Event{Type: platform.EventPointerDown, X: float64(x), Y: float64(y)})
			return
		}
		return
	}
	if inpututil.IsTouchJustReleased(a.touchID) {
		x, y := inpututil.TouchPositionInPreviousTick(a.touchID)
		a.dispatch(platform.Event{Type: platform.EventPointerUp, X: float64(x), Y: float64(y)})
		a.touching = false
		return
	}
	x, y := ebiten.TouchPosition(a.touchID)
	a.dispatch(platform.Event{Type: platform.EventPointerMove, X: float64(x), Y: float64(y)})
}

func (a *App) dispatch(ev platform.Event) {
	before := a.session.ShapeCount()
	a.session.Handle(ev)
	if n := a.session.ShapeCount(); n != before {
		a.logger.Debug("shape added", "event", ev.Type, "shapes", n)
		a.status = fmt.Sprintf("%d shapes", n)
	}
}

func (a *App) selectMode(m canvas.Mode) {
	a.session.SelectMode(m)
	a.status = "Mode: " + modeLabel(a.session.Mode())
	a.logger.Debug("mode selected", "requested", m, "mode", a.session.Mode())
}

func (a *App) releaseMode(m canvas.Mode) {
	a.session.ReleaseMode(m)
	a.status = "Mode: " + modeLabel(a.session.Mode())
	a.logger.Debug("mode released", "released", m, "mode", a.session.Mode())
}

func (a *App) reset() {
	a.session.Reset()
	a.popup = nil
	a.status = "Canvas reset"
	a.logger.Info("canvas reset")
}

func (a *App) invokeAction(action ui.Action) {
	switch action {
	case ui.ActionReset:
		a.reset()
	case ui.ActionHelp:
		a.showHelp = true
	case ui.ActionExport:
		if err := a.exportPNG(); err != nil {
			a.fail("Export failed", err)
		}
	case ui.ActionCopy:
		if err := a.copyImage(); err != nil {
			a.fail("Copy failed", err)
		}
	}
}

func (a *App) fail(what string, err error) {
	a.status = what + ": " + err.Error()
	a.logger.Warn(strings.ToLower(what), "err", err)
}

func (a *App) handlePopupClick(x, y int) {
	ed, ok := a.session.Editing()
	if !ok {
		return
	}
	sh, ok := a.session.Shape(ed.ShapeID)
	if !ok {
		return
	}
	p := a.popup
	switch {
	case (ui.Rect{X: p.Track.X, Y: p.Track.Y - 6, W: p.Track.W, H: p.Track.H + 12}).Contains(x, y):
		a.press = pointerSlider
		a.resizeEditedTo(p.SizeAt(x, a.session.Options().Sizes))
	case p.Minus.Contains(x, y):
		a.resizeEditedTo(sh.Size - 1)
	case p.Plus.Contains(x, y):
		a.resizeEditedTo(sh.Size + 1)
	case p.CopyHex.Contains(x, y):
		a.copyHex()
	case p.PasteHex.Contains(x, y):
		a.pasteHex()
	default:
		if c, ok := p.SwatchAt(x, y); ok {
			a.session.Recolor(sh.ID, c)
			a.status = "Color " + c.Hex()
		}
	}
}

func (a *App) resizeEditedTo(size float64) {
	ed, ok := a.session.Editing()
	if !ok {
		return
	}
	a.session.Resize(ed.ShapeID, size)
	if sh, ok := a.session.Shape(ed.ShapeID); ok {
		a.status = fmt.Sprintf("Size %.0f", sh.Size)
	}
}

func (a *App) copyHex() {
	ed, ok := a.session.Editing()
	if !ok {
		return
	}
	sh, ok := a.session.Shape(ed.ShapeID)
	if !ok {
		return
	}
	if err := clipboard.WriteAll(sh.Color.Hex()); err != nil {
		a.fail("Copy failed", err)
		return
	}
	a.status = "Copied " + sh.Color.Hex()
}

func (a *App) pasteHex() {
	ed, ok := a.session.Editing()
	if !ok {
		return
	}
	s, err := clipboard.ReadAll()
	if err != nil {
		a.fail("Paste failed", err)
		return
	}
	c, err := canvas.ParseHex(s)
	if err != nil {
		a.fail("Paste failed", err)
		return
	}
	a.session.Recolor(ed.ShapeID, c)
	a.status = "Color " + c.Hex()
}

func (a *App) frame() export.Frame {
	w, h := a.currentViewportSize()
	return export.FrameOf(a.session, w, h, a.theme.Background)
}

func (a *App) exportPNG() error {
	path, err := dialog.File().Filter("PNG images", "png").Title("Export PNG").Save()
	if err != nil {
		if errors.Is(err, dialog.ErrCancelled) {
			a.status = "Export cancelled"
			return nil
		}
		return err
	}
	if path == "" {
		return errors.New("no file selected")
	}
	path = filepath.Clean(path)
	if !strings.EqualFold(filepath.Ext(path), ".png") {
		path += ".png"
	}
	if err := export.WriteFile(path, a.frame()); err != nil {
		return err
	}
	a.status = "Exported " + filepath.Base(path)
	a.logger.Info("exported png", "path", path, "shapes", a.session.ShapeCount())
	return nil
}

func (a *App) copyImage() error {
	if !a.imageClipboardInit {
		a.imageClipboardErr = imgclip.Init()
		a.imageClipboardInit = true
	}
	if a.imageClipboardErr != nil {
		return fmt.Errorf("image clipboard unavailable: %w", a.imageClipboardErr)
	}
	data, err := export.PNGBytes(a.frame())
	if err != nil {
		return err
	}
	imgclip.Write(imgclip.FmtImage, data)
	a.status = "Canvas copied to clipboard"
	return nil
}

func (a *App) currentPopup(w, h int) *ui.Popup {
	ed, ok := a.session.Editing()
	if !ok {
		return nil
	}
	p := ui.ComputePopup(int(ed.Anchor.X), int(ed.Anchor.Y), w, h, a.session.Options().Palette, a.theme)
	return &p
}

func (a *App) Draw(screen *ebiten.Image) {
	w, h := screen.Bounds().Dx(), screen.Bounds().Dy()
	if a.frameBuffer == nil || a.frameBuffer.W != w || a.frameBuffer.H != h {
		a.frameBuffer = render.NewFrameBuffer(w, h)
		a.screenImg = ebiten.NewImage(w, h)
	}
	a.layout = ui.ComputeLayout(w, h, a.theme, a.uiScale)
	popup := a.currentPopup(w, h)

	mx, my := ebiten.CursorPosition()
	ui.DrawScene(a.frameBuffer, a.session, a.theme)
	ui.DrawShell(a.frameBuffer, a.session, a.layout, popup, a.theme, mx, my)
	a.screenImg.WritePixels(a.frameBuffer.Pixels)
	screen.DrawImage(a.screenImg, nil)

	labelFace := a.uiFace(11, false)
	a.drawToolbarLabels(screen, labelFace)
	if popup != nil {
		a.drawPopupLabels(screen, *popup, a.uiFace(10, false))
	}

	vp := a.session.Viewport()
	statusFace := a.uiFace(10, false)
	left := fmt.Sprintf("[ Mode %s ] [ Shapes %d ] [ Zoom %.0f%% ]", modeLabel(a.session.Mode()), a.session.ShapeCount(), vp.Scale*100)
	text.Draw(screen, left, statusFace, 12, h-8, a.theme.Text)
	text.Draw(screen, "[ "+a.status+" ]", statusFace, 12+a.measureString(statusFace, left)+16, h-8, a.theme.Text)

	if a.showHelp {
		a.drawHelpOverlay(screen, labelFace)
	}
}

func (a *App) drawToolbarLabels(screen *ebiten.Image, face font.Face) {
	for _, b := range a.layout.Buttons {
		c := a.theme.Text
		if m, ok := ui.ModeFor(b.Action); ok && a.session.Mode() == m {
			c = color.RGBA{R: 255, G: 255, B: 255, A: 255}
		}
		tw := a.measureString(face, b.Label)
		text.Draw(screen, b.Label, face, b.R.X+(b.R.W-tw)/2, b.R.Y+b.R.H/2+4, c)
	}
}

func (a *App) drawPopupLabels(screen *ebiten.Image, p ui.Popup, face font.Face) {
	ed, ok := a.session.Editing()
	if !ok {
		return
	}
	sh, ok := a.session.Shape(ed.ShapeID)
	if !ok {
		return
	}
	text.Draw(screen, fmt.Sprintf("%s %s", sh.Kind, sh.Color.Hex()), face, p.Panel.X+8, p.Panel.Y+15, a.theme.Text)
	text.Draw(screen, fmt.Sprintf("Size %.0f", sh.Size), face, p.Track.X, p.Track.Y-6, a.theme.Text)
	centered := func(r ui.Rect, s string) {
		tw := a.measureString(face, s)
		text.Draw(screen, s, face, r.X+(r.W-tw)/2, r.Y+r.H/2+4, a.theme.Text)
	}
	centered(p.Minus, "-")
	centered(p.Plus, "+")
	centered(p.CopyHex, "Copy")
	centered(p.PasteHex, "Paste")
}

func (a *App) Layout(outsideWidth, outsideHeight int) (screenWidth, screenHeight int) {
	if outsideWidth < 480 {
		outsideWidth = 480
	}
	if outsideHeight < 360 {
		outsideHeight = 360
	}
	a.screenW = outsideWidth
	a.screenH = outsideHeight
	return outsideWidth, outsideHeight
}

func (a *App) currentViewportSize() (int, int) {
	if a.screenW > 0 && a.screenH > 0 {
		return a.screenW, a.screenH
	}
	w, h := ebiten.WindowSize()
	if w <= 0 {
		w = a.cfg.Window.Width
	}
	if h <= 0 {
		h = a.cfg.Window.Height
	}
	return w, h
}

func (a *App) measureString(face font.Face, s string) int {
	if face == nil || s == "" {
		return 0
	}
	adv := font.MeasureString(face, s)
	px := (int(adv) + 32) >> 6
	if px < 0 {
		px = 0
	}
	return px
}

// uiFace returns a cached face for the UI, scaled by the current UI scale.
func (a *App) uiFace(size int, bold bool) font.Face {
	scaleKey := int(math.Round(float64(a.uiScale * 1000)))
	key := fontKey{size: size, bold: bold, scale: scaleKey}
	if f, ok := a.fonts.cache[key]; ok {
		return f
	}
	base := a.fonts.regular
	if bold {
		base = a.fonts.bold
	}
	if base == nil {
		return basicfont.Face7x13
	}
	opts := &opentype.FaceOptions{Size: float64(size) * float64(a.uiScale), DPI: 72, Hinting: font.HintingFull}
	face, err := opentype.NewFace(base, opts)
	if err != nil {
		return basicfont.Face7x13
	}
	a.fonts.cache[key] = face
	return face
}

func (a *App) drawHelpOverlay(screen *ebiten.Image, face font.Face) {
	w, h := screen.Bounds().Dx(), screen.Bounds().Dy()
	a.helpRect, a.helpClose = ui.HelpBounds(w, h)
	r := a.helpRect
	border := color.RGBA{R: 170, G: 184, B: 202, A: 255}
	a.drawFilledRectOnScreen(screen, 0, 0, w, h, color.RGBA{A: 90})
	a.drawFilledRectOnScreen(screen, r.X, r.Y, r.W, r.H, color.RGBA{R: 250, G: 251, B: 253, A: 255})
	ebitenutil.DrawLine(screen, float64(r.X), float64(r.Y), float64(r.X+r.W), float64(r.Y), border)
	ebitenutil.DrawLine(screen, float64(r.X), float64(r.Y+r.H), float64(r.X+r.W), float64(r.Y+r.H), border)
	ebitenutil.DrawLine(screen, float64(r.X), float64(r.Y), float64(r.X), float64(r.Y+r.H), border)
	ebitenutil.DrawLine(screen, float64(r.X+r.W), float64(r.Y), float64(r.X+r.W), float64(r.Y+r.H), border)

	c := a.helpClose
	a.drawFilledRectOnScreen(screen, c.X, c.Y, c.W, c.H, color.RGBA{R: 236, G: 241, B: 248, A: 255})
	text.Draw(screen, "Close", face, c.X+22, c.Y+20, color.RGBA{R: 52, G: 66, B: 92, A: 255})

	text.Draw(screen, "Help", a.uiFace(12, true), r.X+22, r.Y+30, color.RGBA{R: 30, G: 45, B: 67, A: 255})

	lines := ui.HelpLines(a.session.Options().Activation)
	y := r.Y + 62
	labelFace := a.uiFace(10, false)
	for _, l := range lines {
		text.Draw(screen, l, labelFace, r.X+20, y, color.RGBA{R: 48, G: 60, B: 78, A: 255})
		y += int(24 * a.uiScale)
	}
}

func (a *App) drawFilledRectOnScreen(screen *ebiten.Image, x, y, w, h int, c color.RGBA) {
	for yy := y; yy < y+h; yy++ {
		ebitenutil.DrawLine(screen, float64(x), float64(yy), float64(x+w), float64(yy), c)
	}
}

func modeLabel(m canvas.Mode) string {
	switch m {
	case canvas.ModePlaceOnClick:
		return "Click"
	case canvas.ModeDrawToResize:
		return "Draw"
	case canvas.ModePanCanvas:
		return "Pan"
	}
	return "None"
}

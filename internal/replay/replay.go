// Package replay drives a canvas session from a scripted list of input
// events and renders the result offscreen.
package replay

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"shapecanvas/internal/canvas"
	"shapecanvas/internal/platform"
	"shapecanvas/internal/platform/headless"
	"shapecanvas/internal/render"
	"shapecanvas/internal/ui"
)

var ErrUnknownEvent = errors.New("unknown event type")

// Step is one scripted input. Coordinates are screen pixels.
type Step struct {
	Type     string  `yaml:"type"`
	X        float64 `yaml:"x"`
	Y        float64 `yaml:"y"`
	Delta    float64 `yaml:"delta"`
	Distance float64 `yaml:"distance"`
	Target   string  `yaml:"target"`
	ShapeID  string  `yaml:"shape_id"`
	Mode     string  `yaml:"mode"`
	Width    int     `yaml:"width"`
	Height   int     `yaml:"height"`
}

type Script struct {
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	Seed   uint64 `yaml:"seed"`
	Steps  []Step `yaml:"events"`
}

// Load reads and parses a script file.
func Load(path string) (Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Script{}, fmt.Errorf("read script: %w", err)
	}
	sc, err := Parse(data)
	if err != nil {
		return Script{}, fmt.Errorf("%s: %w", path, err)
	}
	return sc, nil
}

// Parse decodes a script and checks every step can be turned into an event.
func Parse(data []byte) (Script, error) {
	var sc Script
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&sc); err != nil && !errors.Is(err, io.EOF) {
		return Script{}, fmt.Errorf("decode script: %w", err)
	}
	if sc.Width <= 0 {
		sc.Width = 800
	}
	if sc.Height <= 0 {
		sc.Height = 600
	}
	for i, st := range sc.Steps {
		if _, err := st.Event(); err != nil {
			return Script{}, fmt.Errorf("event %d: %w", i, err)
		}
	}
	return sc, nil
}

// Event converts the step to a platform event.
func (st Step) Event() (platform.Event, error) {
	typ, ok := platform.ParseEventType(st.Type)
	if !ok || typ == platform.EventClose {
		return platform.Event{}, fmt.Errorf("%w: %q", ErrUnknownEvent, st.Type)
	}
	ev := platform.Event{
		Type:     typ,
		X:        st.X,
		Y:        st.Y,
		Delta:    st.Delta,
		Distance: st.Distance,
		ShapeID:  st.ShapeID,
		Mode:     st.Mode,
		Width:    st.Width,
		Height:   st.Height,
	}
	switch st.Target {
	case "", "auto":
		ev.Target = platform.TargetAuto
	case "background":
		ev.Target = platform.TargetBackground
	case "shape":
		ev.Target = platform.TargetShape
	default:
		return platform.Event{}, fmt.Errorf("unknown target %q", st.Target)
	}
	if typ == platform.EventSelectMode || typ == platform.EventReleaseMode {
		if st.Mode == "" {
			return platform.Event{}, fmt.Errorf("%s needs a mode", typ)
		}
		if _, err := canvas.ParseMode(st.Mode); err != nil {
			return platform.Event{}, err
		}
	}
	return ev, nil
}

type Result struct {
	Session *canvas.Session
	Frame   *render.FrameBuffer
	Events  int
}

// Run feeds the script through a headless window into a fresh session,
// drawing a frame after every event. A non-zero script seed overrides the
// caller's session options.
func Run(sc Script, opts canvas.Options, logger *slog.Logger, sessionOpts ...canvas.SessionOption) (*Result, error) {
	if logger == nil {
		logger = slog.Default()
	}
	events := make([]platform.Event, 0, len(sc.Steps))
	for i, st := range sc.Steps {
		ev, err := st.Event()
		if err != nil {
			return nil, fmt.Errorf("event %d: %w", i, err)
		}
		events = append(events, ev)
	}
	if sc.Seed != 0 {
		sessionOpts = append(sessionOpts, canvas.WithSeed(sc.Seed))
	}

	backend := headless.New(events)
	win, err := backend.CreateWindow(platform.WindowConfig{Title: "replay", WidthPx: sc.Width, HeightPx: sc.Height})
	if err != nil {
		return nil, fmt.Errorf("create %s window: %w", backend.Name(), err)
	}
	defer win.Close()

	session := canvas.NewSession(opts, sessionOpts...)
	theme := ui.DefaultTheme()
	fb := render.NewFrameBuffer(win.SizePx())
	handled := 0

	for {
		done := false
		for _, ev := range win.PollEvents() {
			if ev.Type == platform.EventClose {
				done = true
				break
			}
			if ev.Type == platform.EventResize {
				if w, h := win.SizePx(); w != fb.W || h != fb.H {
					fb = render.NewFrameBuffer(w, h)
				}
			}
			session.Handle(ev)
			handled++
			logger.Debug("replayed event", "type", ev.Type, "x", ev.X, "y", ev.Y, "shapes", session.ShapeCount())
		}
		if done {
			break
		}
		ui.DrawScene(fb, session, theme)
		if err := win.Present(fb); err != nil {
			return nil, fmt.Errorf("present: %w", err)
		}
	}
	ui.DrawScene(fb, session, theme)
	logger.Info("replay finished", "events", handled, "shapes", session.ShapeCount(), "scale", session.Viewport().Scale)
	return &Result{Session: session, Frame: fb, Events: handled}, nil
}

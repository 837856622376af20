// Package headless is an offscreen platform: events come from a queue and
// presented frames are kept in memory.
package headless

import (
	"shapecanvas/internal/platform"
	"shapecanvas/internal/render"
)

type Backend struct {
	events []platform.Event
}

// New returns a backend whose first window delivers events in order.
func New(events []platform.Event) *Backend {
	return &Backend{events: append([]platform.Event(nil), events...)}
}

func (b *Backend) Name() string { return "headless" }

func (b *Backend) CreateWindow(cfg platform.WindowConfig) (platform.Window, error) {
	w := &Window{
		title: cfg.Title,
		w:     cfg.WidthPx,
		h:     cfg.HeightPx,
		queue: b.events,
	}
	b.events = nil
	return w, nil
}

// Window hands out its queue one event per poll, then reports close.
type Window struct {
	title    string
	w        int
	h        int
	queue    []platform.Event
	last     *render.FrameBuffer
	presents int
	closed   bool
}

func (w *Window) PollEvents() []platform.Event {
	if w.closed || len(w.queue) == 0 {
		return []platform.Event{{Type: platform.EventClose}}
	}
	ev := w.queue[0]
	w.queue = w.queue[1:]
	if ev.Type == platform.EventResize && ev.Width > 0 && ev.Height > 0 {
		w.w, w.h = ev.Width, ev.Height
	}
	return []platform.Event{ev}
}

func (w *Window) SizePx() (int, int) { return w.w, w.h }
func (w *Window) Title() string      { return w.title }
func (w *Window) SetTitle(title string) {
	w.title = title
}

// Present copies fb so later drawing into it does not change the kept frame.
func (w *Window) Present(fb *render.FrameBuffer) error {
	if fb == nil {
		return nil
	}
	cp := render.NewFrameBuffer(fb.W, fb.H)
	copy(cp.Pixels, fb.Pixels)
	w.last = cp
	w.presents++
	return nil
}

// LastFrame returns the most recently presented frame, or nil.
func (w *Window) LastFrame() *render.FrameBuffer { return w.last }

func (w *Window) Presents() int { return w.presents }

func (w *Window) Close() { w.closed = true }

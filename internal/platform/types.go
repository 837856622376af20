package platform

import "shapecanvas/internal/render"

type WindowConfig struct {
	Title    string
	WidthPx  int
	HeightPx int
}

type EventType int

const (
	EventUnknown EventType = iota
	EventClose
	EventResize
	EventPointerDown
	EventPointerMove
	EventPointerUp
	EventWheel
	EventTouchPinch
	EventTouchEnd
	EventSelectMode
	EventReleaseMode
	EventReset
)

var eventNames = map[EventType]string{
	EventUnknown:     "unknown",
	EventClose:       "close",
	EventResize:      "resize",
	EventPointerDown: "pointer_down",
	EventPointerMove: "pointer_move",
	EventPointerUp:   "pointer_up",
	EventWheel:       "wheel",
	EventTouchPinch:  "touch_pinch",
	EventTouchEnd:    "touch_end",
	EventSelectMode:  "select_mode",
	EventReleaseMode: "release_mode",
	EventReset:       "reset",
}

func (t EventType) String() string {
	if name, ok := eventNames[t]; ok {
		return name
	}
	return "unknown"
}

// ParseEventType maps the snake_case names used by replay scripts.
func ParseEventType(name string) (EventType, bool) {
	for t, n := range eventNames {
		if n == name && t != EventUnknown {
			return t, true
		}
	}
	return EventUnknown, false
}

// TargetKind says what a pointer-down landed on. TargetAuto leaves the
// decision to the receiver's own hit test.
type TargetKind int

const (
	TargetAuto TargetKind = iota
	TargetBackground
	TargetShape
)

// Event is one input delivered to a canvas session. X and Y are screen
// coordinates. Delta is the wheel direction, Distance the current two-finger
// span and Mode a mode name such as "place", "draw" or "pan".
type Event struct {
	Type     EventType
	Width    int
	Height   int
	X        float64
	Y        float64
	Delta    float64
	Distance float64
	Target   TargetKind
	ShapeID  string
	Mode     string
}

type Platform interface {
	Name() string
	CreateWindow(cfg WindowConfig) (Window, error)
}

type Window interface {
	PollEvents() []Event
	SizePx() (int, int)
	Present(fb *render.FrameBuffer) error
	SetTitle(title string)
	Close()
}

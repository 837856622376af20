package canvas

import "fmt"

// Mode selects which pointer handlers act on the background.
type Mode int

const (
	ModeNone Mode = iota
	ModePlaceOnClick
	ModeDrawToResize
	ModePanCanvas
)

func (m Mode) String() string {
	switch m {
	case ModeNone:
		return "none"
	case ModePlaceOnClick:
		return "place"
	case ModeDrawToResize:
		return "draw"
	case ModePanCanvas:
		return "pan"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// ParseMode is the inverse of Mode.String.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "none":
		return ModeNone, nil
	case "place", "":
		return ModePlaceOnClick, nil
	case "draw":
		return ModeDrawToResize, nil
	case "pan":
		return ModePanCanvas, nil
	}
	return ModeNone, fmt.Errorf("unknown mode %q", s)
}

// Activation decides how long a selected mode stays active.
type Activation int

const (
	// ActivationToggle keeps a mode until it is selected again or another
	// mode is selected.
	ActivationToggle Activation = iota
	// ActivationMomentary keeps a mode only while its control is held;
	// releasing restores the mode that was active before.
	ActivationMomentary
)

func (a Activation) String() string {
	if a == ActivationMomentary {
		return "momentary"
	}
	return "toggle"
}

func ParseActivation(s string) (Activation, error) {
	switch s {
	case "toggle", "":
		return ActivationToggle, nil
	case "momentary":
		return ActivationMomentary, nil
	}
	return ActivationToggle, fmt.Errorf("unknown activation %q", s)
}

type modeState struct {
	current  Mode
	previous Mode
	held     bool
}

func (ms *modeState) selectMode(m Mode, a Activation) {
	if a == ActivationMomentary {
		if !ms.held {
			ms.previous = ms.current
		}
		ms.current = m
		ms.held = true
		return
	}
	if ms.current == m {
		ms.current = ModeNone
		return
	}
	ms.current = m
}

func (ms *modeState) releaseMode(m Mode, a Activation) {
	if a != ActivationMomentary || !ms.held || ms.current != m {
		return
	}
	ms.current = ms.previous
	ms.held = false
}

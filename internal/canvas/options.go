package canvas

import "fmt"

// Growth is the draw-to-resize policy applied per pointer-move tick.
type Growth int

const (
	// GrowthStep adds one unit per move event.
	GrowthStep Growth = iota
	// GrowthHorizontal adds the horizontal pointer travel since the previous
	// move event, so dragging left shrinks the shape.
	GrowthHorizontal
)

func (g Growth) String() string {
	if g == GrowthHorizontal {
		return "horizontal"
	}
	return "step"
}

func ParseGrowth(s string) (Growth, error) {
	switch s {
	case "step", "":
		return GrowthStep, nil
	case "horizontal":
		return GrowthHorizontal, nil
	}
	return GrowthStep, fmt.Errorf("unknown growth policy %q", s)
}

// ColorPolicy picks where new shape colors come from.
type ColorPolicy int

const (
	ColorRandom ColorPolicy = iota
	ColorPalette
)

func (c ColorPolicy) String() string {
	if c == ColorPalette {
		return "palette"
	}
	return "random"
}

func ParseColorPolicy(s string) (ColorPolicy, error) {
	switch s {
	case "random", "":
		return ColorRandom, nil
	case "palette":
		return ColorPalette, nil
	}
	return ColorRandom, fmt.Errorf("unknown color policy %q", s)
}

// SizeLimits bounds every shape size and the range new shapes are drawn from.
type SizeLimits struct {
	Min      float64
	Max      float64
	SpawnMin float64
	SpawnMax float64
}

func (l SizeLimits) Clamp(size float64) float64 {
	if size < l.Min {
		return l.Min
	}
	if size > l.Max {
		return l.Max
	}
	return size
}

// Options configures a Session.
type Options struct {
	Sizes       SizeLimits
	Zoom        ZoomLimits
	Growth      Growth
	Colors      ColorPolicy
	Palette     []RGB
	Activation  Activation
	InitialMode Mode
	// ClickSlop is the screen distance a pointer may travel between press and
	// release on a shape and still count as a click.
	ClickSlop float64
}

func DefaultPalette() []RGB {
	return []RGB{
		{0xE5, 0x39, 0x35}, {0xFB, 0x8C, 0x00}, {0xFD, 0xD8, 0x35}, {0x43, 0xA0, 0x47},
		{0x00, 0x89, 0x7B}, {0x1E, 0x88, 0xE5}, {0x3F, 0x51, 0xB5}, {0x8E, 0x24, 0xAA},
		{0xD8, 0x1B, 0x60}, {0x6D, 0x4C, 0x41}, {0x54, 0x6E, 0x7A}, {0x21, 0x21, 0x21},
	}
}

func DefaultOptions() Options {
	return Options{
		Sizes:       SizeLimits{Min: 50, Max: 150, SpawnMin: 50, SpawnMax: 100},
		Zoom:        DefaultZoomLimits(),
		Growth:      GrowthStep,
		Colors:      ColorRandom,
		Palette:     DefaultPalette(),
		Activation:  ActivationToggle,
		InitialMode: ModePlaceOnClick,
		ClickSlop:   3,
	}
}

// normalized fills zero fields from the defaults so a partially populated
// Options is still usable.
func (o Options) normalized() Options {
	d := DefaultOptions()
	if o.Sizes.Max <= 0 || o.Sizes.Min <= 0 || o.Sizes.Min > o.Sizes.Max {
		o.Sizes.Min, o.Sizes.Max = d.Sizes.Min, d.Sizes.Max
	}
	if o.Sizes.SpawnMin <= 0 || o.Sizes.SpawnMax <= 0 || o.Sizes.SpawnMin > o.Sizes.SpawnMax {
		o.Sizes.SpawnMin, o.Sizes.SpawnMax = d.Sizes.SpawnMin, d.Sizes.SpawnMax
	}
	o.Sizes.SpawnMin = o.Sizes.Clamp(o.Sizes.SpawnMin)
	o.Sizes.SpawnMax = o.Sizes.Clamp(o.Sizes.SpawnMax)
	if o.Zoom.Factor <= 1 {
		o.Zoom.Factor = d.Zoom.Factor
	}
	if o.Zoom.MinScale <= 0 || o.Zoom.MaxScale <= 0 || o.Zoom.MinScale > o.Zoom.MaxScale {
		o.Zoom.MinScale, o.Zoom.MaxScale = d.Zoom.MinScale, d.Zoom.MaxScale
	}
	if len(o.Palette) == 0 {
		o.Palette = d.Palette
	}
	if o.ClickSlop <= 0 {
		o.ClickSlop = d.ClickSlop
	}
	return o
}

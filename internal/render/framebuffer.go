package render

import (
	"image"
	"image/color"
	"math"
)

type FrameBuffer struct {
	W      int
	H      int
	Pixels []uint8 // RGBA
}

func NewFrameBuffer(w, h int) *FrameBuffer {
	if w <= 0 {
		w = 1
	}
	if h <= 0 {
		h = 1
	}
	return &FrameBuffer{W: w, H: h, Pixels: make([]uint8, w*h*4)}
}

func (fb *FrameBuffer) Clear(c color.RGBA) {
	for i := 0; i < len(fb.Pixels); i += 4 {
		fb.Pixels[i+0] = c.R
		fb.Pixels[i+1] = c.G
		fb.Pixels[i+2] = c.B
		fb.Pixels[i+3] = c.A
	}
}

// At returns the pixel at (x, y), or transparent black outside the buffer.
func (fb *FrameBuffer) At(x, y int) color.RGBA {
	if x < 0 || y < 0 || x >= fb.W || y >= fb.H {
		return color.RGBA{}
	}
	i := (y*fb.W + x) * 4
	return color.RGBA{R: fb.Pixels[i], G: fb.Pixels[i+1], B: fb.Pixels[i+2], A: fb.Pixels[i+3]}
}

// Image wraps the pixels without copying.
func (fb *FrameBuffer) Image() *image.RGBA {
	return &image.RGBA{Pix: fb.Pixels, Stride: fb.W * 4, Rect: image.Rect(0, 0, fb.W, fb.H)}
}

func (fb *FrameBuffer) FillRect(x, y, w, h int, c color.RGBA) {
	if w <= 0 || h <= 0 {
		return
	}
	if x < 0 {
		w += x
		x = 0
	}
	if y < 0 {
		h += y
		y = 0
	}
	if x+w > fb.W {
		w = fb.W - x
	}
	if y+h > fb.H {
		h = fb.H - y
	}
	if w <= 0 || h <= 0 {
		return
	}
	for row := 0; row < h; row++ {
		fb.fillSpan(x, x+w, y+row, c)
	}
}

func (fb *FrameBuffer) StrokeRect(x, y, w, h, line int, c color.RGBA) {
	if line <= 0 {
		line = 1
	}
	fb.FillRect(x, y, w, line, c)
	fb.FillRect(x, y+h-line, w, line, c)
	fb.FillRect(x, y, line, h, c)
	fb.FillRect(x+w-line, y, line, h, c)
}

// FillCircle fills every pixel whose center lies within r of (cx, cy).
func (fb *FrameBuffer) FillCircle(cx, cy, r float64, c color.RGBA) {
	if r <= 0 {
		return
	}
	y0 := clampInt(int(math.Floor(cy-r)), 0, fb.H)
	y1 := clampInt(int(math.Ceil(cy+r)), 0, fb.H)
	for y := y0; y < y1; y++ {
		dy := float64(y) + 0.5 - cy
		d := r*r - dy*dy
		if d < 0 {
			continue
		}
		half := math.Sqrt(d)
		fb.fillSpan(int(math.Ceil(cx-half-0.5)), int(math.Floor(cx+half-0.5))+1, y, c)
	}
}

// FillTriangle scan-converts the triangle (x0,y0) (x1,y1) (x2,y2) using pixel
// centers.
func (fb *FrameBuffer) FillTriangle(x0, y0, x1, y1, x2, y2 float64, c color.RGBA) {
	minY := math.Min(y0, math.Min(y1, y2))
	maxY := math.Max(y0, math.Max(y1, y2))
	ys := clampInt(int(math.Floor(minY)), 0, fb.H)
	ye := clampInt(int(math.Ceil(maxY)), 0, fb.H)
	edges := [3][4]float64{{x0, y0, x1, y1}, {x1, y1, x2, y2}, {x2, y2, x0, y0}}
	for y := ys; y < ye; y++ {
		py := float64(y) + 0.5
		left, right := math.Inf(1), math.Inf(-1)
		for _, e := range edges {
			ax, ay, bx, by := e[0], e[1], e[2], e[3]
			if (py < ay) == (py < by) {
				continue
			}
			x := ax + (py-ay)*(bx-ax)/(by-ay)
			left = math.Min(left, x)
			right = math.Max(right, x)
		}
		if left > right {
			continue
		}
		fb.fillSpan(int(math.Ceil(left-0.5)), int(math.Floor(right-0.5))+1, y, c)
	}
}

// fillSpan fills [x0, x1) on row y, clipped to the buffer.
func (fb *FrameBuffer) fillSpan(x0, x1, y int, c color.RGBA) {
	if y < 0 || y >= fb.H {
		return
	}
	x0 = clampInt(x0, 0, fb.W)
	x1 = clampInt(x1, 0, fb.W)
	off := y * fb.W * 4
	for x := x0; x < x1; x++ {
		idx := off + x*4
		fb.Pixels[idx+0] = c.R
		fb.Pixels[idx+1] = c.G
		fb.Pixels[idx+2] = c.B
		fb.Pixels[idx+3] = c.A
	}
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Package export rasterizes a canvas session to PNG with anti-aliased vector
// rendering.
package export

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"

	"github.com/gogpu/gg"

	"shapecanvas/internal/canvas"
)

var ErrEmptyCanvas = errors.New("export: width and height must be positive")

// Frame describes what to draw: the shapes in z-order, the viewport they are
// seen through and the output size in pixels.
type Frame struct {
	Shapes     []canvas.Shape
	Viewport   canvas.Viewport
	Width      int
	Height     int
	Background color.RGBA
}

// FrameOf captures the current state of a session.
func FrameOf(s *canvas.Session, width, height int, bg color.RGBA) Frame {
	return Frame{Shapes: s.Shapes(), Viewport: s.Viewport(), Width: width, Height: height, Background: bg}
}

// Render draws the frame into a new image.
func Render(f Frame) (image.Image, error) {
	if f.Width <= 0 || f.Height <= 0 {
		return nil, ErrEmptyCanvas
	}
	dc := gg.NewContext(f.Width, f.Height)
	defer dc.Close()

	dc.ClearWithColor(gg.FromColor(f.Background))
	dc.Translate(f.Viewport.Offset.X, f.Viewport.Offset.Y)
	dc.Scale(f.Viewport.Scale, f.Viewport.Scale)

	for _, sh := range f.Shapes {
		dc.SetColor(color.RGBA{R: sh.Color.R, G: sh.Color.G, B: sh.Color.B, A: 0xFF})
		half := sh.Size / 2
		switch sh.Kind {
		case canvas.KindRectangle:
			dc.DrawRectangle(sh.Position.X-half, sh.Position.Y-half, sh.Size, sh.Size)
		case canvas.KindCircle:
			dc.DrawCircle(sh.Position.X, sh.Position.Y, half)
		case canvas.KindTriangle:
			a, b, c := sh.TriangleVertices()
			dc.MoveTo(a.X, a.Y)
			dc.LineTo(b.X, b.Y)
			dc.LineTo(c.X, c.Y)
			dc.ClosePath()
		default:
			continue
		}
		if err := dc.Fill(); err != nil {
			return nil, fmt.Errorf("fill %s %s: %w", sh.Kind, sh.ID, err)
		}
	}
	return dc.Image(), nil
}

// EncodePNG renders the frame and writes it as PNG.
func EncodePNG(w io.Writer, f Frame) error {
	img, err := Render(f)
	if err != nil {
		return err
	}
	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}

// PNGBytes is EncodePNG into memory, for clipboard use.
func PNGBytes(f Frame) ([]byte, error) {
	var buf bytes.Buffer
	if err := EncodePNG(&buf, f); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteFile renders the frame to a PNG file at path.
func WriteFile(path string, f Frame) error {
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := EncodePNG(out, f); err != nil {
		out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	return nil
}

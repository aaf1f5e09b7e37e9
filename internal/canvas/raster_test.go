package canvas

import (
	"strings"
	"testing"

	"github.com/lucasb-eyer/go-colorful"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/tinytelemetry/hourglass/internal/particles"
)

var (
	black = colorful.Color{}
	white = colorful.Color{R: 1, G: 1, B: 1}
)

func TestSizeIsTwoPixelsPerRow(t *testing.T) {
	r := New(40, 10, black)
	w, h := r.Size()
	if w != 40 || h != 20 {
		t.Errorf("Size() = %dx%d, want 40x20", w, h)
	}
}

func TestFillCircleOpaqueCenter(t *testing.T) {
	r := New(20, 10, black)
	center := r2.Vec{X: 10, Y: 10}
	r.FillCircle(center, 4, particles.Gradient{Focus: center, Inner: white, Outer: white}, 1)

	got, ok := r.Pixel(10, 10)
	if !ok {
		t.Fatal("Pixel(10,10) out of range")
	}
	if !got.AlmostEqualRgb(white) {
		t.Errorf("center pixel = %v, want white", got.Hex())
	}
	corner, _ := r.Pixel(0, 0)
	if !corner.AlmostEqualRgb(black) {
		t.Errorf("corner pixel = %v, want background", corner.Hex())
	}
}

func TestFillCircleAlphaBlends(t *testing.T) {
	r := New(20, 10, black)
	center := r2.Vec{X: 10, Y: 10}
	r.FillCircle(center, 3, particles.Gradient{Focus: center, Inner: white, Outer: white}, 0.5)

	got, _ := r.Pixel(10, 10)
	if got.R < 0.45 || got.R > 0.55 {
		t.Errorf("half alpha pixel R = %v, want ~0.5", got.R)
	}
}

func TestFillCircleGradientDarkensTowardRim(t *testing.T) {
	r := New(40, 20, black)
	center := r2.Vec{X: 20, Y: 20}
	g := particles.Gradient{Focus: r2.Vec{X: 17, Y: 17}, Inner: white, Outer: colorful.Color{R: 0.2, G: 0.2, B: 0.2}}
	r.FillCircle(center, 8, g, 1)

	nearFocus, _ := r.Pixel(17, 17)
	farSide, _ := r.Pixel(25, 24)
	if nearFocus.R <= farSide.R {
		t.Errorf("focus pixel %v should be brighter than rim pixel %v", nearFocus.Hex(), farSide.Hex())
	}
}

func TestFillCircleOffCanvasIsSkipped(t *testing.T) {
	r := New(10, 5, black)
	g := particles.Gradient{Inner: white, Outer: white}
	r.FillCircle(r2.Vec{X: -50, Y: -50}, 5, g, 1)
	r.FillCircle(r2.Vec{X: 500, Y: 3}, 5, g, 1)
	r.FillCircle(r2.Vec{X: 0, Y: 0}, 3, g, 1) // partially visible

	got, _ := r.Pixel(0, 0)
	if !got.AlmostEqualRgb(white) {
		t.Errorf("partially visible disc not drawn at origin")
	}
	if _, ok := r.Pixel(10, 0); ok {
		t.Error("Pixel(10,0) should be out of range")
	}
}

func TestClearResetsPixelsAndOverlay(t *testing.T) {
	r := New(10, 4, black)
	r.FillCircle(r2.Vec{X: 5, Y: 4}, 3, particles.Gradient{Inner: white, Outer: white}, 1)
	r.DrawText(0, 0, "hi", white, false)
	r.Clear()

	for y := 0; y < 8; y++ {
		for x := 0; x < 10; x++ {
			if p, _ := r.Pixel(x, y); !p.AlmostEqualRgb(black) {
				t.Fatalf("pixel (%d,%d) = %v after Clear", x, y, p.Hex())
			}
		}
	}
	if strings.Contains(r.Render(), "hi") {
		t.Error("overlay survived Clear")
	}
}

func TestRenderShapeAndOverlay(t *testing.T) {
	r := New(12, 3, black)
	r.DrawTextCentered(1, []string{"12:00"}, white, true)

	out := r.Render()
	lines := strings.Split(out, "\n")
	if len(lines) != 3 {
		t.Fatalf("Render() lines = %d, want 3", len(lines))
	}
	if !strings.Contains(lines[1], "12:00") {
		t.Errorf("overlay row = %q, want it to contain 12:00", lines[1])
	}
}

func TestDrawTextClipsAtEdges(t *testing.T) {
	r := New(4, 1, black)
	r.DrawText(-2, 0, "abcdef", white, false)
	r.DrawText(0, 5, "zz", white, false)
	out := r.Render()
	if !strings.Contains(out, "cdef") {
		t.Errorf("Render() = %q, want clipped text cdef", out)
	}
}

func TestEmptyRaster(t *testing.T) {
	r := New(0, 0, black)
	if out := r.Render(); out != "" {
		t.Errorf("Render() = %q, want empty", out)
	}
	r.FillCircle(r2.Vec{}, 3, particles.Gradient{}, 1)
}

func TestClearTextKeepsPixels(t *testing.T) {
	r := New(10, 4, black)
	r.FillCircle(r2.Vec{X: 5, Y: 4}, 3, particles.Gradient{Focus: r2.Vec{X: 5, Y: 4}, Inner: white, Outer: white}, 1)
	r.DrawText(0, 0, "hi", white, false)
	r.ClearText()

	if p, _ := r.Pixel(5, 4); !p.AlmostEqualRgb(white) {
		t.Errorf("pixel (5,4) = %v after ClearText, want white", p.Hex())
	}
	if strings.Contains(r.Render(), "hi") {
		t.Error("overlay survived ClearText")
	}
}

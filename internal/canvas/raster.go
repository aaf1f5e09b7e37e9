// Package canvas is a terminal raster: a grid of cells, each split into two
// vertical pixels rendered with the upper half block. It implements the
// particle drawing surface and carries text overlays for the clock.
package canvas

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/tinytelemetry/hourglass/internal/particles"
)

const halfBlock = "▀"

type overlayCell struct {
	r    rune
	fg   colorful.Color
	bold bool
	set  bool
}

// Raster is a cols × rows cell grid with 2 × rows logical pixel rows.
type Raster struct {
	cols, rows int
	background colorful.Color
	pixels     []colorful.Color // (rows*2) × cols
	overlay    []overlayCell    // rows × cols
}

// New allocates a raster. Non-positive sizes produce an empty raster.
func New(cols, rows int, background colorful.Color) *Raster {
	r := &Raster{background: background}
	r.Resize(cols, rows)
	return r
}

var _ particles.Surface = (*Raster)(nil)

// Resize reallocates the pixel and overlay buffers for a new cell size.
func (r *Raster) Resize(cols, rows int) {
	r.cols = max(cols, 0)
	r.rows = max(rows, 0)
	r.pixels = make([]colorful.Color, r.cols*r.rows*2)
	r.overlay = make([]overlayCell, r.cols*r.rows)
	r.Clear()
}

// Cells returns the raster size in terminal cells.
func (r *Raster) Cells() (cols, rows int) { return r.cols, r.rows }

// Size returns the raster size in logical pixels.
func (r *Raster) Size() (width, height int) { return r.cols, r.rows * 2 }

// SetBackground changes the clear color. It applies on the next Clear.
func (r *Raster) SetBackground(c colorful.Color) { r.background = c }

// Clear fills every pixel with the background and drops text overlays.
func (r *Raster) Clear() {
	for i := range r.pixels {
		r.pixels[i] = r.background
	}
	clear(r.overlay)
}

// ClearText drops text overlays and keeps the pixels.
func (r *Raster) ClearText() { clear(r.overlay) }

// Pixel returns the color at logical pixel (x, y).
func (r *Raster) Pixel(x, y int) (colorful.Color, bool) {
	w, h := r.Size()
	if x < 0 || y < 0 || x >= w || y >= h {
		return colorful.Color{}, false
	}
	return r.pixels[y*r.cols+x], true
}

// FillCircle composites a radially shaded disc. Pixels outside the raster
// are skipped.
func (r *Raster) FillCircle(center r2.Vec, radius float64, g particles.Gradient, alpha float64) {
	if radius <= 0 || alpha <= 0 {
		return
	}
	alpha = math.Min(alpha, 1)
	w, h := r.Size()

	x0 := max(int(math.Floor(center.X-radius)), 0)
	x1 := min(int(math.Ceil(center.X+radius)), w-1)
	y0 := max(int(math.Floor(center.Y-radius)), 0)
	y1 := min(int(math.Ceil(center.Y+radius)), h-1)
	if x0 > x1 || y0 > y1 {
		return
	}

	// Distance from focus to the far rim bounds the gradient.
	span := radius + r2.Norm(r2.Sub(g.Focus, center))
	r2sq := radius * radius

	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			px := r2.Vec{X: float64(x) + 0.5, Y: float64(y) + 0.5}
			d := r2.Sub(px, center)
			if d.X*d.X+d.Y*d.Y > r2sq {
				continue
			}
			t := r2.Norm(r2.Sub(px, g.Focus)) / span
			shade := g.Inner.BlendRgb(g.Outer, math.Min(t, 1))
			i := y*r.cols + x
			r.pixels[i] = r.pixels[i].BlendRgb(shade, alpha).Clamped()
		}
	}
}

// DrawText places text on row starting at col. Runes outside the raster are
// dropped. Text cells keep the pixel colors as background.
func (r *Raster) DrawText(col, row int, text string, fg colorful.Color, bold bool) {
	if row < 0 || row >= r.rows {
		return
	}
	x := col
	for _, ch := range text {
		if x >= r.cols {
			return
		}
		if x >= 0 && ch != ' ' {
			r.overlay[row*r.cols+x] = overlayCell{r: ch, fg: fg, bold: bold, set: true}
		}
		x++
	}
}

// DrawTextCentered draws each line horizontally centered, starting at row.
func (r *Raster) DrawTextCentered(row int, lines []string, fg colorful.Color, bold bool) {
	for i, line := range lines {
		width := lipgloss.Width(line)
		r.DrawText((r.cols-width)/2, row+i, line, fg, bold)
	}
}

// Render converts the raster into terminal text, one line per cell row.
// Adjacent cells with identical styling are emitted as a single run.
func (r *Raster) Render() string {
	if r.cols == 0 || r.rows == 0 {
		return ""
	}
	var out strings.Builder
	for row := 0; row < r.rows; row++ {
		if row > 0 {
			out.WriteByte('\n')
		}
		r.renderRow(&out, row)
	}
	return out.String()
}

type cellStyle struct {
	fg, bg string
	bold   bool
}

func (r *Raster) renderRow(out *strings.Builder, row int) {
	var run strings.Builder
	var cur cellStyle
	flush := func() {
		if run.Len() == 0 {
			return
		}
		style := lipgloss.NewStyle().
			Foreground(lipgloss.Color(cur.fg)).
			Background(lipgloss.Color(cur.bg)).
			Bold(cur.bold)
		out.WriteString(style.Render(run.String()))
		run.Reset()
	}

	for col := 0; col < r.cols; col++ {
		top := r.pixels[(row*2)*r.cols+col]
		bottom := r.pixels[(row*2+1)*r.cols+col]

		var st cellStyle
		var glyph string
		if ov := r.overlay[row*r.cols+col]; ov.set {
			st = cellStyle{fg: ov.fg.Hex(), bg: top.BlendRgb(bottom, 0.5).Clamped().Hex(), bold: ov.bold}
			glyph = string(ov.r)
		} else {
			st = cellStyle{fg: top.Clamped().Hex(), bg: bottom.Clamped().Hex()}
			glyph = halfBlock
		}

		if st != cur {
			flush()
			cur = st
		}
		run.WriteString(glyph)
	}
	flush()
}

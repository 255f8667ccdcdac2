package tui

import (
	"image"
	"image/color"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const upperHalf = "▀"

// cellPair is the colour of the upper and lower pixel under one terminal cell.
type cellPair struct {
	top, bottom color.RGBA
}

// ImageRenderer converts a frame image to styled half-block text.
// Styles are cached per colour pair.
type ImageRenderer struct {
	renderer *lipgloss.Renderer
	styles   map[cellPair]lipgloss.Style
}

// NewImageRenderer creates a renderer bound to a lipgloss renderer. A nil
// renderer uses the default one for stdout.
func NewImageRenderer(r *lipgloss.Renderer) *ImageRenderer {
	if r == nil {
		r = lipgloss.DefaultRenderer()
	}
	return &ImageRenderer{
		renderer: r,
		styles:   make(map[cellPair]lipgloss.Style),
	}
}

// Size returns the terminal columns and rows an image of w x h pixels takes
// at the given scale.
func Size(w, h, scale int) (cols, rows int) {
	if scale < 1 {
		scale = 1
	}
	return w * scale, (h*scale + 1) / 2
}

// FitScale returns the largest integer scale at which a w x h pixel image fits
// in cols x rows terminal cells, never less than 1.
func FitScale(w, h, cols, rows int) int {
	scale := 1
	for {
		c, r := Size(w, h, scale+1)
		if c > cols || r > rows {
			return scale
		}
		scale++
	}
}

// Render draws img with each pixel scale cells wide and scale half-cells tall.
// Runs of cells with the same colours share one escape sequence.
func (ir *ImageRenderer) Render(img *image.RGBA, scale int) string {
	if scale < 1 {
		scale = 1
	}
	b := img.Bounds()
	cols, rows := Size(b.Dx(), b.Dy(), scale)

	at := func(col, py int) color.RGBA {
		if py >= b.Dy()*scale {
			return color.RGBA{A: 0xFF}
		}
		return img.RGBAAt(b.Min.X+col/scale, b.Min.Y+py/scale)
	}

	var sb strings.Builder
	sb.Grow(cols*rows*len(upperHalf) + rows)

	for row := 0; row < rows; row++ {
		if row > 0 {
			sb.WriteRune('\n')
		}

		col := 0
		for col < cols {
			start := cellPair{top: at(col, 2*row), bottom: at(col, 2*row+1)}

			n := 0
			for col < cols {
				p := cellPair{top: at(col, 2*row), bottom: at(col, 2*row+1)}
				if p != start {
					break
				}
				n++
				col++
			}

			sb.WriteString(ir.style(start).Render(strings.Repeat(upperHalf, n)))
		}
	}
	return sb.String()
}

func (ir *ImageRenderer) style(p cellPair) lipgloss.Style {
	if s, ok := ir.styles[p]; ok {
		return s
	}
	s := ir.renderer.NewStyle().
		Foreground(lipgloss.Color(hexColor(p.top))).
		Background(lipgloss.Color(hexColor(p.bottom)))
	ir.styles[p] = s
	return s
}

func hexColor(c color.RGBA) string {
	const digits = "0123456789ABCDEF"
	return string([]byte{
		'#',
		digits[c.R>>4], digits[c.R&0xF],
		digits[c.G>>4], digits[c.G&0xF],
		digits[c.B>>4], digits[c.B&0xF],
	})
}

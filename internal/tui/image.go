package tui

import (
	"image"
	"image/color"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
)

const upperHalfBlock = "▀"

// renderImage draws img with half-block characters, one cell holding two
// vertically stacked samples. step is the pixel distance between samples
// (the module size for QR codes); it grows until the result fits in
// maxCols columns and maxRows rows.
func renderImage(img image.Image, step, maxCols, maxRows int) string {
	if img == nil || maxCols <= 0 || maxRows <= 0 {
		return ""
	}
	b := img.Bounds()
	if b.Empty() {
		return ""
	}
	step = min(max(step, 1), b.Dx(), b.Dy())
	for b.Dx()/step > maxCols || (b.Dy()/step+1)/2 > maxRows {
		step++
	}

	cols := b.Dx() / step
	samples := b.Dy() / step
	styles := make(map[[2]string]lipgloss.Style)

	var sb strings.Builder
	for y := 0; y < samples; y += 2 {
		for x := 0; x < cols; x++ {
			top := sampleHex(img, b, x, y, step)
			bottom := top
			if y+1 < samples {
				bottom = sampleHex(img, b, x, y+1, step)
			}
			key := [2]string{top, bottom}
			style, ok := styles[key]
			if !ok {
				style = lipgloss.NewStyle().
					Foreground(lipgloss.Color(top)).
					Background(lipgloss.Color(bottom))
				styles[key] = style
			}
			sb.WriteString(style.Render(upperHalfBlock))
		}
		if y+2 < samples {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

// sampleHex returns the color at the center of a sample cell
func sampleHex(img image.Image, b image.Rectangle, x, y, step int) string {
	px := b.Min.X + x*step + step/2
	py := b.Min.Y + y*step + step/2
	return colorHex(img.At(px, py))
}

func colorHex(c color.Color) string {
	cf, ok := colorful.MakeColor(c)
	if !ok {
		// fully transparent
		return "#ffffff"
	}
	return cf.Hex()
}

// swatch renders a small block in the given hex color
func swatch(hex string) string {
	c, err := colorful.Hex(hex)
	if err != nil {
		return "  "
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(c.Hex())).Render("██")
}

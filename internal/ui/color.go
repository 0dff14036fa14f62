package ui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/olivier-w/lineminimap/internal/motion"
)

type colorRGB struct {
	R uint8
	G uint8
	B uint8
}

var (
	backgroundColor = colorRGB{R: 17, G: 17, B: 17}
	activeColor     = colorRGB{R: 238, G: 238, B: 238}
	baseColor       = colorRGB{R: 143, G: 143, B: 143}
)

func lerpColor(a, b colorRGB, t float64) colorRGB {
	t = motion.Clamp(t, 0, 1)
	return colorRGB{
		R: uint8(float64(a.R) + (float64(b.R)-float64(a.R))*t),
		G: uint8(float64(a.G) + (float64(b.G)-float64(a.G))*t),
		B: uint8(float64(a.B) + (float64(b.B)-float64(a.B))*t),
	}
}

func (c colorRGB) hex() string {
	return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
}

// lineColor fades a line's color over the background by opacity; the
// terminal has no alpha channel.
func lineColor(active bool, opacity float64) lipgloss.Color {
	fg := baseColor
	if active {
		fg = activeColor
	}
	return lipgloss.Color(lerpColor(backgroundColor, fg, opacity).hex())
}

package ui

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/olivier-w/lineminimap/internal/motion"
)

const (
	baseGlyph   = "│"
	activeGlyph = "┃"
	markerGlyph = "▼"
)

func renderMarker(originCol, col int) string {
	if col < 0 {
		col = 0
	}
	return strings.Repeat(" ", originCol+col) + markerStyle.Render(markerGlyph)
}

// lineRows converts a line's scaled height to whole rows, bounded by the
// strip height. A line never vanishes entirely.
func lineRows(height, scale, unitsPerRow float64, rows int) int {
	n := int(math.Round(height * scale / unitsPerRow))
	if n < 1 {
		n = 1
	}
	if n > rows {
		n = rows
	}
	return n
}

// renderStrip draws the lines bottom-aligned, one column each, at the
// strip-relative columns in cols.
func renderStrip(states []motion.ElementState, cols []int, originCol, rows int, unitsPerRow float64) string {
	width := 0
	for _, c := range cols {
		if c+1 > width {
			width = c + 1
		}
	}
	at := make([]int, width)
	for c := range at {
		at[c] = -1
	}
	for i, c := range cols {
		if i < len(states) {
			at[c] = i
		}
	}

	heights := make([]int, len(states))
	glyphs := make([]string, len(states))
	for i, st := range states {
		heights[i] = lineRows(st.Height, st.Scale, unitsPerRow, rows)
		glyph := baseGlyph
		if st.Active {
			glyph = activeGlyph
		}
		glyphs[i] = lipgloss.NewStyle().Foreground(lineColor(st.Active, st.Opacity)).Render(glyph)
	}

	pad := strings.Repeat(" ", originCol)
	var sb strings.Builder
	for row := range rows {
		sb.WriteString(pad)
		fromBottom := rows - 1 - row
		for _, i := range at {
			if i < 0 || fromBottom >= heights[i] {
				sb.WriteByte(' ')
				continue
			}
			sb.WriteString(glyphs[i])
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

func countLines(s string) int {
	return strings.Count(s, "\n")
}

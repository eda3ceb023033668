// Package graph renders metric value sequences as plain-text line charts and
// summary lines. Everything here is pure: no styling, no I/O, no shared state.
package graph

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

const (
	// NoData is returned by Render for an empty value sequence.
	NoData = "No data"

	DefaultWidth  = 60
	DefaultHeight = 8

	// labelPad is the blank label for rows without an axis value; it matches
	// the width of a "%6.1f" label.
	labelPad = "      "
	axisPad  = "       "
)

// Stroke glyphs
const (
	glyphLine      = '─'
	glyphVertical  = '│'
	glyphRiseTo    = '╭'
	glyphRiseFrom  = '╯'
	glyphFallTo    = '╰'
	glyphFallFrom  = '╮'
	glyphBlank     = ' '
	axisTick       = " ┤"
	axisCorner     = "└"
	axisNowMarker  = "now"
	axisZeroMarker = "0"
)

// Render draws values as an ASCII line chart of width columns and height rows,
// with min/mid/max labels on the left and an axis caption carrying unit.
// Non-positive width or height fall back to the defaults. values is never modified.
func Render(values []float64, title string, width, height int, unit string) string {
	if len(values) == 0 {
		return NoData
	}
	if width <= 0 {
		width = DefaultWidth
	}
	if height <= 0 {
		height = DefaultHeight
	}

	minVal, maxVal := bounds(values)
	valRange := maxVal - minVal
	if maxVal == minVal {
		valRange = 1
	}

	grid := plot(values, minVal, valRange, width, height)

	lines := make([]string, 0, height+3)
	if title != "" {
		lines = append(lines, title)
	}

	top := fmt.Sprintf("%6.1f", maxVal)
	mid := fmt.Sprintf("%6.1f", (maxVal+minVal)/2)
	bottom := fmt.Sprintf("%6.1f", minVal)

	for i, row := range grid {
		label := labelPad
		switch i {
		case 0:
			label = top
		case height - 1:
			label = bottom
		case height / 2:
			label = mid
		}
		lines = append(lines, label+axisTick+string(row))
	}

	lines = append(lines, axisPad+axisCorner+strings.Repeat(string(glyphLine), width))
	lines = append(lines, caption(width, unit))

	return strings.Join(lines, "\n")
}

// plot rasterizes values into a fresh height×width grid. Columns pick the
// nearest preceding sample; no interpolation happens across skipped samples.
func plot(values []float64, minVal, valRange float64, width, height int) [][]rune {
	grid := make([][]rune, height)
	for i := range grid {
		grid[i] = make([]rune, width)
		for j := range grid[i] {
			grid[i][j] = glyphBlank
		}
	}

	step := 1.0
	if len(values) > width {
		step = float64(len(values)) / float64(width)
	}

	prevY := -1
	for x := 0; x < width; x++ {
		idx := int(float64(x) * step)
		if idx > len(values)-1 {
			idx = len(values) - 1
		}

		normalized := (values[idx] - minVal) / valRange
		y := clamp(height-1-int(normalized*float64(height-1)), height-1)

		grid[y][x] = glyphLine

		if prevY >= 0 && x > 0 {
			switch {
			case y < prevY:
				for fill := y + 1; fill < prevY; fill++ {
					grid[fill][x] = glyphVertical
				}
				grid[y][x] = glyphRiseTo
				// Only a plain stroke is turned into a corner; an existing
				// corner from the previous column is left as is.
				if grid[prevY][x-1] == glyphLine {
					grid[prevY][x-1] = glyphRiseFrom
				}
			case y > prevY:
				for fill := prevY + 1; fill < y; fill++ {
					grid[fill][x] = glyphVertical
				}
				grid[y][x] = glyphFallTo
				if grid[prevY][x-1] == glyphLine {
					grid[prevY][x-1] = glyphFallFrom
				}
			}
		}

		prevY = y
	}

	return grid
}

// caption builds the line under the axis rule: 0 on the left, unit roughly
// centred and "now" on the right.
func caption(width int, unit string) string {
	half := width / 2
	unitLen := utf8.RuneCountInString(unit)

	var b strings.Builder
	b.WriteString(axisPad)
	b.WriteString(axisZeroMarker)
	b.WriteString(spaces(half - 1))
	b.WriteString(unit)
	b.WriteString(spaces(half - unitLen))
	b.WriteString(axisNowMarker)
	return b.String()
}

func spaces(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.Repeat(" ", n)
}

func bounds(values []float64) (minVal, maxVal float64) {
	minVal, maxVal = values[0], values[0]
	for _, v := range values[1:] {
		if v < minVal {
			minVal = v
		}
		if v > maxVal {
			maxVal = v
		}
	}
	return minVal, maxVal
}

// clamp clamps val to [0, maxVal].
func clamp(val, maxVal int) int {
	if val < 0 {
		return 0
	}
	if val > maxVal {
		return maxVal
	}
	return val
}

package export

import (
	"fmt"
	"os"
	"strings"

	"github.com/san-kum/zetasim/internal/field"
)

// RenderSVG produces a standalone SVG heatmap of the total potential
// surface. Each grid point becomes one rect, candidates become circles
// and the critical line is drawn dashed when it crosses the window.
func RenderSVG(res *field.Result) string {
	rows, cols := res.Grid.Rows(), res.Grid.Cols()
	cell := 800 / max(rows, cols)
	if cell < 2 {
		cell = 2
	}
	width := cols * cell
	height := rows * cell

	cmap, logScale := ForField(field.FieldTotal)
	lo, hi := Range(res, field.FieldTotal, logScale)

	var b strings.Builder
	b.WriteString(fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">`+"\n",
		width, height, width, height))
	b.WriteString(fmt.Sprintf(`<rect width="%d" height="%d" fill="#101014"/>`+"\n", width, height))

	for r := 0; r < rows; r++ {
		y := (rows - 1 - r) * cell
		for c := 0; c < cols; c++ {
			pt := res.Cells[r][c]
			hex := "#46464e"
			if !pt.Singular {
				hex = cmap.Hex(Normalize(pt.Value(field.FieldTotal), lo, hi, logScale))
			}
			b.WriteString(fmt.Sprintf(`<rect x="%d" y="%d" width="%d" height="%d" fill="%s"/>`+"\n",
				c*cell, y, cell, cell, hex))
		}
	}

	rect := res.Grid.Rect
	if 0.5 >= rect.ReMin && 0.5 <= rect.ReMax {
		x := (0.5 - rect.ReMin) / (rect.ReMax - rect.ReMin) * float64(width)
		b.WriteString(fmt.Sprintf(`<line x1="%.1f" y1="0" x2="%.1f" y2="%d" stroke="white" stroke-width="1" stroke-dasharray="6,4" opacity="0.8"/>`+"\n",
			x, x, height))
	}

	for _, cand := range res.Candidates {
		cx := (cand.Sigma - rect.ReMin) / (rect.ReMax - rect.ReMin) * float64(width)
		cy := (rect.ImMax - cand.T) / (rect.ImMax - rect.ImMin) * float64(height)
		b.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="3" fill="none" stroke="#e62828" stroke-width="1.5"/>`+"\n",
			cx, cy))
	}

	b.WriteString("</svg>\n")
	return b.String()
}

// SaveSVG writes the SVG heatmap to a file.
func SaveSVG(path string, res *field.Result) error {
	return os.WriteFile(path, []byte(RenderSVG(res)), 0644)
}

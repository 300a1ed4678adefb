package export

import (
	"image"
	"image/color"
	"image/png"
	"io"
	"math"
	"os"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/san-kum/zetasim/internal/field"
)

const (
	panelPad   = 16
	titleSpace = 18
	maxPanelPx = 420
	minCellPx  = 1
)

var (
	bgColor       = color.RGBA{16, 16, 20, 255}
	titleColor    = color.RGBA{230, 230, 230, 255}
	singularColor = color.RGBA{70, 70, 78, 255}
	lineColor     = color.RGBA{255, 255, 255, 200}
	zeroColor     = color.RGBA{230, 40, 40, 255}
)

var panelTitles = map[field.FieldKind]string{
	field.FieldZetaAbs:   "|zeta(s)|",
	field.FieldPotential: "potential V (log)",
	field.FieldCollapse:  "collapse C",
	field.FieldTotal:     "total T (log)",
}

// Render draws the four-panel heatmap figure: |zeta|, V, C and T in a 2x2
// layout, t increasing upward, with the critical line dashed and the
// near-zero candidates dotted on the magnitude panel.
func Render(res *field.Result) *image.RGBA {
	rows, cols := res.Grid.Rows(), res.Grid.Cols()
	cellW := cellSize(cols)
	cellH := cellSize(rows)
	panelW := cols * cellW
	panelH := rows * cellH

	width := 2*panelW + 3*panelPad
	height := 2*(panelH+titleSpace) + 3*panelPad
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	fill(img, bgColor)

	for i, k := range field.Kinds() {
		px := panelPad + (i%2)*(panelW+panelPad)
		py := panelPad + (i/2)*(panelH+titleSpace+panelPad)
		drawTitle(img, px, py+12, panelTitles[k])
		drawPanel(img, res, k, px, py+titleSpace, cellW, cellH)
	}
	return img
}

// WritePNG encodes the figure to w.
func WritePNG(w io.Writer, res *field.Result) error {
	return png.Encode(w, Render(res))
}

// SavePNG writes the figure to a file.
func SavePNG(path string, res *field.Result) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return WritePNG(f, res)
}

func cellSize(n int) int {
	size := maxPanelPx / n
	if size < minCellPx {
		return minCellPx
	}
	if size > 24 {
		return 24
	}
	return size
}

func fill(img *image.RGBA, c color.RGBA) {
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			img.SetRGBA(x, y, c)
		}
	}
}

func drawTitle(img *image.RGBA, x, y int, text string) {
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(titleColor),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(text)
}

func drawPanel(img *image.RGBA, res *field.Result, k field.FieldKind, ox, oy, cellW, cellH int) {
	rows, cols := res.Grid.Rows(), res.Grid.Cols()
	cmap, logScale := ForField(k)
	lo, hi := Range(res, k, logScale)

	for r := 0; r < rows; r++ {
		// t ascends upward: row 0 is the bottom strip of the panel.
		y0 := oy + (rows-1-r)*cellH
		for c := 0; c < cols; c++ {
			cell := res.Cells[r][c]
			var col color.RGBA
			if cell.Singular {
				col = singularColor
			} else {
				col = cmap.At(Normalize(cell.Value(k), lo, hi, logScale))
			}
			x0 := ox + c*cellW
			for y := y0; y < y0+cellH; y++ {
				for x := x0; x < x0+cellW; x++ {
					img.SetRGBA(x, y, col)
				}
			}
		}
	}

	drawCriticalLine(img, res, ox, oy, cellW, cellH)
	if k == field.FieldZetaAbs {
		drawCandidates(img, res, ox, oy, cellW, cellH)
	}
}

// Range finds the value span of non-singular cells for one field, in
// log1p space when the field is drawn log scaled.
func Range(res *field.Result, k field.FieldKind, logScale bool) (lo, hi float64) {
	first := true
	for _, row := range res.Cells {
		for _, cell := range row {
			if cell.Singular {
				continue
			}
			v := cell.Value(k)
			if logScale {
				v = math.Log1p(v)
			}
			if first {
				lo, hi = v, v
				first = false
				continue
			}
			if v < lo {
				lo = v
			}
			if v > hi {
				hi = v
			}
		}
	}
	return lo, hi
}

// Normalize maps v into [0,1] within the given span, for Colormap.At.
func Normalize(v, lo, hi float64, logScale bool) float64 {
	if logScale {
		v = math.Log1p(v)
	}
	if hi <= lo {
		return 0
	}
	return (v - lo) / (hi - lo)
}

func drawCriticalLine(img *image.RGBA, res *field.Result, ox, oy, cellW, cellH int) {
	r := res.Grid.Rect
	if 0.5 < r.ReMin || 0.5 > r.ReMax {
		return
	}
	rows, cols := res.Grid.Rows(), res.Grid.Cols()
	x := ox + int((0.5-r.ReMin)/(r.ReMax-r.ReMin)*float64(cols*cellW))
	for y := oy; y < oy+rows*cellH; y++ {
		// dashed: 4 on, 4 off
		if (y-oy)/4%2 == 0 {
			img.SetRGBA(x, y, lineColor)
		}
	}
}

func drawCandidates(img *image.RGBA, res *field.Result, ox, oy, cellW, cellH int) {
	r := res.Grid.Rect
	rows, cols := res.Grid.Rows(), res.Grid.Cols()
	w := float64(cols * cellW)
	h := float64(rows * cellH)

	for _, cand := range res.Candidates {
		cx := ox + int((cand.Sigma-r.ReMin)/(r.ReMax-r.ReMin)*w)
		cy := oy + int((r.ImMax-cand.T)/(r.ImMax-r.ImMin)*h)
		dot(img, cx, cy, 2, zeroColor)
	}
}

func dot(img *image.RGBA, cx, cy, radius int, c color.RGBA) {
	for dy := -radius; dy <= radius; dy++ {
		for dx := -radius; dx <= radius; dx++ {
			if dx*dx+dy*dy <= radius*radius {
				img.SetRGBA(cx+dx, cy+dy, c)
			}
		}
	}
}

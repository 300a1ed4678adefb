package export

import (
	"fmt"
	"image/color"

	"github.com/san-kum/zetasim/internal/field"
)

type stop struct {
	pos     float64
	r, g, b uint8
}

// Colormap interpolates linearly between anchor stops. The anchors are
// five-point approximations of the matplotlib ramps the original figures
// used.
type Colormap struct {
	Name  string
	stops []stop
}

var (
	Viridis = Colormap{Name: "viridis", stops: []stop{
		{0.00, 68, 1, 84},
		{0.25, 59, 82, 139},
		{0.50, 33, 145, 140},
		{0.75, 94, 201, 98},
		{1.00, 253, 231, 37},
	}}

	Plasma = Colormap{Name: "plasma", stops: []stop{
		{0.00, 13, 8, 135},
		{0.25, 126, 3, 168},
		{0.50, 204, 71, 120},
		{0.75, 248, 149, 64},
		{1.00, 240, 249, 33},
	}}

	Inferno = Colormap{Name: "inferno", stops: []stop{
		{0.00, 0, 0, 4},
		{0.25, 87, 16, 110},
		{0.50, 188, 55, 84},
		{0.75, 249, 142, 9},
		{1.00, 252, 255, 164},
	}}

	Magma = Colormap{Name: "magma", stops: []stop{
		{0.00, 0, 0, 4},
		{0.25, 81, 18, 124},
		{0.50, 183, 55, 121},
		{0.75, 252, 137, 97},
		{1.00, 252, 253, 191},
	}}
)

// At maps v in [0,1] to a color; out-of-range values clamp.
func (m Colormap) At(v float64) color.RGBA {
	if v <= m.stops[0].pos {
		s := m.stops[0]
		return color.RGBA{s.r, s.g, s.b, 255}
	}
	last := m.stops[len(m.stops)-1]
	if v >= last.pos {
		return color.RGBA{last.r, last.g, last.b, 255}
	}

	for i := 1; i < len(m.stops); i++ {
		hi := m.stops[i]
		if v > hi.pos {
			continue
		}
		lo := m.stops[i-1]
		f := (v - lo.pos) / (hi.pos - lo.pos)
		return color.RGBA{
			R: lerp(lo.r, hi.r, f),
			G: lerp(lo.g, hi.g, f),
			B: lerp(lo.b, hi.b, f),
			A: 255,
		}
	}
	return color.RGBA{last.r, last.g, last.b, 255}
}

// Hex is At formatted as a #rrggbb string.
func (m Colormap) Hex(v float64) string {
	c := m.At(v)
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

func lerp(a, b uint8, f float64) uint8 {
	return uint8(float64(a) + f*(float64(b)-float64(a)) + 0.5)
}

// ForField returns the panel colormap for a field and whether it is drawn
// on a log scale, matching the original four-panel figure: |zeta| viridis,
// V plasma (log), C inferno, T magma (log).
func ForField(k field.FieldKind) (Colormap, bool) {
	switch k {
	case field.FieldZetaAbs:
		return Viridis, false
	case field.FieldPotential:
		return Plasma, true
	case field.FieldCollapse:
		return Inferno, false
	default:
		return Magma, true
	}
}

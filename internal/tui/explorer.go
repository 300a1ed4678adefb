package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/zetasim/internal/analysis"
	"github.com/san-kum/zetasim/internal/export"
	"github.com/san-kum/zetasim/internal/field"
)

var (
	cyan   = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	white  = lipgloss.NewStyle().Foreground(lipgloss.Color("255"))
	dim    = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
	dimmer = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))
	red    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

var kindTitles = map[field.FieldKind]string{
	field.FieldZetaAbs:   "|ζ(s)| magnitude",
	field.FieldPotential: "potential V = |ζ|⁻²",
	field.FieldCollapse:  "collapse penalty C",
	field.FieldTotal:     "total potential V+C",
}

type span struct {
	lo, hi float64
	log    bool
}

type model struct {
	res     *field.Result
	summary analysis.Summary
	profile *analysis.Profile

	kinds   []field.FieldKind
	kindIdx int
	spans   map[field.FieldKind]span

	offset  int
	markers bool

	width  int
	height int
}

func newModel(res *field.Result) model {
	spans := make(map[field.FieldKind]span, len(field.Kinds()))
	for _, k := range field.Kinds() {
		_, logScale := export.ForField(k)
		lo, hi := export.Range(res, k, logScale)
		spans[k] = span{lo: lo, hi: hi, log: logScale}
	}
	return model{
		res:     res,
		summary: analysis.Summarize(res),
		profile: analysis.CriticalLine(res),
		kinds:   field.Kinds(),
		spans:   spans,
		markers: true,
		width:   80,
		height:  24,
	}
}

func (m model) Init() tea.Cmd { return nil }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.offset = m.clampOffset(m.offset)
		return m, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "tab", "f":
			m.kindIdx = (m.kindIdx + 1) % len(m.kinds)
		case "c":
			m.markers = !m.markers
		case "down", "j":
			m.offset = m.clampOffset(m.offset + 1)
		case "up", "k":
			m.offset = m.clampOffset(m.offset - 1)
		case "pgdown":
			m.offset = m.clampOffset(m.offset + m.visibleRows())
		case "pgup":
			m.offset = m.clampOffset(m.offset - m.visibleRows())
		case "g":
			m.offset = 0
		case "G":
			m.offset = m.clampOffset(m.res.Grid.Rows())
		}
	}
	return m, nil
}

func (m model) visibleRows() int {
	// header, axis, summary, profile, candidates and help take the rest.
	vis := m.height - 17
	if vis < 5 {
		vis = 5
	}
	return vis
}

func (m model) clampOffset(off int) int {
	maxOff := m.res.Grid.Rows() - m.visibleRows()
	if maxOff < 0 {
		maxOff = 0
	}
	if off > maxOff {
		return maxOff
	}
	if off < 0 {
		return 0
	}
	return off
}

func (m model) View() string {
	kind := m.kinds[m.kindIdx]
	rect := m.res.Grid.Rect
	var b strings.Builder

	b.WriteString("\n  " + cyan.Render("zetasim") + "  " + white.Render(kindTitles[kind]) + "\n")
	b.WriteString("  " + dim.Render(fmt.Sprintf("σ ∈ [%.2f, %.2f]  t ∈ [%.2f, %.2f]  step %.3g",
		rect.ReMin, rect.ReMax, rect.ImMin, rect.ImMax, rect.Step)) + "\n\n")

	m.renderHeatmap(&b, kind)
	m.renderAxis(&b)

	b.WriteString("\n  " + dim.Render("points") + white.Render(fmt.Sprintf(" %d  ", m.summary.Points)) +
		dim.Render("candidates") + white.Render(fmt.Sprintf(" %d  ", m.summary.Candidates)) +
		dim.Render("singular") + white.Render(fmt.Sprintf(" %d  ", m.summary.Singular)) +
		dim.Render("backend") + white.Render(" "+m.res.Backend) + "\n")

	if len(m.profile.Mags) > 1 {
		w := m.width - 12
		if w > 64 {
			w = 64
		}
		if w < 24 {
			w = 24
		}
		chart := asciigraph.Plot(m.profile.Mags,
			asciigraph.Height(5),
			asciigraph.Width(w),
			asciigraph.Caption(fmt.Sprintf("|ζ| along σ=%.2f", m.profile.Sigma)))
		b.WriteString("\n" + dimIndent(chart) + "\n")
	}

	if line := m.candidateLine(); line != "" {
		b.WriteString("\n  " + line + "\n")
	}

	b.WriteString("\n  " + dim.Render("tab field  c markers  j/k scroll  g/G top/bottom  q quit") + "\n")
	return b.String()
}

func (m model) renderHeatmap(b *strings.Builder, kind field.FieldKind) {
	rows := m.res.Grid.Rows()
	cols := m.res.Grid.Cols()
	sp := m.spans[kind]
	cmap, _ := export.ForField(kind)

	maxCols := (m.width - 12) / 2
	if maxCols < 1 {
		maxCols = 1
	}
	if cols > maxCols {
		cols = maxCols
	}

	vis := m.visibleRows()
	for d := 0; d < vis && d < rows; d++ {
		// top of the screen shows the highest t
		r := rows - 1 - (m.offset + d)
		if r < 0 {
			break
		}
		b.WriteString("  " + dim.Render(fmt.Sprintf("t=%7.3f ", m.res.Grid.Ts[r])))
		for c := 0; c < cols; c++ {
			cell := m.res.Cells[r][c]
			switch {
			case cell.Singular:
				b.WriteString(dimmer.Render("▒▒"))
			case cell.NearZero && m.markers:
				b.WriteString(red.Render("◉◉"))
			default:
				hex := cmap.Hex(export.Normalize(cell.Value(kind), sp.lo, sp.hi, sp.log))
				b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(hex)).Render("██"))
			}
		}
		b.WriteString("\n")
	}
}

// renderAxis draws a rule under the heatmap with a tick at the column
// closest to the critical line.
func (m model) renderAxis(b *strings.Builder) {
	cols := m.res.Grid.Cols()
	maxCols := (m.width - 12) / 2
	if cols > maxCols && maxCols > 0 {
		cols = maxCols
	}

	var axis strings.Builder
	for c := 0; c < cols; c++ {
		if c == m.profile.Col {
			axis.WriteString("╋━")
		} else {
			axis.WriteString("━━")
		}
	}
	b.WriteString("  " + strings.Repeat(" ", 10) + dimmer.Render(axis.String()) + "\n")
}

func (m model) candidateLine() string {
	cands := m.res.Candidates
	if len(cands) == 0 {
		return dim.Render("no near-zero candidates in this window")
	}
	shown := len(cands)
	if shown > 4 {
		shown = 4
	}
	parts := make([]string, 0, shown)
	for _, c := range cands[:shown] {
		parts = append(parts, fmt.Sprintf("%.3f", c.T))
	}
	line := red.Render("zeros") + dim.Render(" t ≈ ") + white.Render(strings.Join(parts, ", "))
	if len(cands) > shown {
		line += dim.Render(fmt.Sprintf(" (+%d more)", len(cands)-shown))
	}
	return line
}

func dimIndent(s string) string {
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = "  " + dim.Render(l)
	}
	return strings.Join(lines, "\n")
}

// Explore opens the interactive viewer over a finished result.
func Explore(res *field.Result) error {
	p := tea.NewProgram(newModel(res), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

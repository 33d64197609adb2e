package viz

import (
	"fmt"
	"math"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/coolsim/internal/cooling"
)

const (
	minHorizon    = 1.0
	maxHorizon    = 1e5
	cursorSteps   = 60
	defaultWidth  = 80
	defaultHeight = 24
)

// Reading is the explorer's readout at the cursor.
type Reading struct {
	Time, Temperature, Rate, Curvature float64
	Err                                error
}

// Explorer is a Bubble Tea model that moves a time cursor along the curve of
// a body with a solved rate constant.
type Explorer struct {
	body          *cooling.Body
	k             float64
	horizon       float64
	cursor        float64
	theme         int
	styles        Styles
	width, height int
	quitting      bool
}

func NewExplorer(body *cooling.Body, k, horizon float64) Explorer {
	horizon = math.Min(math.Max(horizon, minHorizon), maxHorizon)
	return Explorer{
		body:    body,
		k:       k,
		horizon: horizon,
		styles:  NewStyles(Themes[0]),
		width:   defaultWidth,
		height:  defaultHeight,
	}
}

func (m Explorer) Horizon() float64 { return m.horizon }
func (m Explorer) Cursor() float64  { return m.cursor }
func (m Explorer) Theme() Theme     { return Themes[m.theme] }

func (m Explorer) Init() tea.Cmd { return nil }

func (m Explorer) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
	}
	return m, nil
}

func (m Explorer) handleKey(msg tea.KeyMsg) (Explorer, tea.Cmd) {
	step := m.horizon / cursorSteps
	switch msg.String() {
	case "q", "ctrl+c", "esc":
		m.quitting = true
		return m, tea.Quit
	case "left", "h":
		m.cursor = math.Max(0, m.cursor-step)
	case "right", "l":
		m.cursor = math.Min(m.horizon, m.cursor+step)
	case "home":
		m.cursor = 0
	case "end":
		m.cursor = m.horizon
	case "+", "=":
		m.horizon = math.Min(maxHorizon, m.horizon*2)
	case "-", "_":
		m.horizon = math.Max(minHorizon, m.horizon/2)
		m.cursor = math.Min(m.cursor, m.horizon)
	case "t":
		m.theme = (m.theme + 1) % len(Themes)
		m.styles = NewStyles(Themes[m.theme])
	}
	return m, nil
}

// Reading evaluates the symbolic model and both derivatives at the cursor.
func (m Explorer) Reading() Reading {
	r := Reading{Time: m.cursor}
	r.Temperature, r.Err = m.body.EvaluateSymbolic(m.body.Expression(), m.k, m.cursor)
	if r.Err != nil {
		return r
	}
	r.Rate, r.Err = m.body.EvaluateSymbolic(m.body.FirstDerivative(), m.k, m.cursor)
	if r.Err != nil {
		return r
	}
	r.Curvature, r.Err = m.body.EvaluateSymbolic(m.body.SecondDerivative(), m.k, m.cursor)
	return r
}

func (m Explorer) View() string {
	if m.quitting {
		return ""
	}
	s := m.styles

	var b strings.Builder
	b.WriteString(s.Title.Render(fmt.Sprintf("Newton's Law of Cooling  k=%.4f", m.k)))
	b.WriteString("\n\n")
	b.WriteString(s.Curve.Render(m.renderCurve()))
	b.WriteString("\n")

	r := m.Reading()
	var panel string
	if r.Err != nil {
		panel = s.Label.Render("error ") + s.Value.Render(r.Err.Error())
	} else {
		excess := 0.0
		if d := m.body.Initial - m.body.Ambient; d != 0 {
			excess = (r.Temperature - m.body.Ambient) / d
		}
		panel = lipgloss.JoinVertical(lipgloss.Left,
			s.Label.Render("t        ")+s.Value.Render(fmt.Sprintf("%.2f", r.Time)),
			s.Label.Render("T(t)     ")+s.Value.Render(fmt.Sprintf("%.4f", r.Temperature)),
			s.Label.Render("dT/dt    ")+s.Value.Render(fmt.Sprintf("%.4f", r.Rate)),
			s.Label.Render("d²T/dt²  ")+s.Value.Render(fmt.Sprintf("%.6f", r.Curvature)),
			s.Label.Render("excess   ")+s.Curve.Render(ProgressBar(excess, 20)),
			s.Label.Render("ambient  ")+s.Ambient.Render(fmt.Sprintf("%g", m.body.Ambient)),
		)
	}
	b.WriteString(s.Panel.Render(panel))
	b.WriteString("\n")
	b.WriteString(s.Hint.Render(fmt.Sprintf("←/→ move  +/- horizon (%g min)  t theme (%s)  q quit", m.horizon, m.Theme().Name)))
	return b.String()
}

func (m Explorer) renderCurve() string {
	cols := max(m.width-4, 20)
	rows := max(m.height-14, 6)
	c := NewCanvas(cols, rows)

	curve := m.body.Curve(m.k, 0, m.horizon, c.PixelWidth())
	vp := viewport{minX: 0, maxX: m.horizon, w: c.PixelWidth(), h: c.PixelHeight()}
	vp.minY, vp.maxY = m.body.Ambient, m.body.Ambient
	for _, p := range curve {
		if isFinite(p.Temperature) {
			vp.minY = math.Min(vp.minY, p.Temperature)
			vp.maxY = math.Max(vp.maxY, p.Temperature)
		}
	}

	c.DashedRow(vp.py(m.body.Ambient))
	// A diverging curve (k < 0) overflows; its segments are left out.
	for i := 1; i < len(curve); i++ {
		a, b := curve[i-1], curve[i]
		if !isFinite(a.Temperature) || !isFinite(b.Temperature) {
			continue
		}
		c.DrawLine(vp.px(a.Time), vp.py(a.Temperature), vp.px(b.Time), vp.py(b.Temperature))
	}
	c.Column(vp.px(m.cursor))
	return c.String()
}

func isFinite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }

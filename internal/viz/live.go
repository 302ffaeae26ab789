package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/flockgrid/internal/boids"
	"github.com/san-kum/flockgrid/internal/metrics"
)

const (
	canvasCols = 70
	canvasRows = 26
	historyCap = 400
	frameRate  = 30
)

var (
	canvasStyle = lipgloss.NewStyle().Padding(0, 1)
	statsStyle  = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 2).Width(38)
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(14)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	errStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(1)
)

type TickMsg time.Time

// Model is the bubbletea model driving the live flock view. It touches the
// simulation only through Step, SetStrategy and the float32 readout buffer.
type Model struct {
	flock    *boids.Simulation
	newFlock func() (*boids.Simulation, error)
	dt       float32

	canvas *Canvas
	camera *Camera
	posBuf []float32

	polarization *metrics.Polarization
	meanSpeed    *metrics.MeanSpeed
	polHistory   []float64

	step        int
	simTime     float64
	stepLatency time.Duration
	running     bool
	err         error
}

// NewModel wraps a flock for live viewing. newFlock rebuilds the simulation
// for the reset key; it must produce a flock with the same seed.
func NewModel(flock *boids.Simulation, dt float32, newFlock func() (*boids.Simulation, error)) Model {
	return Model{
		flock:        flock,
		newFlock:     newFlock,
		dt:           dt,
		canvas:       NewCanvas(canvasCols, canvasRows),
		camera:       NewCamera(),
		posBuf:       make([]float32, 4*flock.N()),
		polarization: metrics.NewPolarization(),
		meanSpeed:    metrics.NewMeanSpeed(),
		running:      true,
	}
}

func (m Model) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(time.Second/frameRate, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "r":
			m.reset()
		case "1":
			m.setStrategy(boids.BruteForce)
		case "2":
			m.setStrategy(boids.ScatteredGrid)
		case "3":
			m.setStrategy(boids.CoherentGrid)
		case "x":
			m.camera.RotateX(0.1)
		case "X":
			m.camera.RotateX(-0.1)
		case "y":
			m.camera.RotateY(0.1)
		case "Y":
			m.camera.RotateY(-0.1)
		case "z":
			m.camera.RotateZ(0.1)
		case "Z":
			m.camera.RotateZ(-0.1)
		case "+", "=":
			m.camera.ZoomIn()
		case "-", "_":
			m.camera.ZoomOut()
		}
	case TickMsg:
		if m.running && m.err == nil {
			m.advance()
		}
		return m, tick()
	}
	return m, nil
}

func (m *Model) advance() {
	start := time.Now()
	if err := m.flock.Step(m.dt); err != nil {
		// Any step failure is fatal to the run; freeze and display it.
		m.err = err
		m.running = false
		return
	}
	m.stepLatency = time.Since(start)
	m.step++
	m.simTime += float64(m.dt)

	m.polarization.Observe(m.flock, m.step)
	m.meanSpeed.Observe(m.flock, m.step)
	m.polHistory = append(m.polHistory, m.polarization.Value())
	if len(m.polHistory) > historyCap {
		m.polHistory = m.polHistory[1:]
	}
}

func (m *Model) setStrategy(s boids.Strategy) {
	if err := m.flock.SetStrategy(s); err != nil {
		m.err = err
	}
}

func (m *Model) reset() {
	if m.newFlock == nil {
		return
	}
	flock, err := m.newFlock()
	if err != nil {
		m.err = err
		return
	}
	m.flock.Close()
	m.flock = flock
	m.step = 0
	m.simTime = 0
	m.err = nil
	m.running = true
	m.polHistory = m.polHistory[:0]
	m.polarization.Reset()
	m.meanSpeed.Reset()
}

func (m Model) View() string {
	m.draw()

	var stats strings.Builder
	stats.WriteString(headerStyle.Render("FLOCKGRID") + "\n\n")
	row := func(label, value string) {
		stats.WriteString(labelStyle.Render(label) + valueStyle.Render(value) + "\n")
	}
	row("strategy", string(m.flock.Strategy()))
	row("particles", fmt.Sprintf("%d", m.flock.N()))
	row("step", fmt.Sprintf("%d", m.step))
	row("sim time", fmt.Sprintf("%.1f", m.simTime))
	row("step latency", m.stepLatency.Round(time.Microsecond).String())
	row("polarization", fmt.Sprintf("%.3f", m.polarization.Value()))
	row("mean speed", fmt.Sprintf("%.3f", m.meanSpeed.Value()))
	if !m.running && m.err == nil {
		row("status", "PAUSED")
	}

	if len(m.polHistory) > 2 {
		stats.WriteString("\n" + asciigraph.Plot(m.polHistory,
			asciigraph.Height(6),
			asciigraph.Width(30),
			asciigraph.Caption("polarization"),
		))
	}

	if m.err != nil {
		stats.WriteString("\n" + errStyle.Render("FATAL: "+m.err.Error()))
	}

	body := lipgloss.JoinHorizontal(lipgloss.Top,
		canvasStyle.Render(m.canvas.String()),
		statsStyle.Render(stats.String()),
	)
	help := helpStyle.Render("space pause · r reset · 1/2/3 strategy · x/y/z rotate · +/- zoom · q quit")
	return body + "\n" + help
}

func (m Model) draw() {
	m.canvas.Clear()
	pw, ph := m.canvas.PixelWidth(), m.canvas.PixelHeight()
	m.drawBounds(pw, ph)

	if err := m.flock.CopyPositions(m.posBuf); err != nil {
		return
	}
	inv := 1 / float64(m.flock.Params().SceneScale)
	for i := 0; i < m.flock.N(); i++ {
		x := float64(m.posBuf[4*i]) * inv
		y := float64(m.posBuf[4*i+1]) * inv
		z := float64(m.posBuf[4*i+2]) * inv
		if sx, sy, _, ok := m.camera.Project(x, y, z, pw, ph); ok {
			m.canvas.Set(sx, sy)
		}
	}
}

// drawBounds traces the wireframe cube of the simulation space.
func (m Model) drawBounds(pw, ph int) {
	corners := [8][3]float64{
		{-1, -1, -1}, {1, -1, -1}, {1, 1, -1}, {-1, 1, -1},
		{-1, -1, 1}, {1, -1, 1}, {1, 1, 1}, {-1, 1, 1},
	}
	edges := [12][2]int{
		{0, 1}, {1, 2}, {2, 3}, {3, 0},
		{4, 5}, {5, 6}, {6, 7}, {7, 4},
		{0, 4}, {1, 5}, {2, 6}, {3, 7},
	}
	for _, e := range edges {
		a, b := corners[e[0]], corners[e[1]]
		ax, ay, _, aok := m.camera.Project(a[0], a[1], a[2], pw, ph)
		bx, by, _, bok := m.camera.Project(b[0], b[1], b[2], pw, ph)
		if aok && bok {
			m.canvas.Line(ax, ay, bx, by)
		}
	}
}

// Run starts the live view and blocks until the user quits.
func Run(flock *boids.Simulation, dt float32, newFlock func() (*boids.Simulation, error)) error {
	p := tea.NewProgram(NewModel(flock, dt, newFlock), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// Package tui is the interactive terminal front end: a bubbletea program
// that drives a sim.Session at a fixed tick rate and draws it on a Braille
// canvas next to a lipgloss HUD.
package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"go.uber.org/zap"

	"github.com/Linux0Hat/physicium/internal/config"
	"github.com/Linux0Hat/physicium/internal/metrics"
	"github.com/Linux0Hat/physicium/internal/physics"
	"github.com/Linux0Hat/physicium/internal/scenario"
	"github.com/Linux0Hat/physicium/internal/sim"
	"github.com/Linux0Hat/physicium/internal/view"
	"github.com/Linux0Hat/physicium/internal/viz"
)

const (
	historyCapacity = 300
	checkEvery      = 30
	zoomStep        = 1.25
)

type tickMsg time.Time

// Model is the bubbletea model of the live view.
type Model struct {
	session  *sim.Session
	canvas   *viz.Canvas
	clock    sim.SimulationClock
	input    sim.FrameInput
	interval time.Duration
	logger   *zap.Logger

	energy   []float64
	drift    *metrics.EnergyDrift
	momentum *metrics.MomentumDrift
	fps      float64
	status   string
}

func New(cfg *config.Config, logger *zap.Logger) (*Model, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	preset, err := scenario.ParsePreset(cfg.Live.Preset)
	if err != nil {
		return nil, err
	}

	canvas := viz.NewCanvas(cfg.View.Width, cfg.View.Height)
	pw, ph := canvas.PixelSize()
	renderer := view.NewRenderer()
	renderer.MinRadius = cfg.View.MinRadius

	session, err := sim.NewSession(sim.SessionConfig{
		Physics:     cfg.Physics(),
		Preset:      preset,
		Width:       pw,
		Height:      ph,
		VectorScale: cfg.View.VectorScale,
		Renderer:    renderer,
		Logger:      logger,
	})
	if err != nil {
		return nil, err
	}

	return &Model{
		session:  session,
		canvas:   canvas,
		input:    sim.FrameInput{Preset: preset, Follow: session.Camera().Follow},
		interval: time.Second / time.Duration(cfg.Live.FPS),
		logger:   logger.Named("tui"),
		energy:   make([]float64, 0, historyCapacity),
		drift:    metrics.NewEnergyDrift(),
		momentum: metrics.NewMomentumDrift(),
	}, nil
}

// Run starts the program on the alternate screen and blocks until quit.
func Run(cfg *config.Config, logger *zap.Logger) error {
	m, err := New(cfg, logger)
	if err != nil {
		return err
	}
	_, err = tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}

func (m *Model) tick() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m *Model) Init() tea.Cmd {
	return m.tick()
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m, m.handleKey(msg)
	case tickMsg:
		m.frame(time.Time(msg))
		return m, m.tick()
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "q", "ctrl+c", "esc":
		return tea.Quit
	case " ":
		m.input.Paused = !m.input.Paused
	case "f":
		m.input.Follow = !m.input.Follow
	case "v":
		m.input.ShowVectors = !m.input.ShowVectors
	case "n":
		m.input.ShowVectorValues = !m.input.ShowVectorValues
		if m.input.ShowVectorValues {
			m.input.ShowVectors = true
		}
	case "p", "tab":
		m.selectPreset(m.input.Preset.Next())
	case "1", "2", "3":
		m.selectPreset(scenario.PresetKind(msg.String()[0] - '1'))
	case "r":
		m.reload()
	case "+", "=":
		m.session.Zoom(zoomStep)
	case "-", "_":
		m.session.Zoom(1 / zoomStep)
	}
	return nil
}

func (m *Model) selectPreset(kind scenario.PresetKind) {
	sc, err := scenario.Preset(kind)
	if err != nil {
		m.status = err.Error()
		return
	}
	m.input.Preset = kind
	m.input.Follow = sc.Camera.Follow
	m.resetHistory()
}

func (m *Model) reload() {
	if err := m.session.Reset(); err != nil {
		m.status = err.Error()
		return
	}
	m.clock.Reset()
	m.resetHistory()
}

func (m *Model) resetHistory() {
	m.energy = m.energy[:0]
	m.drift.Reset()
	m.momentum.Reset()
}

func (m *Model) frame(now time.Time) {
	elapsed := m.clock.Tick(now)
	if elapsed > 0 {
		m.fps = 1000 / elapsed
	}

	m.canvas.Clear()
	if err := m.session.Frame(m.input, elapsed, m.canvas); err != nil {
		m.status = err.Error()
		m.logger.Error("frame failed", zap.Error(err))
		return
	}

	if m.session.Frames() > 0 && m.session.Frames()%checkEvery == 0 {
		if err := m.session.Check(); err != nil {
			m.status = "world diverged, preset reloaded"
			m.reload()
			return
		}
	}

	if m.input.Paused {
		return
	}
	snap := m.session.Snapshot()
	m.drift.Observe(snap)
	m.momentum.Observe(snap)
	m.energy = append(m.energy, metrics.TotalEnergy(snap))
	if len(m.energy) > historyCapacity {
		m.energy = m.energy[1:]
	}
}

// visibleArea returns the world-space corners of the canvas, bottom-left
// then top-right.
func (m *Model) visibleArea() (lo, hi physics.Vector2) {
	vp := m.session.Viewport()
	w, h := vp.Size()
	lo = vp.Unproject(view.Point{X: 0, Y: float64(h)})
	hi = vp.Unproject(view.Point{X: float64(w), Y: 0})
	return lo, hi
}

func (m *Model) View() string {
	snap := m.session.Snapshot()

	var s strings.Builder
	s.WriteString(headerStyle.Render(strings.ToUpper(m.input.Preset.String())) + "\n")
	if m.input.Paused {
		s.WriteString(pausedStyle.Render("PAUSED") + "\n\n")
	} else {
		s.WriteString(runningStyle.Render("RUNNING") + "\n\n")
	}

	if len(m.energy) > 1 {
		chart := asciigraph.Plot(m.energy, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("Total energy"))
		s.WriteString(graphStyle.Render(chart) + "\n")
	}

	row := func(label, value string) {
		s.WriteString(labelStyle.Render(label) + valueStyle.Render(value) + "\n")
	}
	p := metrics.Momentum(snap)
	row("Time", fmt.Sprintf("%.2fs", snap.Time))
	row("Bodies", fmt.Sprintf("%d", len(snap.Bodies)))
	row("Contacts", fmt.Sprintf("%d", m.session.World().LastContacts()))
	row("Kinetic", fmt.Sprintf("%.4g J", metrics.KineticEnergy(snap)))
	row("Energy", fmt.Sprintf("%.4g J", metrics.TotalEnergy(snap)))
	row("E drift", fmt.Sprintf("%.2f%%", m.drift.Value()*100))
	row("Momentum", fmt.Sprintf("(%.3g, %.3g)", p.X, p.Y))
	row("Zoom", fmt.Sprintf("%.3g px/m", m.session.Viewport().MeterSize()))
	lo, hi := m.visibleArea()
	row("View x", fmt.Sprintf("[%.3g, %.3g]", lo.X, hi.X))
	row("View y", fmt.Sprintf("[%.3g, %.3g]", lo.Y, hi.Y))
	row("FPS", fmt.Sprintf("%.0f", m.fps))

	s.WriteString("\n" + strings.Join([]string{
		flag("follow", m.input.Follow),
		flag("vectors", m.input.ShowVectors),
		flag("values", m.input.ShowVectorValues),
	}, "  ") + "\n")

	if m.status != "" {
		s.WriteString("\n" + errorStyle.Render(m.status) + "\n")
	}

	s.WriteString(helpStyle.Render("\n─────────────────────\nSP:Pause  R:Reset  Q:Quit\nP/1-3:Preset  F:Follow\nV:Vectors  N:Values  +/-:Zoom"))

	return lipgloss.JoinHorizontal(lipgloss.Top,
		canvasStyle.Render(m.canvas.String()),
		statsStyle.Render(s.String()))
}

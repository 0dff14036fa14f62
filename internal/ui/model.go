package ui

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/olivier-w/lineminimap/internal/config"
	"github.com/olivier-w/lineminimap/internal/motion"
)

// Rows above the marker: blank, header, blank, status, blank.
const markerRow = 5

// Model is the Bubbletea model for the terminal minimap.
type Model struct {
	surface *motion.Surface
	lease   *motion.Lease
	springs *springQueue
	logger  *log.Logger

	unitsPerCol float64
	unitsPerRow float64
	scrollStep  float64
	pageLength  float64
	maxScale    float64
	springEvery time.Duration

	keys keyMap
	help help.Model

	width     int
	height    int
	originCol int
	raw       float64
	lastFrame time.Time
	quitting  bool
}

// New builds the surface described by cfg and mounts it. The caller should
// Close the model once the program exits.
func New(cfg config.Config, logger *log.Logger) (Model, error) {
	if logger == nil {
		logger = log.Default()
	}
	if err := cfg.Validate(); err != nil {
		return Model{}, err
	}
	springs := &springQueue{}
	surface, err := motion.NewSurface(cfg.Options(), springs)
	if err != nil {
		return Model{}, err
	}
	lease := surface.Mount()
	logger.Debug("surface mounted", "lines", surface.Layout().ElementCount, "travel", surface.Layout().TravelRange())

	return Model{
		surface:     surface,
		lease:       lease,
		springs:     springs,
		logger:      logger,
		unitsPerCol: cfg.Terminal.UnitsPerColumn,
		unitsPerRow: cfg.Terminal.UnitsPerRow,
		scrollStep:  cfg.Scroll.Step,
		pageLength:  cfg.Scroll.PageLength,
		maxScale:    math.Max(cfg.Proximity.MaxScale, 1),
		springEvery: motion.SpringConfig{FPS: cfg.Spring.FPS}.Interval(),
		keys:        newKeyMap(),
		help:        help.New(),
	}, nil
}

// Surface exposes the engine, mainly for tests and the CLI.
func (m Model) Surface() *motion.Surface { return m.surface }

// Close stops the frame loop and releases every binding.
func (m Model) Close() { m.surface.Close() }

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		frameCmd(m.lease.Seq(), m.surface.Driver().Interval()),
		tea.SetWindowTitle("lineminimap"),
	)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	return m.handleMsg(msg)
}

func (m Model) handleMsg(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			m.surface.Close()
			m.logger.Debug("surface closed", "frames", m.surface.Driver().Frames())
			return m, tea.Sequence(tea.SetWindowTitle(""), tea.Quit)
		case key.Matches(msg, m.keys.Back):
			m.scrollBy(-m.scrollStep)
		case key.Matches(msg, m.keys.Fwd):
			m.scrollBy(m.scrollStep)
		case key.Matches(msg, m.keys.Reset):
			m.scrollBy(-m.raw)
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
		}
		return m, nil

	case tea.MouseMsg:
		cmd := m.handleMouse(msg)
		return m, cmd

	case frameMsg:
		if !m.surface.Driver().Current(msg.seq) {
			return m, nil
		}
		var dt time.Duration
		if !m.lastFrame.IsZero() {
			dt = msg.at.Sub(m.lastFrame)
		}
		m.lastFrame = msg.at
		m.surface.Frame(dt)
		return m, tea.Batch(
			m.springs.drain(m.springEvery),
			frameCmd(msg.seq, m.surface.Driver().Interval()),
		)

	case springTickMsg:
		if msg.value.Step() {
			return m, springCmd(msg.value, m.springEvery)
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.measure()
		return m, nil
	}

	return m, nil
}

func (m *Model) handleMouse(msg tea.MouseMsg) tea.Cmd {
	switch msg.Button {
	case tea.MouseButtonWheelUp, tea.MouseButtonWheelLeft:
		if msg.Action == tea.MouseActionPress {
			m.scrollBy(-m.scrollStep)
		}
		return nil
	case tea.MouseButtonWheelDown, tea.MouseButtonWheelRight:
		if msg.Action == tea.MouseActionPress {
			m.scrollBy(m.scrollStep)
		}
		return nil
	}

	if msg.Y < markerRow || msg.Y >= markerRow+1+m.stripRows() {
		m.surface.PointerLeave()
	} else {
		m.surface.PointerMove(m.columnCenter(msg.X))
	}
	return m.springs.drain(m.springEvery)
}

// scrollBy moves the raw offset, bounded like a page of pageLength units.
// The tracker clamps it again to the travel range.
func (m *Model) scrollBy(delta float64) {
	m.raw = motion.Clamp(m.raw+delta, 0, math.Max(m.pageLength, m.surface.Layout().TravelRange()))
	m.surface.ScrollTo(m.raw)
}

func (m *Model) measure() {
	cols := m.stripCols()
	m.originCol = (m.width - cols) / 2
	if m.originCol < 0 {
		m.originCol = 0
	}
	m.surface.Measure(float64(m.originCol) * m.unitsPerCol)
	m.logger.Debug("strip measured", "width", m.width, "origin", m.originCol)
}

// columnCenter converts a terminal column to layout units.
func (m Model) columnCenter(col int) float64 {
	return (float64(col) + 0.5) * m.unitsPerCol
}

func (m Model) stripCols() int {
	return int(math.Ceil(m.surface.Layout().Width() / m.unitsPerCol))
}

func (m Model) stripRows() int {
	l := m.surface.Layout()
	return int(math.Ceil(math.Max(l.ActiveHeight, l.BaseHeight) * m.maxScale / m.unitsPerRow))
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	l := m.surface.Layout()
	scroll := m.surface.Scroll()
	status := fmt.Sprintf("scroll %3.0f/%.0f  %5.0f u/s", scroll.Display(), l.TravelRange(), scroll.Velocity())
	if m.surface.Pointer().Idle() {
		status += "  pointer idle"
	} else {
		status += fmt.Sprintf("  pointer %.0f", m.surface.Pointer().X()-float64(m.originCol)*m.unitsPerCol)
	}

	lines := "\n"
	lines += "  " + headerStyle.Render("lineminimap") + "\n"
	lines += "\n"
	lines += "  " + statusStyle.Render(status) + "\n"
	lines += "\n"
	lines += renderMarker(m.originCol, m.markerCol()) + "\n"
	lines += renderStrip(m.surface.Elements(), m.lineColumns(), m.originCol, m.stripRows(), m.unitsPerRow)
	lines += "\n"
	lines += "  " + helpStyle.Render(m.help.View(m.keys)) + "\n"

	if m.height > 0 {
		if pad := m.height - countLines(lines); pad > 0 {
			lines += strings.Repeat("\n", pad)
		}
	}
	return lines
}

// lineColumns returns the strip-relative column of each line's center.
func (m Model) lineColumns() []int {
	l := m.surface.Layout()
	cols := make([]int, l.ElementCount)
	for i := range cols {
		cols[i] = int(l.Center(i) / m.unitsPerCol)
	}
	return cols
}

func (m Model) markerCol() int {
	return int((m.surface.Marker() + m.surface.Layout().ElementWidth/2) / m.unitsPerCol)
}

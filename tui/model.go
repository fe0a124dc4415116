// Package tui drives a linkframe Session from a terminal. Mouse drags become
// pointer events so the swipe recognizer works the same as in a window;
// arrow keys map to the session's navigation keys.
package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/phanxgames/linkframe"
)

// Terminal cells are scaled to pseudo-pixels so the gesture thresholds,
// which are expressed in px, keep their meaning.
const (
	CellWidth  = 8
	CellHeight = 16
)

// TickInterval is how often the model advances the session.
const TickInterval = time.Second / 30

type tickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(TickInterval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// Model is the bubbletea model for a session.
type Model struct {
	sess *linkframe.Session
	keys KeyMap
	help help.Model

	width, height int
	mouseDown     bool
}

// New creates a model for sess.
func New(sess *linkframe.Session) *Model {
	return &Model{
		sess: sess,
		keys: DefaultKeyMap(),
		help: help.New(),
	}
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return tick()
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		m.sess.Update(m.sess.Now())
		return m, tick()

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		m.sess.SetSurfaceWidth(float64(msg.Width * CellWidth))
		return m, nil

	case tea.MouseMsg:
		m.handleMouse(msg)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	k := m.keys
	switch {
	case key.Matches(msg, k.Quit):
		return m, tea.Quit
	case key.Matches(msg, k.Help):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(msg, k.Left):
		m.sess.HandleKey(linkframe.KeyArrowLeft)
	case key.Matches(msg, k.Right):
		m.sess.HandleKey(linkframe.KeyArrowRight)
	case key.Matches(msg, k.Up):
		m.sess.HandleKey(linkframe.KeyArrowUp)
	case key.Matches(msg, k.Down):
		m.sess.HandleKey(linkframe.KeyArrowDown)
	case key.Matches(msg, k.Enter):
		m.sess.HandleKey(linkframe.KeyEnter)
	case key.Matches(msg, k.Escape):
		m.sess.HandleKey(linkframe.KeyEscape)
	case key.Matches(msg, k.Back):
		m.sess.RequestSwipe(linkframe.DirectionBack)
	case key.Matches(msg, k.Forward):
		m.sess.RequestSwipe(linkframe.DirectionForward)
	case key.Matches(msg, k.Pin):
		m.sess.TogglePinSelected()
	}
	return m, nil
}

// handleMouse converts left-button mouse messages into device events.
// Motion without a held button is hover and is not forwarded.
func (m *Model) handleMouse(msg tea.MouseMsg) {
	ev := linkframe.DeviceEvent{
		Time: m.sess.Now(),
		X:    float64(msg.X*CellWidth + CellWidth/2),
		Y:    float64(msg.Y*CellHeight + CellHeight/2),
	}
	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return
		}
		m.mouseDown = true
		ev.Type = linkframe.MouseDown
	case tea.MouseActionMotion:
		if !m.mouseDown {
			return
		}
		ev.Type = linkframe.MouseMove
	case tea.MouseActionRelease:
		if !m.mouseDown {
			return
		}
		m.mouseDown = false
		ev.Type = linkframe.MouseUp
	default:
		return
	}
	m.sess.Target().Dispatch(ev)
}

// Run starts a full-screen program for sess and blocks until it exits.
func Run(sess *linkframe.Session) error {
	p := tea.NewProgram(New(sess), tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err := p.Run()
	return err
}

// Package ui is the terminal preview of a graph: the real component runs
// against an in-memory document and a manual frame clock advanced by
// bubbletea ticks.
package ui

import (
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/recera/circles/pkg/components/circles"
	"github.com/recera/circles/pkg/dom"
	"github.com/recera/circles/pkg/scheduler"
	"github.com/recera/circles/pkg/vango/vdom"
)

// Step is how far one key press moves the target percentage
const Step = 5.0

// KeyMap defines all keyboard shortcuts
type KeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Replay key.Binding
	Quit   key.Binding
}

// DefaultKeyMap binds +/- and the arrow keys, r to replay and q to quit
var DefaultKeyMap = KeyMap{
	Up: key.NewBinding(
		key.WithKeys("+", "=", "up", "k"),
		key.WithHelp("+/↑", "increase"),
	),
	Down: key.NewBinding(
		key.WithKeys("-", "down", "j"),
		key.WithHelp("-/↓", "decrease"),
	),
	Replay: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "replay"),
	),
	Quit: key.NewBinding(
		key.WithKeys("ctrl+c", "q", "esc"),
		key.WithHelp("q", "quit"),
	),
}

type tickMsg time.Time

// Model represents the TUI application state
type Model struct {
	opts  circles.Options
	doc   *dom.MemoryDocument
	sched *scheduler.Manual
	graph *circles.Graph

	// Mirrored from the document
	label   string
	path    string
	patches int

	bar      progress.Model
	width    int
	quitting bool
}

// NewModel mounts a graph for opts and returns the model previewing it
func NewModel(opts circles.Options) *Model {
	m := &Model{
		opts: opts,
		bar:  progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage()),
	}
	m.mount()
	return m
}

// mount creates a fresh document and graph, which replays the entry animation
func (m *Model) mount() {
	m.opts.ID = "preview"
	m.doc = dom.NewMemoryDocument()
	m.sched = scheduler.NewManual()
	m.patches = 0

	mount := m.doc.CreateElement("div")
	mount.SetAttribute("id", m.opts.ID)
	m.doc.Body().AppendChild(mount)

	m.doc.Observe(m.observe)
	m.graph = circles.Create(m.doc, m.sched, m.opts)

	tree := m.graph.Element().(*dom.MemoryElement)
	m.label = tree.Children()[1].TextContent()
	m.path = tree.ElementsByTag("path")[1].Attribute("d")
}

func (m *Model) observe(p vdom.Patch) {
	m.patches++
	switch p.Op {
	case vdom.OpReplaceText:
		m.label = p.Value
	case vdom.OpSetAttribute:
		if p.Key == "d" {
			m.path = p.Value
		}
	}
}

// Graph returns the previewed graph
func (m *Model) Graph() *circles.Graph {
	return m.graph
}

func tick() tea.Cmd {
	return tea.Tick(scheduler.FrameInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Init starts the frame clock
func (m *Model) Init() tea.Cmd {
	return tick()
}

// Update handles messages
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.bar.Width = min(60, max(10, msg.Width-20))
		return m, nil

	case tickMsg:
		m.sched.Tick()
		return m, tick()

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, DefaultKeyMap.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, DefaultKeyMap.Up):
			m.graph.UpdatePercent(m.graph.StoredPercent() + Step)
		case key.Matches(msg, DefaultKeyMap.Down):
			m.graph.UpdatePercent(m.graph.StoredPercent() - Step)
		case key.Matches(msg, DefaultKeyMap.Replay):
			m.graph.Stop()
			m.mount()
		}
	}
	return m, nil
}

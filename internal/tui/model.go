package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/vito/progrock"
)

// Status is the display state of a vertex.
type Status string

const (
	statusRunning   Status = "running"
	statusCompleted Status = "completed"
	statusFailed    Status = "failed"
	statusCached    Status = "cached"
)

// tailLines is the number of output lines kept per vertex.
const tailLines = 5

// VertexState is one unit of work shown in the list, e.g. the build for one architecture.
type VertexState struct {
	ID     string
	Name   string
	Status Status
	Error  string
}

// Model is the Bubble Tea model listing build vertices with a tail of their output.
type Model struct {
	tape     TapeSource
	vertices []VertexState
	index    map[string]int
	logs     map[string][]string
	partial  map[string]string
	height   int
	spinner  spinner.Model
}

// NewModel creates a model reading from tape.
func NewModel(tape TapeSource) *Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = runningStyle

	return &Model{
		tape:    tape,
		index:   make(map[string]int),
		logs:    make(map[string][]string),
		partial: make(map[string]string),
		spinner: s,
	}
}

// Init starts reading from the tape.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(WaitForTape(m.tape), m.spinner.Tick)
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.String() == "q" {
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.height = msg.Height
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case MsgTapeUpdate:
		m.apply(msg.Update)
		return m, WaitForTape(m.tape)
	case MsgTapeEnded:
		return m, tea.Quit
	}
	return m, nil
}

func (m *Model) apply(update *progrock.StatusUpdate) {
	if update == nil {
		return
	}
	for _, v := range update.Vertexes {
		m.applyVertex(v)
	}
	for _, l := range update.Logs {
		m.appendLog(l.Vertex, string(l.Data))
	}
}

func (m *Model) applyVertex(v *progrock.Vertex) {
	i, ok := m.index[v.Id]
	if !ok {
		i = len(m.vertices)
		m.index[v.Id] = i
		m.vertices = append(m.vertices, VertexState{ID: v.Id, Name: v.Name, Status: statusRunning})
	}

	state := &m.vertices[i]
	switch {
	case v.Cached:
		state.Status = statusCached
	case v.Completed != nil && v.Error != nil:
		state.Status = statusFailed
		state.Error = v.GetError()
	case v.Completed != nil:
		state.Status = statusCompleted
	}
}

func (m *Model) appendLog(id, data string) {
	data = m.partial[id] + data
	lines := strings.Split(data, "\n")
	m.partial[id] = lines[len(lines)-1]

	tail := append(m.logs[id], lines[:len(lines)-1]...)
	if len(tail) > tailLines {
		tail = tail[len(tail)-tailLines:]
	}
	m.logs[id] = tail
}

// View renders every vertex. Running and failed vertices show their latest output.
func (m *Model) View() string {
	var s strings.Builder
	s.WriteString(titleStyle.Render("apkship") + "\n")

	start := 0
	if m.height > 1 && len(m.vertices) > m.height-1 {
		start = len(m.vertices) - (m.height - 1)
	}

	for _, v := range m.vertices[start:] {
		var icon string
		switch v.Status {
		case statusCompleted:
			icon = completedStyle.Render(iconCompleted)
		case statusFailed:
			icon = failedStyle.Render(iconFailed)
		case statusCached:
			icon = cachedStyle.Render(iconCached)
		default:
			icon = m.spinner.View()
		}
		fmt.Fprintf(&s, "%s %s\n", icon, v.Name)

		if v.Status == statusRunning || v.Status == statusFailed {
			for _, line := range m.logs[v.ID] {
				s.WriteString(logStyle.Render(line) + "\n")
			}
		}
	}

	return s.String()
}

// Failed returns the names of the vertices that completed with an error.
func (m *Model) Failed() []string {
	var names []string
	for _, v := range m.vertices {
		if v.Status == statusFailed {
			names = append(names, v.Name)
		}
	}
	return names
}

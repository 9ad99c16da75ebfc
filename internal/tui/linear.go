package tui

import (
	"bytes"
	"fmt"
	"io"

	"github.com/vito/progrock"
)

// Linear prints vertex transitions and output as prefixed lines, for
// terminals where the interactive view is disabled.
type Linear struct {
	w       io.Writer
	names   map[string]string
	status  map[string]Status
	buffers map[string]*bytes.Buffer
}

// NewLinear creates a Linear writing to w.
func NewLinear(w io.Writer) *Linear {
	return &Linear{
		w:       w,
		names:   make(map[string]string),
		status:  make(map[string]Status),
		buffers: make(map[string]*bytes.Buffer),
	}
}

// Run consumes tape until it ends, then flushes any unterminated output.
func (l *Linear) Run(tape TapeSource) {
	for {
		update, err := tape.Read()
		if err != nil {
			break
		}
		l.Write(update)
	}
	for id, buf := range l.buffers {
		if buf.Len() > 0 {
			l.line(id, buf.String())
			buf.Reset()
		}
	}
}

// Write prints the changes carried by one update.
func (l *Linear) Write(update *progrock.StatusUpdate) {
	for _, v := range update.Vertexes {
		l.names[v.Id] = v.Name
		next := statusRunning
		switch {
		case v.Cached:
			next = statusCached
		case v.Completed != nil && v.Error != nil:
			next = statusFailed
		case v.Completed != nil:
			next = statusCompleted
		}
		if prev, seen := l.status[v.Id]; seen && prev == next {
			continue
		}
		l.status[v.Id] = next

		switch next {
		case statusCached:
			l.line(v.Id, cachedStyle.Render(iconCached+" cached"))
		case statusFailed:
			l.line(v.Id, failedStyle.Render(iconFailed+" "+v.GetError()))
		case statusCompleted:
			l.line(v.Id, completedStyle.Render(iconCompleted+" done"))
		default:
			l.line(v.Id, "started")
		}
	}

	for _, log := range update.Logs {
		buf, ok := l.buffers[log.Vertex]
		if !ok {
			buf = new(bytes.Buffer)
			l.buffers[log.Vertex] = buf
		}
		buf.Write(log.Data)
		for {
			i := bytes.IndexByte(buf.Bytes(), '\n')
			if i < 0 {
				break
			}
			l.line(log.Vertex, string(buf.Next(i + 1)[:i]))
		}
	}
}

func (l *Linear) line(id, text string) {
	name := l.names[id]
	if name == "" {
		name = id
	}
	_, _ = fmt.Fprintf(l.w, "%s %s\n", cachedStyle.Render("["+name+"]"), text)
}

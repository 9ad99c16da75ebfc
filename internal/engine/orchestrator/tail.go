package orchestrator

import (
	"io"
	"strings"
	"sync"

	"go.trai.ch/apkship/internal/core/ports"
)

// tailBuffer keeps the last limit bytes written to it.
type tailBuffer struct {
	mu    sync.Mutex
	limit int
	buf   []byte
}

func newTailBuffer(limit int) *tailBuffer {
	return &tailBuffer{limit: limit}
}

func (t *tailBuffer) Write(p []byte) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.buf = append(t.buf, p...)
	if over := len(t.buf) - t.limit; over > 0 {
		t.buf = append(t.buf[:0], t.buf[over:]...)
	}
	return len(p), nil
}

func (t *tailBuffer) String() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return strings.TrimSpace(string(t.buf))
}

func teeVertex(vertex ports.Vertex, tail *tailBuffer) (stdout, stderr io.Writer) {
	return io.MultiWriter(vertex.Stdout(), tail), io.MultiWriter(vertex.Stderr(), tail)
}

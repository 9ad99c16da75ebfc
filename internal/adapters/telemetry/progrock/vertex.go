package progrock

import (
	"fmt"
	"io"
	"sync"

	"github.com/vito/progrock"
	"go.trai.ch/apkship/internal/core/domain"
)

// Vertex implements ports.Vertex wrapping *progrock.VertexRecorder.
type Vertex struct {
	vertex *progrock.VertexRecorder
	once   sync.Once
}

// Stdout returns a writer to capture standard output stream.
func (v *Vertex) Stdout() io.Writer {
	return v.vertex.Stdout()
}

// Stderr returns a writer to capture error output stream.
func (v *Vertex) Stderr() io.Writer {
	return v.vertex.Stderr()
}

// Log records a message on the stdout stream of the vertex.
func (v *Vertex) Log(level domain.LogLevel, msg string) {
	_, _ = fmt.Fprintf(v.vertex.Stdout(), "[%s] %s\n", level.String(), msg)
}

// Complete marks the vertex as finished. Only the first call has an effect.
func (v *Vertex) Complete(err error) {
	v.once.Do(func() {
		v.vertex.Done(err)
	})
}

// Cached marks the vertex as a cache hit and completes it.
func (v *Vertex) Cached() {
	v.once.Do(func() {
		v.vertex.Cached()
		v.vertex.Done(nil)
	})
}

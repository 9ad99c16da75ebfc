// Package progrock provides the Progrock implementation of the telemetry adapter.
package progrock

import (
	"context"

	"github.com/opencontainers/go-digest"
	"github.com/vito/progrock"
	"go.trai.ch/apkship/internal/core/ports"
)

// Recorder implements the ports.Telemetry interface using the vito/progrock library.
type Recorder struct {
	w         progrock.Writer
	rec       *progrock.Recorder
	broadcast *Broadcast
}

var _ ports.Telemetry = (*Recorder)(nil)

// New creates a new Recorder writing to a Broadcast.
func New() *Recorder {
	broadcast := NewBroadcast()
	r := NewRecorder(broadcast)
	r.broadcast = broadcast
	return r
}

// NewRecorder creates a new Recorder with the given writer.
func NewRecorder(w progrock.Writer) *Recorder {
	return &Recorder{
		w:   w,
		rec: progrock.NewRecorder(w),
	}
}

// Subscribe returns a live feed of the recorded updates, or nil when the
// Recorder was not created by New.
func (r *Recorder) Subscribe() *Subscription {
	if r.broadcast == nil {
		return nil
	}
	return r.broadcast.Subscribe()
}

// Record starts recording a new vertex.
func (r *Recorder) Record(ctx context.Context, name string) (context.Context, ports.Vertex) {
	v := r.rec.Vertex(digest.FromString(name), name)
	vertex := &Vertex{vertex: v}
	return ports.ContextWithVertex(ctx, vertex), vertex
}

// Close flushes and closes the recording session.
func (r *Recorder) Close() error {
	return r.w.Close()
}

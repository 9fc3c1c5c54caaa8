package output

import (
	"context"

	"github.com/vdust/beepy/config"
	"github.com/vdust/beepy/debug"
	"github.com/vdust/beepy/notation"
)

// Dummy collects a textual trace of the pushed notes and performs no side
// effect. With -debug the trace is dumped before the (absent) run.
type Dummy struct {
	lines []string
}

func newDummy(*config.Config) (Backend, error) { return NewDummy(), nil }

func NewDummy() *Dummy { return &Dummy{} }

func (d *Dummy) Clear() { d.lines = nil }

func (d *Dummy) PushNote(n notation.Note) {
	if n.Empty() {
		return
	}
	d.lines = append(d.lines, n.String())
}

// Lines returns the accumulated trace.
func (d *Dummy) Lines() []string { return d.lines }

func (d *Dummy) PreRun() error {
	for _, line := range d.lines {
		debug.Log("dummy", "%s", line)
	}
	return nil
}

func (d *Dummy) Run(context.Context) error { return nil }

func (d *Dummy) PostRun() error { return nil }

// Package output renders parsed note events through interchangeable
// backends: a debug log, an external beep command, a raw PCM stream, the
// speaker event device, a MIDI port or the soundcard.
package output

import (
	"context"
	"sort"
	"time"

	"github.com/vdust/beepy/config"
	"github.com/vdust/beepy/notation"
)

// Backend consumes note events and turns them into an external effect.
// PushNote accumulates events and must ignore empty ones; Run performs the
// side effect for everything accumulated so far; Clear drops the
// accumulated state. PreRun and PostRun bracket Run even when the side
// effect itself is skipped.
type Backend interface {
	Clear()
	PushNote(n notation.Note)
	PreRun() error
	Run(ctx context.Context) error
	PostRun() error
}

// Factory builds a backend from the resolved configuration. Construction
// probes the configuration eagerly; an unusable one is a
// *config.ConfigError rather than a Run-time failure.
type Factory func(cfg *config.Config) (Backend, error)

type variant struct {
	desc  string
	build Factory
}

// The variant table is fixed at init time; backends do not self-register.
var variants = map[string]variant{
	"dummy":     {"Dummy output for debug.", newDummy},
	"beep":      {"Generate a 'beep' command and run it.", newBeep},
	"evdev":     {"Write directly to the speaker's event device.", newEvdev},
	"pcm":       {"Generate raw PCM data.", newPCM},
	"midi":      {"Play notes on a MIDI output port.", newMIDI},
	"portaudio": {"Play through the default soundcard.", newPortAudio},
}

// New builds the named backend variant.
func New(name string, cfg *config.Config) (Backend, error) {
	v, ok := variants[name]
	if !ok {
		return nil, config.Errorf("unknown output %q", name)
	}
	return v.build(cfg)
}

// List returns the registered variant names, sorted.
func List() []string {
	names := make([]string, 0, len(variants))
	for name := range variants {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Describe returns the one-line description of a variant, or "" if the
// name is unknown.
func Describe(name string) string {
	return variants[name].desc
}

// sleep pauses for d or until the context is cancelled.
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

package output

import (
	"context"
	"math"
	"strings"
	"time"

	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv" // register MIDI driver

	"github.com/vdust/beepy/config"
	"github.com/vdust/beepy/notation"
)

// noteKey converts a frequency to the nearest equal-tempered MIDI key
// (a4 = 440 Hz = key 69), clamped to the valid key range.
func noteKey(freq float64) uint8 {
	k := int(math.Round(69 + 12*math.Log2(freq/440.0)))
	if k < 0 {
		k = 0
	}
	if k > 127 {
		k = 127
	}
	return uint8(k)
}

type midiJob struct {
	pitched bool
	key     uint8
	hold    time.Duration
	pause   time.Duration
}

// MIDI plays the note sequence on a MIDI output port, one note at a time.
type MIDI struct {
	channel  uint8
	velocity uint8
	send     func(msg gomidi.Message) error
	jobs     []midiJob
}

func newMIDI(cfg *config.Config) (Backend, error) { return NewMIDI(cfg.MIDI) }

// NewMIDI resolves and opens the output port up front; a missing port is a
// configuration error, not a playback one. The port is matched by
// case-insensitive substring; an empty name picks the first port found.
func NewMIDI(cfg config.MIDIConfig) (*MIDI, error) {
	var out drivers.Out
	for _, port := range gomidi.GetOutPorts() {
		if strings.Contains(strings.ToLower(port.String()), strings.ToLower(cfg.Port)) {
			out = port
			break
		}
	}
	if out == nil {
		if cfg.Port == "" {
			return nil, config.Errorf("no MIDI output port available")
		}
		return nil, config.Errorf("MIDI output port %q not found", cfg.Port)
	}
	send, err := gomidi.SendTo(out)
	if err != nil {
		return nil, config.Errorf("MIDI port %q: %v", out.String(), err)
	}

	velocity := cfg.Velocity
	if velocity == 0 || velocity > 127 {
		velocity = 100
	}
	channel := cfg.Channel
	if channel > 15 {
		channel = 0
	}
	return &MIDI{channel: channel, velocity: velocity, send: send}, nil
}

func (m *MIDI) Clear() { m.jobs = nil }

func (m *MIDI) PushNote(n notation.Note) {
	if n.Empty() {
		return
	}
	var j midiJob
	if n.Frequency > 0 && n.Length > 0 {
		j.pitched = true
		j.key = noteKey(n.Frequency)
		j.hold = time.Duration(n.Length * float64(time.Millisecond))
	}
	if n.Pause > 0 {
		j.pause = time.Duration(n.Pause * float64(time.Millisecond))
	}
	m.jobs = append(m.jobs, j)
}

func (m *MIDI) PreRun() error { return nil }

func (m *MIDI) Run(ctx context.Context) error {
	for _, j := range m.jobs {
		if err := m.play(ctx, j); err != nil {
			return err
		}
	}
	return nil
}

// play sounds one job. The note-off is sent on every exit path so an
// interrupted sleep cannot leave a note hanging.
func (m *MIDI) play(ctx context.Context, j midiJob) error {
	if j.pitched {
		err := func() error {
			if err := m.send(gomidi.NoteOn(m.channel, j.key, m.velocity)); err != nil {
				return err
			}
			defer m.send(gomidi.NoteOff(m.channel, j.key))
			return sleep(ctx, j.hold)
		}()
		if err != nil {
			return err
		}
	}
	return sleep(ctx, j.pause)
}

func (m *MIDI) PostRun() error {
	gomidi.CloseDriver()
	return nil
}

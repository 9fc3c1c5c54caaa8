package output

import (
	"context"
	"encoding/binary"
	"os"
	"time"

	"github.com/vdust/beepy/config"
	"github.com/vdust/beepy/debug"
	"github.com/vdust/beepy/notation"
)

// Event class and code from the kernel input protocol (linux/input.h).
const (
	evSnd   = 0x12
	sndTone = 0x02
)

const toneRecordLen = 24

// toneRecord packs one input_event struct: two zeroed native 64-bit time
// fields, the event class, the tone code and the frequency value. The
// layout and byte order are the driver's, hence NativeEndian.
func toneRecord(freq int32) []byte {
	buf := make([]byte, toneRecordLen)
	binary.NativeEndian.PutUint16(buf[16:], evSnd)
	binary.NativeEndian.PutUint16(buf[18:], sndTone)
	binary.NativeEndian.PutUint32(buf[20:], uint32(freq))
	return buf
}

type toneJob struct {
	start []byte // tone-on record; nil for a pause-only job
	hold  time.Duration
	stop  []byte // tone-off record
	pause time.Duration
}

// Evdev plays notes by writing tone events straight to the PC speaker's
// input device.
type Evdev struct {
	device string
	jobs   []toneJob
}

func newEvdev(cfg *config.Config) (Backend, error) { return NewEvdev(cfg.Evdev) }

// NewEvdev probes the device for writability so a bad path fails before
// any parsing happens.
func NewEvdev(cfg config.EvdevConfig) (*Evdev, error) {
	f, err := os.OpenFile(cfg.Device, os.O_WRONLY, 0)
	if err != nil {
		return nil, config.Errorf("can't open device %q for writing: %v", cfg.Device, err)
	}
	f.Close()
	return &Evdev{device: cfg.Device}, nil
}

func (e *Evdev) Clear() { e.jobs = nil }

func (e *Evdev) PushNote(n notation.Note) {
	if n.Empty() {
		return
	}
	var j toneJob
	if n.Frequency > 0 && n.Length > 0 {
		j.start = toneRecord(int32(n.Frequency))
		j.hold = time.Duration(n.Length * float64(time.Millisecond))
		j.stop = toneRecord(0)
	}
	if n.Pause > 0 {
		j.pause = time.Duration(n.Pause * float64(time.Millisecond))
	}
	e.jobs = append(e.jobs, j)
}

func (e *Evdev) PreRun() error {
	for i, j := range e.jobs {
		debug.Log("evdev", "job %d: hold=%s pause=%s", i, j.hold, j.pause)
	}
	return nil
}

func (e *Evdev) Run(ctx context.Context) error {
	f, err := os.OpenFile(e.device, os.O_WRONLY, 0)
	if err != nil {
		return err
	}
	defer f.Close()

	for _, j := range e.jobs {
		if err := playTone(ctx, f, j); err != nil {
			return err
		}
	}
	return nil
}

// playTone sounds one job. The tone-off record is written on every exit
// path, interrupted sleeps included, so the speaker is never left beeping.
func playTone(ctx context.Context, f *os.File, j toneJob) error {
	if j.start != nil {
		err := func() error {
			if _, err := f.Write(j.start); err != nil {
				return err
			}
			defer f.Write(j.stop)
			return sleep(ctx, j.hold)
		}()
		if err != nil {
			return err
		}
	}
	return sleep(ctx, j.pause)
}

func (e *Evdev) PostRun() error { return nil }

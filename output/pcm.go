package output

import (
	"bufio"
	"context"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/vdust/beepy/config"
	"github.com/vdust/beepy/notation"
)

// pcmAmplitude is the peak level of the generated square wave.
const pcmAmplitude = 1 << 12

// sampleJob is one generator step: a square wave at freq for the given
// duration, or silence when freq is 0.
type sampleJob struct {
	freq    float64 // Hz
	seconds float64
}

// sampleJobs is the note accumulator shared by the sample-based backends
// (pcm, portaudio).
type sampleJobs struct {
	jobs []sampleJob
}

func (s *sampleJobs) Clear() { s.jobs = nil }

func (s *sampleJobs) PushNote(n notation.Note) {
	if n.Empty() {
		return
	}
	if n.Frequency > 0 && n.Length > 0 {
		s.jobs = append(s.jobs, sampleJob{freq: n.Frequency, seconds: n.Length / 1000.0})
	}
	if n.Pause > 0 {
		s.jobs = append(s.jobs, sampleJob{seconds: n.Pause / 1000.0})
	}
}

// squareSample returns the hard-clipped square level at sample index i:
// the sign of the sine at that instant, scaled to the peak amplitude.
func squareSample(freq float64, i, rate int) int16 {
	if math.Sin(2*math.Pi*freq*(float64(i)/float64(rate))) >= 0 {
		return pcmAmplitude
	}
	return -pcmAmplitude
}

// toneSamples returns the sample count of an audible job (rounded up) and
// silentSamples that of a pause (rounded down), as the original tool did.
func toneSamples(rate int, seconds float64) int {
	return int(math.Ceil(float64(rate) * seconds))
}

func silentSamples(rate int, seconds float64) int {
	return int(math.Floor(float64(rate) * seconds))
}

// PCM renders the pushed notes as raw headerless 16-bit little-endian
// signed mono samples, to a file or to stdout.
type PCM struct {
	sampleJobs
	rate   int
	target string
	sink   io.Writer // overrides target when non-nil
}

func newPCM(cfg *config.Config) (Backend, error) { return NewPCM(cfg.PCM, nil), nil }

// NewPCM builds the raw-sample backend. A non-nil sink overrides the
// configured target path.
func NewPCM(cfg config.PCMConfig, sink io.Writer) *PCM {
	rate := cfg.SampleRate
	if rate <= 0 {
		rate = 48000
	}
	return &PCM{rate: rate, target: cfg.Output, sink: sink}
}

func (p *PCM) PreRun() error { return nil }

func (p *PCM) Run(ctx context.Context) (err error) {
	w := p.sink
	if w == nil {
		if p.target == "" || p.target == "-" {
			w = os.Stdout
		} else {
			f, cerr := os.Create(p.target)
			if cerr != nil {
				return fmt.Errorf("pcm output: %w", cerr)
			}
			defer func() {
				if cerr := f.Close(); cerr != nil && err == nil {
					err = fmt.Errorf("pcm output: %w", cerr)
				}
			}()
			w = f
		}
	}

	bw := bufio.NewWriter(w)
	for _, j := range p.jobs {
		if err := ctx.Err(); err != nil {
			return err
		}
		if werr := p.generate(bw, j); werr != nil {
			return fmt.Errorf("pcm output: %w", werr)
		}
	}
	if werr := bw.Flush(); werr != nil {
		return fmt.Errorf("pcm output: %w", werr)
	}
	return nil
}

func (p *PCM) generate(w io.Writer, j sampleJob) error {
	var sample [2]byte
	if j.freq > 0 {
		total := toneSamples(p.rate, j.seconds)
		for i := 0; i < total; i++ {
			binary.LittleEndian.PutUint16(sample[:], uint16(squareSample(j.freq, i, p.rate)))
			if _, err := w.Write(sample[:]); err != nil {
				return err
			}
		}
		return nil
	}
	total := silentSamples(p.rate, j.seconds)
	for i := 0; i < total; i++ {
		if _, err := w.Write(sample[:]); err != nil {
			return err
		}
	}
	return nil
}

func (p *PCM) PostRun() error { return nil }

package output

import (
	"context"
	"fmt"

	pa "github.com/gordonklaus/portaudio"

	"github.com/vdust/beepy/config"
)

const paBufferLen = 2048

// paAmplitude matches the 16-bit square-wave level of the pcm output,
// scaled to the float32 sample range.
const paAmplitude = float32(pcmAmplitude) / (1 << 15)

// PortAudio plays the square-wave rendition live through the default
// output device.
type PortAudio struct {
	sampleJobs
	rate   int
	buf    []float32
	stream *pa.Stream
}

func newPortAudio(cfg *config.Config) (Backend, error) { return NewPortAudio(cfg.PortAudio) }

// NewPortAudio initializes portaudio and opens the default mono output
// stream; failures surface as configuration errors before any parsing.
func NewPortAudio(cfg config.PortAudioConfig) (*PortAudio, error) {
	rate := cfg.SampleRate
	if rate <= 0 {
		rate = 48000
	}
	if err := pa.Initialize(); err != nil {
		return nil, config.Errorf("portaudio: %v", err)
	}
	buf := make([]float32, paBufferLen)
	stream, err := pa.OpenDefaultStream(0, 1, float64(rate), len(buf), &buf)
	if err != nil {
		pa.Terminate()
		return nil, config.Errorf("portaudio: %v", err)
	}
	return &PortAudio{rate: rate, buf: buf, stream: stream}, nil
}

func (p *PortAudio) PreRun() error { return nil }

func (p *PortAudio) Run(ctx context.Context) error {
	if err := p.stream.Start(); err != nil {
		return fmt.Errorf("portaudio: %w", err)
	}
	defer p.stream.Stop()

	fill := 0
	write := func() error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := p.stream.Write(); err != nil {
			return fmt.Errorf("portaudio: %w", err)
		}
		return nil
	}

	for _, j := range p.jobs {
		total := silentSamples(p.rate, j.seconds)
		if j.freq > 0 {
			total = toneSamples(p.rate, j.seconds)
		}
		for i := 0; i < total; i++ {
			var v float32
			if j.freq > 0 {
				v = paAmplitude
				if squareSample(j.freq, i, p.rate) < 0 {
					v = -paAmplitude
				}
			}
			p.buf[fill] = v
			fill++
			if fill == len(p.buf) {
				fill = 0
				if err := write(); err != nil {
					return err
				}
			}
		}
	}
	if fill > 0 {
		// pad the last buffer with silence
		for i := fill; i < len(p.buf); i++ {
			p.buf[i] = 0
		}
		return write()
	}
	return nil
}

func (p *PortAudio) PostRun() error {
	p.stream.Close()
	if err := pa.Terminate(); err != nil {
		return fmt.Errorf("portaudio: %v", err)
	}
	return nil
}

// Command beepy converts QuickBasic-style PLAY macro strings into notes
// and renders them through a selectable output: the PC speaker event
// device, an external beep command, raw PCM data, a MIDI port or the
// soundcard.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/transform"

	"github.com/vdust/beepy/config"
	"github.com/vdust/beepy/debug"
	"github.com/vdust/beepy/notation"
	"github.com/vdust/beepy/output"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	fs := flag.NewFlagSet("beepy", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintln(fs.Output(), "Usage: beepy [options] [files...]")
		fmt.Fprintln(fs.Output(), "Parses PLAY macro files (or stdin) and plays them on the selected output.")
		fmt.Fprintln(fs.Output(), "")
		fs.PrintDefaults()
	}

	fs.StringVar(&cfg.Encoding, "encoding", cfg.Encoding,
		"charset of the input files; stdin is read as-is")
	fs.StringVar(&cfg.Output, "o", cfg.Output,
		"output method; use 'list' to list the available outputs")
	fs.StringVar(&cfg.Output, "output", cfg.Output, "alias of -o")
	fs.StringVar(&cfg.Notation, "notation", cfg.Notation,
		"notation dialect; use 'list' to list the available dialects")
	noRun := fs.Bool("R", false, "don't run the generated output")
	fs.BoolVar(noRun, "no-run", false, "alias of -R")
	fs.BoolVar(&cfg.Debug, "debug", cfg.Debug, "write a debug trace to stderr")

	fs.StringVar(&cfg.Beep.Command, "beep", cfg.Beep.Command,
		"path to the beep executable, resolved on PATH")
	fs.BoolVar(&cfg.Beep.Print, "beep-print", cfg.Beep.Print,
		"print the generated beep command to standard output")
	fs.StringVar(&cfg.Evdev.Device, "evdev", cfg.Evdev.Device,
		"speaker event device to use")
	fs.IntVar(&cfg.PCM.SampleRate, "pcm-samplerate", cfg.PCM.SampleRate,
		"sample rate of the raw PCM data")
	fs.StringVar(&cfg.PCM.Output, "pcm-output", cfg.PCM.Output,
		"target file for pcm output; '-' is standard output")
	fs.StringVar(&cfg.MIDI.Port, "midi-port", cfg.MIDI.Port,
		"MIDI output port (substring match); empty picks the first port")
	midiChannel := fs.Int("midi-channel", int(cfg.MIDI.Channel), "MIDI channel (0-15)")
	fs.IntVar(&cfg.PortAudio.SampleRate, "pa-samplerate", cfg.PortAudio.SampleRate,
		"sample rate of soundcard playback")

	if err := fs.Parse(args); err != nil {
		return 1
	}
	if *midiChannel >= 0 && *midiChannel <= 15 {
		cfg.MIDI.Channel = uint8(*midiChannel)
	}
	if cfg.Debug {
		debug.Enable()
	}

	if cfg.Output == "list" {
		printOutputs()
		return 0
	}
	if cfg.Notation == "list" {
		printDialects()
		return 0
	}

	files := fs.Args()
	if len(files) == 0 {
		files = []string{"-"}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	parser, err := notation.NewDialect(cfg.Notation)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	backend, err := output.New(cfg.Output, cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	player := NewPlayer(parser, backend, *noRun)
	for _, path := range files {
		text, err := readInput(path, cfg.Encoding)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		debug.Log("main", "parsing %s (%d bytes)", path, len(text))
		if err := player.Parse(text); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
	}

	if err := player.Run(ctx, ""); err != nil {
		if errors.Is(err, context.Canceled) {
			// interrupted by the user: stay quiet
			return 0
		}
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

// readInput reads one input file, decoded from the configured charset.
// "-" means stdin, read as-is.
func readInput(path, charset string) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("stdin: %w", err)
		}
		return string(data), nil
	}

	enc, err := ianaindex.IANA.Encoding(charset)
	if err != nil || enc == nil {
		return "", config.Errorf("unknown encoding %q", charset)
	}

	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	data, err := io.ReadAll(transform.NewReader(f, enc.NewDecoder()))
	if err != nil {
		return "", fmt.Errorf("%s: %w", path, err)
	}
	return string(data), nil
}

var (
	listNameStyle = lipgloss.NewStyle().Bold(true).Width(10)
	listMarkStyle = lipgloss.NewStyle().Faint(true)
)

func printOutputs() {
	fmt.Println("Available outputs:")
	for _, name := range output.List() {
		line := "    " + listNameStyle.Render(name) + " " + output.Describe(name)
		if name == config.Default().Output {
			line += " " + listMarkStyle.Render("[default]")
		}
		fmt.Println(line)
	}
}

func printDialects() {
	fmt.Println("Available notations:")
	for _, name := range notation.Dialects() {
		line := "    " + listNameStyle.Render(name) + " " + notation.DescribeDialect(name)
		if name == config.Default().Notation {
			line += " " + listMarkStyle.Render("[default]")
		}
		fmt.Println(line)
	}
}

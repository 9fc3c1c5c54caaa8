package output

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"syscall"

	"github.com/vdust/beepy/config"
	"github.com/vdust/beepy/notation"
)

// Beep builds a beep(1) command line from the pushed notes and runs it.
type Beep struct {
	command string
	print   bool
	args    []string
}

func newBeep(cfg *config.Config) (Backend, error) { return NewBeep(cfg.Beep) }

// NewBeep verifies the beep executable resolves on PATH before any note is
// accepted, so a bad -beep value fails before parsing starts.
func NewBeep(cfg config.BeepConfig) (*Beep, error) {
	if _, err := exec.LookPath(cfg.Command); err != nil {
		return nil, config.Errorf("beep program %q not found", cfg.Command)
	}
	return &Beep{command: cfg.Command, print: cfg.Print}, nil
}

func (b *Beep) Clear() { b.args = nil }

func (b *Beep) PushNote(n notation.Note) {
	if n.Empty() {
		return
	}
	if len(b.args) > 0 {
		b.args = append(b.args, "-n")
	}
	if n.Frequency > 0 && n.Length > 0 {
		b.args = append(b.args,
			"-f", fmt.Sprintf("%.3f", n.Frequency),
			"-l", fmt.Sprintf("%.3f", n.Length))
	} else {
		// pause-only event: a zero-length tone keeps beep's
		// tone/delay alternation intact
		b.args = append(b.args, "-f", "1", "-l", "0")
	}
	if n.Pause > 0 {
		b.args = append(b.args, "-D", fmt.Sprintf("%.3f", n.Pause))
	}
}

// Args returns the accumulated command-line arguments.
func (b *Beep) Args() []string { return b.args }

func (b *Beep) PreRun() error {
	if b.print {
		fmt.Println(b.command + " " + strings.Join(b.args, " "))
	}
	return nil
}

func (b *Beep) Run(ctx context.Context) error {
	cmd := exec.CommandContext(ctx, b.command, b.args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	err := cmd.Run()
	if cerr := ctx.Err(); cerr != nil {
		return cerr
	}
	if err == nil {
		return nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		// ^C reaches the child through the shared process group; that is
		// the user stopping playback, not a failure.
		if st, ok := exitErr.Sys().(syscall.WaitStatus); ok && st.Signaled() && st.Signal() == syscall.SIGINT {
			return nil
		}
	}
	return fmt.Errorf("%s: %w", b.command, err)
}

func (b *Beep) PostRun() error { return nil }

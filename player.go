package main

import (
	"context"

	"github.com/vdust/beepy/notation"
	"github.com/vdust/beepy/output"
)

// Player drives one parser into one output backend: parse, feed, render.
type Player struct {
	parser  *notation.Parser
	backend output.Backend
	noRun   bool
}

// NewPlayer binds a parser to a backend. With noRun set, Run still calls
// PreRun and PostRun but skips the side effect itself.
func NewPlayer(parser *notation.Parser, backend output.Backend, noRun bool) *Player {
	return &Player{parser: parser, backend: backend, noRun: noRun}
}

// Clear resets both sides of the pipeline.
func (p *Player) Clear() {
	p.parser.Reset()
	p.backend.Clear()
}

// Parse scans one input and feeds the resulting events to the backend.
// Several inputs may be parsed in sequence before a single Run; they share
// the parser's performance state.
func (p *Player) Parse(text string) error {
	if err := p.parser.Parse(text); err != nil {
		return err
	}
	for _, n := range p.parser.Take() {
		p.backend.PushNote(n)
	}
	return nil
}

// Run renders everything fed so far, parsing text first when it is
// non-empty. PreRun and PostRun always execute, bracketing the side
// effect.
func (p *Player) Run(ctx context.Context, text string) error {
	if text != "" {
		if err := p.Parse(text); err != nil {
			return err
		}
	}
	if err := p.backend.PreRun(); err != nil {
		return err
	}
	var runErr error
	if !p.noRun {
		runErr = p.backend.Run(ctx)
	}
	if err := p.backend.PostRun(); err != nil && runErr == nil {
		runErr = err
	}
	return runErr
}

package notation

import (
	"errors"
	"math"
	"testing"
)

func almost(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func parseAll(t *testing.T, input string) []Note {
	t.Helper()
	p := NewParser()
	if err := p.Parse(input); err != nil {
		t.Fatalf("Parse(%q): %v", input, err)
	}
	return p.Notes()
}

func TestDurationsRecurrence(t *testing.T) {
	for _, tempo := range []int{32, 60, 120, 255} {
		for _, noteType := range []int{1, 4, 16, 64} {
			for _, articulation := range []float64{3.0 / 4.0, 7.0 / 8.0, 1.0} {
				for dots := 0; dots <= 4; dots++ {
					p := NewParser()
					p.tempo = float64(tempo)
					p.noteType = noteType
					p.articulation = articulation

					total := 4.0 * 60000.0 / (float64(tempo) * float64(noteType))
					extra := total / 2.0
					for i := 0; i < dots; i++ {
						total += extra
						extra /= 2.0
					}

					length, rest := p.durations(dots)
					if !almost(length+rest, total) {
						t.Fatalf("t%d l%d a%.3f dots=%d: length+rest = %f, want %f",
							tempo, noteType, articulation, dots, length+rest, total)
					}
					if !almost(length, articulation*total) {
						t.Fatalf("t%d l%d a%.3f dots=%d: length = %f, want %f",
							tempo, noteType, articulation, dots, length, articulation*total)
					}
				}
			}
		}
	}
}

func TestParseSingleNote(t *testing.T) {
	notes := parseAll(t, "o4 l4 c")
	if len(notes) != 1 {
		t.Fatalf("got %d notes, want 1", len(notes))
	}
	n := notes[0]
	if n.Symbolic != "c4" {
		t.Errorf("Symbolic = %q, want \"c4\"", n.Symbolic)
	}
	want, err := Frequency("c", 4)
	if err != nil {
		t.Fatal(err)
	}
	if n.Frequency != want {
		t.Errorf("Frequency = %f, want %f", n.Frequency, want)
	}
	// quarter note at tempo 120 is 500ms; default articulation is 7/8
	if !almost(n.Length, 7.0/8.0*500.0) {
		t.Errorf("Length = %f, want %f", n.Length, 7.0/8.0*500.0)
	}
	if !almost(n.Pause, 500.0/8.0) {
		t.Errorf("Pause = %f, want %f", n.Pause, 500.0/8.0)
	}
}

func TestParseDots(t *testing.T) {
	tests := []struct {
		input string
		total float64
	}{
		{"c", 500.0},
		{"c.", 750.0},
		{"c..", 875.0},
		{"c...", 937.5},
	}
	for _, tt := range tests {
		notes := parseAll(t, tt.input)
		if len(notes) != 1 {
			t.Fatalf("%q: got %d notes, want 1", tt.input, len(notes))
		}
		if got := notes[0].Length + notes[0].Pause; !almost(got, tt.total) {
			t.Errorf("%q: total duration = %f, want %f", tt.input, got, tt.total)
		}
		if !almost(notes[0].Length, 7.0/8.0*tt.total) {
			t.Errorf("%q: Length = %f, want %f", tt.input, notes[0].Length, 7.0/8.0*tt.total)
		}
	}
}

func TestParseArticulation(t *testing.T) {
	notes := parseAll(t, "ml c")
	if len(notes) != 1 {
		t.Fatalf("got %d notes, want 1", len(notes))
	}
	if !almost(notes[0].Length, 500.0) || notes[0].Pause != 0 {
		t.Errorf("legato: Length = %f Pause = %f, want 500 and 0", notes[0].Length, notes[0].Pause)
	}

	notes = parseAll(t, "ms c")
	if !almost(notes[0].Length, 375.0) || !almost(notes[0].Pause, 125.0) {
		t.Errorf("staccato: Length = %f Pause = %f, want 375 and 125", notes[0].Length, notes[0].Pause)
	}

	// mf and mb are accepted and have no effect
	notes = parseAll(t, "mf mb c")
	if !almost(notes[0].Length, 437.5) {
		t.Errorf("mf mb: Length = %f, want 437.5", notes[0].Length)
	}
}

func TestParseOctaveClamping(t *testing.T) {
	notes := parseAll(t, "o8 >>> c")
	if notes[0].Symbolic != "c8" {
		t.Errorf("raised Symbolic = %q, want \"c8\"", notes[0].Symbolic)
	}
	notes = parseAll(t, "o0 <<< c")
	if notes[0].Symbolic != "c0" {
		t.Errorf("lowered Symbolic = %q, want \"c0\"", notes[0].Symbolic)
	}
	// numeric arguments clamp as well
	notes = parseAll(t, "o100 c")
	if notes[0].Symbolic != "c8" {
		t.Errorf("o100 Symbolic = %q, want \"c8\"", notes[0].Symbolic)
	}
}

func TestParseAccidentals(t *testing.T) {
	notes := parseAll(t, "c# d+ e-")
	if len(notes) != 3 {
		t.Fatalf("got %d notes, want 3", len(notes))
	}
	// '#' is normalized to '+'
	if notes[0].Symbolic != "c4+" {
		t.Errorf("Symbolic = %q, want \"c4+\"", notes[0].Symbolic)
	}
	cs, _ := Frequency("c+", 4)
	if notes[0].Frequency != cs {
		t.Errorf("c# Frequency = %f, want %f", notes[0].Frequency, cs)
	}
	if notes[1].Symbolic != "d4+" || notes[2].Symbolic != "e4-" {
		t.Errorf("Symbolic = %q, %q, want \"d4+\", \"e4-\"", notes[1].Symbolic, notes[2].Symbolic)
	}
}

func TestParseRests(t *testing.T) {
	// rests accumulate into the pending note, flushed by the next pitch
	notes := parseAll(t, "p4 p4 c")
	if len(notes) != 2 {
		t.Fatalf("got %d notes, want 2", len(notes))
	}
	rest := notes[0]
	if rest.Frequency != 0 || rest.Length != 0 {
		t.Errorf("rest note carries a pitch: %+v", rest)
	}
	if !almost(rest.Pause, 1000.0) {
		t.Errorf("rest Pause = %f, want 1000", rest.Pause)
	}

	// a dotted rest extends like a dotted note
	notes = parseAll(t, "p4. c")
	if !almost(notes[0].Pause, 750.0) {
		t.Errorf("dotted rest Pause = %f, want 750", notes[0].Pause)
	}
}

func TestParseTrailingRest(t *testing.T) {
	// a rest after a note merges into that note's pause, flushed at end of
	// input: 62.5ms articulation gap + 500ms rest
	notes := parseAll(t, "c p4")
	if len(notes) != 1 {
		t.Fatalf("got %d notes, want 1", len(notes))
	}
	if !almost(notes[0].Pause, 562.5) {
		t.Errorf("trailing rest Pause = %f, want 562.5", notes[0].Pause)
	}
}

func TestParseComments(t *testing.T) {
	notes := parseAll(t, "c ; d e f\nd ; no newline at end")
	if len(notes) != 2 {
		t.Fatalf("got %d notes, want 2", len(notes))
	}
	if notes[1].Symbolic != "d4" {
		t.Errorf("Symbolic = %q, want \"d4\"", notes[1].Symbolic)
	}
}

func TestParseUppercaseInput(t *testing.T) {
	notes := parseAll(t, "O3 C#")
	if len(notes) != 1 || notes[0].Symbolic != "c3+" {
		t.Fatalf("got %+v, want one c3+ note", notes)
	}
}

func TestParseEmptyInput(t *testing.T) {
	if notes := parseAll(t, ""); len(notes) != 0 {
		t.Fatalf("empty input produced %d notes", len(notes))
	}
	if notes := parseAll(t, " \t\r\n"); len(notes) != 0 {
		t.Fatalf("whitespace input produced %d notes", len(notes))
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		input string
		line  int
		col   int
	}{
		{"z", 1, 2},
		{"c\nd\n z", 3, 3},
		{"mz", 1, 3},
		{"o c", 1, 2},
		{"t", 1, 2},
	}
	for _, tt := range tests {
		p := NewParser()
		err := p.Parse(tt.input)
		if err == nil {
			t.Fatalf("Parse(%q) succeeded, want error", tt.input)
		}
		var perr *ParseError
		if !errors.As(err, &perr) {
			t.Fatalf("Parse(%q) returned %T, want *ParseError", tt.input, err)
		}
		if perr.Line != tt.line || perr.Col != tt.col {
			t.Errorf("Parse(%q) located at (%d, %d), want (%d, %d)",
				tt.input, perr.Line, perr.Col, tt.line, tt.col)
		}
	}
}

func TestParseStatePersists(t *testing.T) {
	p := NewParser()
	if err := p.Parse("t60 l2 ml"); err != nil {
		t.Fatal(err)
	}
	if err := p.Parse("c"); err != nil {
		t.Fatal(err)
	}
	notes := p.Notes()
	if len(notes) != 1 {
		t.Fatalf("got %d notes, want 1", len(notes))
	}
	// half note at tempo 60 is 2000ms, fully legato
	if !almost(notes[0].Length, 2000.0) {
		t.Errorf("Length = %f, want 2000", notes[0].Length)
	}

	p.Reset()
	if err := p.Parse("c"); err != nil {
		t.Fatal(err)
	}
	notes = p.Notes()
	if len(notes) != 1 || !almost(notes[0].Length, 437.5) {
		t.Fatalf("after Reset: got %+v, want one 437.5ms note", notes)
	}
}

func TestTake(t *testing.T) {
	p := NewParser()
	if err := p.Parse("c d"); err != nil {
		t.Fatal(err)
	}
	if got := len(p.Take()); got != 2 {
		t.Fatalf("Take returned %d notes, want 2", got)
	}
	if got := len(p.Notes()); got != 0 {
		t.Fatalf("parser kept %d notes after Take", got)
	}
}

func TestNoteEmpty(t *testing.T) {
	tests := []struct {
		note Note
		want bool
	}{
		{Note{}, true},
		{Note{Frequency: 440}, true},
		{Note{Length: 100}, true},
		{Note{Frequency: 440, Length: 100}, false},
		{Note{Pause: 10}, false},
	}
	for _, tt := range tests {
		if got := tt.note.Empty(); got != tt.want {
			t.Errorf("%+v Empty() = %v, want %v", tt.note, got, tt.want)
		}
	}
}

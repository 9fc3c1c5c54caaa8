package notation

import "fmt"

// Note is one discrete event emitted by the parser. Zero values encode
// absence: a pitched note always carries Frequency and Length > 0, and
// Pause is only set when the trailing gap is > 0.
type Note struct {
	Symbolic  string  // letter + octave + accidental, informational only
	Frequency float64 // Hz
	Length    float64 // audible duration, milliseconds
	Pause     float64 // trailing silence, milliseconds
}

// Empty reports whether the note carries no audio content. Backends must
// treat empty notes as no-ops.
func (n Note) Empty() bool {
	return (n.Frequency == 0 || n.Length == 0) && n.Pause == 0
}

func (n Note) String() string {
	if n.Empty() {
		return "(empty)"
	}
	if n.Frequency == 0 || n.Length == 0 {
		return fmt.Sprintf("rest %.3fms", n.Pause)
	}
	s := fmt.Sprintf("%s %.3fHz %.3fms", n.Symbolic, n.Frequency, n.Length)
	if n.Pause > 0 {
		s += fmt.Sprintf(" +%.3fms", n.Pause)
	}
	return s
}

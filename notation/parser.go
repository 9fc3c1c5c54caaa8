package notation

import (
	"fmt"
	"math"
	"strings"
)

// ParseError reports malformed notation with its 1-based location. The
// column is counted from the most recent newline to the cursor position
// just after the offending character.
type ParseError struct {
	Msg  string
	Line int
	Col  int
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s (line %d, column %d)", e.Msg, e.Line, e.Col)
}

// Parser converts PLAY macro text into an ordered sequence of note events.
// The performance state (octave, tempo, note length, articulation)
// persists across Parse calls so several inputs can share one musical
// context; Reset restores the defaults. A Parser is not safe for
// concurrent use.
type Parser struct {
	octave       int
	tempo        float64
	noteType     int
	articulation float64

	notes []Note
}

func NewParser() *Parser {
	p := &Parser{}
	p.Reset()
	return p
}

// Reset restores the QuickBasic default performance state and drops any
// accumulated notes.
func (p *Parser) Reset() {
	p.octave = 4
	p.tempo = 120
	p.noteType = 4
	p.articulation = 7.0 / 8.0
	p.notes = nil
}

// Notes returns the events accumulated by previous Parse calls, in
// emission order.
func (p *Parser) Notes() []Note { return p.notes }

// Take returns the accumulated events and removes them from the parser.
// The performance state is left untouched.
func (p *Parser) Take() []Note {
	notes := p.notes
	p.notes = nil
	return notes
}

// durations returns the audible and trailing-rest durations, in
// milliseconds, of a note with the given dot count. Each dot extends the
// note by half of the previously added duration.
func (p *Parser) durations(dots int) (length, rest float64) {
	l := 4.0 * 60000.0 / (p.tempo * float64(p.noteType))
	extra := l / 2.0
	for i := 0; i < dots; i++ {
		l += extra
		extra /= 2.0
	}
	return p.articulation * l, math.Max(0, (1.0-p.articulation)*l)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Parse scans one complete macro string and appends its note events to the
// parser. The scan is a single pass with one character of lookahead; the
// appended trailing space lets the lookahead after 'm' and after a note
// letter skip its own bounds check.
func (p *Parser) Parse(data string) error {
	data = strings.ToLower(data) + " "

	pos := 0
	line := 1
	lineOff := -1 // offset of the last newline seen

	errAt := func(format string, args ...any) error {
		return &ParseError{
			Msg:  fmt.Sprintf(format, args...),
			Line: line,
			Col:  pos - lineOff,
		}
	}

	var cur Note
	flush := func() {
		if !cur.Empty() {
			p.notes = append(p.notes, cur)
		}
		cur = Note{}
	}

	for pos < len(data) {
		c := data[pos]
		pos++
		switch {
		case c == ' ' || c == '\t' || c == '\r':
		case c == '\n':
			lineOff = pos - 1
			line++
		case c == ';': // comments run to end of line
			for pos < len(data) && data[pos] != '\n' {
				pos++
			}
		case c == 'm':
			x := data[pos]
			pos++
			switch x {
			case 's':
				p.articulation = 3.0 / 4.0
			case 'n':
				p.articulation = 7.0 / 8.0
			case 'l':
				p.articulation = 1.0
			case 'f', 'b':
				// foreground/background switches: accepted, no effect
			default:
				return errAt("unknown character sequence %q", "m"+string(x))
			}
		case c == 'o' || c == 'l' || c == 't' || c == 'p':
			start := pos
			v := 0
			for pos < len(data) && data[pos] >= '0' && data[pos] <= '9' {
				if v < 1<<16 {
					v = v*10 + int(data[pos]-'0')
				}
				pos++
			}
			if pos == start {
				return errAt("expected number after %q", string(c))
			}
			switch c {
			case 'o':
				p.octave = clamp(v, 0, 8)
			case 'l':
				p.noteType = clamp(v, 1, 64)
			case 't':
				p.tempo = float64(clamp(v, 32, 255))
			case 'p':
				dots := 0
				for pos < len(data) && data[pos] == '.' {
					dots++
					pos++
				}
				d, r := p.durations(dots)
				cur.Pause += d + r
			}
		case c == '>':
			if p.octave < 8 {
				p.octave++
			}
		case c == '<':
			if p.octave > 0 {
				p.octave--
			}
		case c >= 'a' && c <= 'g':
			flush()
			pitch := string(c)
			cur.Symbolic = fmt.Sprintf("%s%d", pitch, p.octave)
			if x := data[pos]; x == '#' || x == '+' || x == '-' {
				if x == '#' {
					x = '+'
				}
				pitch += string(x)
				cur.Symbolic += string(x)
				pos++
			}
			dots := 0
			for pos < len(data) && data[pos] == '.' {
				dots++
				pos++
			}
			freq, err := Frequency(pitch, p.octave)
			if err != nil {
				return errAt("%v", err)
			}
			d, r := p.durations(dots)
			cur.Frequency = freq
			cur.Length = d
			if r > 0 {
				cur.Pause = r
			}
		default:
			return errAt("unknown character %q", string(c))
		}
	}
	flush()
	return nil
}

// Package notation parses QuickBasic-style PLAY macro strings into timed
// note events.
package notation

import (
	"fmt"
	"math"
)

// pitchTable[i] holds the equal-tempered frequency of semitone i-1, so the
// table spans one semitone below C0 (c-) up to one above B8 (b+). It is
// tuned to a4 = 440 Hz, which lands at index 58.
var pitchTable [12*9 + 3]float64

// pitchOffsets maps a note letter, with an optional "+" or "-" accidental,
// to its offset into an octave's 12 semitones.
var pitchOffsets = map[string]int{
	"c": 1, "d": 3, "e": 5, "f": 6, "g": 8, "a": 10, "b": 12,
}

func init() {
	for i := range pitchTable {
		pitchTable[i] = 440.0 * math.Pow(2, float64(i-58)/12.0)
	}
	for _, l := range []string{"a", "b", "c", "d", "e", "f", "g"} {
		pitchOffsets[l+"-"] = pitchOffsets[l] - 1
		pitchOffsets[l+"+"] = pitchOffsets[l] + 1
	}
}

// Frequency returns the pitch, in Hz, of a note letter with optional
// accidental at the given octave. The octave must already be clamped to
// [0, 8].
func Frequency(pitch string, octave int) (float64, error) {
	off, ok := pitchOffsets[pitch]
	if !ok {
		return 0, fmt.Errorf("unknown pitch %q", pitch)
	}
	return pitchTable[12*octave+off], nil
}

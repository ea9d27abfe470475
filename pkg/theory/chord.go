// Package theory holds the fixed musical tables used to turn codons into
// notes: tonic chords, scale degrees and letter mappings
package theory

import (
	"errors"
	"fmt"
	"strings"
)

// Note is a pitch class name such as "C" or "F#"
type Note string

// Chord is a triad ordered root, third, fifth
type Chord [3]Note

// Root returns the first chord tone
func (c Chord) Root() Note { return c[0] }

// Third returns the second chord tone
func (c Chord) Third() Note { return c[1] }

// Fifth returns the third chord tone
func (c Chord) Fifth() Note { return c[2] }

// Mode is the tonality of a piece
type Mode string

const (
	Major Mode = "major"
	Minor Mode = "minor"
)

var (
	ErrUnsupportedTonic = errors.New("unsupported tonic")
	ErrUnsupportedMode  = errors.New("unsupported mode")
)

// Tonics lists the supported tonic letters
var Tonics = []Note{"C", "D", "E", "F", "G", "A", "B"}

var majorChords = map[Note]Chord{
	"C": {"C", "E", "G"},
	"G": {"G", "B", "D"},
	"A": {"A", "C#", "E"},
	"D": {"D", "F#", "A"},
	"E": {"E", "G#", "B"},
	"F": {"F", "A", "C"},
	"B": {"B", "D#", "F#"},
}

var minorChords = map[Note]Chord{
	"C": {"C", "D#", "G"},
	"A": {"A", "C", "E"},
	"G": {"G", "A#", "D"},
	"D": {"D", "F", "A"},
	"E": {"E", "G", "B"},
	"F": {"F", "G#", "C"},
	"B": {"B", "D", "F#"},
}

// ChordFor returns the tonic triad for tonic in mode. Any mode other than
// Major reads the minor table.
func ChordFor(tonic Note, mode Mode) (Chord, error) {
	table := minorChords
	if mode == Major {
		table = majorChords
	}
	chord, ok := table[tonic]
	if !ok {
		return Chord{}, fmt.Errorf("%w: %q", ErrUnsupportedTonic, tonic)
	}
	return chord, nil
}

// ParseTonic normalizes user input into a supported tonic
func ParseTonic(s string) (Note, error) {
	n := Note(strings.ToUpper(strings.TrimSpace(s)))
	for _, t := range Tonics {
		if n == t {
			return n, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedTonic, s)
}

// ParseMode normalizes user input into a Mode
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "major", "maj", "mayor":
		return Major, nil
	case "minor", "min", "menor":
		return Minor, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedMode, s)
	}
}

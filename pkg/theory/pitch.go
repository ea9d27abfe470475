package theory

import (
	"fmt"
	"strings"
)

// Default octaves for rendering
const (
	ChordOctave  = 4
	MelodyOctave = 5
)

var noteNames = []Note{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

// Semitone returns the pitch class of n, 0 for C through 11 for B.
// Sharps and flats are accepted.
func Semitone(n Note) (int, error) {
	s := strings.TrimSpace(string(n))
	if s == "" {
		return 0, fmt.Errorf("empty note name")
	}

	base := -1
	for i, name := range noteNames {
		if len(name) == 1 && strings.EqualFold(string(name), s[:1]) {
			base = i
			break
		}
	}
	if base < 0 {
		return 0, fmt.Errorf("invalid note name %q", n)
	}

	for _, acc := range s[1:] {
		switch acc {
		case '#':
			base++
		case 'b':
			base--
		default:
			return 0, fmt.Errorf("invalid accidental in note name %q", n)
		}
	}
	return (base + 12) % 12, nil
}

// MIDINumber converts a note in octave to a MIDI key number, C4 being 60
func MIDINumber(n Note, octave int) (uint8, error) {
	semi, err := Semitone(n)
	if err != nil {
		return 0, err
	}
	key := 12*(octave+1) + semi
	if key < 0 || key > 127 {
		return 0, fmt.Errorf("note %s%d out of MIDI range", n, octave)
	}
	return uint8(key), nil
}

// PitchName formats a MIDI key number as a note name with octave
func PitchName(key uint8) string {
	return fmt.Sprintf("%s%d", noteNames[key%12], int(key/12)-1)
}

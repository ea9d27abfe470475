package theory

// Durations in beats, a beat being a quarter note
const (
	Half    = 2.0
	Quarter = 1.0
	Eighth  = 0.5

	// Sustain holds a note for a whole bar
	Sustain = 4.0
)

// NoteFor picks the chord tone played for a melody letter. T shares the
// fifth with C since a triad has no fourth voice. Other letters return "".
func NoteFor(letter byte, chord Chord) Note {
	switch letter {
	case 'A':
		return chord.Root()
	case 'G':
		return chord.Third()
	case 'C', 'T':
		return chord.Fifth()
	}
	return ""
}

// DurationFor maps a duration letter, and for T a movement letter, to a
// length in beats. Negative lengths are rests. Unknown letters give 0.
func DurationFor(duration, movement byte) float64 {
	switch duration {
	case 'A':
		return Half
	case 'G':
		return Quarter
	case 'C':
		return Eighth
	case 'T':
		switch movement {
		case 'A':
			return -Half
		case 'G':
			return -Quarter
		case 'C':
			return -Eighth
		case 'T':
			return Sustain
		}
	}
	return 0
}

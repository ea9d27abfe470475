package render

import (
	"errors"
	"fmt"

	"github.com/james-see/dna2midi/pkg/score"
	"github.com/james-see/dna2midi/pkg/theory"
)

// DefaultVelocity is used when no velocity is configured
const DefaultVelocity = 100

// BuildTimeline places every event of s on a running time cursor.
//
// Chords with a duration sound all their tones and move the cursor; bar
// markers only record the cursor. Notes sound and move the cursor, rests
// only move it. Notes without a pitch or without length are silent.
// Rests are timed silence and are never skipped.
func BuildTimeline(s *score.Score, tempo int, velocity uint8) (*Timeline, error) {
	if s == nil {
		return nil, errors.New("nil score")
	}
	if tempo <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidTempo, tempo)
	}
	if velocity == 0 {
		velocity = DefaultVelocity
	}

	spb := SecondsPerBeat(tempo)
	tl := &Timeline{Tempo: tempo}

	var cursor float64
	for i, e := range s.Events {
		length := e.Duration * spb

		switch e.Kind {
		case score.KindChord:
			if e.Chord == nil {
				return nil, fmt.Errorf("event %d: chord without notes", i)
			}
			if e.IsBarMarker() {
				tl.Markers = append(tl.Markers, cursor)
				continue
			}
			for _, n := range e.Chord {
				key, err := theory.MIDINumber(n, theory.ChordOctave)
				if err != nil {
					return nil, fmt.Errorf("event %d: %w", i, err)
				}
				tl.Notes = append(tl.Notes, timed(key, cursor, cursor+length, velocity))
			}
			cursor += length

		case score.KindNote:
			if e.Pitch != "" && e.Duration > 0 {
				key, err := theory.MIDINumber(e.Pitch, theory.MelodyOctave)
				if err != nil {
					return nil, fmt.Errorf("event %d: %w", i, err)
				}
				tl.Notes = append(tl.Notes, timed(key, cursor, cursor+length, velocity))
			}
			cursor += length

		case score.KindRest:
			cursor += length

		default:
			return nil, fmt.Errorf("event %d: unknown kind %q", i, e.Kind)
		}
	}
	tl.Length = cursor

	return tl, nil
}

func timed(key uint8, start, end float64, velocity uint8) TimedNote {
	return TimedNote{
		Key:      key,
		Name:     theory.PitchName(key),
		Start:    start,
		End:      end,
		Velocity: velocity,
	}
}

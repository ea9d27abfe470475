// Package score assembles the ordered list of musical events played for an
// open reading frame
package score

import (
	"github.com/james-see/dna2midi/pkg/dna"
	"github.com/james-see/dna2midi/pkg/theory"
)

// Kind tags a musical event
type Kind string

const (
	KindChord Kind = "chord"
	KindNote  Kind = "note"
	KindRest  Kind = "rest"
)

// Event is a single chord, note or rest. Durations are in beats.
type Event struct {
	Kind     Kind          `json:"kind" yaml:"kind"`
	Chord    *theory.Chord `json:"chord,omitempty" yaml:"chord,omitempty"`
	Pitch    theory.Note   `json:"pitch,omitempty" yaml:"pitch,omitempty"`
	Duration float64       `json:"duration" yaml:"duration"`
}

// ChordEvent returns a chord event. A zero duration marks a bar line
// without sounding.
func ChordEvent(c theory.Chord, beats float64) Event {
	return Event{Kind: KindChord, Chord: &c, Duration: beats}
}

// NoteEvent returns a melody note event
func NoteEvent(pitch theory.Note, beats float64) Event {
	return Event{Kind: KindNote, Pitch: pitch, Duration: beats}
}

// RestEvent returns a silence of beats
func RestEvent(beats float64) Event {
	return Event{Kind: KindRest, Duration: beats}
}

// IsBarMarker reports whether e is a zero length chord anchoring a new bar
func (e Event) IsBarMarker() bool {
	return e.Kind == KindChord && e.Duration == 0
}

// Step records how one codon of the ORF was read
type Step struct {
	Codon  string         `json:"codon" yaml:"codon"`
	Class  dna.AminoClass `json:"class" yaml:"class"`
	Degree theory.Degree  `json:"degree" yaml:"degree"`
}

// Score is the assembled song, in playback order
type Score struct {
	Tonic  theory.Note  `json:"tonic" yaml:"tonic"`
	Mode   theory.Mode  `json:"mode" yaml:"mode"`
	ORF    string       `json:"orf" yaml:"orf"`
	Chord  theory.Chord `json:"chord" yaml:"chord"`
	Events []Event      `json:"events" yaml:"events"`
	Steps  []Step       `json:"steps" yaml:"steps"`
}

// Counts tallies events by kind, bar markers counted apart from chords
type Counts struct {
	Chords  int `json:"chords"`
	Markers int `json:"markers"`
	Notes   int `json:"notes"`
	Rests   int `json:"rests"`
}

// Count returns the event tally of s
func (s *Score) Count() Counts {
	var c Counts
	for _, e := range s.Events {
		switch {
		case e.IsBarMarker():
			c.Markers++
		case e.Kind == KindChord:
			c.Chords++
		case e.Kind == KindNote:
			c.Notes++
		case e.Kind == KindRest:
			c.Rests++
		}
	}
	return c
}

// Beats returns the total length of s in beats
func (s *Score) Beats() float64 {
	var total float64
	for _, e := range s.Events {
		total += e.Duration
	}
	return total
}

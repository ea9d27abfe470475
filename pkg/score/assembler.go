package score

import (
	"fmt"

	"github.com/james-see/dna2midi/pkg/dna"
	"github.com/james-see/dna2midi/pkg/theory"
)

// BeatsPerBar is the length of a 4/4 bar
const BeatsPerBar = 4.0

// State is a phase of assembly
type State int

const (
	StateAwaitingORF State = iota
	StatePrelude
	StateBody
	StateCoda
	StateDone
)

func (s State) String() string {
	switch s {
	case StateAwaitingORF:
		return "awaiting-orf"
	case StatePrelude:
		return "prelude"
	case StateBody:
		return "body"
	case StateCoda:
		return "coda"
	case StateDone:
		return "done"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// BarClock counts the beats elapsed in the current bar
type BarClock float64

// Full reports whether the bar has been filled
func (c BarClock) Full() bool { return c >= BeatsPerBar }

// Advance adds beats to the clock
func (c *BarClock) Advance(beats float64) { *c += BarClock(beats) }

// Reset starts a new bar
func (c *BarClock) Reset() { *c = 0 }

// Assembler turns a sequence into a Score. An Assembler is used for a
// single run; build a new one per sequence.
type Assembler struct {
	tonic theory.Note
	mode  theory.Mode

	state State
	orf   string
	chord theory.Chord
	clock BarClock
	score *Score
}

// NewAssembler creates an assembler for tonic and mode
func NewAssembler(tonic theory.Note, mode theory.Mode) *Assembler {
	return &Assembler{tonic: tonic, mode: mode, state: StateAwaitingORF}
}

// State returns the current phase
func (a *Assembler) State() State {
	return a.state
}

// Assemble runs seq through every phase and returns the finished score.
// Errors only happen while waiting for the ORF; once the body starts every
// step is total.
func (a *Assembler) Assemble(seq string) (*Score, error) {
	for a.state != StateDone {
		if err := a.step(seq); err != nil {
			return nil, err
		}
	}
	return a.score, nil
}

func (a *Assembler) step(seq string) error {
	switch a.state {
	case StateAwaitingORF:
		orf, err := dna.LocateORF(seq)
		if err != nil {
			return err
		}
		chord, err := theory.ChordFor(a.tonic, a.mode)
		if err != nil {
			return err
		}
		a.orf = orf
		a.chord = chord
		a.score = &Score{
			Tonic:  a.tonic,
			Mode:   a.mode,
			ORF:    orf,
			Chord:  chord,
			Events: make([]Event, 0, len(orf)/dna.CodonLength+2),
			Steps:  make([]Step, 0, len(orf)/dna.CodonLength),
		}
		a.state = StatePrelude

	case StatePrelude:
		a.emit(ChordEvent(a.chord, BeatsPerBar))
		a.clock.Reset()
		a.state = StateBody

	case StateBody:
		// The stop codon is never played.
		for i := 0; i+dna.CodonLength <= len(a.orf)-dna.CodonLength; i += dna.CodonLength {
			a.play(a.orf[i : i+dna.CodonLength])
		}
		a.state = StateCoda

	case StateCoda:
		a.emit(ChordEvent(a.chord, BeatsPerBar))
		a.state = StateDone
	}
	return nil
}

func (a *Assembler) play(codon string) {
	class := dna.Classify(codon)
	a.score.Steps = append(a.score.Steps, Step{
		Codon:  codon,
		Class:  class,
		Degree: theory.ResolveDegree(class, a.mode),
	})

	// Every degree is voiced with the tonic triad for now.
	active := a.chord

	pitch := theory.NoteFor(codon[0], active)
	beats := theory.DurationFor(codon[2], codon[1])

	if a.clock.Full() {
		a.emit(ChordEvent(active, 0))
		a.clock.Reset()
	}

	if beats < 0 {
		a.emit(RestEvent(-beats))
		a.clock.Advance(-beats)
		return
	}
	a.emit(NoteEvent(pitch, beats))
	a.clock.Advance(beats)
}

func (a *Assembler) emit(e Event) {
	a.score.Events = append(a.score.Events, e)
}

// Assemble builds the score for seq in tonic and mode
func Assemble(seq string, tonic theory.Note, mode theory.Mode) (*Score, error) {
	return NewAssembler(tonic, mode).Assemble(seq)
}

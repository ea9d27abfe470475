// Package pipeline is the entry point that turns a DNA sequence into a
// rendered song
package pipeline

import (
	"errors"
	"fmt"

	"github.com/james-see/dna2midi/pkg/dna"
	"github.com/james-see/dna2midi/pkg/render"
	"github.com/james-see/dna2midi/pkg/score"
	"github.com/james-see/dna2midi/pkg/theory"
)

// SuccessMessage is returned by Process once the song has been rendered
const SuccessMessage = "the song has been generated successfully"

// ErrInvalidTempo is returned for tempos that are not positive
var ErrInvalidTempo = render.ErrInvalidTempo

// Request holds the parameters of one run
type Request struct {
	Sequence string      `json:"sequence"`
	Tonic    theory.Note `json:"tonic"`
	Mode     theory.Mode `json:"mode"`
	Tempo    int         `json:"tempo"`
}

// Validate checks a request the way an interactive caller would before
// running it, normalizing tonic and mode spellings
func (r *Request) Validate() error {
	r.Sequence = dna.Clean(r.Sequence)
	if err := dna.Validate(r.Sequence); err != nil {
		return err
	}
	tonic, err := theory.ParseTonic(string(r.Tonic))
	if err != nil {
		return err
	}
	mode, err := theory.ParseMode(string(r.Mode))
	if err != nil {
		return err
	}
	if r.Tempo <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidTempo, r.Tempo)
	}
	r.Tonic, r.Mode = tonic, mode
	return nil
}

// Compose assembles the score for sequence without rendering it
func Compose(sequence string, tonic theory.Note, mode theory.Mode) (*score.Score, error) {
	return score.Assemble(sequence, tonic, mode)
}

// Process assembles the score for sequence and hands it to r once, fully
// built. The returned error wraps either a sequence or tonic error from
// assembly or a renderer failure.
func Process(sequence string, tonic theory.Note, mode theory.Mode, tempo int, r Renderer) (string, error) {
	if r == nil {
		return "", errors.New("no renderer configured")
	}
	if tempo <= 0 {
		return "", fmt.Errorf("%w: %d", ErrInvalidTempo, tempo)
	}

	s, err := Compose(sequence, tonic, mode)
	if err != nil {
		return "", err
	}

	if err := r.Render(s, tempo); err != nil {
		return "", fmt.Errorf("render failed: %w", err)
	}

	return SuccessMessage, nil
}

// Renderer is the collaborator that persists a finished score
type Renderer = render.Renderer

// IsInputError reports whether err was caused by the caller's sequence,
// tonic, mode or tempo rather than by rendering
func IsInputError(err error) bool {
	for _, target := range []error{
		dna.ErrSequenceTooLong,
		dna.ErrNoStartCodon,
		dna.ErrNoStopCodonInFrame,
		dna.ErrOrfTooShort,
		dna.ErrInvalidBase,
		theory.ErrUnsupportedTonic,
		theory.ErrUnsupportedMode,
		ErrInvalidTempo,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// Package render turns an assembled score into a playable or inspectable
// artifact
package render

import (
	"errors"

	"github.com/james-see/dna2midi/pkg/score"
)

// ErrInvalidTempo is returned for tempos that are not positive
var ErrInvalidTempo = errors.New("tempo must be positive")

// Renderer persists a score played at tempo beats per minute
type Renderer interface {
	Render(s *score.Score, tempo int) error
}

// Encoder produces the bytes of a rendered score without writing them
type Encoder interface {
	Encode(s *score.Score, tempo int) ([]byte, error)
}

// TimedNote is a sounding note placed in time. Start and End are seconds.
type TimedNote struct {
	Key      uint8   `json:"key"`
	Name     string  `json:"name"`
	Start    float64 `json:"start"`
	End      float64 `json:"end"`
	Velocity uint8   `json:"velocity"`
}

// Duration returns the note length in seconds
func (n TimedNote) Duration() float64 {
	return n.End - n.Start
}

// Timeline is a score laid out in seconds
type Timeline struct {
	Tempo   int         `json:"tempo"`
	Notes   []TimedNote `json:"notes"`
	Markers []float64   `json:"markers"`
	Length  float64     `json:"length"`
}

// SecondsPerBeat converts a tempo into the length of one beat
func SecondsPerBeat(tempo int) float64 {
	return 60.0 / float64(tempo)
}

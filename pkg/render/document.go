package render

import (
	"fmt"
	"os"

	json "github.com/goccy/go-json"
	"github.com/goccy/go-yaml"
	"github.com/james-see/dna2midi/pkg/score"
)

// Document is the serialized form of a score with its timing
type Document struct {
	Tempo          int          `json:"tempo" yaml:"tempo"`
	SecondsPerBeat float64      `json:"seconds_per_beat" yaml:"seconds_per_beat"`
	Beats          float64      `json:"beats" yaml:"beats"`
	Seconds        float64      `json:"seconds" yaml:"seconds"`
	Counts         score.Counts `json:"counts" yaml:"counts"`
	Score          *score.Score `json:"score" yaml:"score"`
}

// NewDocument describes s played at tempo
func NewDocument(s *score.Score, tempo int) (*Document, error) {
	tl, err := BuildTimeline(s, tempo, DefaultVelocity)
	if err != nil {
		return nil, err
	}
	return &Document{
		Tempo:          tempo,
		SecondsPerBeat: SecondsPerBeat(tempo),
		Beats:          s.Beats(),
		Seconds:        tl.Length,
		Counts:         s.Count(),
		Score:          s,
	}, nil
}

// JSONRenderer writes the score document as indented JSON
type JSONRenderer struct {
	Path string
}

// Encode returns the JSON document for s
func (j *JSONRenderer) Encode(s *score.Score, tempo int) ([]byte, error) {
	doc, err := NewDocument(s, tempo)
	if err != nil {
		return nil, err
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode JSON: %w", err)
	}
	return append(data, '\n'), nil
}

// Render writes the JSON document to the renderer's path
func (j *JSONRenderer) Render(s *score.Score, tempo int) error {
	return writeEncoded(j, j.Path, s, tempo)
}

// YAMLRenderer writes the score document as YAML
type YAMLRenderer struct {
	Path string
}

// Encode returns the YAML document for s
func (y *YAMLRenderer) Encode(s *score.Score, tempo int) ([]byte, error) {
	doc, err := NewDocument(s, tempo)
	if err != nil {
		return nil, err
	}
	data, err := yaml.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to encode YAML: %w", err)
	}
	return data, nil
}

// Render writes the YAML document to the renderer's path
func (y *YAMLRenderer) Render(s *score.Score, tempo int) error {
	return writeEncoded(y, y.Path, s, tempo)
}

func writeEncoded(e Encoder, path string, s *score.Score, tempo int) error {
	data, err := e.Encode(s, tempo)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

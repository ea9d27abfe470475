package render

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/james-see/dna2midi/pkg/score"
	"github.com/james-see/dna2midi/pkg/theory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ATG + 9 sense codons + TAA
const tenCodonORF = "ATGGCTGATCGTAGTTGGGCAGACCGCAGCTAA"

func assembled(t *testing.T) *score.Score {
	t.Helper()
	s, err := score.Assemble(tenCodonORF, "A", theory.Minor)
	require.NoError(t, err)
	return s
}

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		filename string
		expected Format
	}{
		{"song.mid", FormatMIDI},
		{"song.MIDI", FormatMIDI},
		{"song.json", FormatJSON},
		{"song.yaml", FormatYAML},
		{"song.yml", FormatYAML},
		{"song.txt", FormatUnknown},
		{"song", FormatUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			result := DetectFormat(tt.filename)
			if result != tt.expected {
				t.Errorf("DetectFormat(%q) = %v, want %v", tt.filename, result, tt.expected)
			}
		})
	}
}

func TestForPath(t *testing.T) {
	r, err := ForPath("out.mid", MIDIOptions{TicksPerQuarter: 96, Velocity: 80, Program: 5})
	require.NoError(t, err)
	m, ok := r.(*MIDIRenderer)
	require.True(t, ok)
	assert.Equal(t, uint16(96), m.TicksPerQuarter)
	assert.Equal(t, uint8(80), m.Velocity)
	assert.Equal(t, uint8(5), m.Program)

	r, err = ForPath("out.mid", MIDIOptions{})
	require.NoError(t, err)
	assert.Equal(t, uint16(DefaultTicksPerQuarter), r.(*MIDIRenderer).TicksPerQuarter)

	r, err = ForPath("out.json", MIDIOptions{})
	require.NoError(t, err)
	assert.IsType(t, &JSONRenderer{}, r)

	r, err = ForPath("out.yml", MIDIOptions{})
	require.NoError(t, err)
	assert.IsType(t, &YAMLRenderer{}, r)

	_, err = ForPath("out.wav", MIDIOptions{})
	assert.Error(t, err)
}

func TestGetSupportedFormats(t *testing.T) {
	formats := GetSupportedFormats()
	assert.Len(t, formats, 3)
	for ext := range map[string]Format{".mid": FormatMIDI, ".json": FormatJSON, ".yml": FormatYAML} {
		assert.Contains(t, formats[DetectFormat("x"+ext)], ext)
	}
}

func TestSecondsPerBeat(t *testing.T) {
	assert.Equal(t, 0.5, SecondsPerBeat(120))
	assert.Equal(t, 1.0, SecondsPerBeat(60))
	assert.InDelta(t, 0.6, SecondsPerBeat(100), 1e-12)
}

func TestBuildTimeline(t *testing.T) {
	tl, err := BuildTimeline(assembled(t), 120, 0)
	require.NoError(t, err)

	assert.Equal(t, 9.0, tl.Length)
	assert.Equal(t, []float64{4.25, 6.25}, tl.Markers)
	require.Len(t, tl.Notes, 12)

	// opening A minor triad, chord octave
	for i, key := range []uint8{69, 60, 64} {
		assert.Equal(t, key, tl.Notes[i].Key)
		assert.Equal(t, 0.0, tl.Notes[i].Start)
		assert.Equal(t, 2.0, tl.Notes[i].End)
		assert.Equal(t, uint8(DefaultVelocity), tl.Notes[i].Velocity)
	}

	// melody one octave above, rests leave gaps
	melody := tl.Notes[3:9]
	want := []TimedNote{
		{Key: 81, Name: "A5", Start: 2.0, End: 2.5},
		{Key: 76, Name: "E5", Start: 4.75, End: 5.25},
		{Key: 72, Name: "C5", Start: 5.25, End: 6.25},
		{Key: 72, Name: "C5", Start: 6.25, End: 6.5},
		{Key: 76, Name: "E5", Start: 6.5, End: 6.75},
		{Key: 81, Name: "A5", Start: 6.75, End: 7.0},
	}
	for i, w := range want {
		assert.Equal(t, w.Key, melody[i].Key, "note %d", i)
		assert.Equal(t, w.Name, melody[i].Name, "note %d", i)
		assert.InDelta(t, w.Start, melody[i].Start, 1e-9, "note %d", i)
		assert.InDelta(t, w.End, melody[i].End, 1e-9, "note %d", i)
	}

	for _, n := range tl.Notes[9:] {
		assert.Equal(t, 7.0, n.Start)
		assert.Equal(t, 9.0, n.End)
	}
}

func TestBuildTimelineScalesWithTempo(t *testing.T) {
	s := assembled(t)
	for _, tempo := range []int{60, 100, 120, 200} {
		tl, err := BuildTimeline(s, tempo, 0)
		require.NoError(t, err)
		assert.InDelta(t, s.Beats()*60/float64(tempo), tl.Length, 1e-9)
	}
}

func TestBuildTimelineSilentEvents(t *testing.T) {
	chord := theory.Chord{"C", "E", "G"}
	s := &score.Score{Events: []score.Event{
		score.NoteEvent("", 1),
		score.NoteEvent("C", 0),
		score.RestEvent(2),
		score.ChordEvent(chord, 0),
		score.NoteEvent("G", 1),
	}}

	tl, err := BuildTimeline(s, 60, 90)
	require.NoError(t, err)
	require.Len(t, tl.Notes, 1)
	assert.Equal(t, 3.0, tl.Notes[0].Start)
	assert.Equal(t, uint8(90), tl.Notes[0].Velocity)
	assert.Equal(t, []float64{3.0}, tl.Markers)
	assert.Equal(t, 4.0, tl.Length)
}

func TestBuildTimelineErrors(t *testing.T) {
	_, err := BuildTimeline(nil, 120, 0)
	assert.Error(t, err)

	_, err = BuildTimeline(assembled(t), 0, 0)
	assert.ErrorIs(t, err, ErrInvalidTempo)

	_, err = BuildTimeline(&score.Score{Events: []score.Event{{Kind: score.KindChord, Duration: 4}}}, 120, 0)
	assert.Error(t, err)

	_, err = BuildTimeline(&score.Score{Events: []score.Event{score.NoteEvent("X", 1)}}, 120, 0)
	assert.Error(t, err)

	_, err = BuildTimeline(&score.Score{Events: []score.Event{{Kind: "drum", Duration: 1}}}, 120, 0)
	assert.Error(t, err)
}

func TestMIDIRoundTrip(t *testing.T) {
	m := NewMIDIRenderer("")
	assert.Equal(t, DefaultMIDIFile, m.Path)

	data, err := m.Encode(assembled(t), 120)
	require.NoError(t, err)
	assert.Equal(t, "MThd", string(data[:4]))

	p, err := ReadMIDI(data)
	require.NoError(t, err)
	assert.InDelta(t, 120.0, p.Tempo, 1e-9)
	assert.Equal(t, uint16(DefaultTicksPerQuarter), p.TicksPerQuarter)
	assert.Equal(t, 2, p.Markers)
	require.Len(t, p.Notes, 12)

	tl, err := BuildTimeline(assembled(t), 120, 0)
	require.NoError(t, err)

	var wantKeys, gotKeys []uint8
	for _, n := range tl.Notes {
		wantKeys = append(wantKeys, n.Key)
	}
	for _, n := range p.Notes {
		gotKeys = append(gotKeys, n.Key)
	}
	assert.ElementsMatch(t, wantKeys, gotKeys)

	assert.Equal(t, []uint8{60, 64, 69}, gotKeys[:3])
	assert.InDelta(t, 2.0, p.Notes[0].End, 1e-9)
	assert.InDelta(t, 9.0, p.Notes[len(p.Notes)-1].End, 1e-9)
}

func TestMIDIRenderWritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "song.mid")
	m := NewMIDIRenderer(path)
	m.Velocity = 70
	require.NoError(t, m.Render(assembled(t), 100))

	p, err := ReadMIDIFile(path)
	require.NoError(t, err)
	assert.InDelta(t, 100.0, p.Tempo, 1e-6)
	for _, n := range p.Notes {
		assert.Equal(t, uint8(70), n.Velocity)
	}

	err = NewMIDIRenderer(filepath.Join(t.TempDir(), "missing", "song.mid")).Render(assembled(t), 100)
	assert.Error(t, err)
}

func TestReadMIDIRejectsGarbage(t *testing.T) {
	_, err := ReadMIDI([]byte("not a midi file"))
	assert.Error(t, err)

	_, err = ReadMIDIFile(filepath.Join(t.TempDir(), "nope.mid"))
	assert.Error(t, err)
}

func TestJSONRenderer(t *testing.T) {
	path := filepath.Join(t.TempDir(), "song.json")
	r := &JSONRenderer{Path: path}
	require.NoError(t, r.Render(assembled(t), 120))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var doc Document
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Equal(t, 120, doc.Tempo)
	assert.Equal(t, 0.5, doc.SecondsPerBeat)
	assert.Equal(t, 18.0, doc.Beats)
	assert.Equal(t, 9.0, doc.Seconds)
	require.NotNil(t, doc.Score)
	assert.Equal(t, tenCodonORF, doc.Score.ORF)
	assert.Len(t, doc.Score.Events, 14)
	assert.Equal(t, score.KindChord, doc.Score.Events[0].Kind)
}

func TestYAMLRenderer(t *testing.T) {
	data, err := (&YAMLRenderer{}).Encode(assembled(t), 120)
	require.NoError(t, err)

	out := string(data)
	assert.True(t, strings.Contains(out, "tempo: 120"))
	assert.Contains(t, out, "orf: "+tenCodonORF)
	assert.Contains(t, out, "kind: rest")

	_, err = (&YAMLRenderer{}).Encode(assembled(t), -1)
	assert.ErrorIs(t, err, ErrInvalidTempo)
}

func TestEncoderFor(t *testing.T) {
	for _, f := range []Format{FormatMIDI, FormatJSON, FormatYAML} {
		e, err := EncoderFor(f, MIDIOptions{})
		require.NoError(t, err, f)
		data, err := e.Encode(assembled(t), 120)
		require.NoError(t, err, f)
		assert.NotEmpty(t, data, f)
		assert.NotEqual(t, "application/octet-stream", ContentType(f))
		assert.Equal(t, f, DetectFormat("song"+Extension(f)))
	}

	_, err := EncoderFor(FormatUnknown, MIDIOptions{})
	assert.Error(t, err)
	assert.Equal(t, "application/octet-stream", ContentType(FormatUnknown))
}

func TestMIDIEncodeTempoRange(t *testing.T) {
	m := NewMIDIRenderer("")
	for _, tempo := range []int{1, 2, 3} {
		_, err := m.Encode(assembled(t), tempo)
		assert.Error(t, err, "tempo %d", tempo)
		assert.NotErrorIs(t, err, ErrInvalidTempo)
	}

	data, err := m.Encode(assembled(t), 4)
	require.NoError(t, err)
	p, err := ReadMIDI(data)
	require.NoError(t, err)
	assert.InDelta(t, 4.0, p.Tempo, 1e-9)
	require.NotEmpty(t, p.Notes)
	assert.InDelta(t, 270.0, p.Notes[len(p.Notes)-1].End, 1e-6)
}

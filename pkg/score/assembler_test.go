package score

import (
	"strings"
	"testing"

	"github.com/james-see/dna2midi/pkg/dna"
	"github.com/james-see/dna2midi/pkg/theory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ATG + 9 sense codons + TAA
const tenCodonORF = "ATGGCTGATCGTAGTTGGGCAGACCGCAGCTAA"

func TestAssembleAMinor(t *testing.T) {
	s, err := Assemble(tenCodonORF, "A", theory.Minor)
	require.NoError(t, err)

	aMinor := theory.Chord{"A", "C", "E"}
	want := []Event{
		ChordEvent(aMinor, 4),
		NoteEvent("A", 1), // ATG
		RestEvent(0.5),    // GCT
		RestEvent(2),      // GAT
		RestEvent(1),      // CGT
		ChordEvent(aMinor, 0),
		RestEvent(1),      // AGT
		NoteEvent("E", 1), // TGG
		NoteEvent("C", 2), // GCA
		ChordEvent(aMinor, 0),
		NoteEvent("C", 0.5), // GAC
		NoteEvent("E", 0.5), // CGC
		NoteEvent("A", 0.5), // AGC
		ChordEvent(aMinor, 4),
	}
	assert.Equal(t, want, s.Events)

	assert.Equal(t, tenCodonORF, s.ORF)
	assert.Equal(t, aMinor, s.Chord)
	assert.Equal(t, Counts{Chords: 2, Markers: 2, Notes: 6, Rests: 4}, s.Count())
}

func TestAssembleTrace(t *testing.T) {
	s, err := Assemble(tenCodonORF, "A", theory.Minor)
	require.NoError(t, err)

	want := []Step{
		{"ATG", dna.Nonpolar, "Im"},
		{"GCT", dna.Nonpolar, "Im"},
		{"GAT", dna.Negative, "VI"},
		{"CGT", dna.Positive, "IVm"},
		{"AGT", dna.Polar, "Vm"},
		{"TGG", dna.Aromatic, "III"},
		{"GCA", dna.Nonpolar, "Im"},
		{"GAC", dna.Negative, "VI"},
		{"CGC", dna.Positive, "IVm"},
		{"AGC", dna.Polar, "Vm"},
	}
	assert.Equal(t, want, s.Steps)
}

func TestAssembleEventCount(t *testing.T) {
	s, err := Assemble(tenCodonORF, "A", theory.Minor)
	require.NoError(t, err)

	codons := len(s.ORF)/dna.CodonLength - 1
	c := s.Count()
	assert.Equal(t, codons, c.Notes+c.Rests)
	assert.Equal(t, 2+codons, len(s.Events)-c.Markers)
}

func TestAssembleBoundaryChords(t *testing.T) {
	seqs := []string{
		tenCodonORF,
		"CC" + tenCodonORF + "G",
		"ATG" + strings.Repeat("ATT", 20) + "TGA",
		"ATG" + strings.Repeat("CTA", 15) + "TAG",
	}
	for _, seq := range seqs {
		for _, tonic := range theory.Tonics {
			for _, mode := range []theory.Mode{theory.Major, theory.Minor} {
				s, err := Assemble(seq, tonic, mode)
				require.NoError(t, err)

				tonicChord, err := theory.ChordFor(tonic, mode)
				require.NoError(t, err)

				first, last := s.Events[0], s.Events[len(s.Events)-1]
				assert.Equal(t, ChordEvent(tonicChord, BeatsPerBar), first)
				assert.Equal(t, ChordEvent(tonicChord, BeatsPerBar), last)
			}
		}
	}
}

func TestAssembleSustain(t *testing.T) {
	// ATT: melody A, duration T with movement T holds a whole bar, so
	// every following codon starts a new bar.
	seq := "ATG" + strings.Repeat("ATT", 9) + "TAA"
	s, err := Assemble(seq, "C", theory.Major)
	require.NoError(t, err)

	c := s.Count()
	assert.Equal(t, 10, c.Notes)
	assert.Equal(t, 8, c.Markers)

	for _, e := range s.Events[1 : len(s.Events)-1] {
		if e.Kind == KindNote && e.Duration == theory.Sustain {
			assert.Equal(t, theory.Note("C"), e.Pitch)
		}
	}
}

func TestAssembleRestsUseAbsoluteDuration(t *testing.T) {
	// CAT: duration T with movement A is a half rest
	seq := "ATG" + strings.Repeat("CAT", 9) + "TAA"
	s, err := Assemble(seq, "D", theory.Major)
	require.NoError(t, err)

	for _, e := range s.Events {
		if e.Kind == KindRest {
			assert.Equal(t, 2.0, e.Duration)
			assert.Empty(t, e.Pitch)
		}
	}
	assert.Equal(t, 9, s.Count().Rests)
}

func TestAssembleErrors(t *testing.T) {
	tests := []struct {
		name    string
		seq     string
		tonic   theory.Note
		wantErr error
	}{
		{"orf too short", "ATGGCTTAA", "C", dna.ErrOrfTooShort},
		{"orf error before tonic error", "ATGGCTTAA", "H", dna.ErrOrfTooShort},
		{"no start", "CCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCC", "C", dna.ErrNoStartCodon},
		{"no stop", "ATG" + strings.Repeat("GCT", 12), "C", dna.ErrNoStopCodonInFrame},
		{"too long", strings.Repeat("T", 5001), "C", dna.ErrSequenceTooLong},
		{"unsupported tonic", tenCodonORF, "H", theory.ErrUnsupportedTonic},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := NewAssembler(tt.tonic, theory.Major)
			s, err := a.Assemble(tt.seq)
			require.ErrorIs(t, err, tt.wantErr)
			assert.Nil(t, s)
			assert.Equal(t, StateAwaitingORF, a.State())
		})
	}
}

func TestAssemblerReachesDone(t *testing.T) {
	a := NewAssembler("E", theory.Major)
	assert.Equal(t, StateAwaitingORF, a.State())

	_, err := a.Assemble(tenCodonORF)
	require.NoError(t, err)
	assert.Equal(t, StateDone, a.State())
	assert.Equal(t, "done", a.State().String())
}

func TestBarClock(t *testing.T) {
	var c BarClock
	assert.False(t, c.Full())
	c.Advance(3.5)
	assert.False(t, c.Full())
	c.Advance(0.5)
	assert.True(t, c.Full())
	c.Reset()
	assert.Equal(t, BarClock(0), c)
}

func TestScoreBeats(t *testing.T) {
	s, err := Assemble(tenCodonORF, "A", theory.Minor)
	require.NoError(t, err)
	// 4 + (1 + 0.5 + 2 + 1 + 1 + 1 + 2 + 0.5 + 0.5 + 0.5) + 4
	assert.Equal(t, 18.0, s.Beats())
}

package dna

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClean(t *testing.T) {
	assert.Equal(t, "ATGCAT", Clean(" atg\ncat\t"))
	assert.Equal(t, "", Clean("  \n"))
}

func TestValidate(t *testing.T) {
	assert.NoError(t, Validate("ACGTacgt"))
	assert.NoError(t, Validate(""))

	err := Validate("ACGNT")
	require.ErrorIs(t, err, ErrInvalidBase)
	assert.Contains(t, err.Error(), "position 3")

	assert.ErrorIs(t, Validate("ACG T"), ErrInvalidBase)
}

func TestReadFASTA(t *testing.T) {
	input := `>seq1 first record
atggct
GATCGT
; comment line

>seq2
CCCC
`
	records, err := ReadFASTA(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, "seq1 first record", records[0].Header)
	assert.Equal(t, "ATGGCTGATCGT", records[0].Sequence)
	assert.Equal(t, "seq2", records[1].Header)
	assert.Equal(t, "CCCC", records[1].Sequence)
}

func TestReadFASTAWithoutHeader(t *testing.T) {
	records, err := ReadFASTA(strings.NewReader("ATG GCT\nTAA\n"))
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Empty(t, records[0].Header)
	assert.Equal(t, "ATGGCTTAA", records[0].Sequence)
}

func TestReadSequenceFile(t *testing.T) {
	dir := t.TempDir()

	path := filepath.Join(dir, "gene.fa")
	require.NoError(t, os.WriteFile(path, []byte(">gene\n"+tenCodonORF+"\n"), 0644))
	seq, err := ReadSequenceFile(path)
	require.NoError(t, err)
	assert.Equal(t, tenCodonORF, seq)

	empty := filepath.Join(dir, "empty.fa")
	require.NoError(t, os.WriteFile(empty, []byte(">nothing\n"), 0644))
	_, err = ReadSequenceFile(empty)
	assert.Error(t, err)

	_, err = ReadSequenceFile(filepath.Join(dir, "missing.fa"))
	assert.Error(t, err)
}

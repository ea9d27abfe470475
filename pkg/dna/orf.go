package dna

import (
	"errors"
	"fmt"
	"strings"
)

// Codon constants
const (
	CodonLength  = 3
	StartCodon   = "ATG"
	MinORFLength = 30
)

// StopCodons end a reading frame
var StopCodons = [...]string{"TAA", "TGA", "TAG"}

// ORF location errors
var (
	ErrSequenceTooLong    = errors.New("sequence too long")
	ErrNoStartCodon       = errors.New("no start codon")
	ErrNoStopCodonInFrame = errors.New("no stop codon in frame")
	ErrOrfTooShort        = errors.New("orf too short")
)

// IsStopCodon reports whether codon terminates translation
func IsStopCodon(codon string) bool {
	for _, stop := range StopCodons {
		if codon == stop {
			return true
		}
	}
	return false
}

// LocateORF returns the open reading frame running from the first ATG in
// seq through the first stop codon in frame with it, inclusive.
//
// The start codon is the first literal match anywhere in the sequence, not
// restricted to any frame. Only the stop codon search is frame aware.
func LocateORF(seq string) (string, error) {
	if len(seq) > MaxSequenceLength {
		return "", fmt.Errorf("%w: %d nucleotides, max %d", ErrSequenceTooLong, len(seq), MaxSequenceLength)
	}

	upper := strings.ToUpper(seq)

	start := strings.Index(upper, StartCodon)
	if start < 0 {
		return "", ErrNoStartCodon
	}

	end := -1
	for i := start; i+CodonLength <= len(upper); i += CodonLength {
		if IsStopCodon(upper[i : i+CodonLength]) {
			end = i
			break
		}
	}
	if end < 0 {
		return "", fmt.Errorf("%w: reading from position %d", ErrNoStopCodonInFrame, start)
	}

	orf := upper[start : end+CodonLength]
	if len(orf) < MinORFLength {
		return "", fmt.Errorf("%w: %d nucleotides, need at least %d", ErrOrfTooShort, len(orf), MinORFLength)
	}

	return orf, nil
}

// Codons splits an ORF into its complete codons. A trailing partial codon
// is dropped.
func Codons(orf string) []string {
	codons := make([]string, 0, len(orf)/CodonLength)
	for i := 0; i+CodonLength <= len(orf); i += CodonLength {
		codons = append(codons, orf[i:i+CodonLength])
	}
	return codons
}

// Package dna locates open reading frames in nucleotide sequences and
// classifies their codons
package dna

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

// MaxSequenceLength is the longest sequence accepted by LocateORF
const MaxSequenceLength = 5000

// ErrInvalidBase is returned by Validate for characters outside A, C, G, T
var ErrInvalidBase = errors.New("invalid base")

// Clean removes whitespace from a sequence and uppercases it
func Clean(seq string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return unicode.ToUpper(r)
	}, seq)
}

// Validate checks that every character of seq is one of the four
// canonical bases, ignoring case
func Validate(seq string) error {
	for i := 0; i < len(seq); i++ {
		switch seq[i] {
		case 'A', 'C', 'G', 'T', 'a', 'c', 'g', 't':
		default:
			return fmt.Errorf("%w %q at position %d", ErrInvalidBase, seq[i], i)
		}
	}
	return nil
}

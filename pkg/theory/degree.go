package theory

import "github.com/james-see/dna2midi/pkg/dna"

// Degree is a roman numeral scale degree label, "m" marking a minor chord
type Degree string

var degrees = map[dna.AminoClass]map[Mode]Degree{
	dna.Nonpolar: {Major: "I", Minor: "Im"},
	dna.Positive: {Major: "VI", Minor: "IVm"},
	dna.Polar:    {Major: "V", Minor: "Vm"},
	dna.Negative: {Major: "IIIm", Minor: "VI"},
	dna.Aromatic: {Major: "IIm", Minor: "III"},
}

// ResolveDegree returns the scale degree an amino class maps to in mode.
// Unknown classes resolve like dna.DefaultClass and unknown modes like Minor.
//
// The degree does not pick the chord yet: the assembler always voices the
// tonic triad.
func ResolveDegree(class dna.AminoClass, mode Mode) Degree {
	row, ok := degrees[class]
	if !ok {
		row = degrees[dna.DefaultClass]
	}
	if mode != Major {
		mode = Minor
	}
	return row[mode]
}

package dna

// AminoClass groups amino acids by side chain chemistry
type AminoClass string

const (
	Nonpolar AminoClass = "nonpolar"
	Positive AminoClass = "positive"
	Polar    AminoClass = "polar"
	Negative AminoClass = "negative"
	Aromatic AminoClass = "aromatic"
)

// Classes lists every amino class in a stable order
var Classes = []AminoClass{Nonpolar, Positive, Polar, Negative, Aromatic}

// DefaultClass is assigned to codons missing from the class table
const DefaultClass = Nonpolar

// Partial on purpose: only these codons are classified, the rest fall back
// to DefaultClass.
var codonClasses = map[string]AminoClass{
	"GCT": Nonpolar, // Alanine
	"GCA": Nonpolar,
	"GCG": Nonpolar,
	"GCC": Nonpolar,

	"CGT": Positive, // Arginine
	"CGC": Positive,
	"CGA": Positive,
	"CGG": Positive,

	"AGT": Polar, // Serine
	"AGC": Polar,
	"TCT": Polar,
	"TCC": Polar,

	"GAT": Negative, // Aspartic acid
	"GAC": Negative,
	"GAA": Negative, // Glutamic acid
	"GAG": Negative,

	"TGG": Aromatic, // Tryptophan
	"TTT": Aromatic, // Phenylalanine
	"TTC": Aromatic,
	"TAT": Aromatic, // Tyrosine
	"TAC": Aromatic,
}

// Classify returns the amino class of codon. It never fails.
func Classify(codon string) AminoClass {
	if class, ok := codonClasses[codon]; ok {
		return class
	}
	return DefaultClass
}

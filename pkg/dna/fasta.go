package dna

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// Record is a single FASTA entry
type Record struct {
	Header   string
	Sequence string
}

// ReadFASTA parses FASTA records from r. Input with no header line is
// treated as one unnamed record so bare sequence files work too.
func ReadFASTA(r io.Reader) ([]Record, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var records []Record
	var current *Record
	var seq strings.Builder

	flush := func() {
		if current != nil {
			current.Sequence = Clean(seq.String())
			records = append(records, *current)
		}
		seq.Reset()
	}

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, ";") {
			continue
		}
		if strings.HasPrefix(line, ">") {
			flush()
			current = &Record{Header: strings.TrimSpace(line[1:])}
			continue
		}
		if current == nil {
			current = &Record{}
		}
		seq.WriteString(line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read fasta: %w", err)
	}
	flush()

	return records, nil
}

// ReadSequenceFile returns the first sequence in a FASTA or plain text file
func ReadSequenceFile(filename string) (string, error) {
	f, err := os.Open(filename)
	if err != nil {
		return "", fmt.Errorf("failed to open sequence file: %w", err)
	}
	defer func() { _ = f.Close() }()

	records, err := ReadFASTA(f)
	if err != nil {
		return "", err
	}
	if len(records) == 0 || records[0].Sequence == "" {
		return "", fmt.Errorf("no sequence found in %s", filename)
	}
	return records[0].Sequence, nil
}

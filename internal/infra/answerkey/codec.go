// Package answerkey persists a section's accepted-answer sets to the
// YAML side file that sits next to the round file. The format is a
// sequence of sequences of strings, one inner sequence per question in
// question order, and round-trips arbitrary text losslessly.
package answerkey

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// Encode writes one accepted-answer list per question to w.
func Encode(w io.Writer, sets [][]string) error {
	enc := yaml.NewEncoder(w)
	defer enc.Close()
	if err := enc.Encode(sets); err != nil {
		return fmt.Errorf("encode answer key: %w", err)
	}
	return nil
}

// Decode reads one accepted-answer list per question from r.
func Decode(r io.Reader) ([][]string, error) {
	var sets [][]string
	if err := yaml.NewDecoder(r).Decode(&sets); err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, fmt.Errorf("decode answer key: %w", err)
	}
	return sets, nil
}

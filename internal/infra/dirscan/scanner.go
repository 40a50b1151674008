// Package dirscan enumerates the quiz directory: one round file per
// section, optionally paired with the answer-key side file that shares
// its base name.
package dirscan

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Round is one candidate round file found in the quiz directory.
type Round struct {
	// Path is the full path of the round file.
	Path string
	// Section is the section name derived from the file's base name
	// ("round1.csv.zip" and "round1.csv" both yield "round1").
	Section string
	// KeyPath is the path of the paired "<section>.yaml" side file, or
	// empty when none exists.
	KeyPath string
}

var roundSuffixes = []string{".csv.zip", ".csv", ".xlsx"}

// SectionName derives the section name from a round file name, or
// returns false when the name is not a round file.
func SectionName(filename string) (string, bool) {
	for _, suffix := range roundSuffixes {
		if strings.HasSuffix(filename, suffix) {
			return strings.TrimSuffix(filename, suffix), true
		}
	}
	return "", false
}

// List returns the rounds in dir sorted by section name, each paired
// with its side file when present.
func List(dir string) ([]Round, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var rounds []Round
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		section, ok := SectionName(entry.Name())
		if !ok || section == "" {
			continue
		}
		round := Round{
			Path:    filepath.Join(dir, entry.Name()),
			Section: section,
		}
		keyPath := filepath.Join(dir, section+".yaml")
		if _, err := os.Stat(keyPath); err == nil {
			round.KeyPath = keyPath
		}
		rounds = append(rounds, round)
	}

	sort.Slice(rounds, func(i, j int) bool { return rounds[i].Section < rounds[j].Section })
	return rounds, nil
}

package answerkey

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
)

// Store resolves side-file paths inside the quiz directory: the key for
// section "round1" lives in "<dir>/round1.yaml".
type Store struct {
	dir string
}

// NewStore creates a store rooted at the quiz directory.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// Path returns the side-file path for a section name.
func (s *Store) Path(section string) string {
	return filepath.Join(s.dir, section+".yaml")
}

// Save writes the section's accepted-answer sets to its side file.
func (s *Store) Save(section string, sets [][]string) error {
	f, err := os.Create(s.Path(section))
	if err != nil {
		return err
	}
	if err := Encode(f, sets); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Load reads the section's accepted-answer sets from its side file.
// A missing file is not an error: it returns (nil, false, nil).
func (s *Store) Load(section string) ([][]string, bool, error) {
	f, err := os.Open(s.Path(section))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, err
	}
	defer f.Close()
	sets, err := Decode(f)
	if err != nil {
		return nil, false, err
	}
	return sets, true, nil
}

package dirscan_test

import (
	"os"
	"path/filepath"
	"testing"

	"pubquiz-service/internal/infra/dirscan"
)

func writeFile(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestSectionName(t *testing.T) {
	cases := map[string]string{
		"round1.csv":     "round1",
		"round1.csv.zip": "round1",
		"round1.xlsx":    "round1",
	}
	for filename, want := range cases {
		got, ok := dirscan.SectionName(filename)
		if !ok || got != want {
			t.Fatalf("%s: expected %q, got %q (%v)", filename, want, got, ok)
		}
	}
	if _, ok := dirscan.SectionName("round1.yaml"); ok {
		t.Fatalf("side files are not rounds")
	}
	if _, ok := dirscan.SectionName("notes.txt"); ok {
		t.Fatalf("unrelated files are not rounds")
	}
}

func TestListPairsSideFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "round2.csv")
	writeFile(t, dir, "round1.csv")
	keyPath := writeFile(t, dir, "round1.yaml")
	writeFile(t, dir, "notes.txt")

	rounds, err := dirscan.List(dir)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}

	if len(rounds) != 2 {
		t.Fatalf("expected 2 rounds, got %v", rounds)
	}
	if rounds[0].Section != "round1" || rounds[1].Section != "round2" {
		t.Fatalf("expected rounds sorted by section, got %v", rounds)
	}
	if rounds[0].KeyPath != keyPath {
		t.Fatalf("expected paired side file, got %q", rounds[0].KeyPath)
	}
	if rounds[1].KeyPath != "" {
		t.Fatalf("round2 has no side file, got %q", rounds[1].KeyPath)
	}
}

func TestListSkipsDirectories(t *testing.T) {
	dir := t.TempDir()
	if err := os.Mkdir(filepath.Join(dir, "archive.csv"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	rounds, err := dirscan.List(dir)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(rounds) != 0 {
		t.Fatalf("directories are not rounds, got %v", rounds)
	}
}

package abbrev

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefault(t *testing.T) {
	set := Default()

	if set.Len() != 40 {
		t.Errorf("Default() has %d entries, want 40", set.Len())
	}
	for _, word := range []string{"Mr", "Dr", "e.g", "Ph.D", "Sept", "U.S"} {
		if !set.Contains(word) {
			t.Errorf("Default() missing %q", word)
		}
	}
	if set.Contains("dr") {
		t.Error("lookup should be case-sensitive")
	}
}

func TestZeroSet(t *testing.T) {
	var set Set
	if set.Contains("Mr") {
		t.Error("zero Set should be empty")
	}
	if set.Len() != 0 {
		t.Errorf("zero Set Len() = %d, want 0", set.Len())
	}
}

func TestParse(t *testing.T) {
	input := "Mr\n\n  Dr  \nFig.\n\t\nvs\n"

	set, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	want := []string{"Dr", "Fig.", "Mr", "vs"}
	got := set.Entries()
	if len(got) != len(want) {
		t.Fatalf("Entries() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Entries()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestMerge(t *testing.T) {
	a := New("Mr", "Dr")
	b := New("Dr", "Fig")

	merged := a.Merge(b)
	if merged.Len() != 3 {
		t.Errorf("Merge() has %d entries, want 3", merged.Len())
	}
	if a.Len() != 2 {
		t.Errorf("Merge() mutated receiver: Len() = %d", a.Len())
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "abbreviations.txt")
	if err := os.WriteFile(path, []byte("Gen\nCol\n"), 0644); err != nil {
		t.Fatal(err)
	}

	set, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !set.Contains("Gen") || !set.Contains("Col") {
		t.Errorf("Load() entries = %v", set.Entries())
	}
}

func TestLoad_NotFound(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.txt"))
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("expected fs.ErrNotExist, got %v", err)
	}
}

func TestLoadOrDefault(t *testing.T) {
	t.Run("missing file falls back", func(t *testing.T) {
		set, err := LoadOrDefault(filepath.Join(t.TempDir(), "missing.txt"), nil)
		if err != nil {
			t.Fatalf("LoadOrDefault() error = %v", err)
		}
		if set.Len() != Default().Len() {
			t.Errorf("got %d entries, want default set", set.Len())
		}
	})

	t.Run("empty path uses defaults", func(t *testing.T) {
		set, err := LoadOrDefault("", nil)
		if err != nil {
			t.Fatalf("LoadOrDefault() error = %v", err)
		}
		if !set.Contains("Mrs") {
			t.Error("expected default set")
		}
	})

	t.Run("directory is an error", func(t *testing.T) {
		if _, err := LoadOrDefault(t.TempDir(), nil); err == nil {
			t.Error("expected error reading a directory")
		}
	})
}

// Package abbrev holds the abbreviation sets consulted by the boundary scanner.
package abbrev

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"sort"
	"strings"
)

// defaults is used when no abbreviation file is available.
var defaults = []string{
	"Mr", "Mrs", "Ms", "Dr", "Prof", "Rev", "Hon", "St", "Sr", "Jr",
	"e.g", "i.e", "etc", "vs", "a.m", "p.m", "U.S", "U.K", "U.N",
	"Ph.D", "M.D", "B.A", "M.A", "B.Sc", "M.Sc", "Inc", "Ltd", "Co",
	"Jan", "Feb", "Mar", "Apr", "Jun", "Jul", "Aug", "Sep", "Sept", "Oct", "Nov", "Dec",
}

// Set is an immutable, case-sensitive set of abbreviations.
// The zero value is an empty set and is safe to use.
type Set struct {
	entries map[string]struct{}
}

// New builds a Set from the given entries. Surrounding whitespace is
// trimmed and blank entries are ignored.
func New(entries ...string) Set {
	m := make(map[string]struct{}, len(entries))
	for _, e := range entries {
		e = strings.TrimSpace(e)
		if e == "" {
			continue
		}
		m[e] = struct{}{}
	}
	return Set{entries: m}
}

// Default returns the built-in abbreviation set.
func Default() Set {
	return New(defaults...)
}

// Contains reports whether word is in the set.
func (s Set) Contains(word string) bool {
	_, ok := s.entries[word]
	return ok
}

// Len returns the number of entries.
func (s Set) Len() int {
	return len(s.entries)
}

// Entries returns the entries in sorted order.
func (s Set) Entries() []string {
	out := make([]string, 0, len(s.entries))
	for e := range s.entries {
		out = append(out, e)
	}
	sort.Strings(out)
	return out
}

// Merge returns a new Set holding the entries of s and every other set.
func (s Set) Merge(others ...Set) Set {
	m := make(map[string]struct{}, len(s.entries))
	for e := range s.entries {
		m[e] = struct{}{}
	}
	for _, o := range others {
		for e := range o.entries {
			m[e] = struct{}{}
		}
	}
	return Set{entries: m}
}

// Parse reads one abbreviation per line.
func Parse(r io.Reader) (Set, error) {
	var entries []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		entries = append(entries, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return Set{}, fmt.Errorf("scan abbreviations: %w", err)
	}
	return New(entries...), nil
}

// Load reads an abbreviation file. A missing file yields an error
// satisfying errors.Is(err, fs.ErrNotExist).
func Load(path string) (Set, error) {
	f, err := os.Open(path)
	if err != nil {
		return Set{}, fmt.Errorf("open abbreviations: %w", err)
	}
	defer func() { _ = f.Close() }()

	return Parse(f)
}

// LoadOrDefault behaves like Load but falls back to Default when the file
// does not exist. Other read errors are returned.
func LoadOrDefault(path string, logger *slog.Logger) (Set, error) {
	if path == "" {
		return Default(), nil
	}
	set, err := Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		if logger != nil {
			logger.Warn("abbreviations file not found, using defaults", "path", path)
		}
		return Default(), nil
	}
	if err != nil {
		return Set{}, err
	}
	return set, nil
}

//go:build ignore

// Convert UD English Web Treebank CoNLL-U files into sentsplit gold corpora.
// Writes a JSON corpus and a plain-text gold file per split; the text file
// keeps the treebank's paragraph breaks (# newpar / # newdoc).
// Usage: go run ./scripts/process-ud-ewt.go [-in DIR] [-out DIR]
package main

import (
	"bufio"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jamesainslie/go-sentsplit/internal/bench"
)

const source = "https://github.com/UniversalDependencies/UD_English-EWT"

// treebank is one split: paragraphs of sentences.
type treebank struct {
	name       string
	paragraphs [][]string
}

func (t *treebank) sentences() []string {
	var out []string
	for _, p := range t.paragraphs {
		out = append(out, p...)
	}
	return out
}

func main() {
	inDir := flag.String("in", "testdata/ud-ewt", "directory holding en_ewt-ud-*.conllu")
	outDir := flag.String("out", "testdata/ud-ewt", "directory for the gold files")
	flag.Parse()

	var all treebank
	all.name = "combined"

	for _, split := range []string{"train", "dev", "test"} {
		inFile := filepath.Join(*inDir, fmt.Sprintf("en_ewt-ud-%s.conllu", split))

		fmt.Printf("Processing %s...\n", split)
		tb, err := readCoNLLU(inFile, split)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error processing %s: %v\n", inFile, err)
			continue
		}
		if err := write(*outDir, tb); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing %s: %v\n", split, err)
			continue
		}
		all.paragraphs = append(all.paragraphs, tb.paragraphs...)
	}

	if len(all.paragraphs) > 0 {
		if err := write(*outDir, &all); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing combined corpus: %v\n", err)
			os.Exit(1)
		}
	}

	fmt.Printf("\nDone! Gold files created in %s\n", *outDir)
}

func readCoNLLU(path, name string) (*treebank, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening file: %w", err)
	}
	defer file.Close()

	tb := &treebank{name: name}
	var current []string
	breakParagraph := func() {
		if len(current) > 0 {
			tb.paragraphs = append(tb.paragraphs, current)
			current = nil
		}
	}

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()

		switch {
		case strings.HasPrefix(line, "# newdoc"), strings.HasPrefix(line, "# newpar"):
			breakParagraph()
		case strings.HasPrefix(line, "# text = "):
			if text := strings.TrimSpace(strings.TrimPrefix(line, "# text = ")); text != "" {
				current = append(current, text)
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scanning file: %w", err)
	}
	breakParagraph()

	return tb, nil
}

// write emits <name>.json (single paragraph, byte-offset boundaries) and
// <name>.txt (one sentence per line, blank line per paragraph).
func write(dir string, tb *treebank) error {
	sentences := tb.sentences()

	var (
		text       strings.Builder
		boundaries []int
	)
	for i, sent := range sentences {
		if i > 0 {
			text.WriteString(" ")
		}
		text.WriteString(sent)
		boundaries = append(boundaries, text.Len())
	}

	corpus := bench.Corpus{
		Name:       "UD-EWT-" + tb.name,
		Source:     source,
		Text:       text.String(),
		Sentences:  len(sentences),
		Boundaries: boundaries,
	}

	jsonPath := filepath.Join(dir, tb.name+".json")
	file, err := os.Create(jsonPath)
	if err != nil {
		return fmt.Errorf("creating file: %w", err)
	}
	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(corpus); err != nil {
		file.Close()
		return err
	}
	if err := file.Close(); err != nil {
		return err
	}

	var gold strings.Builder
	fmt.Fprintf(&gold, "# Source: %s\n# Title: UD-EWT %s\n", source, tb.name)
	for _, p := range tb.paragraphs {
		gold.WriteString("\n")
		for _, s := range p {
			gold.WriteString(s)
			gold.WriteString("\n")
		}
	}
	txtPath := filepath.Join(dir, tb.name+".txt")
	if err := os.WriteFile(txtPath, []byte(gold.String()), 0644); err != nil {
		return err
	}

	fmt.Printf("  -> %s, %s (%d sentences, %d paragraphs)\n", jsonPath, txtPath, len(sentences), len(tb.paragraphs))
	return nil
}

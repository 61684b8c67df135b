// Package bench evaluates sentence segmentation against gold-standard corpora.
package bench

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

// Header contains metadata parsed from a gold file's header comments.
type Header struct {
	Source string
	Author string
	Title  string
}

// ParseHeader extracts metadata from leading "# Key: value" comment lines.
// Returns the header and the remaining text after it. A file without a
// header returns a zero Header and the whole text.
func ParseHeader(text string) (Header, string, error) {
	var h Header
	scanner := bufio.NewScanner(strings.NewReader(text))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	bodyStart := len(text)
	lineEnd := 0

	for scanner.Scan() {
		line := scanner.Text()
		lineEnd += len(line) + 1

		if !strings.HasPrefix(line, "#") {
			if strings.TrimSpace(line) == "" {
				continue
			}
			bodyStart = lineEnd - len(line) - 1
			break
		}

		line = strings.TrimSpace(strings.TrimPrefix(line, "#"))
		if value, ok := strings.CutPrefix(line, "Source:"); ok {
			h.Source = strings.TrimSpace(value)
		} else if value, ok := strings.CutPrefix(line, "Author:"); ok {
			h.Author = strings.TrimSpace(value)
		} else if value, ok := strings.CutPrefix(line, "Title:"); ok {
			h.Title = strings.TrimSpace(value)
		}
	}

	if err := scanner.Err(); err != nil {
		return Header{}, "", fmt.Errorf("scan header: %w", err)
	}

	if bodyStart > len(text) {
		bodyStart = len(text)
	}
	return h, text[bodyStart:], nil
}

// Sentence is a gold sentence with rune offsets into the flattened text,
// where sentences are joined by single spaces.
type Sentence struct {
	Text  string
	Start int
	End   int
}

// Layout assigns flattened offsets to sentences.
func Layout(sentences []string) []Sentence {
	out := make([]Sentence, 0, len(sentences))
	offset := 0
	for i, s := range sentences {
		if i > 0 {
			offset++
		}
		n := utf8.RuneCountInString(s)
		out = append(out, Sentence{Text: s, Start: offset, End: offset + n})
		offset += n
	}
	return out
}

// Boundaries returns the end offset of every sentence once the sentences
// are joined by single spaces.
func Boundaries(sentences []string) []int {
	laid := Layout(sentences)
	out := make([]int, len(laid))
	for i, s := range laid {
		out[i] = s.End
	}
	return out
}

// Document is a gold-standard document.
type Document struct {
	ID        string // filename without extension
	Source    string
	Author    string
	Title     string
	Text      string // input handed to the splitter
	Sentences []Sentence
}

// Truth returns the gold boundary offsets.
func (d *Document) Truth() []int {
	out := make([]int, len(d.Sentences))
	for i, s := range d.Sentences {
		out[i] = s.End
	}
	return out
}

// Corpus is the JSON gold format: text plus byte offsets where sentences end.
type Corpus struct {
	Name       string `json:"name"`
	Source     string `json:"source"`
	Text       string `json:"text"`
	Sentences  int    `json:"sentences"`
	Boundaries []int  `json:"boundaries"`
}

// ParseText parses the plain-text gold format: one sentence per line, with
// blank lines between paragraphs. The splitter input is each paragraph's
// sentences joined by spaces, with paragraphs separated by blank lines.
func ParseText(text string) (Header, *Document, error) {
	header, body, err := ParseHeader(text)
	if err != nil {
		return Header{}, nil, err
	}

	var (
		sentences  []string
		paragraphs []string
		current    []string
	)
	flush := func() {
		if len(current) > 0 {
			paragraphs = append(paragraphs, strings.Join(current, " "))
			current = nil
		}
	}

	for _, line := range strings.Split(body, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			flush()
			continue
		}
		sentences = append(sentences, line)
		current = append(current, line)
	}
	flush()

	return header, &Document{
		Source:    header.Source,
		Author:    header.Author,
		Title:     header.Title,
		Text:      strings.Join(paragraphs, "\n\n"),
		Sentences: Layout(sentences),
	}, nil
}

// FromCorpus converts a JSON corpus into a Document.
func FromCorpus(c Corpus) (*Document, error) {
	var sentences []string
	prev := 0
	for _, b := range c.Boundaries {
		if b < prev || b > len(c.Text) {
			return nil, fmt.Errorf("boundary %d out of range", b)
		}
		if s := strings.TrimSpace(c.Text[prev:b]); s != "" {
			sentences = append(sentences, s)
		}
		prev = b
	}

	return &Document{
		ID:        c.Name,
		Source:    c.Source,
		Text:      c.Text,
		Sentences: Layout(sentences),
	}, nil
}

// LoadDocument loads a gold file. ".json" files use the Corpus format,
// anything else the plain-text format.
func LoadDocument(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	var doc *Document
	if filepath.Ext(path) == ".json" {
		var c Corpus
		if err := json.Unmarshal(data, &c); err != nil {
			return nil, fmt.Errorf("decode corpus: %w", err)
		}
		doc, err = FromCorpus(c)
		if err != nil {
			return nil, err
		}
	} else {
		_, doc, err = ParseText(string(data))
		if err != nil {
			return nil, fmt.Errorf("parse header: %w", err)
		}
	}

	base := filepath.Base(path)
	doc.ID = strings.TrimSuffix(base, filepath.Ext(base))
	return doc, nil
}

// LoadCorpus loads all .txt and .json gold files from a directory.
func LoadCorpus(dir string) ([]*Document, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read dir: %w", err)
	}

	var docs []*Document
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		switch filepath.Ext(entry.Name()) {
		case ".txt", ".json":
		default:
			continue
		}

		doc, err := LoadDocument(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("loading %s: %w", entry.Name(), err)
		}
		docs = append(docs, doc)
	}

	return docs, nil
}

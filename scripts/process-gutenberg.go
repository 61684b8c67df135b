//go:build ignore

// Strip Project Gutenberg boilerplate from raw downloads, leaving plain
// prose with its original line wrapping and blank-line paragraphs. The
// results are batch inputs: go run ./scripts/process-gutenberg.go, then
// sentsplit batch testdata/gutenberg --out-dir out.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// maxBytes caps each book so batch runs stay quick.
const maxBytes = 200_000

var (
	startMarkers = []string{
		"*** START OF THE PROJECT GUTENBERG EBOOK",
		"*** START OF THIS PROJECT GUTENBERG EBOOK",
		"*END*THE SMALL PRINT",
	}
	endMarkers = []string{
		"*** END OF THE PROJECT GUTENBERG EBOOK",
		"*** END OF THIS PROJECT GUTENBERG EBOOK",
		"End of Project Gutenberg",
		"End of the Project Gutenberg",
	}

	illustration = regexp.MustCompile(`\[Illustration[^\]]*\]`)
	firstChapter = regexp.MustCompile(`(?m)^(Chapter|CHAPTER)\s+([IVX]+|[0-9]+)[\.\]\s]`)
)

func main() {
	dir := "testdata/gutenberg"
	if len(os.Args) > 1 {
		dir = os.Args[1]
	}

	files, err := filepath.Glob(filepath.Join(dir, "*_raw.txt"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error finding files: %v\n", err)
		os.Exit(1)
	}
	if len(files) == 0 {
		fmt.Printf("No *_raw.txt files in %s.\n", dir)
		os.Exit(1)
	}

	for _, raw := range files {
		out := strings.TrimSuffix(raw, "_raw.txt") + ".txt"

		data, err := os.ReadFile(raw)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error reading %s: %v\n", raw, err)
			continue
		}

		body := extract(string(data))
		if err := os.WriteFile(out, []byte(body+"\n"), 0644); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing %s: %v\n", out, err)
			continue
		}
		fmt.Printf("  %s -> %s (%d bytes)\n", filepath.Base(raw), filepath.Base(out), len(body))
	}
}

// extract returns the book body between the Gutenberg markers, starting at
// the first chapter heading when one is near the top.
func extract(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")

	for _, m := range startMarkers {
		if idx := strings.Index(text, m); idx != -1 {
			if eol := strings.IndexByte(text[idx:], '\n'); eol != -1 {
				text = text[idx+eol+1:]
			}
			break
		}
	}
	for _, m := range endMarkers {
		if idx := strings.Index(text, m); idx != -1 {
			text = text[:idx]
			break
		}
	}

	if loc := firstChapter.FindStringIndex(text); loc != nil && loc[0] < 50_000 {
		text = text[loc[0]:]
	}
	text = illustration.ReplaceAllString(text, "")
	text = strings.TrimSpace(text)

	if len(text) > maxBytes {
		// Cut at a paragraph break so no sentence is truncated.
		if idx := strings.LastIndex(text[:maxBytes], "\n\n"); idx > 0 {
			text = text[:idx]
		} else {
			text = text[:maxBytes]
		}
	}
	return text
}

// Package output writes token sequences as one-column rows.
package output

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// ErrUnknownFormat indicates an unsupported output format name.
var ErrUnknownFormat = errors.New("output: unknown format")

// Format names a row encoding.
type Format string

const (
	// CSV writes one single-field record per token.
	CSV Format = "csv"
	// Parquet writes one row per token in a single text column.
	Parquet Format = "parquet"
	// Protobuf writes a Document message with one tokens entry per row.
	Protobuf Format = "protobuf"
)

// Formats lists the supported formats.
func Formats() []Format {
	return []Format{CSV, Parquet, Protobuf}
}

// ParseFormat maps a user-supplied name to a Format.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "csv":
		return CSV, nil
	case "parquet", "pq":
		return Parquet, nil
	case "protobuf", "proto", "pb":
		return Protobuf, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
	}
}

// FormatFromPath infers the format from a file extension, defaulting to CSV.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".parquet", ".pq":
		return Parquet
	case ".pb", ".binpb":
		return Protobuf
	default:
		return CSV
	}
}

// Extension returns the file extension used for f, including the dot.
func (f Format) Extension() string {
	switch f {
	case Parquet:
		return ".parquet"
	case Protobuf:
		return ".pb"
	default:
		return ".csv"
	}
}

// Writer writes tokens one per row. Close flushes buffered rows.
type Writer interface {
	Write(token string) error
	Close() error
}

// Option configures a Writer.
type Option func(*options)

type options struct {
	crlf bool
}

func defaultOptions() options {
	return options{crlf: true}
}

// WithCRLF sets CSV line endings to \r\n (default: true).
func WithCRLF(crlf bool) Option {
	return func(o *options) {
		o.crlf = crlf
	}
}

// New returns a Writer encoding rows in format f onto w. Closing the Writer
// does not close w.
func New(w io.Writer, f Format, opts ...Option) (Writer, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	switch f {
	case CSV:
		return newCSVWriter(w, o.crlf), nil
	case Parquet:
		return newParquetWriter(w), nil
	case Protobuf:
		return newProtobufWriter(w), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, string(f))
	}
}

// fileWriter closes the underlying file after the row writer.
type fileWriter struct {
	Writer
	file *os.File
}

func (fw *fileWriter) Close() error {
	return errors.Join(fw.Writer.Close(), fw.file.Close())
}

// Create creates (or truncates) the file at path and returns a Writer for it.
func Create(path string, f Format, opts ...Option) (Writer, error) {
	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("creating output: %w", err)
	}

	w, err := New(file, f, opts...)
	if err != nil {
		_ = file.Close()
		_ = os.Remove(path)
		return nil, err
	}

	return &fileWriter{Writer: w, file: file}, nil
}

// WriteAll writes every token to w. It does not close w.
func WriteAll(w Writer, tokens []string) error {
	for i, tok := range tokens {
		if err := w.Write(tok); err != nil {
			return fmt.Errorf("writing row %d: %w", i, err)
		}
	}
	return nil
}

// WriteFile writes tokens to a new file at path.
func WriteFile(path string, f Format, tokens []string, opts ...Option) error {
	w, err := Create(path, f, opts...)
	if err != nil {
		return err
	}
	if err := WriteAll(w, tokens); err != nil {
		_ = w.Close()
		return err
	}
	return w.Close()
}

// ReadFile reads back the tokens of a file written by WriteFile.
func ReadFile(path string, f Format) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading output: %w", err)
	}

	switch f {
	case CSV:
		return ReadCSV(bytes.NewReader(data))
	case Parquet:
		return ReadParquet(data)
	case Protobuf:
		return ReadProtobuf(data)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, string(f))
	}
}

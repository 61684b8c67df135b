package output

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"google.golang.org/protobuf/encoding/protowire"
)

var sampleTokens = []string{
	"Dr. Smith went home.",
	"[PARAGRAPH BREAK]",
	`"Stop," she said.`,
	"Commas, and more, commas.",
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"csv", CSV, false},
		{"CSV", CSV, false},
		{"parquet", Parquet, false},
		{"pq", Parquet, false},
		{"protobuf", Protobuf, false},
		{"pb", Protobuf, false},
		{"xlsx", "", true},
	}

	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseFormat(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if tt.wantErr && !errors.Is(err, ErrUnknownFormat) {
			t.Errorf("ParseFormat(%q) error = %v, want ErrUnknownFormat", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("ParseFormat(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatFromPath(t *testing.T) {
	tests := map[string]Format{
		"out.csv":         CSV,
		"out.txt":         CSV,
		"out":             CSV,
		"out.parquet":     Parquet,
		"dir/OUT.PARQUET": Parquet,
		"out.pb":          Protobuf,
		"out.binpb":       Protobuf,
	}

	for path, want := range tests {
		if got := FormatFromPath(path); got != want {
			t.Errorf("FormatFromPath(%q) = %q, want %q", path, got, want)
		}
		if got := FormatFromPath("x" + want.Extension()); got != want {
			t.Errorf("Extension() of %q does not map back", want)
		}
	}
}

func TestCSVWriter(t *testing.T) {
	var buf bytes.Buffer
	w, err := New(&buf, CSV)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if err := WriteAll(w, []string{"Plain.", "Hello, world.", `Say "hi".`}); err != nil {
		t.Fatalf("WriteAll() error = %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	want := "Plain.\r\n\"Hello, world.\"\r\n\"Say \"\"hi\"\".\"\r\n"
	if buf.String() != want {
		t.Errorf("csv output = %q, want %q", buf.String(), want)
	}
}

func TestCSVWriter_LF(t *testing.T) {
	var buf bytes.Buffer
	w, err := New(&buf, CSV, WithCRLF(false))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	_ = w.Write("One.")
	_ = w.Close()

	if buf.String() != "One.\n" {
		t.Errorf("csv output = %q", buf.String())
	}
}

func TestNew_UnknownFormat(t *testing.T) {
	_, err := New(&bytes.Buffer{}, Format("xml"))
	if !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("expected ErrUnknownFormat, got: %v", err)
	}
}

func TestWriteFile_ReadFile(t *testing.T) {
	dir := t.TempDir()

	for _, f := range Formats() {
		t.Run(string(f), func(t *testing.T) {
			path := filepath.Join(dir, "tokens"+f.Extension())
			if err := WriteFile(path, f, sampleTokens); err != nil {
				t.Fatalf("WriteFile() error = %v", err)
			}

			got, err := ReadFile(path, f)
			if err != nil {
				t.Fatalf("ReadFile() error = %v", err)
			}
			if len(got) != len(sampleTokens) {
				t.Fatalf("got %d rows, want %d: %q", len(got), len(sampleTokens), got)
			}
			for i := range sampleTokens {
				if got[i] != sampleTokens[i] {
					t.Errorf("row[%d] = %q, want %q", i, got[i], sampleTokens[i])
				}
			}
		})
	}
}

func TestWriteFile_Empty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.csv")
	if err := WriteFile(path, CSV, nil); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if info.Size() != 0 {
		t.Errorf("empty token list wrote %d bytes", info.Size())
	}
}

func TestCreate_BadPath(t *testing.T) {
	_, err := Create(filepath.Join(t.TempDir(), "missing", "out.csv"), CSV)
	if err == nil {
		t.Error("expected error creating file in missing directory")
	}
}

func TestReadProtobuf_SkipsUnknownFields(t *testing.T) {
	var data []byte
	data = protowire.AppendTag(data, 2, protowire.VarintType)
	data = protowire.AppendVarint(data, 7)
	data = protowire.AppendTag(data, tokensField, protowire.BytesType)
	data = protowire.AppendString(data, "Kept.")

	got, err := ReadProtobuf(data)
	if err != nil {
		t.Fatalf("ReadProtobuf() error = %v", err)
	}
	if len(got) != 1 || got[0] != "Kept." {
		t.Errorf("ReadProtobuf() = %q", got)
	}
}

func TestReadProtobuf_Truncated(t *testing.T) {
	var data []byte
	data = protowire.AppendTag(data, tokensField, protowire.BytesType)
	data = protowire.AppendVarint(data, 10)
	data = append(data, "short"...)

	if _, err := ReadProtobuf(data); err == nil {
		t.Error("expected error for truncated token")
	}
}

func TestReadParquet_Invalid(t *testing.T) {
	if _, err := ReadParquet([]byte("not a parquet file")); err == nil {
		t.Error("expected error for invalid parquet data")
	}
}

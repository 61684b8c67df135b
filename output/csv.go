package output

import (
	"encoding/csv"
	"fmt"
	"io"
)

type csvWriter struct {
	w *csv.Writer
}

func newCSVWriter(w io.Writer, crlf bool) *csvWriter {
	cw := csv.NewWriter(w)
	cw.UseCRLF = crlf
	return &csvWriter{w: cw}
}

func (c *csvWriter) Write(token string) error {
	return c.w.Write([]string{token})
}

func (c *csvWriter) Close() error {
	c.w.Flush()
	return c.w.Error()
}

// ReadCSV reads the first column of every record.
func ReadCSV(r io.Reader) ([]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parsing csv: %w", err)
	}

	tokens := make([]string, 0, len(records))
	for _, rec := range records {
		if len(rec) == 0 {
			continue
		}
		tokens = append(tokens, rec[0])
	}
	return tokens, nil
}

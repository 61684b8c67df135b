package output

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/parquet-go/parquet-go"
)

// Row is the record written to Parquet files.
type Row struct {
	Text string `parquet:"text"`
}

type parquetWriter struct {
	w *parquet.GenericWriter[Row]
}

func newParquetWriter(w io.Writer) *parquetWriter {
	return &parquetWriter{w: parquet.NewGenericWriter[Row](w)}
}

func (p *parquetWriter) Write(token string) error {
	_, err := p.w.Write([]Row{{Text: token}})
	return err
}

func (p *parquetWriter) Close() error {
	return p.w.Close()
}

// ReadParquet reads the text column of a Parquet file held in memory.
func ReadParquet(data []byte) ([]string, error) {
	file, err := parquet.OpenFile(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("opening parquet: %w", err)
	}

	reader := parquet.NewGenericReader[Row](file)
	defer func() { _ = reader.Close() }()

	var tokens []string
	rows := make([]Row, 256)
	for {
		n, err := reader.Read(rows)
		for i := 0; i < n; i++ {
			tokens = append(tokens, rows[i].Text)
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading parquet: %w", err)
		}
	}

	return tokens, nil
}

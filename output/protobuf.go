package output

import (
	"bufio"
	"fmt"
	"io"

	"google.golang.org/protobuf/encoding/protowire"
)

// tokensField is the field number of the token list in the wire format:
//
//	message Document {
//	  repeated string tokens = 1;
//	}
//
// Appending one field per token produces a valid Document, so rows can be
// streamed without holding the whole message.
const tokensField protowire.Number = 1

type protobufWriter struct {
	w   *bufio.Writer
	buf []byte
}

func newProtobufWriter(w io.Writer) *protobufWriter {
	return &protobufWriter{w: bufio.NewWriter(w)}
}

func (p *protobufWriter) Write(token string) error {
	p.buf = protowire.AppendTag(p.buf[:0], tokensField, protowire.BytesType)
	p.buf = protowire.AppendString(p.buf, token)
	_, err := p.w.Write(p.buf)
	return err
}

func (p *protobufWriter) Close() error {
	return p.w.Flush()
}

// ReadProtobuf decodes a Document, skipping unknown fields.
func ReadProtobuf(data []byte) ([]string, error) {
	var tokens []string
	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return nil, fmt.Errorf("parsing protobuf tag: %w", protowire.ParseError(n))
		}
		data = data[n:]

		if num == tokensField && typ == protowire.BytesType {
			s, n := protowire.ConsumeString(data)
			if n < 0 {
				return nil, fmt.Errorf("parsing protobuf token: %w", protowire.ParseError(n))
			}
			tokens = append(tokens, s)
			data = data[n:]
			continue
		}

		n = protowire.ConsumeFieldValue(num, typ, data)
		if n < 0 {
			return nil, fmt.Errorf("skipping protobuf field %d: %w", num, protowire.ParseError(n))
		}
		data = data[n:]
	}
	return tokens, nil
}

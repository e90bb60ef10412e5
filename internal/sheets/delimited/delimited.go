// Package delimited decodes comma or semicolon separated text exports.
package delimited

import (
	"bufio"
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"

	ports "smartfinance/internal/sheets"
)

// Decoder reads delimited text. When Comma is zero the separator is guessed
// from the header line: spreadsheet exports in Spanish locales use ';'.
type Decoder struct {
	Comma rune
}

var _ ports.RowSource = Decoder{}

func (d Decoder) Decode(ctx context.Context, filename string, r io.Reader) (ports.Table, error) {
	br := bufio.NewReader(r)
	head, err := br.Peek(4096)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, bufio.ErrBufferFull) {
		return ports.Table{}, fmt.Errorf("read %s: %w", filename, err)
	}
	if len(bytes.TrimSpace(head)) == 0 {
		return ports.Table{}, ports.ErrEmptyFile
	}

	comma := d.Comma
	if comma == 0 {
		comma = guessComma(head)
	}

	cr := csv.NewReader(br)
	cr.Comma = comma
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.TrimLeadingSpace = true

	records, err := cr.ReadAll()
	if err != nil {
		return ports.Table{}, fmt.Errorf("parse %s: %w", filename, err)
	}
	if len(records) == 0 {
		return ports.Table{}, ports.ErrEmptyFile
	}

	t := ports.NewTable(records, nil)
	slog.DebugContext(ctx, "Decoded delimited file", "file", filename, "separator", string(comma), "rows", t.Len())
	return t, nil
}

func guessComma(head []byte) rune {
	line := head
	if i := bytes.IndexByte(head, '\n'); i >= 0 {
		line = head[:i]
	}
	switch {
	case bytes.Count(line, []byte{'\t'}) > bytes.Count(line, []byte{','}) &&
		bytes.Count(line, []byte{'\t'}) > bytes.Count(line, []byte{';'}):
		return '\t'
	case bytes.Count(line, []byte{';'}) > bytes.Count(line, []byte{','}):
		return ';'
	default:
		return ','
	}
}

package sheets

import (
	"fmt"
	"strings"

	"smartfinance/internal/core"
)

// Table is a decoded sheet. Header keeps the column order of the source.
type Table struct {
	Header []string
	Rows   []core.Row
}

// Len is the number of data rows.
func (t Table) Len() int { return len(t.Rows) }

// NewTable builds a table from string records whose first record is the
// header. Blank header cells become "__EMPTY", "__EMPTY_1"... and repeated
// names get a numeric suffix. Empty cells are left out of the row and fully
// blank records are skipped. Values pass through convert, which receives the
// record and column index of the cell, before being stored; a nil convert
// keeps the trimmed strings.
func NewTable(records [][]string, convert func(rec, col int, cell string) any) Table {
	if len(records) == 0 {
		return Table{}
	}
	header := uniqueHeader(records[0])
	rows := make([]core.Row, 0, len(records)-1)
	for n, rec := range records[1:] {
		row := make(core.Row, len(rec))
		for i, cell := range rec {
			if i >= len(header) {
				break
			}
			cell = strings.TrimSpace(cell)
			if cell == "" {
				continue
			}
			if convert != nil {
				row[header[i]] = convert(n+1, i, cell)
			} else {
				row[header[i]] = cell
			}
		}
		if len(row) == 0 {
			continue
		}
		rows = append(rows, row)
	}
	return Table{Header: header, Rows: rows}
}

func uniqueHeader(raw []string) []string {
	seen := make(map[string]int, len(raw))
	out := make([]string, len(raw))
	for i, h := range raw {
		name := strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		if name == "" {
			name = "__EMPTY"
		}
		if n, dup := seen[name]; dup {
			seen[name] = n + 1
			name = fmt.Sprintf("%s_%d", name, n+1)
		} else {
			seen[name] = 0
		}
		out[i] = name
	}
	return out
}

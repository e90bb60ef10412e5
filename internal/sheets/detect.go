package sheets

import (
	"bytes"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

type Format string

const (
	FormatUnknown Format = ""
	FormatXLSX    Format = "xlsx"
	FormatCSV     Format = "csv"
)

var zipMagic = []byte("PK\x03\x04")

// Detect picks a format from the file extension and the first bytes of the
// content. Content wins when the two disagree: an xlsx renamed to .csv is
// still a zip archive.
func Detect(filename string, head []byte) Format {
	if bytes.HasPrefix(head, zipMagic) {
		return FormatXLSX
	}
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx", ".xlsm":
		if len(head) == 0 {
			return FormatXLSX
		}
		return FormatUnknown
	case ".csv", ".txt", ".tsv":
		return FormatCSV
	}
	if len(head) > 0 && utf8.Valid(trimPartialRune(head)) && !bytes.ContainsRune(head, 0) {
		return FormatCSV
	}
	return FormatUnknown
}

// trimPartialRune drops a multi-byte rune cut off at the end of a sniffed
// prefix so utf8.Valid does not reject otherwise valid text.
func trimPartialRune(b []byte) []byte {
	for i := 0; i < utf8.UTFMax && len(b) > 0; i++ {
		r, size := utf8.DecodeLastRune(b)
		if r != utf8.RuneError || size != 1 {
			return b
		}
		b = b[:len(b)-1]
	}
	return b
}

package delimited

import (
	"context"
	"errors"
	"strings"
	"testing"

	ports "smartfinance/internal/sheets"
)

func TestDecodeSeparators(t *testing.T) {
	tests := []struct {
		name  string
		input string
		comma rune
	}{
		{"comma", "Categoria,Monto\nComida,500\nTransporte,180\n", 0},
		{"semicolon", "Categoria;Monto\nComida;500\nTransporte;180\n", 0},
		{"tab", "Categoria\tMonto\nComida\t500\nTransporte\t180\n", 0},
		{"forced", "Categoria|Monto\nComida|500\nTransporte|180\n", '|'},
		{"crlf and quotes", "\"Categoria\",\"Monto\"\r\n\"Comida\",\"500\"\r\nTransporte,180\r\n", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tbl, err := Decoder{Comma: tt.comma}.Decode(context.Background(), "gastos.csv", strings.NewReader(tt.input))
			if err != nil {
				t.Fatalf("decode: %v", err)
			}
			if len(tbl.Header) != 2 || tbl.Header[0] != "Categoria" || tbl.Header[1] != "Monto" {
				t.Fatalf("header = %v", tbl.Header)
			}
			if tbl.Len() != 2 {
				t.Fatalf("rows = %d", tbl.Len())
			}
			if tbl.Rows[0]["Monto"] != "500" || tbl.Rows[1]["Categoria"] != "Transporte" {
				t.Errorf("rows = %v", tbl.Rows)
			}
		})
	}
}

func TestDecodeDecimalCommaWithSemicolon(t *testing.T) {
	tbl, err := Decoder{}.Decode(context.Background(), "gastos.csv", strings.NewReader("Categoria;Monto\nComida;12,50\n"))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if tbl.Rows[0]["Monto"] != "12,50" {
		t.Errorf("Monto = %v", tbl.Rows[0]["Monto"])
	}
}

func TestDecodeRaggedRows(t *testing.T) {
	tbl, err := Decoder{}.Decode(context.Background(), "gastos.csv", strings.NewReader("Categoria,Monto\nComida\nOcio,1,extra\n"))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if tbl.Len() != 2 {
		t.Fatalf("rows = %d", tbl.Len())
	}
	if _, ok := tbl.Rows[0]["Monto"]; ok {
		t.Errorf("short row should not have Monto: %v", tbl.Rows[0])
	}
}

func TestDecodeEmpty(t *testing.T) {
	for _, in := range []string{"", "   \n\n"} {
		_, err := Decoder{}.Decode(context.Background(), "vacio.csv", strings.NewReader(in))
		if !errors.Is(err, ports.ErrEmptyFile) {
			t.Errorf("Decode(%q) err = %v, want ErrEmptyFile", in, err)
		}
	}
}

package xlsx

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/xuri/excelize/v2"

	ports "smartfinance/internal/sheets"
)

func workbook(t *testing.T, rows [][]any) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatalf("cell name: %v", err)
		}
		r := row
		if err := f.SetSheetRow(sheet, cell, &r); err != nil {
			t.Fatalf("set row: %v", err)
		}
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("write workbook: %v", err)
	}
	return buf
}

func TestDecodeFirstSheet(t *testing.T) {
	buf := workbook(t, [][]any{
		{"Categoría", "Precio"},
		{"Comida", 500},
		{"Transporte", 180.25},
		{"Comida", "70.5"},
	})

	tbl, err := Decoder{}.Decode(context.Background(), "gastos.xlsx", buf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(tbl.Header) != 2 || tbl.Header[0] != "Categoría" || tbl.Header[1] != "Precio" {
		t.Fatalf("header = %v", tbl.Header)
	}
	if tbl.Len() != 3 {
		t.Fatalf("rows = %d, want 3", tbl.Len())
	}
	if got := tbl.Rows[0]["Precio"]; got != 500.0 {
		t.Errorf("Precio = %#v, want 500.0", got)
	}
	if got := tbl.Rows[1]["Precio"]; got != 180.25 {
		t.Errorf("Precio = %#v, want 180.25", got)
	}
	if got := tbl.Rows[1]["Categoría"]; got != "Transporte" {
		t.Errorf("Categoría = %#v", got)
	}
}

func TestDecodeKeepsNumericLookingText(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	cells := map[string]string{"A1": "Categoría", "B1": "Monto", "A2": "007", "A3": "1e3"}
	for cell, v := range cells {
		if err := f.SetCellStr(sheet, cell, v); err != nil {
			t.Fatalf("set %s: %v", cell, err)
		}
	}
	for cell, v := range map[string]int{"B2": 40, "B3": 60} {
		if err := f.SetCellValue(sheet, cell, v); err != nil {
			t.Fatalf("set %s: %v", cell, err)
		}
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("write workbook: %v", err)
	}
	f.Close()

	tbl, err := Decoder{}.Decode(context.Background(), "codigos.xlsx", buf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if tbl.Len() != 2 {
		t.Fatalf("rows = %d, want 2", tbl.Len())
	}
	if got := tbl.Rows[0]["Categoría"]; got != "007" {
		t.Errorf("Categoría = %#v, want \"007\"", got)
	}
	if got := tbl.Rows[1]["Categoría"]; got != "1e3" {
		t.Errorf("Categoría = %#v, want \"1e3\"", got)
	}
	if got := tbl.Rows[0]["Monto"]; got != 40.0 {
		t.Errorf("Monto = %#v, want 40.0", got)
	}
}

func TestDecodeHeaderOnly(t *testing.T) {
	buf := workbook(t, [][]any{{"Categoria", "Monto"}})
	tbl, err := Decoder{}.Decode(context.Background(), "vacio.xlsx", buf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if tbl.Len() != 0 || len(tbl.Header) != 2 {
		t.Errorf("table = %+v", tbl)
	}
}

func TestDecodeBlankSheet(t *testing.T) {
	buf := workbook(t, nil)
	_, err := Decoder{}.Decode(context.Background(), "blank.xlsx", buf)
	if !errors.Is(err, ports.ErrEmptyFile) {
		t.Fatalf("err = %v, want ErrEmptyFile", err)
	}
}

func TestDecodeNotAWorkbook(t *testing.T) {
	_, err := Decoder{}.Decode(context.Background(), "bad.xlsx", bytes.NewBufferString("not a zip"))
	if err == nil {
		t.Fatal("expected error")
	}
}

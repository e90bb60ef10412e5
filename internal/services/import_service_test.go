package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"smartfinance/internal/breakdown"
	"smartfinance/internal/cache"
	"smartfinance/internal/core"
	ports "smartfinance/internal/sheets"
)

const gastosCSV = "Categoria,Monto\nComida,500\nTransporte,180\nComida,70.5\n"

func newImportService(tables ports.TableReader) *ImportService {
	return NewImportService(cache.NewLRUCache[ImportResult](8, time.Minute), tables)
}

func TestImportCSV(t *testing.T) {
	svc := newImportService(nil)
	res, err := svc.Import(context.Background(), "gastos.csv", []byte(gastosCSV))
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if !res.OK() || res.Format != ports.FormatCSV || res.Rows != 3 || res.ID == "" {
		t.Fatalf("result = %+v", res)
	}
	if res.Total != 750.5 || res.Entries[0].Category != "Comida" {
		t.Errorf("breakdown = %+v", res.Result)
	}
	if res.Cached {
		t.Error("first import should not be cached")
	}
}

func TestImportCacheHit(t *testing.T) {
	svc := newImportService(nil)
	first, err := svc.Import(context.Background(), "a.csv", []byte(gastosCSV))
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	second, err := svc.Import(context.Background(), "b.csv", []byte(gastosCSV))
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if !second.Cached || second.ID != first.ID || second.Filename != "b.csv" {
		t.Errorf("second = %+v", second)
	}
}

func TestImportCachedResultIsolated(t *testing.T) {
	svc := newImportService(nil)
	first, err := svc.Import(context.Background(), "a.csv", []byte(gastosCSV))
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	first.Entries[0].Category = "Cambiado"
	first.Pie[0].Value = -1

	second, err := svc.Import(context.Background(), "b.csv", []byte(gastosCSV))
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	second.Bar[0].Label = "Otro"

	third, err := svc.Import(context.Background(), "c.csv", []byte(gastosCSV))
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if !third.Cached {
		t.Fatal("expected a cache hit")
	}
	if third.Entries[0].Category != "Comida" || third.Pie[0].Value != 570.5 || third.Bar[0].Label != "Comida" {
		t.Errorf("cache entry was modified by a caller: %+v", third.Result)
	}
}

func TestImportXLSX(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	rows := [][]any{{"Categoría", "Total"}, {"Salud", 30}, {"Ocio", 10}}
	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		r := row
		if err := f.SetSheetRow(sheet, cell, &r); err != nil {
			t.Fatalf("set row: %v", err)
		}
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("write: %v", err)
	}
	f.Close()

	res, err := newImportService(nil).Import(context.Background(), "gastos.xlsx", buf.Bytes())
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if res.Format != ports.FormatXLSX || !res.OK() {
		t.Fatalf("result = %+v", res)
	}
	if res.Columns.Category != "Categoría" || res.Columns.Amount != "Total" {
		t.Errorf("columns = %+v", res.Columns)
	}
	if res.Entries[0].Percentage != 75 {
		t.Errorf("entries = %+v", res.Entries)
	}
}

func TestImportOutcomes(t *testing.T) {
	svc := newImportService(nil)
	ctx := context.Background()

	if _, err := svc.Import(ctx, "vacio.csv", []byte("  \n")); !errors.Is(err, ports.ErrEmptyFile) {
		t.Errorf("empty err = %v", err)
	}
	if _, err := svc.Import(ctx, "foto.png", []byte{0x89, 'P', 'N', 'G', 0x00, 0x01}); !errors.Is(err, ports.ErrUnsupportedFormat) {
		t.Errorf("png err = %v", err)
	}

	res, err := svc.Import(ctx, "otro.csv", []byte("Name,Value\nx,1\n"))
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if res.Status != breakdown.StatusUnrecognizedFormat {
		t.Errorf("status = %s", res.Status)
	}
	res, err = svc.Import(ctx, "solo-cabecera.csv", []byte("Categoria,Monto\n"))
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if res.Status != breakdown.StatusEmptyInput {
		t.Errorf("status = %s", res.Status)
	}
}

type fakeTables struct {
	tbl ports.Table
	err error
	rng string
}

func (f *fakeTables) ReadTable(_ context.Context, rng string) (ports.Table, error) {
	f.rng = rng
	return f.tbl, f.err
}

func TestImportSheet(t *testing.T) {
	if _, err := newImportService(nil).ImportSheet(context.Background(), "A:B"); !errors.Is(err, ErrSheetsNotConfigured) {
		t.Fatalf("err = %v", err)
	}

	tables := &fakeTables{tbl: ports.Table{
		Header: []string{"Categoria", "Precio"},
		Rows:   []core.Row{{"Categoria": "Ocio", "Precio": "20"}},
	}}
	res, err := newImportService(tables).ImportSheet(context.Background(), "Gastos!A:B")
	if err != nil {
		t.Fatalf("import sheet: %v", err)
	}
	if tables.rng != "Gastos!A:B" || !res.OK() || res.Total != 20 {
		t.Errorf("result = %+v", res)
	}

	tables.err = errors.New("quota")
	if _, err := newImportService(tables).ImportSheet(context.Background(), ""); err == nil {
		t.Error("expected error")
	}
}

func TestImportCacheStats(t *testing.T) {
	if got := NewImportService(nil, nil).CacheStats(); got.Size != 0 || got.Hits != 0 {
		t.Errorf("stats without cache = %+v", got)
	}

	svc := NewImportService(cache.NewLRUCache[ImportResult](4, time.Minute), nil)
	data := []byte("Categoria,Monto\nA,1\n")
	for i := 0; i < 2; i++ {
		if _, err := svc.Import(context.Background(), "a.csv", data); err != nil {
			t.Fatal(err)
		}
	}
	stats := svc.CacheStats()
	if stats.Hits != 1 || stats.Size != 1 {
		t.Errorf("stats = %+v", stats)
	}
}

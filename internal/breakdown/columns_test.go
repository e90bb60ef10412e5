package breakdown

import (
	"testing"

	"smartfinance/internal/core"
)

func TestResolveColumnsOrdered(t *testing.T) {
	tests := []struct {
		name   string
		fields []string
		want   Columns
		wantOK bool
	}{
		{"canonical", []string{"Categoria", "Monto"}, Columns{"Categoria", "Monto"}, true},
		{"accented", []string{"Categoría", "Precio"}, Columns{"Categoría", "Precio"}, true},
		{"upper case", []string{"CATEGORIA", "TOTAL"}, Columns{"CATEGORIA", "TOTAL"}, true},
		{"substring", []string{"Fecha", "Subcategoria", "Monto Final"}, Columns{"Subcategoria", "Monto Final"}, true},
		{"first match wins", []string{"Precio", "Categoria", "Monto", "Categoria 2"}, Columns{"Categoria", "Precio"}, true},
		{"category claims shared field", []string{"CategoriaTotal", "Monto"}, Columns{"CategoriaTotal", "Monto"}, true},
		{"unrelated names", []string{"Name", "Value"}, Columns{}, false},
		{"missing amount", []string{"Categoria", "Notas"}, Columns{Category: "Categoria"}, false},
		{"missing category", []string{"Descripcion", "Monto"}, Columns{Amount: "Monto"}, false},
		{"no fields", nil, Columns{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ResolveColumnsOrdered(tt.fields)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if got != tt.want {
				t.Errorf("ResolveColumnsOrdered(%v) = %+v, want %+v", tt.fields, got, tt.want)
			}
		})
	}
}

func TestFieldsOfIsSorted(t *testing.T) {
	row := core.Row{"Monto": 1.0, "Categoria": "x", "Fecha": "2024-01-01"}
	got := FieldsOf(row)
	want := []string{"Categoria", "Fecha", "Monto"}
	if len(got) != len(want) {
		t.Fatalf("FieldsOf = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("FieldsOf[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestResolveColumnsFromRow(t *testing.T) {
	row := core.Row{"Total": 1.0, "Precio": 2.0, "Categoria": "x"}
	got, ok := ResolveColumns(row)
	if !ok {
		t.Fatal("expected columns to resolve")
	}
	// Sorted enumeration: Categoria, Precio, Total.
	if got.Amount != "Precio" {
		t.Errorf("amount = %q, want Precio", got.Amount)
	}
}

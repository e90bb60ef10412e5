package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func runFinctl(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("DATA_BACKEND", "memory")
	t.Setenv("AMQP_URL", "")
	t.Setenv("GOOGLE_SPREADSHEET_ID", "")
	t.Setenv("AI_PROVIDER", "mock")
	t.Setenv("VISION_PROVIDER", "mock")
	t.Setenv("LOG_LEVEL", "info")
	flagJSON = false
	flagSheet = false

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(append([]string{"--env-file", filepath.Join(t.TempDir(), "none.env"), "--log-level", "error"}, args...))
	err := rootCmd.Execute()
	return out.String(), err
}

func TestImportCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gastos.csv")
	if err := os.WriteFile(path, []byte("Categoria;Monto\nComida;300\nTransporte;100\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	out, err := runFinctl(t, "import", path)
	if err != nil {
		t.Fatalf("import error = %v\n%s", err, out)
	}
	for _, want := range []string{"gastos.csv", "$400.00", "Comida", "75.0%"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestImportCommandJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gastos.csv")
	if err := os.WriteFile(path, []byte("Categoria,Total\nA,1\nB,3\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	out, err := runFinctl(t, "import", "--json", path)
	if err != nil {
		t.Fatalf("import error = %v", err)
	}
	var res struct {
		Status string  `json:"status"`
		Total  float64 `json:"total"`
	}
	if err := json.Unmarshal([]byte(out), &res); err != nil {
		t.Fatalf("decode %q: %v", out, err)
	}
	if res.Status != "ok" || res.Total != 4 {
		t.Errorf("result = %+v", res)
	}
}

func TestImportCommandUnrecognized(t *testing.T) {
	path := filepath.Join(t.TempDir(), "otros.csv")
	if err := os.WriteFile(path, []byte("Nombre,Fecha\na,b\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	out, err := runFinctl(t, "import", path)
	if err == nil {
		t.Fatal("expected an error for an unrecognized file")
	}
	if !strings.Contains(out, "Monto") {
		t.Errorf("notice missing from output:\n%s", out)
	}
}

func TestBudgetSetAndPlan(t *testing.T) {
	out, err := runFinctl(t, "budget", "set", "3000", "1000")
	if err != nil {
		t.Fatalf("budget set error = %v", err)
	}
	if !strings.Contains(out, "$2,000.00") || !strings.Contains(out, "$400.00") {
		t.Errorf("unexpected output:\n%s", out)
	}

	if _, err := runFinctl(t, "budget", "set", "abc", "1"); err == nil {
		t.Error("expected error for invalid income")
	}
}

func TestAdviseCommand(t *testing.T) {
	out, err := runFinctl(t, "advise", "¿cómo", "invierto?")
	if err != nil {
		t.Fatalf("advise error = %v", err)
	}
	if strings.TrimSpace(out) == "" {
		t.Error("empty advice")
	}
}

func TestReceiptsListEmpty(t *testing.T) {
	out, err := runFinctl(t, "receipts", "list")
	if err != nil {
		t.Fatalf("receipts list error = %v", err)
	}
	if !strings.Contains(out, "No hay recibos") {
		t.Errorf("unexpected output:\n%s", out)
	}
}

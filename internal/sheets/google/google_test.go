package google

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"smartfinance/internal/core"
	ports "smartfinance/internal/sheets"

	goption "google.golang.org/api/option"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	ts := httptest.NewServer(h)
	t.Cleanup(ts.Close)
	c, err := New(context.Background(), Config{SpreadsheetID: "sid"},
		goption.WithEndpoint(ts.URL+"/"),
		goption.WithHTTPClient(ts.Client()))
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return c
}

func TestNew_MissingSpreadsheetID(t *testing.T) {
	_, err := New(context.Background(), Config{})
	if err == nil || err.Error() != "missing GOOGLE_SPREADSHEET_ID" {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestNew_MissingCredentials(t *testing.T) {
	t.Setenv("GOOGLE_APPLICATION_CREDENTIALS", "")
	_, err := New(context.Background(), Config{SpreadsheetID: "sid"})
	if err == nil || !strings.Contains(err.Error(), "missing service account credentials") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestNew_UnreadableCredentialsFile(t *testing.T) {
	_, err := New(context.Background(), Config{SpreadsheetID: "sid", CredentialsFile: "/nonexistent/sa.json"})
	if err == nil || !strings.Contains(err.Error(), "read service account file") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestAppendReceipt(t *testing.T) {
	var gotPath, gotInput string
	var gotBody struct {
		Values [][]any `json:"values"`
	}
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotInput = r.URL.Query().Get("valueInputOption")
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &gotBody)
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"spreadsheetId":"sid","updates":{"updatedRange":"Receipts!A7:F7","updatedRows":1}}`)
	})

	ref, err := c.AppendReceipt(context.Background(), core.Receipt{
		ID:        42,
		Title:     "Compra Supermercado",
		Amount:    42.5,
		Category:  "Alimentación",
		CreatedAt: time.Date(2024, 3, 9, 10, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	if ref != "Receipts!A7:F7" {
		t.Errorf("ref = %q", ref)
	}
	if !strings.HasSuffix(gotPath, "/values/Receipts!A:F:append") {
		t.Errorf("path = %q", gotPath)
	}
	if gotInput != "USER_ENTERED" {
		t.Errorf("valueInputOption = %q", gotInput)
	}
	if len(gotBody.Values) != 1 || len(gotBody.Values[0]) != 6 {
		t.Fatalf("body values = %v", gotBody.Values)
	}
	row := gotBody.Values[0]
	if row[0] != "2024-03-09" || row[1] != "Compra Supermercado" || row[2] != 42.5 || row[5] != "42" {
		t.Errorf("row = %v", row)
	}
}

func TestAppendReceipt_Invalid(t *testing.T) {
	c := &Client{spreadsheetID: "sid"}
	_, err := c.AppendReceipt(context.Background(), core.Receipt{Amount: 1, Category: "x"})
	if !errors.Is(err, core.ErrEmptyTitle) {
		t.Fatalf("err = %v, want ErrEmptyTitle", err)
	}
}

func TestAppendReceipt_APIError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"code":403,"message":"denied"}}`, http.StatusForbidden)
	})
	_, err := c.AppendReceipt(context.Background(), core.Receipt{Title: "t", Amount: 1, Category: "c"})
	if err == nil || !strings.Contains(err.Error(), "append to sheet Receipts") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestReadTable(t *testing.T) {
	var gotRender string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotRender = r.URL.Query().Get("valueRenderOption")
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"range":"Gastos!A1:B4","majorDimension":"ROWS","values":[
			["Categoria","Monto"],
			["Comida",500],
			["Transporte",1000000],
			[]
		]}`)
	})

	tbl, err := c.ReadTable(context.Background(), "Gastos!A:B")
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if gotRender != "UNFORMATTED_VALUE" {
		t.Errorf("valueRenderOption = %q", gotRender)
	}
	if tbl.Len() != 2 {
		t.Fatalf("rows = %d, want 2", tbl.Len())
	}
	if tbl.Rows[1]["Monto"] != "1000000" {
		t.Errorf("Monto = %v", tbl.Rows[1]["Monto"])
	}
}

func TestReadTable_Empty(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"range":"Gastos!A1:B1"}`)
	})
	_, err := c.ReadTable(context.Background(), "")
	if !errors.Is(err, ports.ErrEmptyFile) {
		t.Fatalf("err = %v, want ErrEmptyFile", err)
	}
}

func TestToStrings(t *testing.T) {
	got := toStrings([]interface{}{" a ", 12.5, 3e6, true})
	want := []string{"a", "12.5", "3000000", "true"}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("toStrings[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

package google

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"smartfinance/internal/core"
	ports "smartfinance/internal/sheets"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"
)

// Config selects the spreadsheet and the credentials used to reach it.
type Config struct {
	SpreadsheetID string
	// SheetName is the tab receipts are appended to (default "Receipts").
	SheetName       string
	CredentialsJSON string
	CredentialsFile string
}

type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
	receiptsSheet string
}

// Ensure interface conformance
var (
	_ ports.ReceiptExporter = (*Client)(nil)
	_ ports.TableReader     = (*Client)(nil)
)

// New creates a Sheets client. Without explicit client options a service
// account is required, taken from cfg or GOOGLE_APPLICATION_CREDENTIALS.
func New(ctx context.Context, cfg Config, opts ...goption.ClientOption) (*Client, error) {
	spreadsheetID := strings.TrimSpace(cfg.SpreadsheetID)
	if spreadsheetID == "" {
		return nil, errors.New("missing GOOGLE_SPREADSHEET_ID")
	}
	sheet := strings.TrimSpace(cfg.SheetName)
	if sheet == "" {
		sheet = "Receipts"
	}

	if len(opts) == 0 {
		creds, err := serviceAccountCredentials(ctx, cfg)
		if err != nil {
			return nil, err
		}
		opts = []goption.ClientOption{
			goption.WithCredentialsJSON(creds),
			goption.WithScopes(gsheet.SpreadsheetsScope),
		}
	}

	svc, err := gsheet.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	slog.InfoContext(ctx, "Google Sheets client ready", "component", "sheets", "sheet", sheet)
	return &Client{svc: svc, spreadsheetID: spreadsheetID, receiptsSheet: sheet}, nil
}

// serviceAccountCredentials resolves service account JSON from inline
// content, a file path, or GOOGLE_APPLICATION_CREDENTIALS, in that order.
func serviceAccountCredentials(ctx context.Context, cfg Config) ([]byte, error) {
	inline := strings.TrimSpace(cfg.CredentialsJSON)
	file := strings.TrimSpace(cfg.CredentialsFile)
	if inline == "" && file == "" {
		file = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}

	switch {
	case inline != "":
		slog.DebugContext(ctx, "Using inline service account credentials", "component", "sheets")
		return []byte(inline), nil
	case file != "":
		b, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
		slog.DebugContext(ctx, "Read service account file", "component", "sheets", "path", file, "size", len(b))
		return b, nil
	default:
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS)")
	}
}

// AppendReceipt adds the receipt as a new row at the end of the receipts tab:
// Date, Title, Amount, Category, Image, ID.
func (c *Client) AppendReceipt(ctx context.Context, r core.Receipt) (string, error) {
	if err := r.Validate(); err != nil {
		return "", fmt.Errorf("validation failed: %w", err)
	}
	if c.svc == nil {
		return "", errors.New("sheets service not initialized")
	}

	created := r.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}
	rng := fmt.Sprintf("%s!A:F", c.receiptsSheet)
	vr := &gsheet.ValueRange{Values: [][]any{{
		created.Format("2006-01-02"),
		r.Title,
		r.Amount,
		r.Category,
		r.ImageURI,
		strconv.FormatInt(r.ID, 10),
	}}}

	resp, err := c.svc.Spreadsheets.Values.Append(c.spreadsheetID, rng, vr).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("append to sheet %s: %w", c.receiptsSheet, err)
	}
	if resp.Updates == nil {
		return rng, nil
	}
	return resp.Updates.UpdatedRange, nil
}

// ReadTable reads a range such as "Gastos!A:D" with the first row as header.
// An empty range reads the whole receipts tab.
func (c *Client) ReadTable(ctx context.Context, rng string) (ports.Table, error) {
	if c.svc == nil {
		return ports.Table{}, errors.New("sheets service not initialized")
	}
	rng = strings.TrimSpace(rng)
	if rng == "" {
		rng = c.receiptsSheet
	}
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, rng).
		ValueRenderOption("UNFORMATTED_VALUE").
		Context(ctx).Do()
	if err != nil {
		return ports.Table{}, fmt.Errorf("read %s: %w", rng, err)
	}
	if len(resp.Values) == 0 {
		return ports.Table{}, ports.ErrEmptyFile
	}

	records := make([][]string, len(resp.Values))
	for i, row := range resp.Values {
		records[i] = toStrings(row)
	}
	return ports.NewTable(records, nil), nil
}

func toStrings(in []interface{}) []string {
	out := make([]string, len(in))
	for i, v := range in {
		switch val := v.(type) {
		case float64:
			out[i] = strconv.FormatFloat(val, 'f', -1, 64)
		default:
			out[i] = strings.TrimSpace(fmt.Sprint(v))
		}
	}
	return out
}

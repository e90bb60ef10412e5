package services

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"smartfinance/internal/breakdown"
	"smartfinance/internal/cache"
	ports "smartfinance/internal/sheets"
	"smartfinance/internal/sheets/delimited"
	"smartfinance/internal/sheets/xlsx"
)

// ErrSheetsNotConfigured is returned when importing from Google Sheets
// without a spreadsheet client.
var ErrSheetsNotConfigured = errors.New("google sheets not configured")

// ImportResult is a breakdown of one uploaded file.
type ImportResult struct {
	ID       string       `json:"id"`
	Filename string       `json:"filename"`
	Format   ports.Format `json:"format"`
	Rows     int          `json:"rows"`
	Cached   bool         `json:"cached"`
	breakdown.Result
}

// ImportService decodes uploaded spreadsheets and runs the breakdown
// pipeline. Results are cached by content hash so re-uploading the same file
// is free.
type ImportService struct {
	decoders map[ports.Format]ports.RowSource
	cache    *cache.LRUCache[ImportResult]
	tables   ports.TableReader
}

// NewImportService wires the xlsx and delimited decoders. tables may be nil
// when no spreadsheet is configured.
func NewImportService(c *cache.LRUCache[ImportResult], tables ports.TableReader) *ImportService {
	return &ImportService{
		decoders: map[ports.Format]ports.RowSource{
			ports.FormatXLSX: xlsx.Decoder{},
			ports.FormatCSV:  delimited.Decoder{},
		},
		cache:  c,
		tables: tables,
	}
}

// Import decodes data and builds its breakdown. Pipeline outcomes such as an
// unrecognized header are reported in the result status, not as errors.
func (s *ImportService) Import(ctx context.Context, filename string, data []byte) (ImportResult, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return ImportResult{}, ports.ErrEmptyFile
	}

	sum := sha256.Sum256(data)
	key := hex.EncodeToString(sum[:])
	if s.cache != nil {
		if res, ok := s.cache.Get(key); ok {
			slog.DebugContext(ctx, "Import served from cache", "component", "import", "file", filename, "hash", key[:12])
			res.Result = res.Result.Clone()
			res.Filename = filename
			res.Cached = true
			return res, nil
		}
	}

	format := ports.Detect(filename, head(data, 512))
	dec, ok := s.decoders[format]
	if !ok {
		return ImportResult{}, fmt.Errorf("%s: %w", filename, ports.ErrUnsupportedFormat)
	}

	start := time.Now()
	tbl, err := dec.Decode(ctx, filename, bytes.NewReader(data))
	if err != nil {
		return ImportResult{}, err
	}

	res := s.run(tbl)
	res.Filename = filename
	res.Format = format
	if s.cache != nil && res.OK() {
		cached := res
		cached.Result = res.Result.Clone()
		s.cache.Set(key, cached)
	}

	slog.InfoContext(ctx, "Spreadsheet imported",
		"component", "import",
		"import_id", res.ID,
		"file", filename,
		"format", format,
		"rows", res.Rows,
		"status", res.Status,
		"categories", len(res.Entries),
		"duration_ms", time.Since(start).Milliseconds())
	return res, nil
}

// ImportSheet reads a range of the configured Google spreadsheet.
func (s *ImportService) ImportSheet(ctx context.Context, rng string) (ImportResult, error) {
	if s.tables == nil {
		return ImportResult{}, ErrSheetsNotConfigured
	}
	tbl, err := s.tables.ReadTable(ctx, rng)
	if err != nil {
		return ImportResult{}, err
	}
	res := s.run(tbl)
	res.Filename = rng
	slog.InfoContext(ctx, "Sheet range imported",
		"component", "import",
		"import_id", res.ID,
		"range", rng,
		"rows", res.Rows,
		"status", res.Status)
	return res, nil
}

// CacheStats reports the result cache counters. Zero when caching is off.
func (s *ImportService) CacheStats() cache.Stats {
	if s.cache == nil {
		return cache.Stats{}
	}
	return s.cache.Stats()
}

func (s *ImportService) run(tbl ports.Table) ImportResult {
	return ImportResult{
		ID:     uuid.NewString(),
		Rows:   tbl.Len(),
		Result: breakdown.Run(breakdown.Input{Header: tbl.Header, Rows: tbl.Rows}),
	}
}

func head(b []byte, n int) []byte {
	if len(b) < n {
		return b
	}
	return b[:n]
}

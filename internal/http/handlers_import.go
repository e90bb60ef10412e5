package http

import (
	"errors"
	"fmt"
	"net/http"

	"smartfinance/internal/breakdown"
	"smartfinance/internal/services"
	"smartfinance/internal/sheets"
)

// errDecode marks Row Source failures: the file had a known format but
// could not be read.
var errDecode = errors.New("could not decode file")

// handleImport accepts a multipart "file" upload and answers with its
// category breakdown.
func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	up, err := ReadUpload(w, r, "file", s.opts.MaxUploadBytes)
	if err != nil {
		writeError(w, r, err)
		return
	}

	res, err := s.deps.Imports.Import(r.Context(), up.Filename, up.Data)
	if err != nil {
		writeError(w, r, importError(err))
		return
	}
	s.writeImportResult(w, r, res)
}

// handleImportSheet reads ?range= from the configured Google spreadsheet.
func (s *Server) handleImportSheet(w http.ResponseWriter, r *http.Request) {
	rng := sanitizeInput(r.URL.Query().Get("range"))
	if rng == "" {
		writeError(w, r, fmt.Errorf("range: %w", errMissingParam))
		return
	}

	res, err := s.deps.Imports.ImportSheet(r.Context(), rng)
	if err != nil {
		if errors.Is(err, services.ErrSheetsNotConfigured) || errors.Is(err, sheets.ErrNotFound) {
			writeError(w, r, err)
			return
		}
		writeError(w, r, fmt.Errorf("%w: %w", errDecode, err))
		return
	}
	s.writeImportResult(w, r, res)
}

func (s *Server) writeImportResult(w http.ResponseWriter, r *http.Request, res services.ImportResult) {
	if !res.OK() {
		code := CodeUnrecognizedFormat
		if res.Status == breakdown.StatusEmptyInput {
			code = CodeEmptyFile
		}
		s.logger.InfoContext(r.Context(), "Import rejected",
			"component", "import",
			"import_id", res.ID,
			"filename", res.Filename,
			"status", res.Status)
		UnprocessableEntityError(code, res.Notice()).Write(w)
		return
	}
	if !res.Cached {
		s.events.LogImportCompleted(r.Context(), res.ID, res.Filename, string(res.Format), res.Rows, string(res.Status), len(res.Entries), res.Total)
	}
	writeJSON(w, http.StatusOK, res)
}

// importError keeps the sentinel errors the classifier knows and marks
// everything else as a decode failure.
func importError(err error) error {
	switch {
	case errors.Is(err, sheets.ErrEmptyFile),
		errors.Is(err, sheets.ErrUnsupportedFormat),
		errors.Is(err, errTooLarge):
		return err
	}
	return fmt.Errorf("%w: %w", errDecode, err)
}

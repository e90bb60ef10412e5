package http

import (
	"errors"
	"net/http"
	"strings"

	"smartfinance/internal/advisor"
	"smartfinance/internal/core"
	"smartfinance/internal/log"
	"smartfinance/internal/services"
	"smartfinance/internal/sheets"
	"smartfinance/internal/vision"
)

// sanitizeInput removes control characters except tab and newlines and
// trims whitespace.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
}

// writeError maps service and domain errors to status codes and logs the
// ones that are the server's fault.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, code, msg := classify(err)
	logger := log.FromContext(r.Context())
	if status >= 500 {
		logger.ErrorContext(r.Context(), "Request failed",
			log.FieldPath, r.URL.Path,
			log.FieldStatusCode, status,
			log.FieldError, err)
	} else {
		logger.DebugContext(r.Context(), "Request rejected",
			log.FieldPath, r.URL.Path,
			log.FieldStatusCode, status,
			log.FieldError, err)
	}
	ErrorResponse(status, code, msg).Write(w)
}

func classify(err error) (status int, code, msg string) {
	switch {
	case errors.Is(err, errTooLarge):
		return http.StatusRequestEntityTooLarge, CodeTooLarge, "the upload exceeds the size limit"
	case errors.Is(err, sheets.ErrEmptyFile):
		return http.StatusUnprocessableEntity, CodeEmptyFile, "El archivo está vacío."
	case errors.Is(err, sheets.ErrUnsupportedFormat):
		return http.StatusUnsupportedMediaType, CodeUnsupportedFormat, "only .xlsx and .csv files are supported"
	case errors.Is(err, errMissingFile), errors.Is(err, errMissingParam):
		return http.StatusBadRequest, CodeBadRequest, err.Error()
	case errors.Is(err, core.ErrInvalidAmount),
		errors.Is(err, core.ErrInvalidBudget),
		errors.Is(err, services.ErrInvalidGoal):
		return http.StatusBadRequest, CodeInvalidAmount, err.Error()
	case errors.Is(err, vision.ErrInvalidImage):
		return http.StatusBadRequest, CodeInvalidImage, err.Error()
	case errors.Is(err, advisor.ErrEmptyQuestion):
		return http.StatusBadRequest, CodeEmptyQuestion, "ask a question first"
	case errors.Is(err, services.ErrNoBudget):
		return http.StatusNotFound, CodeNoBudget, "no budget has been saved yet"
	case errors.Is(err, sheets.ErrNotFound):
		return http.StatusNotFound, CodeNotFound, "not found"
	case errors.Is(err, vision.ErrNotConfigured),
		errors.Is(err, advisor.ErrNotConfigured),
		errors.Is(err, services.ErrSheetsNotConfigured):
		return http.StatusServiceUnavailable, CodeNotConfigured, err.Error()
	case errors.Is(err, services.ErrRecognitionFailed):
		return http.StatusBadGateway, CodeProviderFailed, "the recognition provider failed"
	case errors.Is(err, errDecode):
		return http.StatusBadRequest, CodeDecodeFailed, err.Error()
	}
	return http.StatusInternalServerError, CodeInternal, "internal error"
}

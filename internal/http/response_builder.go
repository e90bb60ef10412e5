// Package http provides the JSON API server and its handlers.
//
// This file implements the builder used by every handler to write JSON
// bodies and the uniform {"error", "code"} error shape.

package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// Error codes returned in the "code" field.
const (
	CodeBadRequest         = "bad_request"
	CodeInvalidAmount      = "invalid_amount"
	CodeInvalidImage       = "invalid_image"
	CodeEmptyQuestion      = "empty_question"
	CodeNotFound           = "not_found"
	CodeNoBudget           = "no_budget"
	CodeDecodeFailed       = "decode_failed"
	CodeEmptyFile          = "empty_file"
	CodeTooLarge           = "file_too_large"
	CodeUnsupportedFormat  = "unsupported_format"
	CodeRateLimited        = "rate_limited"
	CodeSuspicious         = "suspicious_request"
	CodeProviderFailed     = "provider_failed"
	CodeNotConfigured      = "not_configured"
	CodeInternal           = "internal_error"
	CodeUnrecognizedFormat = "unrecognized_format"
)

// ErrorBody is the JSON shape of every error response.
type ErrorBody struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// JSONResponseBuilder provides a fluent API for building JSON responses.
type JSONResponseBuilder struct {
	statusCode int
	body       any
	headers    map[string]string
}

// NewJSONResponse creates a new response builder with default 200 status.
func NewJSONResponse() *JSONResponseBuilder {
	return &JSONResponseBuilder{
		statusCode: http.StatusOK,
		headers:    make(map[string]string),
	}
}

func (b *JSONResponseBuilder) Status(code int) *JSONResponseBuilder {
	b.statusCode = code
	return b
}

func (b *JSONResponseBuilder) Header(name, value string) *JSONResponseBuilder {
	b.headers[name] = value
	return b
}

// Body sets the value encoded as the response body.
func (b *JSONResponseBuilder) Body(v any) *JSONResponseBuilder {
	b.body = v
	return b
}

// Write sends the built response to the http.ResponseWriter.
func (b *JSONResponseBuilder) Write(w http.ResponseWriter) {
	for name, value := range b.headers {
		w.Header().Set(name, value)
	}
	if b.body == nil {
		w.WriteHeader(b.statusCode)
		return
	}

	data, err := json.Marshal(b.body)
	if err != nil {
		slog.Error("Failed to encode response", "component", "http", "error", err)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"internal error","code":"internal_error"}`))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(b.statusCode)
	_, _ = w.Write(append(data, '\n'))
}

// ErrorResponse creates a standard error response.
func ErrorResponse(statusCode int, code, message string) *JSONResponseBuilder {
	return NewJSONResponse().
		Status(statusCode).
		Body(ErrorBody{Error: message, Code: code})
}

func BadRequestError(code, message string) *JSONResponseBuilder {
	return ErrorResponse(http.StatusBadRequest, code, message)
}

func UnprocessableEntityError(code, message string) *JSONResponseBuilder {
	return ErrorResponse(http.StatusUnprocessableEntity, code, message)
}

func NotFoundError(code, message string) *JSONResponseBuilder {
	return ErrorResponse(http.StatusNotFound, code, message)
}

func InternalServerError() *JSONResponseBuilder {
	return ErrorResponse(http.StatusInternalServerError, CodeInternal, "internal error")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	NewJSONResponse().Status(status).Body(v).Write(w)
}

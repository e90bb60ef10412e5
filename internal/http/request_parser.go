// Package http provides the JSON API server and its handlers.
//
// This file implements utilities for parsing and validating request data:
// JSON or form bodies, numeric query parameters and size-limited uploads.

package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"smartfinance/internal/core"
)

var (
	errMissingParam = errors.New("missing parameter")
	errTooLarge     = errors.New("request body too large")
	errMissingFile  = errors.New("missing file")
)

// RequestBodyParser reads a JSON or form-encoded body once and exposes its
// top-level values as strings.
type RequestBodyParser struct {
	body        []byte
	contentType string
	jsonData    map[string]any
	formData    url.Values
	parsed      bool
	err         error
}

// NewRequestBodyParser reads at most limit bytes of the request body.
func NewRequestBodyParser(w http.ResponseWriter, r *http.Request, limit int64) *RequestBodyParser {
	p := &RequestBodyParser{
		contentType: r.Header.Get("Content-Type"),
	}
	p.body, p.err = io.ReadAll(http.MaxBytesReader(w, r.Body, limit))
	if isTooLarge(p.err) {
		p.err = errTooLarge
	}
	return p
}

// Parse attempts to parse the body as JSON or form data.
func (p *RequestBodyParser) Parse() error {
	if p.parsed {
		return p.err
	}
	p.parsed = true

	if p.err != nil {
		return p.err
	}

	trimmed := strings.TrimSpace(string(p.body))
	if trimmed == "" {
		p.formData = url.Values{}
		return nil
	}

	if trimmed[0] == '{' {
		p.jsonData = make(map[string]any)
		if err := json.Unmarshal(p.body, &p.jsonData); err != nil {
			p.err = fmt.Errorf("invalid JSON body: %w", err)
			return p.err
		}
		return nil
	}

	p.formData, p.err = url.ParseQuery(trimmed)
	return p.err
}

// Get returns a string value from the parsed data (JSON or form).
func (p *RequestBodyParser) Get(key string) string {
	if p.jsonData != nil {
		if val, ok := p.jsonData[key]; ok {
			return sanitizeInput(stringValue(val))
		}
		return ""
	}
	if p.formData != nil {
		return sanitizeInput(p.formData.Get(key))
	}
	return ""
}

// Amount parses key with core.ParseAmount.
func (p *RequestBodyParser) Amount(key string) (float64, error) {
	v := p.Get(key)
	if v == "" {
		return 0, fmt.Errorf("%s: %w", key, errMissingParam)
	}
	f, err := core.ParseAmount(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return f, nil
}

func (p *RequestBodyParser) IsJSON() bool {
	return p.jsonData != nil
}

func stringValue(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	default:
		return ""
	}
}

// decodeJSON decodes a JSON body of at most limit bytes into dst.
func decodeJSON(w http.ResponseWriter, r *http.Request, limit int64, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, limit))
	if err := dec.Decode(dst); err != nil {
		if isTooLarge(err) {
			return errTooLarge
		}
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("empty body: %w", errMissingParam)
		}
		return fmt.Errorf("invalid JSON body: %w", err)
	}
	return nil
}

// QueryAmount parses a positive decimal query parameter.
func QueryAmount(q url.Values, key string) (float64, error) {
	v := strings.TrimSpace(q.Get(key))
	if v == "" {
		return 0, fmt.Errorf("%s: %w", key, errMissingParam)
	}
	f, err := core.ParseAmount(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return f, nil
}

// QueryInt parses an optional non-negative integer query parameter.
func QueryInt(q url.Values, key string, def int) (int, error) {
	v := strings.TrimSpace(q.Get(key))
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%s must be a non-negative integer: %w", key, core.ErrInvalidAmount)
	}
	return n, nil
}

// Upload is one file read from a multipart form.
type Upload struct {
	Filename string
	Data     []byte
}

// ReadUpload reads the multipart file field of at most limit bytes. Other
// form values stay available through r.FormValue.
func ReadUpload(w http.ResponseWriter, r *http.Request, field string, limit int64) (Upload, error) {
	// Multipart framing adds a little on top of the file itself.
	r.Body = http.MaxBytesReader(w, r.Body, limit+64<<10)
	if err := r.ParseMultipartForm(limit); err != nil {
		if isTooLarge(err) {
			return Upload{}, errTooLarge
		}
		return Upload{}, fmt.Errorf("invalid multipart form: %w", err)
	}

	f, hdr, err := r.FormFile(field)
	if err != nil {
		return Upload{}, fmt.Errorf("%s: %w", field, errMissingFile)
	}
	defer f.Close()

	if hdr.Size > limit {
		return Upload{}, errTooLarge
	}
	data, err := io.ReadAll(io.LimitReader(f, limit+1))
	if err != nil {
		return Upload{}, fmt.Errorf("read upload: %w", err)
	}
	if int64(len(data)) > limit {
		return Upload{}, errTooLarge
	}
	return Upload{Filename: hdr.Filename, Data: data}, nil
}

func isMultipart(r *http.Request) bool {
	mt, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && strings.HasPrefix(mt, "multipart/")
}

func isTooLarge(err error) bool {
	var maxErr *http.MaxBytesError
	return errors.As(err, &maxErr) || errors.Is(err, multipart.ErrMessageTooLarge)
}

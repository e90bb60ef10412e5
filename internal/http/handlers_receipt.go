package http

import (
	"encoding/base64"
	"net/http"
)

type scanRequest struct {
	ImageBase64 string `json:"imageBase64"`
	ImageURI    string `json:"imageUri"`
}

// handleScanReceipt accepts either a multipart "image" upload (with an
// optional "imageUri" form value) or JSON {imageBase64, imageUri}.
func (s *Server) handleScanReceipt(w http.ResponseWriter, r *http.Request) {
	var req scanRequest
	if isMultipart(r) {
		up, err := ReadUpload(w, r, "image", s.opts.MaxUploadBytes)
		if err != nil {
			writeError(w, r, err)
			return
		}
		req.ImageBase64 = base64.StdEncoding.EncodeToString(up.Data)
		req.ImageURI = sanitizeInput(r.FormValue("imageUri"))
		if req.ImageURI == "" {
			req.ImageURI = up.Filename
		}
	} else {
		// Base64 inflates the payload by a third.
		if err := decodeJSON(w, r, s.opts.MaxUploadBytes*4/3+1024, &req); err != nil {
			writeError(w, r, err)
			return
		}
		req.ImageURI = sanitizeInput(req.ImageURI)
	}

	rec, err := s.deps.Receipts.Scan(r.Context(), req.ImageBase64, req.ImageURI)
	if err != nil {
		writeError(w, r, err)
		return
	}

	s.events.LogReceiptStored(r.Context(), rec.ID, rec.Amount, rec.Category, s.deps.VisionProvider)
	writeJSON(w, http.StatusCreated, rec)
}

// handleListReceipts answers GET /api/receipts?limit=, newest first.
func (s *Server) handleListReceipts(w http.ResponseWriter, r *http.Request) {
	limit, err := QueryInt(r.URL.Query(), "limit", 50)
	if err != nil {
		writeError(w, r, err)
		return
	}
	list, err := s.deps.Receipts.List(r.Context(), limit)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"receipts": list,
		"count":    len(list),
	})
}

// handleReceiptCategories projects stored receipts through the breakdown
// pipeline so clients get percentages and chart data.
func (s *Server) handleReceiptCategories(w http.ResponseWriter, r *http.Request) {
	res, err := s.deps.Receipts.Breakdown(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

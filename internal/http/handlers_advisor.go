package http

import (
	"net/http"

	"smartfinance/internal/advisor"
)

type chatRequest struct {
	Messages []advisor.Message `json:"messages"`
}

func (s *Server) handleAdvisorChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := decodeJSON(w, r, 256<<10, &req); err != nil {
		writeError(w, r, err)
		return
	}
	for i := range req.Messages {
		req.Messages[i].Content = sanitizeInput(req.Messages[i].Content)
	}

	reply, err := s.deps.Advisor.Ask(r.Context(), req.Messages)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, reply)
}

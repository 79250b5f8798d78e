package handler

import (
	"log/slog"
	"net/http"

	"github.com/sakif/snipvault/internal/service"
)

// LanguageHandler serves the read-only language catalogue.
type LanguageHandler struct {
	languages *service.LanguageService
	logger    *slog.Logger
}

// NewLanguageHandler creates a LanguageHandler.
func NewLanguageHandler(languages *service.LanguageService, logger *slog.Logger) *LanguageHandler {
	return &LanguageHandler{languages: languages, logger: logger}
}

// HandleList returns the seeded languages ordered by name.
//
// HTTP: GET /api/languages
func (h *LanguageHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	languages, err := h.languages.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, languages)
}

package handler

import (
	"html/template"
	"log/slog"
	"net/http"
	"path/filepath"
)

// PageHandler serves the snippet library page. Templates are parsed once at
// startup and reused for every request.
type PageHandler struct {
	templates *template.Template
	logger    *slog.Logger
}

// NewPageHandler parses the HTML templates under templateDir. base.html
// defines the page frame; library.html fills its "content" block.
func NewPageHandler(templateDir string, logger *slog.Logger) (*PageHandler, error) {
	tmpl, err := template.ParseFiles(
		filepath.Join(templateDir, "base.html"),
		filepath.Join(templateDir, "library.html"),
	)
	if err != nil {
		return nil, err
	}

	return &PageHandler{
		templates: tmpl,
		logger:    logger,
	}, nil
}

// HandleLibrary serves the main snippet library page.
//
// HTTP: GET /
func (h *PageHandler) HandleLibrary(w http.ResponseWriter, r *http.Request) {
	data := map[string]any{
		"Title": "SnipVault — Code Snippet Library",
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.templates.ExecuteTemplate(w, "base", data); err != nil {
		h.logger.Error("failed to render library page", slog.String("error", err.Error()))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

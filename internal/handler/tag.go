package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/sakif/snipvault/internal/service"
)

// TagHandler serves the global tag list and tag creation.
type TagHandler struct {
	tags   *service.TagService
	logger *slog.Logger
}

// NewTagHandler creates a TagHandler.
func NewTagHandler(tags *service.TagService, logger *slog.Logger) *TagHandler {
	return &TagHandler{tags: tags, logger: logger}
}

// HandleList returns every tag, ordered by name.
//
// HTTP: GET /api/tags
func (h *TagHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	tags, err := h.tags.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tags)
}

// HandleCreate gets or creates a tag by name. Creating "Python" when
// "python" exists returns the existing tag with 200; a genuinely new tag
// returns 201.
//
// HTTP: POST /api/tags
// Body: {"name": "algorithms"}
func (h *TagHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_json",
			Message: "request body must be valid JSON",
		})
		return
	}

	before, err := h.tags.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	tag, err := h.tags.GetOrCreate(r.Context(), req.Name)
	if err != nil {
		writeError(w, err)
		return
	}

	status := http.StatusCreated
	for _, t := range before {
		if t.ID == tag.ID {
			status = http.StatusOK
			break
		}
	}
	writeJSON(w, status, tag)
}

package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/sakif/snipvault/internal/apperror"
	"github.com/sakif/snipvault/internal/auth"
	"github.com/sakif/snipvault/internal/filter"
	"github.com/sakif/snipvault/internal/service"
)

// SnippetHandler manages CRUD and filtered listing for snippets. All routes
// sit behind RequireAuth, so the user ID is always in the context.
type SnippetHandler struct {
	snippets *service.SnippetService
	logger   *slog.Logger
}

// NewSnippetHandler creates a SnippetHandler.
func NewSnippetHandler(snippets *service.SnippetService, logger *slog.Logger) *SnippetHandler {
	return &SnippetHandler{snippets: snippets, logger: logger}
}

// snippetRequest is the JSON body for create and update.
type snippetRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Code        string   `json:"code"`
	LanguageID  int64    `json:"languageId"`
	Tags        []string `json:"tags"`
}

func (req snippetRequest) toInput() service.SnippetInput {
	return service.SnippetInput{
		Title:       req.Title,
		Description: req.Description,
		Code:        req.Code,
		LanguageID:  req.LanguageID,
		TagNames:    req.Tags,
	}
}

// HandleList returns the user's snippets, optionally narrowed by filter
// criteria.
//
// HTTP: GET /api/snippets?q=sort&language=2&tags=3,7
//   - q        free-text query (title, description, code)
//   - language language ID; omitted or 0 means all languages
//   - tags     comma-separated tag IDs; a snippet must carry all of them
func (h *SnippetHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	criteria, err := criteriaFromQuery(r)
	if err != nil {
		writeError(w, err)
		return
	}

	snippets, err := h.snippets.List(r.Context(), userID, criteria)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, snippets)
}

// HandleGetByID returns a single snippet.
//
// HTTP: GET /api/snippets/{id}
func (h *SnippetHandler) HandleGetByID(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	id, err := snippetID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	snippet, err := h.snippets.Get(r.Context(), userID, id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, snippet)
}

// HandleCreate saves a new snippet.
//
// HTTP: POST /api/snippets
// Body: {"title":"...","description":"...","code":"...","languageId":2,"tags":["util"]}
func (h *SnippetHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	var req snippetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("invalid snippet JSON", slog.String("error", err.Error()))
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_json",
			Message: "request body must be valid JSON",
		})
		return
	}

	snippet, err := h.snippets.Create(r.Context(), userID, req.toInput())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, snippet)
}

// HandleUpdate rewrites an existing snippet, tag set included.
//
// HTTP: PUT /api/snippets/{id}
func (h *SnippetHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	id, err := snippetID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var req snippetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_json",
			Message: "request body must be valid JSON",
		})
		return
	}

	snippet, err := h.snippets.Update(r.Context(), userID, id, req.toInput())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, snippet)
}

// HandleDelete removes a snippet and its tag associations.
//
// HTTP: DELETE /api/snippets/{id}
func (h *SnippetHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	id, err := snippetID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	if err := h.snippets.Delete(r.Context(), userID, id); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// snippetID parses the {id} path parameter.
func snippetID(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, apperror.ValidationFailed("id", "snippet id must be a positive integer")
	}
	return id, nil
}

// criteriaFromQuery builds filter criteria from the list query parameters.
func criteriaFromQuery(r *http.Request) (filter.Criteria, error) {
	q := r.URL.Query()
	criteria := filter.Criteria{Query: q.Get("q")}

	if raw := q.Get("language"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id < 0 {
			return filter.Criteria{}, apperror.ValidationFailed("language", "language must be a non-negative integer id")
		}
		criteria.LanguageID = id
	}

	if raw := q.Get("tags"); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			id, err := strconv.ParseInt(part, 10, 64)
			if err != nil || id <= 0 {
				return filter.Criteria{}, apperror.ValidationFailed("tags", "tags must be a comma-separated list of tag ids")
			}
			criteria.TagIDs = append(criteria.TagIDs, id)
		}
	}

	return criteria, nil
}

package handler

import (
	"log/slog"
	"net/http"

	"golang.org/x/sync/errgroup"

	"github.com/sakif/snipvault/internal/auth"
	"github.com/sakif/snipvault/internal/filter"
	"github.com/sakif/snipvault/internal/model"
	"github.com/sakif/snipvault/internal/service"
)

// WorkspaceHandler serves the combined initial payload: the user's full
// snippet list plus the language and tag catalogues.
type WorkspaceHandler struct {
	snippets  *service.SnippetService
	languages *service.LanguageService
	tags      *service.TagService
	logger    *slog.Logger
}

// NewWorkspaceHandler creates a WorkspaceHandler.
func NewWorkspaceHandler(
	snippets *service.SnippetService,
	languages *service.LanguageService,
	tags *service.TagService,
	logger *slog.Logger,
) *WorkspaceHandler {
	return &WorkspaceHandler{
		snippets:  snippets,
		languages: languages,
		tags:      tags,
		logger:    logger,
	}
}

// workspaceResponse bundles the three collections a fresh page load needs.
type workspaceResponse struct {
	Snippets  []model.Snippet  `json:"snippets"`
	Languages []model.Language `json:"languages"`
	Tags      []model.Tag      `json:"tags"`
}

// HandleWorkspace loads snippets, languages, and tags concurrently — the
// three queries have no ordering dependency, so they fire in parallel and
// the response is written once all have completed. Any single failure fails
// the whole request; the client retries the load.
//
// HTTP: GET /api/workspace
func (h *WorkspaceHandler) HandleWorkspace(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	var resp workspaceResponse
	g, ctx := errgroup.WithContext(r.Context())

	g.Go(func() error {
		snippets, err := h.snippets.List(ctx, userID, filter.Criteria{})
		if err != nil {
			return err
		}
		resp.Snippets = snippets
		return nil
	})
	g.Go(func() error {
		languages, err := h.languages.List(ctx)
		if err != nil {
			return err
		}
		resp.Languages = languages
		return nil
	})
	g.Go(func() error {
		tags, err := h.tags.List(ctx)
		if err != nil {
			return err
		}
		resp.Tags = tags
		return nil
	})

	if err := g.Wait(); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

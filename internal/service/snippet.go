// Package service contains the business logic layer: validation, ownership
// rules, and orchestration between repositories and the pure filter.
//
// Services accept primitives and return domain errors (apperror sentinels).
// They know nothing about HTTP; handlers translate both directions.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sakif/snipvault/internal/apperror"
	"github.com/sakif/snipvault/internal/filter"
	"github.com/sakif/snipvault/internal/model"
	"github.com/sakif/snipvault/internal/repository"
)

// Validation limits for snippet input.
const (
	MaxTitleLength       = 200
	MaxDescriptionLength = 2000
	MaxCodeLength        = 100000 // ~100KB of code
	MaxTagsPerSnippet    = 20
)

// SnippetInput is the caller-supplied portion of a snippet. Tags are given
// as names; the service resolves them to persisted tags, deduplicating
// case-insensitively.
type SnippetInput struct {
	Title       string
	Description string
	Code        string
	LanguageID  int64
	TagNames    []string
}

// SnippetService handles snippet business logic.
type SnippetService struct {
	snippets  repository.SnippetRepository
	languages repository.LanguageRepository
	tags      repository.TagRepository
	logger    *slog.Logger
}

// NewSnippetService creates a SnippetService. The repositories are
// interfaces so tests can inject in-memory mocks.
func NewSnippetService(
	snippets repository.SnippetRepository,
	languages repository.LanguageRepository,
	tags repository.TagRepository,
	logger *slog.Logger,
) *SnippetService {
	return &SnippetService{
		snippets:  snippets,
		languages: languages,
		tags:      tags,
		logger:    logger,
	}
}

// Create validates and saves a new snippet owned by userID.
func (s *SnippetService) Create(ctx context.Context, userID string, in SnippetInput) (*model.Snippet, error) {
	if err := s.validate(ctx, &in); err != nil {
		return nil, err
	}

	tags, err := s.resolveTags(ctx, in.TagNames)
	if err != nil {
		return nil, err
	}

	snippet := &model.Snippet{
		UserID:      userID,
		Title:       in.Title,
		Description: in.Description,
		Code:        in.Code,
		LanguageID:  in.LanguageID,
		Tags:        tags,
	}

	if err := s.snippets.Create(ctx, snippet); err != nil {
		s.logger.Error("failed to create snippet",
			slog.String("user_id", userID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("creating snippet: %w", err)
	}

	s.logger.Info("snippet created",
		slog.Int64("id", snippet.ID),
		slog.String("user_id", userID),
		slog.String("title", snippet.Title),
	)
	return snippet, nil
}

// Get returns the snippet if it exists and belongs to userID.
func (s *SnippetService) Get(ctx context.Context, userID string, id int64) (*model.Snippet, error) {
	snippet, err := s.snippets.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if snippet.UserID != userID {
		return nil, apperror.Forbidden("snippet belongs to another user")
	}
	return snippet, nil
}

// List loads all of the user's snippets and applies the filter criteria in
// memory. With no active criteria the full list comes back unchanged, newest
// first.
func (s *SnippetService) List(ctx context.Context, userID string, criteria filter.Criteria) ([]model.Snippet, error) {
	snippets, err := s.snippets.ListByUser(ctx, userID)
	if err != nil {
		s.logger.Error("failed to list snippets",
			slog.String("user_id", userID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("listing snippets: %w", err)
	}

	return filter.Apply(snippets, criteria), nil
}

// Update validates and rewrites an existing snippet, including its tag set,
// as a unit. Only the owner may update.
func (s *SnippetService) Update(ctx context.Context, userID string, id int64, in SnippetInput) (*model.Snippet, error) {
	snippet, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if err := s.validate(ctx, &in); err != nil {
		return nil, err
	}

	tags, err := s.resolveTags(ctx, in.TagNames)
	if err != nil {
		return nil, err
	}

	snippet.Title = in.Title
	snippet.Description = in.Description
	snippet.Code = in.Code
	snippet.LanguageID = in.LanguageID
	snippet.Tags = tags

	if err := s.snippets.Update(ctx, snippet); err != nil {
		s.logger.Error("failed to update snippet",
			slog.Int64("id", id),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("updating snippet: %w", err)
	}

	s.logger.Info("snippet updated", slog.Int64("id", id), slog.String("user_id", userID))
	return snippet, nil
}

// Delete removes the snippet and its tag associations. Only the owner may
// delete.
func (s *SnippetService) Delete(ctx context.Context, userID string, id int64) error {
	if _, err := s.Get(ctx, userID, id); err != nil {
		return err
	}

	if err := s.snippets.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("snippet deleted", slog.Int64("id", id), slog.String("user_id", userID))
	return nil
}

// validate trims and checks the input in place, and confirms the referenced
// language exists — a snippet must always point at a real language.
func (s *SnippetService) validate(ctx context.Context, in *SnippetInput) error {
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)

	if in.Title == "" {
		return apperror.ValidationFailed("title", "title is required")
	}
	if len(in.Title) > MaxTitleLength {
		return apperror.ValidationFailed("title",
			fmt.Sprintf("title must be %d characters or less", MaxTitleLength))
	}
	if len(in.Description) > MaxDescriptionLength {
		return apperror.ValidationFailed("description",
			fmt.Sprintf("description must be %d characters or less", MaxDescriptionLength))
	}
	if strings.TrimSpace(in.Code) == "" {
		return apperror.ValidationFailed("code", "code is required")
	}
	if len(in.Code) > MaxCodeLength {
		return apperror.ValidationFailed("code",
			fmt.Sprintf("code must be %d characters or less", MaxCodeLength))
	}
	if len(in.TagNames) > MaxTagsPerSnippet {
		return apperror.ValidationFailed("tags",
			fmt.Sprintf("a snippet may have at most %d tags", MaxTagsPerSnippet))
	}

	if _, err := s.languages.GetByID(ctx, in.LanguageID); err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return apperror.ValidationFailed("languageId",
				fmt.Sprintf("language %d does not exist", in.LanguageID))
		}
		return fmt.Errorf("checking language: %w", err)
	}

	return nil
}

// resolveTags turns candidate tag names into persisted tags. The
// TagSelection helper trims, drops empties, and deduplicates the names
// case-insensitively against the global tag list; GetOrCreate then pins each
// selected name to its single database row.
func (s *SnippetService) resolveTags(ctx context.Context, names []string) ([]model.Tag, error) {
	if len(names) == 0 {
		return []model.Tag{}, nil
	}

	global, err := s.tags.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading tags: %w", err)
	}

	sel := filter.NewTagSelection(global)
	for _, name := range names {
		sel.Add(name)
	}

	resolved := make([]model.Tag, 0, len(sel.Selected()))
	for _, tag := range sel.Selected() {
		if tag.ID != 0 {
			resolved = append(resolved, tag)
			continue
		}
		created, err := s.tags.GetOrCreate(ctx, tag.Name)
		if err != nil {
			return nil, fmt.Errorf("creating tag %q: %w", tag.Name, err)
		}
		resolved = append(resolved, *created)
	}

	return resolved, nil
}

package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sakif/snipvault/internal/apperror"
	"github.com/sakif/snipvault/internal/model"
	"github.com/sakif/snipvault/internal/repository"
)

// MaxTagNameLength caps tag names. Tags are short labels, not sentences.
const MaxTagNameLength = 50

// TagService handles tag business logic. Tags are global and shared across
// users; they are created on demand and never deleted.
type TagService struct {
	tags   repository.TagRepository
	logger *slog.Logger
}

// NewTagService creates a TagService.
func NewTagService(tags repository.TagRepository, logger *slog.Logger) *TagService {
	return &TagService{tags: tags, logger: logger}
}

// List returns every tag, ordered by name.
func (s *TagService) List(ctx context.Context) ([]model.Tag, error) {
	tags, err := s.tags.List(ctx)
	if err != nil {
		s.logger.Error("failed to list tags", slog.String("error", err.Error()))
		return nil, fmt.Errorf("listing tags: %w", err)
	}
	return tags, nil
}

// GetOrCreate returns the tag matching name case-insensitively, creating it
// if no such tag exists. The name is trimmed first; an empty result is a
// validation error.
func (s *TagService) GetOrCreate(ctx context.Context, name string) (*model.Tag, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperror.ValidationFailed("name", "tag name is required")
	}
	if len(name) > MaxTagNameLength {
		return nil, apperror.ValidationFailed("name",
			fmt.Sprintf("tag name must be %d characters or less", MaxTagNameLength))
	}

	tag, err := s.tags.GetOrCreate(ctx, name)
	if err != nil {
		s.logger.Error("failed to get or create tag",
			slog.String("name", name),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("getting or creating tag: %w", err)
	}

	return tag, nil
}

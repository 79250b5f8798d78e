package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sakif/snipvault/internal/model"
	"github.com/sakif/snipvault/internal/repository"
)

// LanguageService exposes the read-only language catalogue.
type LanguageService struct {
	languages repository.LanguageRepository
	logger    *slog.Logger
}

// NewLanguageService creates a LanguageService.
func NewLanguageService(languages repository.LanguageRepository, logger *slog.Logger) *LanguageService {
	return &LanguageService{languages: languages, logger: logger}
}

// List returns the seeded languages ordered by name.
func (s *LanguageService) List(ctx context.Context) ([]model.Language, error) {
	languages, err := s.languages.List(ctx)
	if err != nil {
		s.logger.Error("failed to list languages", slog.String("error", err.Error()))
		return nil, fmt.Errorf("listing languages: %w", err)
	}
	return languages, nil
}

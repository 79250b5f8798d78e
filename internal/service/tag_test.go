package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/sakif/snipvault/internal/apperror"
	"github.com/sakif/snipvault/internal/model"
)

func TestTagServiceGetOrCreate(t *testing.T) {
	repo := &mockTagRepo{tags: []model.Tag{{ID: 1, Name: "Go"}}, nextID: 1}
	svc := NewTagService(repo, testLogger)

	existing, err := svc.GetOrCreate(context.Background(), "  go  ")
	if err != nil {
		t.Fatalf("GetOrCreate() error = %v", err)
	}
	if existing.ID != 1 || existing.Name != "Go" {
		t.Errorf("GetOrCreate(%q) = %+v, want the existing tag with stored casing", "go", existing)
	}

	created, err := svc.GetOrCreate(context.Background(), "testing")
	if err != nil {
		t.Fatalf("GetOrCreate() error = %v", err)
	}
	if created.ID == 0 || created.Name != "testing" {
		t.Errorf("GetOrCreate(%q) = %+v, want a newly created tag", "testing", created)
	}
}

func TestTagServiceGetOrCreateValidation(t *testing.T) {
	svc := NewTagService(&mockTagRepo{}, testLogger)

	for _, name := range []string{"", "   ", strings.Repeat("x", MaxTagNameLength+1)} {
		if _, err := svc.GetOrCreate(context.Background(), name); !errors.Is(err, apperror.ErrValidation) {
			t.Errorf("GetOrCreate(%q) error = %v, want ErrValidation", name, err)
		}
	}
}

func TestTagServiceList(t *testing.T) {
	repo := &mockTagRepo{tags: []model.Tag{{ID: 1, Name: "api"}, {ID: 2, Name: "cli"}}}
	svc := NewTagService(repo, testLogger)

	tags, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(tags) != 2 {
		t.Errorf("List() returned %d tags, want 2", len(tags))
	}
}

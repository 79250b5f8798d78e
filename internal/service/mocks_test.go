package service

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/rs/xid"

	"github.com/sakif/snipvault/internal/apperror"
	"github.com/sakif/snipvault/internal/model"
	"github.com/sakif/snipvault/internal/repository"
)

// In-memory repository fakes shared by the service tests. Each implements
// just enough of the contract the services rely on; failWith lets a test
// force the error path.

var testLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

type mockSnippetRepo struct {
	nextID   int64
	snippets []model.Snippet
	failWith error
}

var _ repository.SnippetRepository = (*mockSnippetRepo)(nil)

func (m *mockSnippetRepo) Create(_ context.Context, s *model.Snippet) error {
	if m.failWith != nil {
		return m.failWith
	}
	m.nextID++
	s.ID = m.nextID
	s.CreatedAt = time.Now()
	s.UpdatedAt = s.CreatedAt
	m.snippets = append(m.snippets, *s)
	return nil
}

func (m *mockSnippetRepo) GetByID(_ context.Context, id int64) (*model.Snippet, error) {
	if m.failWith != nil {
		return nil, m.failWith
	}
	for i := range m.snippets {
		if m.snippets[i].ID == id {
			s := m.snippets[i]
			return &s, nil
		}
	}
	return nil, apperror.NotFound("snippet", id)
}

func (m *mockSnippetRepo) ListByUser(_ context.Context, userID string) ([]model.Snippet, error) {
	if m.failWith != nil {
		return nil, m.failWith
	}
	out := []model.Snippet{}
	// Newest first, matching the SQL ordering.
	for i := len(m.snippets) - 1; i >= 0; i-- {
		if m.snippets[i].UserID == userID {
			out = append(out, m.snippets[i])
		}
	}
	return out, nil
}

func (m *mockSnippetRepo) Update(_ context.Context, s *model.Snippet) error {
	if m.failWith != nil {
		return m.failWith
	}
	for i := range m.snippets {
		if m.snippets[i].ID == s.ID {
			s.UpdatedAt = time.Now()
			m.snippets[i] = *s
			return nil
		}
	}
	return apperror.NotFound("snippet", s.ID)
}

func (m *mockSnippetRepo) Delete(_ context.Context, id int64) error {
	if m.failWith != nil {
		return m.failWith
	}
	for i := range m.snippets {
		if m.snippets[i].ID == id {
			m.snippets = append(m.snippets[:i], m.snippets[i+1:]...)
			return nil
		}
	}
	return apperror.NotFound("snippet", id)
}

type mockLanguageRepo struct {
	languages []model.Language
}

var _ repository.LanguageRepository = (*mockLanguageRepo)(nil)

func (m *mockLanguageRepo) List(context.Context) ([]model.Language, error) {
	return append([]model.Language(nil), m.languages...), nil
}

func (m *mockLanguageRepo) GetByID(_ context.Context, id int64) (*model.Language, error) {
	for i := range m.languages {
		if m.languages[i].ID == id {
			lang := m.languages[i]
			return &lang, nil
		}
	}
	return nil, apperror.NotFound("language", id)
}

type mockTagRepo struct {
	nextID   int64
	tags     []model.Tag
	failWith error
}

var _ repository.TagRepository = (*mockTagRepo)(nil)

func (m *mockTagRepo) List(context.Context) ([]model.Tag, error) {
	if m.failWith != nil {
		return nil, m.failWith
	}
	return append([]model.Tag(nil), m.tags...), nil
}

func (m *mockTagRepo) GetOrCreate(_ context.Context, name string) (*model.Tag, error) {
	if m.failWith != nil {
		return nil, m.failWith
	}
	for i := range m.tags {
		if strings.EqualFold(m.tags[i].Name, name) {
			tag := m.tags[i]
			return &tag, nil
		}
	}
	m.nextID++
	tag := model.Tag{ID: m.nextID, Name: name}
	m.tags = append(m.tags, tag)
	return &tag, nil
}

type mockUserRepo struct {
	users    []model.User
	failWith error
}

var _ repository.UserRepository = (*mockUserRepo)(nil)

func (m *mockUserRepo) Create(_ context.Context, u *model.User) error {
	if m.failWith != nil {
		return m.failWith
	}
	for i := range m.users {
		if strings.EqualFold(m.users[i].Email, u.Email) || m.users[i].Login == u.Login {
			return apperror.Conflict("login or email already in use")
		}
	}
	u.ID = xid.New().String()
	u.CreatedAt = time.Now()
	u.UpdatedAt = u.CreatedAt
	m.users = append(m.users, *u)
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	for i := range m.users {
		if m.users[i].ID == id {
			u := m.users[i]
			return &u, nil
		}
	}
	return nil, apperror.NotFound("user", id)
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	for i := range m.users {
		if m.users[i].Email == email {
			u := m.users[i]
			return &u, nil
		}
	}
	return nil, apperror.NotFound("user", email)
}

func (m *mockUserRepo) UpsertGitHub(_ context.Context, u *model.User) error {
	if m.failWith != nil {
		return m.failWith
	}
	for i := range m.users {
		if m.users[i].GitHubID != 0 && m.users[i].GitHubID == u.GitHubID {
			u.ID = m.users[i].ID
			u.CreatedAt = m.users[i].CreatedAt
			u.UpdatedAt = time.Now()
			m.users[i] = *u
			return nil
		}
	}
	u.ID = xid.New().String()
	u.CreatedAt = time.Now()
	u.UpdatedAt = u.CreatedAt
	m.users = append(m.users, *u)
	return nil
}

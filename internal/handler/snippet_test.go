package handler_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sakif/snipvault/internal/model"
)

func (app *testApp) createSnippet(t *testing.T, session *http.Cookie, title, code string, tags []string) model.Snippet {
	t.Helper()

	rec := app.do(t, http.MethodPost, "/api/snippets", map[string]any{
		"title":      title,
		"code":       code,
		"languageId": app.goLanguageID(t, session),
		"tags":       tags,
	}, session)
	if rec.Code != http.StatusCreated {
		t.Fatalf("creating snippet %q: status = %d, body = %s", title, rec.Code, rec.Body)
	}

	var snippet model.Snippet
	decode(t, rec, &snippet)
	return snippet
}

func TestSnippetEndpointsRequireAuth(t *testing.T) {
	app := newTestApp(t)

	paths := []struct {
		method, path string
	}{
		{http.MethodGet, "/api/snippets"},
		{http.MethodPost, "/api/snippets"},
		{http.MethodGet, "/api/snippets/1"},
		{http.MethodPut, "/api/snippets/1"},
		{http.MethodDelete, "/api/snippets/1"},
		{http.MethodGet, "/api/workspace"},
	}
	for _, p := range paths {
		rec := app.do(t, p.method, p.path, nil, nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, "%s %s without session", p.method, p.path)
	}
}

func TestSnippetCreateAndGet(t *testing.T) {
	app := newTestApp(t)
	session := app.register(t, "alice")

	created := app.createSnippet(t, session, "Hello", "package main", []string{"basics", "go"})
	assert.NotZero(t, created.ID)
	assert.Equal(t, "Hello", created.Title)
	assert.Len(t, created.Tags, 2)

	rec := app.do(t, http.MethodGet, fmt.Sprintf("/api/snippets/%d", created.ID), nil, session)
	assert.Equal(t, http.StatusOK, rec.Code)

	var got model.Snippet
	decode(t, rec, &got)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, "package main", got.Code)
}

func TestSnippetCreateValidation(t *testing.T) {
	app := newTestApp(t)
	session := app.register(t, "alice")

	rec := app.do(t, http.MethodPost, "/api/snippets", map[string]any{
		"title":      "",
		"code":       "x",
		"languageId": app.goLanguageID(t, session),
	}, session)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "validation_error")
}

func TestSnippetOwnershipIsEnforced(t *testing.T) {
	app := newTestApp(t)
	alice := app.register(t, "alice")
	bob := app.register(t, "bob")

	snippet := app.createSnippet(t, alice, "private", "secret()", nil)
	path := fmt.Sprintf("/api/snippets/%d", snippet.ID)

	rec := app.do(t, http.MethodGet, path, nil, bob)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = app.do(t, http.MethodDelete, path, nil, bob)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// The owner still sees it untouched.
	rec = app.do(t, http.MethodGet, path, nil, alice)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestSnippetListFiltering(t *testing.T) {
	app := newTestApp(t)
	session := app.register(t, "alice")

	app.createSnippet(t, session, "Quick sort", "partition()", []string{"algorithms"})
	app.createSnippet(t, session, "HTTP client", "http.Get", []string{"net"})
	sorted := app.createSnippet(t, session, "Merge sort", "merge()", []string{"algorithms"})

	var list []model.Snippet

	rec := app.do(t, http.MethodGet, "/api/snippets", nil, session)
	assert.Equal(t, http.StatusOK, rec.Code)
	decode(t, rec, &list)
	assert.Len(t, list, 3)

	// Free-text query, case-insensitive.
	rec = app.do(t, http.MethodGet, "/api/snippets?q=SORT", nil, session)
	decode(t, rec, &list)
	assert.Len(t, list, 2)

	// Query and tag combine conjunctively.
	tagID := sorted.Tags[0].ID
	rec = app.do(t, http.MethodGet, fmt.Sprintf("/api/snippets?q=merge&tags=%d", tagID), nil, session)
	decode(t, rec, &list)
	if assert.Len(t, list, 1) {
		assert.Equal(t, "Merge sort", list[0].Title)
	}

	// Malformed criteria are rejected.
	rec = app.do(t, http.MethodGet, "/api/snippets?language=abc", nil, session)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	rec = app.do(t, http.MethodGet, "/api/snippets?tags=1,x", nil, session)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSnippetUpdate(t *testing.T) {
	app := newTestApp(t)
	session := app.register(t, "alice")

	created := app.createSnippet(t, session, "before", "v1()", []string{"old"})

	rec := app.do(t, http.MethodPut, fmt.Sprintf("/api/snippets/%d", created.ID), map[string]any{
		"title":      "after",
		"code":       "v2()",
		"languageId": app.goLanguageID(t, session),
		"tags":       []string{"new"},
	}, session)
	assert.Equal(t, http.StatusOK, rec.Code)

	var updated model.Snippet
	decode(t, rec, &updated)
	assert.Equal(t, "after", updated.Title)
	if assert.Len(t, updated.Tags, 1) {
		assert.Equal(t, "new", updated.Tags[0].Name)
	}
}

func TestSnippetDelete(t *testing.T) {
	app := newTestApp(t)
	session := app.register(t, "alice")

	created := app.createSnippet(t, session, "doomed", "x()", nil)
	path := fmt.Sprintf("/api/snippets/%d", created.ID)

	rec := app.do(t, http.MethodDelete, path, nil, session)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = app.do(t, http.MethodGet, path, nil, session)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSnippetBadIDAndBadJSON(t *testing.T) {
	app := newTestApp(t)
	session := app.register(t, "alice")

	rec := app.do(t, http.MethodGet, "/api/snippets/not-a-number", nil, session)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = app.do(t, http.MethodPost, "/api/snippets", "{not json", session)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid_json")
}

package handler_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/sakif/snipvault/internal/auth"
	"github.com/sakif/snipvault/internal/handler"
	"github.com/sakif/snipvault/internal/repository/sqlite"
	"github.com/sakif/snipvault/internal/service"
)

const testSecret = "test-secret-0123456789"

// testApp assembles the real stack — in-memory SQLite, services, handlers,
// routes — so the tests exercise routing, auth middleware, and JSON shapes
// exactly as a client sees them.
type testApp struct {
	router *chi.Mux
	db     *sqlite.DB
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	db, err := sqlite.New(":memory:")
	if err != nil {
		t.Fatalf("sqlite.New(:memory:) error = %v", err)
	}
	t.Cleanup(func() { db.Close() })

	tokens, err := auth.NewTokenService(testSecret)
	if err != nil {
		t.Fatalf("NewTokenService() error = %v", err)
	}
	passwords := auth.NewPasswordServiceForTest(bcrypt.MinCost)

	authService := service.NewAuthService(db.Users, passwords, logger)
	snippetService := service.NewSnippetService(db.Snippets, db.Languages, db.Tags, logger)
	languageService := service.NewLanguageService(db.Languages, logger)
	tagService := service.NewTagService(db.Tags, logger)

	authHandler := handler.NewAuthHandler(authService, tokens, nil, logger)
	snippetHandler := handler.NewSnippetHandler(snippetService, logger)
	languageHandler := handler.NewLanguageHandler(languageService, logger)
	tagHandler := handler.NewTagHandler(tagService, logger)
	workspaceHandler := handler.NewWorkspaceHandler(snippetService, languageService, tagService, logger)

	r := chi.NewRouter()

	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", authHandler.HandleRegister)
		r.Post("/login", authHandler.HandleLogin)
		r.Post("/logout", authHandler.HandleLogout)

		r.Group(func(r chi.Router) {
			r.Use(auth.RequireAuth(tokens))
			r.Get("/me", authHandler.HandleMe)
		})
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(auth.RequireAuth(tokens))

		r.Get("/workspace", workspaceHandler.HandleWorkspace)

		r.Get("/snippets", snippetHandler.HandleList)
		r.Get("/snippets/{id}", snippetHandler.HandleGetByID)
		r.Post("/snippets", snippetHandler.HandleCreate)
		r.Put("/snippets/{id}", snippetHandler.HandleUpdate)
		r.Delete("/snippets/{id}", snippetHandler.HandleDelete)

		r.Get("/languages", languageHandler.HandleList)

		r.Get("/tags", tagHandler.HandleList)
		r.Post("/tags", tagHandler.HandleCreate)
	})

	return &testApp{router: r, db: db}
}

// do sends a request through the full router and returns the recorder. body
// is JSON-encoded when non-nil; session carries the auth cookie.
func (app *testApp) do(t *testing.T, method, path string, body any, session *http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshaling request body: %v", err)
		}
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if session != nil {
		req.AddCookie(session)
	}

	rec := httptest.NewRecorder()
	app.router.ServeHTTP(rec, req)
	return rec
}

// register creates an account through the API and returns its session
// cookie.
func (app *testApp) register(t *testing.T, login string) *http.Cookie {
	t.Helper()

	rec := app.do(t, http.MethodPost, "/auth/register", map[string]string{
		"login":    login,
		"email":    login + "@example.com",
		"password": "longenough",
	}, nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("register %q: status = %d, body = %s", login, rec.Code, rec.Body)
	}

	for _, c := range rec.Result().Cookies() {
		if c.Name == auth.CookieName {
			return c
		}
	}
	t.Fatalf("register %q: no session cookie in response", login)
	return nil
}

// decode unmarshals the recorded JSON body into out.
func decode(t *testing.T, rec *httptest.ResponseRecorder, out any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), out); err != nil {
		t.Fatalf("decoding response %q: %v", rec.Body, err)
	}
}

// goLanguageID finds the seeded Go language through the public API.
func (app *testApp) goLanguageID(t *testing.T, session *http.Cookie) int64 {
	t.Helper()

	rec := app.do(t, http.MethodGet, "/api/languages", nil, session)
	if rec.Code != http.StatusOK {
		t.Fatalf("listing languages: status = %d", rec.Code)
	}

	var langs []struct {
		ID   int64  `json:"id"`
		Name string `json:"name"`
	}
	decode(t, rec, &langs)
	for _, lang := range langs {
		if lang.Name == "Go" {
			return lang.ID
		}
	}
	t.Fatal("Go language not seeded")
	return 0
}

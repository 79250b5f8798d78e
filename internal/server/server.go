// Package server wires the application together: database, services,
// handlers, middleware, and routes. It is the composition root — every
// dependency is constructed here and nowhere else.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/sakif/snipvault/internal/auth"
	"github.com/sakif/snipvault/internal/handler"
	"github.com/sakif/snipvault/internal/middleware"
	sqliteRepo "github.com/sakif/snipvault/internal/repository/sqlite"
	"github.com/sakif/snipvault/internal/service"
)

// Config holds server configuration, loaded from the environment in main.
type Config struct {
	Port        int
	TemplateDir string
	StaticDir   string
	DBPath      string
	JWTSecret   string

	// GitHub OAuth is optional; leave the client ID empty to disable it.
	GitHubClientID     string
	GitHubClientSecret string
	GitHubCallbackURL  string
}

// Server owns the router and the database connection. The connection is
// closed during graceful shutdown.
type Server struct {
	router *chi.Mux
	config Config
	logger *slog.Logger
	db     *sqliteRepo.DB
}

// New creates the Server and assembles the full dependency chain:
// DB → repositories → services → handlers → routes.
func New(cfg Config, logger *slog.Logger) (*Server, error) {
	db, err := sqliteRepo.New(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Server{
		router: chi.NewRouter(),
		config: cfg,
		logger: logger,
		db:     db,
	}

	if err := s.setupRoutes(); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting up routes: %w", err)
	}

	return s, nil
}

// setupRoutes configures middleware and all route handlers.
//
// Route map:
//
//	GET    /                      → snippet library page (HTML)
//	GET    /static/*              → static assets
//	POST   /auth/register         → create local account
//	POST   /auth/login            → password login
//	POST   /auth/logout           → clear session
//	GET    /auth/me               → current user (authenticated)
//	GET    /auth/github/login     → start GitHub OAuth (if configured)
//	GET    /auth/github/callback  → finish GitHub OAuth
//	GET    /api/workspace         → snippets + languages + tags in one load
//	GET    /api/snippets          → filtered snippet list
//	GET    /api/snippets/{id}     → single snippet
//	POST   /api/snippets          → create snippet
//	PUT    /api/snippets/{id}     → update snippet
//	DELETE /api/snippets/{id}     → delete snippet
//	GET    /api/languages         → language catalogue
//	GET    /api/tags              → global tag list
//	POST   /api/tags              → get-or-create tag
func (s *Server) setupRoutes() error {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(middleware.Logger(s.logger))

	// Static assets.
	fileServer := http.FileServer(http.Dir(s.config.StaticDir))
	s.router.Handle("/static/*", http.StripPrefix("/static/", fileServer))

	// Pages.
	pageHandler, err := handler.NewPageHandler(s.config.TemplateDir, s.logger)
	if err != nil {
		return fmt.Errorf("creating page handler: %w", err)
	}
	s.router.Get("/", pageHandler.HandleLibrary)

	// Auth plumbing.
	tokens, err := auth.NewTokenService(s.config.JWTSecret)
	if err != nil {
		return fmt.Errorf("creating token service: %w", err)
	}
	passwords := auth.NewPasswordService()

	var github *auth.GitHubProvider
	if s.config.GitHubClientID != "" {
		github = auth.NewGitHubProvider(
			s.config.GitHubClientID,
			s.config.GitHubClientSecret,
			s.config.GitHubCallbackURL,
		)
	}

	// Services.
	authService := service.NewAuthService(s.db.Users, passwords, s.logger)
	snippetService := service.NewSnippetService(s.db.Snippets, s.db.Languages, s.db.Tags, s.logger)
	languageService := service.NewLanguageService(s.db.Languages, s.logger)
	tagService := service.NewTagService(s.db.Tags, s.logger)

	// Handlers.
	authHandler := handler.NewAuthHandler(authService, tokens, github, s.logger)
	snippetHandler := handler.NewSnippetHandler(snippetService, s.logger)
	languageHandler := handler.NewLanguageHandler(languageService, s.logger)
	tagHandler := handler.NewTagHandler(tagService, s.logger)
	workspaceHandler := handler.NewWorkspaceHandler(snippetService, languageService, tagService, s.logger)

	s.router.Route("/auth", func(r chi.Router) {
		r.Post("/register", authHandler.HandleRegister)
		r.Post("/login", authHandler.HandleLogin)
		r.Post("/logout", authHandler.HandleLogout)

		r.Group(func(r chi.Router) {
			r.Use(auth.RequireAuth(tokens))
			r.Get("/me", authHandler.HandleMe)
		})

		if github != nil {
			r.Get("/github/login", authHandler.HandleGitHubLogin)
			r.Get("/github/callback", authHandler.HandleGitHubCallback)
		}
	})

	s.router.Route("/api", func(r chi.Router) {
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

	return nil
}

// Start runs the HTTP server until SIGINT/SIGTERM, then shuts down
// gracefully: stop accepting connections, give in-flight requests 30
// seconds, close the database.
func (s *Server) Start() error {
	defer s.db.Close()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.config.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("server starting",
			slog.Int("port", s.config.Port),
			slog.String("database", s.config.DBPath),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}

	case sig := <-quit:
		s.logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		s.logger.Info("server stopped gracefully")
	}

	return nil
}

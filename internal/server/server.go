package server

import (
	"context"
	"html/template"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jmoiron/sqlx"

	"friendbook/internal/config"
	"friendbook/internal/forms"
	"friendbook/internal/repository"
)

type Server struct {
	cfg      *config.Config
	log      *slog.Logger
	users    repository.UserRepository
	friends  repository.FriendRepository
	sessions repository.SessionStore
	validate *forms.Validator
	tmpl     map[string]*template.Template
	router   chi.Router
}

func New(cfg *config.Config, logger *slog.Logger, db *sqlx.DB) (*Server, error) {
	templates := map[string]*template.Template{}
	layout := filepath.Join(cfg.TemplateDir, "layout.html")
	pages, err := filepath.Glob(filepath.Join(cfg.TemplateDir, "*.html"))
	if err != nil {
		return nil, err
	}
	for _, page := range pages {
		if filepath.Base(page) == "layout.html" {
			continue
		}
		t, err := template.ParseFiles(layout, page)
		if err != nil {
			return nil, err
		}
		name := strings.TrimSuffix(filepath.Base(page), ".html")
		templates[name] = t
	}

	s := &Server{
		cfg:      cfg,
		log:      logger,
		users:    repository.NewUserRepository(db),
		friends:  repository.NewFriendRepository(db),
		sessions: repository.NewSessionStore(db),
		validate: forms.NewValidator(),
		tmpl:     templates,
	}
	if err := s.sessions.DeleteExpired(context.Background()); err != nil {
		logger.Warn("expired session sweep failed", "error", err)
	}
	s.router = s.routes()
	return s, nil
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(s.staticFiles)
	r.Use(s.resolveSession)

	r.Get("/", s.handleHome)
	r.Get("/register", s.handleRegisterForm)
	r.Post("/register", s.handleRegister)
	r.Get("/login", s.handleLoginForm)
	r.Post("/login", s.handleLogin)
	r.Post("/logout", s.handleLogout)
	r.Get("/u/{login}", s.handleProfile)

	r.Group(func(r chi.Router) {
		r.Use(s.requireAuth)
		r.Get("/mypage", s.handleMyPage)
		r.Get("/friends", s.handleFriends)
		r.Post("/friends/add", s.handleFriendAdd)
		r.Post("/friends/remove", s.handleFriendRemove)
		r.Get("/settings", s.handleSettingsForm)
		r.Post("/settings", s.handleSettingsSave)
	})

	r.NotFound(s.handleNotFound)
	r.MethodNotAllowed(s.handleNotFound)
	return r
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// staticFiles serves public assets path-mapped 1:1 before route
// dispatch, short-circuiting when a matching file exists.
func (s *Server) staticFiles(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet || r.Method == http.MethodHead {
			name := filepath.Join(s.cfg.StaticDir, filepath.Clean("/"+r.URL.Path))
			if info, err := os.Stat(name); err == nil && !info.IsDir() {
				http.ServeFile(w, r, name)
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

// render writes the named page wrapped in the layout. CurrentUser is
// attached for the nav bar unless the handler already set it.
func (s *Server) render(w http.ResponseWriter, r *http.Request, status int, name string, data map[string]any) {
	t, ok := s.tmpl[name]
	if !ok {
		s.log.Error("unknown template", "name", name)
		http.Error(w, "template not found", http.StatusInternalServerError)
		return
	}
	if data == nil {
		data = map[string]any{}
	}
	if _, ok := data["CurrentUser"]; !ok {
		data["CurrentUser"] = currentUser(r).Public()
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := t.ExecuteTemplate(w, "layout", data); err != nil {
		s.log.Error("render failed", "template", name, "error", err)
	}
}

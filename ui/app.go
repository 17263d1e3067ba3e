package ui

import (
	"embed"
	"fmt"
	"html/template"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"dupfinder/adapters/postgres"
	"dupfinder/internal/config"
)

//go:embed templates/* static/* help.md
var embeddedFiles embed.FS

// App represents the UI application
type App struct {
	router    *chi.Mux
	config    *config.Config
	store     *sessionStore
	templates *template.Template

	// runs is the optional comparison-run audit sink; nil disables auditing.
	runs *postgres.RunRepository
}

// NewApp creates a new UI application
func NewApp(cfg *config.Config, runs *postgres.RunRepository) (*App, error) {
	funcMap := template.FuncMap{
		"add": func(a, b int) int { return a + b },
		"pct": func(f float64) string { return fmt.Sprintf("%.1f%%", f*100) },
		"num": func(f float64) string { return fmt.Sprintf("%.4g", f) },
	}
	templates, err := template.New("").Funcs(funcMap).ParseFS(embeddedFiles, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	app := &App{
		router:    chi.NewRouter(),
		config:    cfg,
		store:     newSessionStore(cfg.Upload.SessionTTL),
		templates: templates,
		runs:      runs,
	}

	app.setupMiddleware()
	app.setupRoutes()

	return app, nil
}

// setupMiddleware configures HTTP middleware
func (a *App) setupMiddleware() {
	a.router.Use(middleware.Logger)
	a.router.Use(middleware.Recoverer)
	a.router.Use(middleware.Compress(5))

	// Serve static files
	staticFS := http.FileServer(http.FS(embeddedFiles))
	a.router.Handle("/static/*", staticFS)
}

// setupRoutes configures the application routes
func (a *App) setupRoutes() {
	a.router.Get("/", a.handleIndex)
	a.router.Post("/upload", a.handleUpload)
	a.router.Post("/compare", a.handleCompare)
	a.router.Get("/download", a.handleDownload)
	a.router.Get("/help", a.handleHelp)
}

// Router exposes the handler, mainly for tests.
func (a *App) Router() http.Handler {
	return a.router
}

// Start runs the HTTP server on the given address.
func (a *App) Start(addr string) error {
	log.Printf("[App] UI listening on %s", addr)
	return http.ListenAndServe(addr, a.router)
}

// render executes a template and reports failures to the client.
func (a *App) render(w http.ResponseWriter, name string, data interface{}) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := a.templates.ExecuteTemplate(w, name, data); err != nil {
		log.Printf("[render] FAILED - template %s: %v", name, err)
		http.Error(w, "template rendering failed", http.StatusInternalServerError)
	}
}

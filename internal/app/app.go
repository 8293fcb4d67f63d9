package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"path/filepath"
	"sync"
	"time"

	"github.com/a-h/templ"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/th3jlux/toolsmith/internal/domain"
	"github.com/th3jlux/toolsmith/internal/telemetry"
)

type Config struct {
	Port         string
	OAIApiKey    string
	OAIBaseUrl   string
	Model        string
	WorkspaceDir string
	RegistryPath string
	PythonBin    string
	AllowInstall bool
}

type ToolRepo interface {
	InsertTool(tool domain.Tool) error
	UpsertTool(tool domain.Tool) error
	GetTool(href string) (*domain.Tool, error)
	ListTools() ([]domain.Tool, error)
	DeleteTool(href string) error
}

type RunRepo interface {
	InsertRun(run domain.GenerationRun) error
	UpdateRunState(id string, state string) error
}

type CodeStore interface {
	WritePair(name string, pair domain.CodePair) error
	ReadPair(name string) (domain.CodePair, error)
	DeletePair(name string) error
	ListNames() ([]string, error)
	AppendRequirements(packages []string) error
}

type Generator interface {
	Generate(ctx context.Context, userPrompt string) (*domain.GeneratedCode, error)
}

type ComponentBuilder struct {
	Home  func(tools []domain.Tool, loadErrors []string) templ.Component
	Tool  func(tool domain.Tool, html string) templ.Component
	Error func(code int, title string, msg string) templ.Component
}

type App struct {
	ToolRepo         ToolRepo
	RunRepo          RunRepo
	CodeStore        CodeStore
	Generator        Generator
	ComponentBuilder ComponentBuilder
	Metrics          *telemetry.Metrics
	Config           Config

	mu         sync.Mutex
	loadErrors []string
}

// Reconcile aligns the registry with the sources actually on disk:
// unregistered pairs get registered, and registered tools with no stored
// page are reported as load errors on the home page.
func (a *App) Reconcile() error {
	names, err := a.CodeStore.ListNames()

	if err != nil {
		return err
	}

	for _, name := range names {
		href, err := domain.WrapTitle(name)

		if err != nil {
			continue
		}

		if _, err := a.ToolRepo.GetTool(href); err == nil {
			continue
		}

		tool := domain.Tool{
			Title:      href,
			Href:       href,
			Template:   name + "_html.html",
			SourceFile: name + "_python.py",
		}

		if err := a.ToolRepo.UpsertTool(tool); err != nil {
			return err
		}

		slog.Info("registered tool from workspace", "href", href)
	}

	tools, err := a.ToolRepo.ListTools()

	if err != nil {
		return err
	}

	var loadErrors []string

	for _, tool := range tools {
		name, err := domain.ParseTitle(tool.Href)

		if err != nil {
			loadErrors = append(loadErrors, fmt.Sprintf("Failed to load tool %q: %s", tool.Href, err.Error()))
			continue
		}

		pair, err := a.CodeStore.ReadPair(name)

		if err != nil {
			loadErrors = append(loadErrors, fmt.Sprintf("Failed to load tool %q: %s", tool.Href, err.Error()))
			continue
		}

		if pair.HTMLCode == "" {
			loadErrors = append(loadErrors, fmt.Sprintf("Failed to load tool %q: no stored page", tool.Href))
		}
	}

	a.mu.Lock()
	a.loadErrors = loadErrors
	a.mu.Unlock()

	return nil
}

func (a *App) LoadErrors() []string {
	a.mu.Lock()
	defer a.mu.Unlock()

	return append([]string(nil), a.loadErrors...)
}

func (a *App) Routes() http.Handler {
	// Generation endpoints hit the model API, so they get a tighter
	// limiter than anything else.
	genLimiter := rate.NewLimiter(rate.Every(2*time.Second), 3)

	mux := http.NewServeMux()

	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.Dir("static"))))
	mux.Handle("GET /routes/", http.StripPrefix("/routes/",
		http.FileServer(http.Dir(filepath.Join(a.Config.WorkspaceDir, "routes")))))

	mux.Handle("GET /{$}", a.counted("home", ComponentHandler(a.index)))
	mux.Handle("GET /", a.counted("tool_page", ComponentHandler(a.toolPage)))

	mux.Handle("POST /submit", a.counted("submit", limit(genLimiter, APIHandler(a.submit))))
	mux.Handle("POST /delete", a.counted("delete", APIHandler(a.deleteTool)))
	mux.Handle("GET /get_code", a.counted("get_code", APIHandler(a.getCode)))
	mux.Handle("POST /update_code", a.counted("update_code", APIHandler(a.updateCode)))
	mux.Handle("POST /chatbot", a.counted("chatbot", limit(genLimiter, APIHandler(a.chatbot))))
	mux.Handle("POST /install", a.counted("install", APIHandler(a.install)))

	mux.Handle("GET /metrics", a.Metrics.Handler())

	return mux
}

func (a *App) counted(route string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		a.Metrics.RequestsTotal.WithLabelValues(route).Inc()
		next.ServeHTTP(w, r)
	})
}

func limit(limiter *rate.Limiter, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !limiter.Allow() {
			w.Header().Add("Content-Type", "application/json")
			w.WriteHeader(http.StatusTooManyRequests)
			fmt.Fprint(w, `{"error": "Too many requests"}`)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (a *App) Start(ctx context.Context) error {
	if err := a.Reconcile(); err != nil {
		return err
	}

	server := &http.Server{
		Addr:              ":" + a.Config.Port,
		Handler:           a.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	group, ctx := errgroup.WithContext(ctx)

	group.Go(func() error {
		slog.Info(fmt.Sprintf("App running on %s...", a.Config.Port))

		err := server.ListenAndServe()

		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}

		return err
	})

	group.Go(func() error {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		return server.Shutdown(shutdownCtx)
	})

	return group.Wait()
}

// Package api serves diagram documents over HTTP.
//
// The API is an exchange surface: clients validate and merge interchange
// documents and keep named diagrams in a [store.Store]. It holds no
// editing state; undo history lives in the client or in a CLI session.
//
// # Routes
//
//	GET    /health                  liveness probe
//	POST   /v1/documents/validate   field-by-field validation report
//	POST   /v1/documents/merge      collision-free merge of two documents
//	GET    /v1/diagrams             list stored diagrams
//	GET    /v1/diagrams/{name}      load a diagram
//	PUT    /v1/diagrams/{name}      validate and store a diagram
//	DELETE /v1/diagrams/{name}      remove a diagram
//
// Request bodies are JSON unless the format query parameter or the
// Content-Type says YAML. Every stored document goes back through
// validation and parsing when it is loaded, so a document edited behind
// the store's back is never served unchecked.
//
// # Errors
//
// Failures are JSON objects carrying the canvaskit error code:
//
//	{"code": "INVALID_DOCUMENT", "message": "...", "fields": [{"field": "nodes[0].id", "message": "..."}]}
package api

import (
	"context"
	stderrors "errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/matzehuels/canvaskit/pkg/pipeline"
	"github.com/matzehuels/canvaskit/pkg/store"
)

// DefaultMaxBodyBytes caps request bodies.
const DefaultMaxBodyBytes = 10 << 20

// Options configures a [Server]. Zero values select defaults.
type Options struct {
	// Runner parses documents and supplies the merge offset. Its cache
	// makes repeated validation of the same bytes cheap. Nil means a runner
	// without a cache.
	Runner *pipeline.Runner
	// Logger receives request logs. Nil means the runner's logger.
	Logger *log.Logger
	// MaxBodyBytes caps request bodies; zero means [DefaultMaxBodyBytes].
	MaxBodyBytes int64
	// AllowedOrigins enables CORS for browser clients. Empty disables it.
	AllowedOrigins []string
	// Now is the clock used to stamp exported documents.
	Now func() time.Time
}

// Server is the HTTP API over a document store.
type Server struct {
	store   store.Store
	runner  *pipeline.Runner
	logger  *log.Logger
	maxBody int64
	origins []string
	now     func() time.Time
}

// New returns a server over st.
func New(st store.Store, opts Options) *Server {
	if opts.Runner == nil {
		opts.Runner = pipeline.NewRunner(nil, nil, opts.Logger)
	}
	if opts.Logger == nil {
		opts.Logger = opts.Runner.Logger
	}
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = DefaultMaxBodyBytes
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Server{
		store:   st,
		runner:  opts.Runner,
		logger:  opts.Logger,
		maxBody: opts.MaxBodyBytes,
		origins: opts.AllowedOrigins,
		now:     opts.Now,
	}
}

// Handler returns the routed handler with its middleware stack.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(requestLogger(s.logger))
	r.Use(serverHeader)
	if len(s.origins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: s.origins,
			AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
			ExposedHeaders: []string{"X-Request-ID"},
			MaxAge:         300,
		}))
	}

	r.Get("/health", s.health)

	r.Route("/v1", func(r chi.Router) {
		r.Use(limitBody(s.maxBody))

		r.Post("/documents/validate", s.validateDocument)
		r.Post("/documents/merge", s.mergeDocuments)

		r.Route("/diagrams", func(r chi.Router) {
			r.Get("/", s.listDiagrams)
			r.Get("/{name}", s.getDiagram)
			r.Put("/{name}", s.putDiagram)
			r.Delete("/{name}", s.deleteDiagram)
		})
	})

	return r
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	s.logger.Info("listening", "addr", addr)

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !stderrors.Is(err, http.ErrServerClosed) {
		return err
	}
	s.logger.Info("server stopped")
	return nil
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/watzon/inkify/pkg/analytics"
	"github.com/watzon/inkify/pkg/httputil"
	"github.com/watzon/inkify/pkg/observability"
	"github.com/watzon/inkify/pkg/render"
	"github.com/watzon/inkify/pkg/resolve"
)

// Server is the HTTP API server
type Server struct {
	router       *mux.Router
	orchestrator *Orchestrator
	engine       render.Engine
	reporter     *analytics.Reporter
	metrics      *observability.Metrics

	// generateLimiter wraps only /generate; nil means unlimited.
	generateLimiter func(http.Handler) http.Handler
}

// ServerOption customizes the server
type ServerOption func(*Server)

// WithAnalytics enables Umami reporting. A nil reporter is a no-op.
func WithAnalytics(reporter *analytics.Reporter) ServerOption {
	return func(s *Server) { s.reporter = reporter }
}

// WithMetrics instruments every route with request metrics.
func WithMetrics(metrics *observability.Metrics) ServerOption {
	return func(s *Server) { s.metrics = metrics }
}

// WithGenerateLimiter rate limits the /generate endpoint.
func WithGenerateLimiter(limiter func(http.Handler) http.Handler) ServerOption {
	return func(s *Server) { s.generateLimiter = limiter }
}

// NewServer creates the API server with all routes configured
func NewServer(orchestrator *Orchestrator, engine render.Engine, opts ...ServerOption) *Server {
	s := &Server{
		router:       mux.NewRouter(),
		orchestrator: orchestrator,
		engine:       engine,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.setupRoutes()
	return s
}

// setupRoutes configures all the API routes
func (s *Server) setupRoutes() {
	generate := http.Handler(http.HandlerFunc(s.handleGenerate))
	if s.generateLimiter != nil {
		generate = s.generateLimiter(generate)
	}

	s.route("/", http.HandlerFunc(s.handleHelp)).Methods("GET")
	s.route("/generate", generate).Methods("GET")
	s.route("/themes", http.HandlerFunc(s.handleThemes)).Methods("GET")
	s.route("/languages", http.HandlerFunc(s.handleLanguages)).Methods("GET")
	s.route("/fonts", http.HandlerFunc(s.handleFonts)).Methods("GET")

	s.router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		httputil.WriteNotFoundError(w, "no such route: "+r.URL.Path)
	})
}

func (s *Server) route(path string, handler http.Handler) *mux.Route {
	if s.metrics != nil {
		handler = s.metrics.InstrumentHandler(path, handler)
	}
	return s.router.Handle(path, handler)
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Router exposes the underlying router so cmd can attach middleware.
func (s *Server) Router() *mux.Router {
	return s.router
}

// handleHelp handles GET /
func (s *Server) handleHelp(w http.ResponseWriter, r *http.Request) {
	s.reporter.Pageview("/", r)
	httputil.WriteSuccess(w, helpResponse{
		Name:   "inkify",
		Routes: helpRoutes,
		Params: helpParams,
	})
}

// handleGenerate handles GET /generate
func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	raw := resolve.FromQuery(r.URL.Query())

	image, err := s.orchestrator.Generate(r.Context(), raw)
	if err != nil {
		s.writeGenerateError(w, err)
		return
	}

	s.reporter.Event("/generate", "generate", r)
	httputil.WritePNG(w, image)
}

func (s *Server) writeGenerateError(w http.ResponseWriter, err error) {
	switch e := err.(type) {
	case *resolve.ValidationError:
		httputil.WriteFieldError(w, e.Field, e.Reason)
	case *render.Error:
		if e.Kind == render.KindClient {
			httputil.WriteBadRequest(w, e.Message)
		} else {
			httputil.WriteInternalError(w, e)
		}
	default:
		httputil.WriteInternalError(w, err)
	}
}

// handleThemes handles GET /themes
func (s *Server) handleThemes(w http.ResponseWriter, r *http.Request) {
	s.reporter.Pageview("/themes", r)
	httputil.WriteSuccess(w, s.engine.Themes())
}

// handleLanguages handles GET /languages
func (s *Server) handleLanguages(w http.ResponseWriter, r *http.Request) {
	s.reporter.Pageview("/languages", r)
	httputil.WriteSuccess(w, s.engine.Languages())
}

// handleFonts handles GET /fonts
func (s *Server) handleFonts(w http.ResponseWriter, r *http.Request) {
	s.reporter.Pageview("/fonts", r)
	httputil.WriteSuccess(w, s.engine.Fonts())
}

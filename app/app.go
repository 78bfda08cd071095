// Package app is the EduVerse HTTP application: the router, its middleware
// chain and the exam coach agent endpoints.
package app

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"eduverse/config"
	"eduverse/examcoach"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Version is reported by the index route
const Version = "1.0.0"

// Server is the application handler
type Server struct {
	router  *mux.Router
	handler http.Handler
	config  *config.Config
	logger  *zap.SugaredLogger
	coach   *examcoach.Coach

	rateLimiters    map[string]*rateLimiterEntry
	rateLimitersMu  sync.Mutex
	limiterTTL      time.Duration
	cleanupInterval time.Duration

	stopCh    chan struct{}
	closeOnce sync.Once
	wg        sync.WaitGroup
}

// RouteInfo describes a registered route
type RouteInfo struct {
	Methods []string `json:"methods"`
	Path    string   `json:"path"`
}

// New builds the application from cfg. It starts one background goroutine
// that prunes idle rate limiters; Close stops it.
func New(cfg *config.Config, logger *zap.Logger) (*Server, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	sugar := logger.Sugar()

	bank, err := loadQuestionBank(cfg)
	if err != nil {
		return nil, err
	}
	coach, err := examcoach.New(bank, examcoach.Options{
		MaxQuestions:     cfg.ExamCoach.MaxQuestions,
		DefaultTimeLimit: cfg.ExamCoach.DefaultTimeLimit,
		CacheSize:        cfg.ExamCoach.CacheSize,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize exam coach: %w", err)
	}

	s := &Server{
		router:          mux.NewRouter(),
		config:          cfg,
		logger:          sugar,
		coach:           coach,
		rateLimiters:    make(map[string]*rateLimiterEntry),
		limiterTTL:      time.Hour,
		cleanupInterval: 10 * time.Minute,
		stopCh:          make(chan struct{}),
	}
	s.setupRoutes()

	s.wg.Add(1)
	go s.cleanupRateLimiters()

	sugar.Infow("Application initialized",
		"subjects", coach.Subjects(),
		"allowed_origins", cfg.API.AllowedOrigins)
	return s, nil
}

// loadQuestionBank returns the configured bank, or the built-in one when
// none is configured. Relative paths are tried against the search paths
// first, then the working directory.
func loadQuestionBank(cfg *config.Config) (*examcoach.Bank, error) {
	path := cfg.ExamCoach.QuestionBank
	if path == "" {
		bank, err := examcoach.DefaultBank()
		if err != nil {
			return nil, fmt.Errorf("failed to load built-in question bank: %w", err)
		}
		return bank, nil
	}

	if !filepath.IsAbs(path) {
		for _, dir := range cfg.SearchPaths {
			candidate := filepath.Join(dir, path)
			if _, err := os.Stat(candidate); err == nil {
				path = candidate
				break
			}
		}
	}

	bank, err := examcoach.LoadBank(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load question bank: %w", err)
	}
	return bank, nil
}

// setupRoutes sets up the routes and the middleware chain
func (s *Server) setupRoutes() {
	s.router.HandleFunc("/", s.index).Methods("GET")
	s.router.HandleFunc("/health", s.healthCheck).Methods("GET")
	s.router.Handle("/metrics", promhttp.Handler()).Methods("GET")

	agents := s.router.PathPrefix("/api/agents/exam-coach").Subrouter()
	agents.HandleFunc("/subjects", s.listSubjects).Methods("GET")
	agents.HandleFunc("/generate", s.generateExam).Methods("POST")
	agents.HandleFunc("/evaluate", s.evaluateExam).Methods("POST")
	agents.HandleFunc("/exams/{id}", s.getExam).Methods("GET")

	s.router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "route not found", nil, nil)
	})
	s.router.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed", nil, nil)
	})

	// The whole chain wraps the router so unmatched requests are counted and
	// limited too, and preflights never reach method matching
	s.handler = s.recoveryMiddleware(
		s.requestIDMiddleware(
			s.loggingMiddleware(
				s.metricsMiddleware(
					s.corsMiddleware(
						s.rateLimitMiddleware(s.router))))))
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

// Routes lists the registered routes sorted by path
func (s *Server) Routes() ([]RouteInfo, error) {
	var routes []RouteInfo
	err := s.router.Walk(func(route *mux.Route, router *mux.Router, ancestors []*mux.Route) error {
		path, err := route.GetPathTemplate()
		if err != nil {
			return nil
		}
		methods, err := route.GetMethods()
		if err != nil {
			// prefix-only routes such as subrouters
			return nil
		}
		routes = append(routes, RouteInfo{Methods: methods, Path: path})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk routes: %w", err)
	}
	sort.Slice(routes, func(i, j int) bool { return routes[i].Path < routes[j].Path })
	return routes, nil
}

// Close stops background work. It is safe to call more than once.
func (s *Server) Close() {
	s.closeOnce.Do(func() {
		close(s.stopCh)
	})
	s.wg.Wait()
}

package web

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"sena-tracker/internal/metrics"
)

// RouterOptions - дополнительные маршруты вне API
type RouterOptions struct {
	Metrics *metrics.Metrics
	// EvidenceDir is served under /evidencias/ when set.
	EvidenceDir string
}

func NewRouter(h *Handler, opts RouterOptions) *mux.Router {
	r := mux.NewRouter()
	r.Use(h.logRequests)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/health", h.Health).Methods(http.MethodGet)
	api.HandleFunc("/login", h.Login).Methods(http.MethodPost)
	api.HandleFunc("/sync", h.Sync).Methods(http.MethodPost)
	api.HandleFunc("/guide-structure", h.GuideStructure).Methods(http.MethodGet)

	api.HandleFunc("/fichas", h.ListFichas).Methods(http.MethodGet)
	api.HandleFunc("/fichas", h.CreateFicha).Methods(http.MethodPost)
	api.HandleFunc("/fichas/{id}", h.GetFicha).Methods(http.MethodGet)
	api.HandleFunc("/fichas/{id}/visibility", h.ToggleVisibility).Methods(http.MethodPost)
	api.HandleFunc("/fichas/{id}/apprentices", h.ReplaceApprentices).Methods(http.MethodPut)
	api.HandleFunc("/fichas/{id}/documents", h.AddDocument).Methods(http.MethodPost)
	api.HandleFunc("/fichas/{id}/attendance", h.SaveAttendance).Methods(http.MethodPost)

	api.HandleFunc("/apprentices/{doc}", h.InspectApprentice).Methods(http.MethodGet)
	api.HandleFunc("/apprentices/{doc}/submissions", h.SaveSubmission).Methods(http.MethodPost)

	api.HandleFunc("/announcements", h.ListAnnouncements).Methods(http.MethodGet)
	api.HandleFunc("/announcements", h.AddAnnouncement).Methods(http.MethodPost)
	api.HandleFunc("/announcements/{id}", h.DeleteAnnouncement).Methods(http.MethodDelete)

	r.Handle("/metrics", opts.Metrics.Handler()).Methods(http.MethodGet)
	if opts.EvidenceDir != "" {
		r.PathPrefix("/evidencias/").Handler(
			http.StripPrefix("/evidencias/", http.FileServer(http.Dir(opts.EvidenceDir))),
		)
	}
	return r
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

func (h *Handler) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		started := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		h.log.Debug("http запрос",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("took", time.Since(started)),
		)
	})
}

// Server - HTTP сервер API
type Server struct {
	srv *http.Server
	log *zap.Logger
}

func NewServer(port string, router http.Handler, log *zap.Logger) *Server {
	return &Server{
		srv: &http.Server{
			Addr:              ":" + port,
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		},
		log: log.With(zap.String("component", "http")),
	}
}

// Start listens in the background; it returns once the goroutine is started.
func (s *Server) Start() {
	go func() {
		s.log.Info("🌐 HTTP сервер запущен", zap.String("addr", s.srv.Addr))
		if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.log.Error("❌ HTTP сервер остановлен с ошибкой", zap.Error(err))
		}
	}()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}

// Package server is the sentix HTTP API: explanations, subtitle generation,
// video uploads, accounts and the per-user vocabulary.
package server

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"sync"
	"time"

	"sentix/internal/config"
	"sentix/internal/db"
	"sentix/internal/logger"
	"sentix/internal/vocab"
	"sentix/services"
)

// Explainer answers a clicked word or sentence.
type Explainer interface {
	ExplainDetailed(ctx context.Context, text string) (services.Explanation, error)
}

// Chatter answers practice chat messages.
type Chatter interface {
	Chat(ctx context.Context, message string) (string, error)
}

// Generator produces subtitles for a stored or remote video.
type Generator interface {
	Generate(ctx context.Context, req services.GenerateRequest, onStatus services.StatusFunc) (string, error)
}

// Publisher hands asynchronous jobs to the worker queue.
type Publisher interface {
	Publish(queue string, body []byte) error
}

// Deps are the collaborators the handlers need. Publisher is optional;
// without it asynchronous jobs run inside the server process.
type Deps struct {
	DB        *sql.DB
	Explainer Explainer
	Chat      Chatter
	Generator Generator
	Publisher Publisher
	UploadDir string
}

// Server owns the handlers and the state shared between them.
type Server struct {
	sessions *SessionStore
	jobs     *JobTable
	auth     *AuthHandler
	explain  *ExplainHandler
	generate *GenerateHandler
	uploads  *UploadHandler
	vocab    *VocabHandler
	log      *logger.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func New(d Deps) *Server {
	ctx, cancel := context.WithCancel(context.Background())
	s := &Server{
		sessions: NewSessionStore(),
		jobs:     NewJobTable(),
		log:      logger.Named("server"),
		ctx:      ctx,
		cancel:   cancel,
	}
	s.auth = NewAuthHandler(db.New(d.DB), s.sessions)
	s.explain = NewExplainHandler(d.Explainer, d.Chat)
	s.generate = NewGenerateHandler(d.Generator, d.Publisher, s.jobs, s.background)
	s.uploads = NewUploadHandler(d.UploadDir)
	s.vocab = NewVocabHandler(vocab.NewSQLiteStore(d.DB))
	return s
}

// Jobs exposes the job table so queue results can be applied.
func (s *Server) Jobs() *JobTable {
	return s.jobs
}

// Handler returns the routed API.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	mux.HandleFunc("POST /api/register", s.auth.Register)
	mux.HandleFunc("POST /api/login", s.auth.Login)
	mux.HandleFunc("POST /api/logout", s.auth.Logout)
	mux.HandleFunc("GET /api/me", RequireAuth(s.auth.Me))

	mux.HandleFunc("POST /api/explain", s.explain.Explain)
	mux.HandleFunc("POST /api/chat", s.explain.Chat)

	mux.HandleFunc("POST /api/generate-subtitles", s.generate.Generate)
	mux.HandleFunc("GET /api/jobs/{id}", s.generate.Job)

	mux.HandleFunc("POST /api/upload", s.uploads.Upload)
	mux.HandleFunc("POST /api/upload/from-url", s.uploads.FromURL)
	mux.HandleFunc("GET /api/uploads", s.uploads.List)
	mux.HandleFunc("DELETE /api/uploads/{name}", s.uploads.Delete)
	mux.Handle("GET /uploads/", http.StripPrefix("/uploads/", s.uploads.FileServer()))

	mux.HandleFunc("GET /api/vocab", RequireAuth(s.vocab.List))
	mux.HandleFunc("POST /api/vocab", RequireAuth(s.vocab.Add))
	mux.HandleFunc("DELETE /api/vocab/{id}", RequireAuth(s.vocab.Delete))

	return s.logRequests(s.sessions.AuthMiddleware(mux))
}

// Run serves addr until ctx is cancelled, then drains connections and
// in-process jobs.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go s.housekeeping(ctx)

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("🚀 Listening on %s", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		s.Close()
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	err := srv.Shutdown(shutdownCtx)
	s.Close()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Close cancels in-process jobs and waits for them to finish.
func (s *Server) Close() {
	s.cancel()
	s.wg.Wait()
}

// background runs fn on the server's lifetime context.
func (s *Server) background(fn func(ctx context.Context)) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		fn(s.ctx)
	}()
}

func (s *Server) housekeeping(ctx context.Context) {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if n := s.sessions.Prune(); n > 0 {
				s.log.Debug("pruned %d expired sessions", n)
			}
			if n := s.jobs.Prune(now); n > 0 {
				s.log.Debug("pruned %d finished jobs", n)
			}
		}
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.log.Debug("%s %s → %d (%s)", r.Method, r.URL.Path, rec.status, time.Since(start).Round(time.Millisecond))
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// decodeJSON reads a bounded JSON body into v.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, config.MaxJSONBody)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "Invalid JSON body")
		return false
	}
	return true
}

package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"meetcheck/internal/logging"
	"meetcheck/internal/readiness"
	"meetcheck/internal/speaker"
)

// Widget is the readiness surface the server exposes.
type Widget interface {
	Snapshot() readiness.Snapshot
	PressSpeaker() speaker.State
}

// Server serves the readiness status API.
type Server struct {
	bind      string
	sessionID string
	logger    *slog.Logger
	widget    Widget

	mu       sync.Mutex
	listener net.Listener
	server   *http.Server
	done     chan struct{}
}

// NewServer returns nil when bind is empty.
func NewServer(bind, sessionID string, widget Widget, logger *slog.Logger) *Server {
	bind = strings.TrimSpace(bind)
	if bind == "" || widget == nil {
		return nil
	}
	s := &Server{
		bind:      bind,
		sessionID: sessionID,
		logger:    logging.NewComponentLogger(logger, "api-server"),
		widget:    widget,
	}
	s.server = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return s
}

// Handler builds the route tree.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.Recoverer)
	r.Use(chimw.RequestID)
	r.Use(s.requestLogger)

	r.Get("/healthz", s.handleHealth)
	r.Route("/api", func(r chi.Router) {
		r.Get("/status", s.handleStatus)
		r.Post("/speaker/toggle", s.handleSpeakerToggle)
	})
	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		s.writeError(w, http.StatusNotFound, "not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	})
	return r
}

// Start listens on the bind address and serves until ctx ends or Stop.
func (s *Server) Start(ctx context.Context) error {
	if s == nil {
		return nil
	}
	listener, err := net.Listen("tcp", s.bind)
	if err != nil {
		return fmt.Errorf("api listen: %w", err)
	}
	done := make(chan struct{})
	s.mu.Lock()
	s.listener = listener
	s.done = done
	s.mu.Unlock()

	go func() {
		defer close(done)
		if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("api server error", logging.Error(err))
		}
	}()
	go func() {
		select {
		case <-ctx.Done():
			s.Stop()
		case <-done:
		}
	}()

	s.logger.Info("api server listening", logging.String("address", listener.Addr().String()))
	return nil
}

// Addr returns the bound address once started.
func (s *Server) Addr() string {
	if s == nil {
		return ""
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return s.bind
	}
	return s.listener.Addr().String()
}

// Stop shuts the server down and waits for the serve loop to exit.
func (s *Server) Stop() {
	if s == nil {
		return
	}
	s.mu.Lock()
	done := s.done
	s.mu.Unlock()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = s.server.Shutdown(shutdownCtx)
	if done != nil {
		<-done
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
}

func (s *Server) handleStatus(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, FromSnapshot(s.widget.Snapshot(), s.sessionID))
}

func (s *Server) handleSpeakerToggle(w http.ResponseWriter, _ *http.Request) {
	state := s.widget.PressSpeaker()
	if state == speaker.StateReleased || state == readiness.SpeakerNotMounted {
		s.writeError(w, http.StatusConflict, "readiness widget is not mounted")
		return
	}
	s.writeJSON(w, http.StatusOK, FromPlayback(state))
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("api request",
			logging.String("method", r.Method),
			logging.String("path", r.URL.Path),
			logging.Int("status", ww.Status()),
			logging.Duration("duration", time.Since(start)),
			logging.String("request_id", chimw.GetReqID(r.Context())),
		)
	})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error("failed to encode response", logging.Error(err))
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]string{"error": message})
}

package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"log/slog"

	"github.com/google/uuid"

	"atelier/internal/api"
	"atelier/internal/config"
	"atelier/internal/dutch"
	"atelier/internal/logging"
	"atelier/internal/services"
	"atelier/internal/store"
)

// Server is the HTTP front of the daemon.
type Server struct {
	bind   string
	cfg    *config.Config
	logger *slog.Logger
	svc    *api.Service
	status StatusFunc

	listener net.Listener
	server   *http.Server
}

// StatusFunc supplies the payload for GET /api/status.
type StatusFunc func(ctx context.Context) any

// New constructs the server around a store-backed service.
func New(cfg *config.Config, st store.Store, logger *slog.Logger, status StatusFunc) (*Server, error) {
	if cfg == nil || st == nil {
		return nil, errors.New("server requires config and store")
	}
	bind := strings.TrimSpace(cfg.Paths.APIBind)
	if bind == "" {
		return nil, errors.New("api bind address is empty")
	}

	srv := &Server{
		bind:   bind,
		cfg:    cfg,
		logger: logger,
		svc:    api.NewService(st),
		status: status,
	}

	mux := http.NewServeMux()
	srv.routes(mux)
	srv.server = &http.Server{
		Handler:           srv.withRequestID(srv.withRecovery(mux)),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return srv, nil
}

func (s *Server) routes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/status", s.handleStatus)

	mux.HandleFunc("GET /api/children", s.handleListChildren)
	mux.HandleFunc("POST /api/children", s.handleCreateChild)
	mux.HandleFunc("GET /api/children/{id}", s.handleGetChild)
	mux.HandleFunc("GET /api/children/{id}/observations", s.handleChildObservations)

	mux.HandleFunc("GET /api/workshops", s.handleListWorkshops)
	mux.HandleFunc("POST /api/workshops", s.handleCreateWorkshop)
	mux.HandleFunc("GET /api/workshops/{id}", s.handleGetWorkshop)
	mux.HandleFunc("PATCH /api/workshops/{id}", s.handlePatchWorkshop)

	mux.HandleFunc("GET /api/sessions", s.handleListSessions)
	mux.HandleFunc("POST /api/sessions", s.handleCreateSession)
	mux.HandleFunc("GET /api/sessions/{id}", s.handleGetSession)
	mux.HandleFunc("GET /api/sessions/{id}/recordings", s.handleSessionRecordings)

	mux.HandleFunc("GET /api/observations", s.handleListObservations)
	mux.HandleFunc("POST /api/observations", s.handleCreateObservation)
	mux.HandleFunc("GET /api/observations/{id}", s.handleGetObservation)

	mux.HandleFunc("GET /api/recordings", s.handleListRecordings)
	mux.HandleFunc("POST /api/recordings", s.handleCreateRecording)
	mux.HandleFunc("POST /api/recordings/upload", s.handleUpload)
	mux.HandleFunc("GET /api/recordings/{id}", s.handleGetRecording)
	mux.HandleFunc("PATCH /api/recordings/{id}", s.handlePatchRecording)
	mux.HandleFunc("GET /api/recordings/{id}/moments", s.handleRecordingMoments)

	mux.HandleFunc("GET /api/moments", s.handleListMoments)
	mux.HandleFunc("POST /api/moments", s.handleCreateMoment)
	mux.HandleFunc("GET /api/moments/{id}", s.handleGetMoment)
	mux.HandleFunc("PATCH /api/moments/{id}", s.handlePatchMoment)

	mux.Handle("GET /uploads/", http.StripPrefix("/uploads/",
		http.FileServer(http.Dir(s.cfg.Paths.UploadDir))))
}

// Start binds the listener and serves until ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.bind)
	if err != nil {
		return fmt.Errorf("api listen: %w", err)
	}
	s.listener = listener

	go func() {
		if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log().Error("api server error", logging.Error(err))
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.server.Shutdown(shutdownCtx)
	}()

	s.log().Info("api server listening", logging.String("address", listener.Addr().String()))
	return nil
}

// Stop shuts the server down gracefully.
func (s *Server) Stop() {
	if s == nil {
		return
	}
	if s.server != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.server.Shutdown(shutdownCtx)
	}
	if s.listener != nil {
		_ = s.listener.Close()
		s.listener = nil
	}
}

// Addr returns the bound address, or empty before Start.
func (s *Server) Addr() string {
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Handler exposes the full middleware-wrapped handler for tests.
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

func (s *Server) withRecovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				s.log().Error("handler panic",
					logging.String("path", r.URL.Path),
					logging.Any("panic", rec))
				s.writeKind(w, http.StatusInternalServerError, dutch.KindInternal)
			}
		}()
		next.ServeHTTP(w, r)
	})
}

func (s *Server) withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := strings.TrimSpace(r.Header.Get("X-Request-ID"))
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", requestID)
		next.ServeHTTP(w, r.WithContext(services.WithRequestID(r.Context(), requestID)))
	})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.log().Error("failed to encode response", logging.Error(err))
	}
}

func (s *Server) writeKind(w http.ResponseWriter, status int, kind dutch.Kind) {
	s.writeJSON(w, status, map[string]string{"message": dutch.Message(kind)})
}

// writeServiceError maps a classified error onto an HTTP status and the Dutch
// message for the entity at hand.
func (s *Server) writeServiceError(w http.ResponseWriter, err error, notFound dutch.Kind) {
	status := services.HTTPStatus(err)
	switch {
	case errors.Is(err, services.ErrValidation):
		s.writeKind(w, status, dutch.KindInvalidPayload)
	case errors.Is(err, services.ErrNotFound):
		s.writeKind(w, status, notFound)
	case errors.Is(err, services.ErrUnsupportedMedia):
		s.writeKind(w, status, dutch.KindBadMediaType)
	case errors.Is(err, services.ErrUpload):
		s.writeKind(w, status, dutch.KindUploadFailed)
	default:
		s.log().Error("request failed", logging.Error(err))
		s.writeKind(w, status, dutch.KindInternal)
	}
}

func (s *Server) log() *slog.Logger {
	if s.logger != nil {
		return s.logger.With(logging.String(logging.FieldComponent, "api-server"))
	}
	return logging.NewNop()
}

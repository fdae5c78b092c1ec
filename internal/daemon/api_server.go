package daemon

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
	"github.com/go-chi/chi/v5/middleware"

	"slacknotifier/internal/api"
	"slacknotifier/internal/build"
	"slacknotifier/internal/config"
	"slacknotifier/internal/logging"
	"slacknotifier/internal/notifier"
	"slacknotifier/internal/services"
)

const maxBodyBytes = 1 << 20

type apiServer struct {
	bind   string
	logger *slog.Logger
	daemon *Daemon
	router chi.Router

	mu       sync.Mutex
	listener net.Listener
	server   *http.Server
}

func newAPIServer(cfg *config.Config, d *Daemon, logger *slog.Logger) (*apiServer, error) {
	if cfg == nil || d == nil {
		return nil, errors.New("api server requires config and daemon")
	}
	bind := strings.TrimSpace(cfg.Paths.APIBind)
	if bind == "" {
		return nil, errors.New("paths.api_bind must be set")
	}

	srv := &apiServer{
		bind:   bind,
		logger: logging.NewComponentLogger(logger, "api-server"),
		daemon: d,
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/healthz", srv.handleHealth)
	r.Handle("/metrics", d.metrics.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Use(authMiddleware(cfg.Paths.APIToken))
		r.Get("/status", srv.handleStatus)
		r.Post("/builds/started", srv.handleBuildStarted)
		r.Post("/builds/finished", srv.handleBuildFinished)
		r.Get("/projects", srv.handleListProjects)
		r.Route("/projects/{projectID}/settings", func(r chi.Router) {
			r.Get("/", srv.handleGetProject)
			r.Put("/", srv.handlePutProject)
			r.Delete("/", srv.handleDeleteProject)
		})
	})

	srv.router = r
	srv.server = &http.Server{
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return srv, nil
}

func (s *apiServer) start(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.bind)
	if err != nil {
		return fmt.Errorf("api listen: %w", err)
	}
	s.mu.Lock()
	s.listener = listener
	s.mu.Unlock()

	go func() {
		if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("api server error", logging.Error(err))
		}
	}()

	go func() {
		<-ctx.Done()
		s.stop()
	}()

	s.logger.Info("api server listening", logging.String("address", listener.Addr().String()))
	return nil
}

func (s *apiServer) stop() {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = s.server.Shutdown(shutdownCtx)
}

func (s *apiServer) address() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

func (s *apiServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.daemon.store.Ping(r.Context()); err != nil {
		s.writeError(w, http.StatusServiceUnavailable, err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *apiServer) handleStatus(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.daemon.Status())
}

func (s *apiServer) handleBuildStarted(w http.ResponseWriter, r *http.Request) {
	b, ok := s.decodeBuild(w, r)
	if !ok {
		return
	}
	s.daemon.dispatcher.Started(eventContext(r), b)
	s.writeJSON(w, http.StatusAccepted, api.EventResponse{Event: string(notifier.EventStarted), Accepted: true})
}

func (s *apiServer) handleBuildFinished(w http.ResponseWriter, r *http.Request) {
	b, ok := s.decodeBuild(w, r)
	if !ok {
		return
	}
	event, routed := s.daemon.dispatcher.Finished(eventContext(r), b)
	if !routed {
		s.writeJSON(w, http.StatusOK, api.EventResponse{
			Accepted: false,
			Ignored:  fmt.Sprintf("status %q is neither success nor failed", b.Status),
		})
		return
	}
	s.writeJSON(w, http.StatusAccepted, api.EventResponse{Event: string(event), Accepted: true})
}

func (s *apiServer) handleListProjects(w http.ResponseWriter, r *http.Request) {
	projects, err := s.daemon.store.List(r.Context())
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, api.ProjectListResponse{Projects: api.FromProjects(projects)})
}

func (s *apiServer) handleGetProject(w http.ResponseWriter, r *http.Request) {
	projectID := chi.URLParam(r, "projectID")
	project, err := s.daemon.store.Get(r.Context(), projectID)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	if project == nil {
		s.writeError(w, http.StatusNotFound, "no settings stored for project")
		return
	}
	s.writeJSON(w, http.StatusOK, api.FromProject(*project))
}

func (s *apiServer) handlePutProject(w http.ResponseWriter, r *http.Request) {
	var dto api.ProjectSettings
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&dto); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid project settings: "+err.Error())
		return
	}
	project, err := dto.ToProject(chi.URLParam(r, "projectID"))
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	saved, err := s.daemon.store.Put(r.Context(), project)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.logger.Info("project settings updated", logging.String(logging.FieldProjectID, saved.ProjectID))
	s.writeJSON(w, http.StatusOK, api.FromProject(*saved))
}

func (s *apiServer) handleDeleteProject(w http.ResponseWriter, r *http.Request) {
	projectID := chi.URLParam(r, "projectID")
	removed, err := s.daemon.store.Delete(r.Context(), projectID)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	if !removed {
		s.writeError(w, http.StatusNotFound, "no settings stored for project")
		return
	}
	s.logger.Info("project settings cleared", logging.String(logging.FieldProjectID, projectID))
	w.WriteHeader(http.StatusNoContent)
}

func (s *apiServer) decodeBuild(w http.ResponseWriter, r *http.Request) (build.Build, bool) {
	var b build.Build
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&b); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid build document: "+err.Error())
		return build.Build{}, false
	}
	if err := b.Validate(); err != nil {
		s.writeServiceError(w, err)
		return build.Build{}, false
	}
	return b, true
}

// eventContext detaches event handling from the client connection so a
// disconnecting build server does not abort an in-flight webhook post. A
// caller-supplied X-Request-Id becomes the notification's correlation id.
func eventContext(r *http.Request) context.Context {
	ctx := context.WithoutCancel(r.Context())
	if id := strings.TrimSpace(r.Header.Get(middleware.RequestIDHeader)); id != "" {
		ctx = services.WithRequestID(ctx, id)
	}
	return ctx
}

func (s *apiServer) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error("failed to encode response", logging.Error(err))
	}
}

func (s *apiServer) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, api.ErrorResponse{Error: message})
}

func (s *apiServer) writeServiceError(w http.ResponseWriter, err error) {
	status := services.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("api request failed", logging.Error(err))
	}
	s.writeError(w, status, err.Error())
}

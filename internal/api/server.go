// Package api exposes the HTTP surface: workflow CRUD, execution
// endpoints, webhook ingress and the template catalog.
package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sort"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/weftworks/weft/internal/engine"
	"github.com/weftworks/weft/internal/repository"
)

type Server struct {
	engine     *engine.Engine
	workflows  repository.WorkflowRepository
	executions repository.ExecutionRepository

	// scheduleSync, when set, runs after every workflow mutation so
	// cron entries track the stored graphs.
	scheduleSync func(ctx context.Context) error
}

// SetScheduleSync configures the scheduler reconciliation hook.
func (s *Server) SetScheduleSync(sync func(ctx context.Context) error) {
	s.scheduleSync = sync
}

func (s *Server) syncSchedules(ctx context.Context) {
	if s.scheduleSync == nil {
		return
	}
	if err := s.scheduleSync(ctx); err != nil {
		slog.Warn("schedule sync failed", "err", err)
	}
}

func NewServer(eng *engine.Engine, workflows repository.WorkflowRepository, executions repository.ExecutionRepository) *Server {
	return &Server{
		engine:     eng,
		workflows:  workflows,
		executions: executions,
	}
}

func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE"},
		AllowedHeaders:   []string{"Content-Type"},
		AllowCredentials: true,
	}))
	r.Route("/api", func(r chi.Router) {
		r.Route("/workflows", func(r chi.Router) {
			r.Post("/", s.createWorkflow)
			r.Get("/", s.listWorkflows)
			r.Get("/{id}", s.getWorkflow)
			r.Put("/{id}", s.updateWorkflow)
			r.Delete("/{id}", s.deleteWorkflow)
			r.Post("/{id}/execute", s.executeWorkflow)
			r.Get("/{id}/executions", s.listExecutions)
		})
		r.Get("/executions/{id}", s.getExecution)
		r.Get("/templates", s.listTemplates)
		r.Get("/node-types", s.listNodeTypes)
		r.Post("/webhooks/{id}", s.handleWebhook)
	})

	return r
}

// listNodeTypes returns every node type the engine can execute.
func (s *Server) listNodeTypes(w http.ResponseWriter, r *http.Request) {
	types := s.engine.Registry().Types()
	sort.Strings(types)
	writeJSON(w, http.StatusOK, map[string]any{"types": types})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

package httpserver

import (
	"errors"
	"net/http"

	taskerrors "relish/contexts/crm/task-service/domain/errors"
	tasktransport "relish/contexts/crm/task-service/transport/http"
	"relish/internal/platform/httpserver/middleware"
)

func (s *Server) registerTaskRoutes() {
	s.protect("POST /api/tasks", func(w http.ResponseWriter, r *http.Request, _ middleware.Identity) error {
		var req tasktransport.CreateTaskRequest
		if err := decodeJSON(r, &req); err != nil {
			writeBadRequest(w, "malformed task payload")
			return nil
		}
		resp, err := s.modules.Tasks.Handler.CreateTaskHandler(r.Context(), req)
		if err != nil {
			return s.taskError(w, err)
		}
		writeJSON(w, http.StatusCreated, resp)
		return nil
	})

	// Default listing is the caller's own queue; managers pass ?assignee=.
	s.protect("GET /api/tasks", func(w http.ResponseWriter, r *http.Request, identity middleware.Identity) error {
		assignee := r.URL.Query().Get("assignee")
		if assignee == "" {
			assignee = identity.UserID
		}
		resp, err := s.modules.Tasks.Handler.ListTasksByAssigneeHandler(r.Context(), assignee, r.URL.Query().Get("status"), queryBool(r, "overdue"))
		if err != nil {
			return s.taskError(w, err)
		}
		writeJSON(w, http.StatusOK, resp)
		return nil
	})

	s.protect("GET /api/tasks/{id}", func(w http.ResponseWriter, r *http.Request, _ middleware.Identity) error {
		resp, err := s.modules.Tasks.Handler.GetTaskHandler(r.Context(), r.PathValue("id"))
		if err != nil {
			return s.taskError(w, err)
		}
		writeJSON(w, http.StatusOK, resp)
		return nil
	})

	s.protect("PUT /api/tasks/{id}", func(w http.ResponseWriter, r *http.Request, _ middleware.Identity) error {
		var req tasktransport.UpdateTaskRequest
		if err := decodeJSON(r, &req); err != nil {
			writeBadRequest(w, "malformed task payload")
			return nil
		}
		resp, err := s.modules.Tasks.Handler.UpdateTaskHandler(r.Context(), r.PathValue("id"), req)
		if err != nil {
			return s.taskError(w, err)
		}
		writeJSON(w, http.StatusOK, resp)
		return nil
	})

	s.protect("POST /api/tasks/{id}/complete", func(w http.ResponseWriter, r *http.Request, _ middleware.Identity) error {
		resp, err := s.modules.Tasks.Handler.CompleteTaskHandler(r.Context(), r.PathValue("id"))
		if err != nil {
			return s.taskError(w, err)
		}
		writeJSON(w, http.StatusOK, resp)
		return nil
	})

	s.protect("POST /api/tasks/{id}/cancel", func(w http.ResponseWriter, r *http.Request, _ middleware.Identity) error {
		resp, err := s.modules.Tasks.Handler.CancelTaskHandler(r.Context(), r.PathValue("id"))
		if err != nil {
			return s.taskError(w, err)
		}
		writeJSON(w, http.StatusOK, resp)
		return nil
	})

	s.protect("DELETE /api/tasks/{id}", func(w http.ResponseWriter, r *http.Request, _ middleware.Identity) error {
		if err := s.modules.Tasks.Handler.DeleteTaskHandler(r.Context(), r.PathValue("id")); err != nil {
			return s.taskError(w, err)
		}
		w.WriteHeader(http.StatusNoContent)
		return nil
	})
}

func (s *Server) taskError(w http.ResponseWriter, err error) error {
	switch {
	case errors.Is(err, taskerrors.ErrTaskNotFound):
		writeError(w, http.StatusNotFound, "not_found", "task not found")
	case errors.Is(err, taskerrors.ErrInvalidTask):
		writeBadRequest(w, "invalid task input")
	case errors.Is(err, taskerrors.ErrTaskNotOpen):
		writeError(w, http.StatusConflict, "task_not_open", "task is already closed")
	default:
		return err
	}
	return nil
}

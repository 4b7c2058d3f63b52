// internal/handler/task_handler.go
package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	appErrors "github.com/rikulab/recruit-notify/internal/errors"
	"github.com/rikulab/recruit-notify/internal/repository"
	"github.com/rikulab/recruit-notify/internal/service"
)

// TaskHandler serves the read side: task detail and delivery history.
type TaskHandler struct {
	TaskService *service.TaskService
	HistoryRepo repository.HistoryRepositoryInterface
}

// GetTaskHandler returns one task by ID.
func (h *TaskHandler) GetTaskHandler(w http.ResponseWriter, r *http.Request) {
	uid := r.URL.Query().Get("uid")
	if uid == "" {
		http.Error(w, "uid query parameter is required", http.StatusBadRequest)
		return
	}
	taskID := chi.URLParam(r, "id")

	task, err := h.TaskService.GetTask(r.Context(), uid, taskID)
	if err != nil {
		var notFound *appErrors.ErrTaskNotFound
		if errors.As(err, &notFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		http.Error(w, "failed to fetch task: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(task)
}

// ListHistoryHandler returns the tenant's delivery history.
func (h *TaskHandler) ListHistoryHandler(w http.ResponseWriter, r *http.Request) {
	uid := r.URL.Query().Get("uid")
	if uid == "" {
		http.Error(w, "uid query parameter is required", http.StatusBadRequest)
		return
	}

	records, err := h.HistoryRepo.List(r.Context(), uid)
	if err != nil {
		http.Error(w, "failed to fetch history: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"data":  records,
		"count": len(records),
	})
}

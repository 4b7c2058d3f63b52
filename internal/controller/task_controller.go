// internal/controller/task_controller.go
package controller

import (
	"encoding/json"
	"net/http"

	"github.com/rikulab/recruit-notify/internal/model"
	"github.com/rikulab/recruit-notify/internal/service"
)

type TaskController struct {
	TaskService    *service.TaskService
	PreviewService *service.PreviewService
}

func (c *TaskController) CreateTask(w http.ResponseWriter, r *http.Request) {
	var body struct {
		UID             string            `json:"uid"`
		TaskType        string            `json:"taskType"`
		To              string            `json:"to"`
		Template        string            `json:"template"`
		Subject         string            `json:"subject"`
		NextRun         int64             `json:"nextRun"`
		ScheduledTime   string            `json:"scheduledTime"`
		SegmentID       string            `json:"segmentId"`
		OuboNo          string            `json:"ouboNo"`
		ApplicantDetail map[string]string `json:"applicantDetail"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}

	task := &model.ScheduledTask{
		UID:             body.UID,
		TaskType:        body.TaskType,
		To:              body.To,
		Template:        body.Template,
		Subject:         body.Subject,
		NextRun:         body.NextRun,
		ScheduledTime:   body.ScheduledTime,
		SegmentID:       body.SegmentID,
		OuboNo:          body.OuboNo,
		ApplicantDetail: body.ApplicantDetail,
	}

	created, err := c.TaskService.CreateTask(r.Context(), task)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(created)
}

func (c *TaskController) ListTasks(w http.ResponseWriter, r *http.Request) {
	uid := r.URL.Query().Get("uid")
	if uid == "" {
		http.Error(w, "uid query parameter is required", http.StatusBadRequest)
		return
	}
	status := r.URL.Query().Get("status")

	tasks, err := c.TaskService.ListTasks(r.Context(), uid, status)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"data":  tasks,
		"count": len(tasks),
	})
}

// PreviewMail renders a composed mail without sending it.
func (c *TaskController) PreviewMail(w http.ResponseWriter, r *http.Request) {
	var body struct {
		UID       string            `json:"uid"`
		Target    bool              `json:"target"`
		SegmentID string            `json:"segment_id"`
		Detail    map[string]string `json:"detail"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}
	if body.UID == "" {
		http.Error(w, "uid is required", http.StatusBadRequest)
		return
	}

	preview, err := c.PreviewService.PreviewMail(r.Context(), body.UID, body.Target, body.SegmentID, body.Detail)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(preview)
}

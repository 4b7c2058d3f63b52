// internal/service/task_service.go
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	appErrors "github.com/rikulab/recruit-notify/internal/errors"
	"github.com/rikulab/recruit-notify/internal/model"
	"github.com/rikulab/recruit-notify/internal/queue"
	"github.com/rikulab/recruit-notify/internal/repository"
)

// TaskService is the write side of the task API: create and inspect
// scheduled tasks. The dispatcher, not this service, executes them.
type TaskService struct {
	TaskRepo repository.TaskRepositoryInterface
	Queue    queue.Queue
}

// CreateTask validates and stores a new pending task. Tasks already due at
// creation publish a nudge so the dispatcher does not wait out a full poll
// interval.
func (s *TaskService) CreateTask(ctx context.Context, t *model.ScheduledTask) (*model.ScheduledTask, error) {
	if t.UID == "" {
		return nil, fmt.Errorf("uid is required")
	}
	switch t.TaskType {
	case model.TaskTypeSMS, model.TaskTypeMail:
	default:
		return nil, fmt.Errorf("unknown task type: %s", t.TaskType)
	}
	if t.To == "" {
		return nil, fmt.Errorf("recipient is required")
	}
	if t.NextRun <= 0 {
		return nil, fmt.Errorf("nextRun is required")
	}
	t.Status = model.StatusPending

	if err := s.TaskRepo.Create(ctx, t); err != nil {
		return nil, err
	}

	if s.Queue != nil && t.NextRun <= time.Now().UnixMilli() {
		payload, err := json.Marshal(map[string]string{"uid": t.UID})
		if err != nil {
			log.Println("failed to encode task nudge:", err)
		} else if err := s.Queue.Publish(queue.TopicTaskCreated, payload); err != nil {
			log.Println("failed to publish task nudge:", err)
		}
	}

	return t, nil
}

// ListTasks returns the tenant's tasks with an optional status filter.
func (s *TaskService) ListTasks(ctx context.Context, uid, status string) ([]*model.ScheduledTask, error) {
	return s.TaskRepo.ListTasks(ctx, uid, status)
}

// GetTask fetches one task or ErrTaskNotFound.
func (s *TaskService) GetTask(ctx context.Context, uid, taskID string) (*model.ScheduledTask, error) {
	t, err := s.TaskRepo.GetByID(ctx, uid, taskID)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, appErrors.NewTaskNotFound(taskID)
	}
	return t, nil
}

package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/rikulab/recruit-notify/internal/firestore"
	"github.com/rikulab/recruit-notify/internal/model"
)

type TaskRepositoryInterface interface {
	ListDueTasks(ctx context.Context, uid string, now time.Time) ([]*model.ScheduledTask, error)
	ListTasks(ctx context.Context, uid, status string) ([]*model.ScheduledTask, error)
	GetByID(ctx context.Context, uid, taskID string) (*model.ScheduledTask, error)
	Create(ctx context.Context, t *model.ScheduledTask) error
	UpdateStatus(ctx context.Context, uid, taskID, status, errorMsg string) error
}

// TaskRepository reads and patches scheduled tasks under
// accounts/{uid}/scheduled_tasks.
type TaskRepository struct {
	Client *firestore.Client
}

func tasksPath(uid string) string {
	return fmt.Sprintf("accounts/%s/scheduled_tasks", uid)
}

func decodeTask(doc firestore.Document) *model.ScheduledTask {
	f := doc.Fields
	t := &model.ScheduledTask{
		ID:              doc.ID(),
		UID:             f.Str("uid"),
		TaskType:        f.Str("taskType"),
		Status:          f.Str("status"),
		ScheduledTime:   f.Str("scheduledTime"),
		NextRun:         f.Int("nextRun"),
		To:              f.Str("to"),
		Template:        f.Str("template"),
		SegmentID:       f.Str("segmentId"),
		OuboNo:          f.Str("ouboNo"),
		ApplicantDetail: f.StringMap("applicantDetail"),
		UpdatedAt:       f.Int("updatedAt"),
		CompletedAt:     f.Int("completedAt"),
		ErrorMsg:        f.Str("errorMsg"),
	}
	if t.TaskType == model.TaskTypeMail {
		t.Subject = f.Str("subject")
	}
	return t
}

func encodeTask(t *model.ScheduledTask) map[string]firestore.Value {
	fields := map[string]firestore.Value{
		"uid":             firestore.String(t.UID),
		"taskType":        firestore.String(t.TaskType),
		"status":          firestore.String(t.Status),
		"scheduledTime":   firestore.String(t.ScheduledTime),
		"nextRun":         firestore.Integer(t.NextRun),
		"to":              firestore.String(t.To),
		"template":        firestore.String(t.Template),
		"segmentId":       firestore.String(t.SegmentID),
		"ouboNo":          firestore.String(t.OuboNo),
		"applicantDetail": firestore.StringMapValue(t.ApplicantDetail),
	}
	if t.TaskType == model.TaskTypeMail {
		fields["subject"] = firestore.String(t.Subject)
	}
	return fields
}

// ListDueTasks returns tasks with status=pending and nextRun<=now for the
// tenant. Filtering happens client-side over the collection listing.
func (r *TaskRepository) ListDueTasks(ctx context.Context, uid string, now time.Time) ([]*model.ScheduledTask, error) {
	docs, err := r.Client.ListDocuments(ctx, tasksPath(uid))
	if err != nil {
		return nil, err
	}

	nowMs := now.UnixMilli()
	tasks := []*model.ScheduledTask{}
	for _, doc := range docs {
		t := decodeTask(doc)
		if t.Due(nowMs) {
			tasks = append(tasks, t)
		}
	}
	return tasks, nil
}

// ListTasks returns all tasks for the tenant, optionally filtered by status.
func (r *TaskRepository) ListTasks(ctx context.Context, uid, status string) ([]*model.ScheduledTask, error) {
	docs, err := r.Client.ListDocuments(ctx, tasksPath(uid))
	if err != nil {
		return nil, err
	}

	tasks := []*model.ScheduledTask{}
	for _, doc := range docs {
		t := decodeTask(doc)
		if status != "" && t.Status != status {
			continue
		}
		tasks = append(tasks, t)
	}
	return tasks, nil
}

// GetByID fetches one task. Returns (nil, nil) when it does not exist.
func (r *TaskRepository) GetByID(ctx context.Context, uid, taskID string) (*model.ScheduledTask, error) {
	doc, err := r.Client.GetDocument(ctx, tasksPath(uid)+"/"+taskID)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, nil
	}
	t := decodeTask(*doc)
	return t, nil
}

// Create stores a new pending task. When t.ID is empty the store assigns
// the document id and it is written back to t.
func (r *TaskRepository) Create(ctx context.Context, t *model.ScheduledTask) error {
	if t.Status == "" {
		t.Status = model.StatusPending
	}
	doc, err := r.Client.CreateDocument(ctx, tasksPath(t.UID), t.ID, encodeTask(t))
	if err != nil {
		return err
	}
	if doc != nil {
		t.ID = doc.ID()
	}
	return nil
}

// UpdateStatus patches status and updatedAt, plus completedAt on success or
// errorMsg on failure. The field mask keeps everything else untouched.
func (r *TaskRepository) UpdateStatus(ctx context.Context, uid, taskID, status, errorMsg string) error {
	nowMs := time.Now().UnixMilli()
	fields := map[string]firestore.Value{
		"status":    firestore.String(status),
		"updatedAt": firestore.Integer(nowMs),
	}
	if status == model.StatusCompleted {
		fields["completedAt"] = firestore.Integer(nowMs)
	} else if status == model.StatusFailed && errorMsg != "" {
		fields["errorMsg"] = firestore.String(errorMsg)
	}

	mask := make([]string, 0, len(fields))
	for k := range fields {
		mask = append(mask, k)
	}
	return r.Client.PatchDocument(ctx, tasksPath(uid)+"/"+taskID, fields, mask)
}

var _ TaskRepositoryInterface = (*TaskRepository)(nil)

package service_test

import (
	"context"
	"sync"
	"time"

	"github.com/rikulab/recruit-notify/internal/model"
)

// Shared fakes for the service tests.

type fakeSettingsRepo struct {
	api        model.ApiSettings
	apiErr     error
	mail       model.MailSettings
	mailErr    error
	target     model.TargetSettings
	segments   []model.TargetSegment
	segmentErr error
}

func (f *fakeSettingsRepo) GetApiSettings(ctx context.Context, uid string) (model.ApiSettings, error) {
	return f.api, f.apiErr
}

func (f *fakeSettingsRepo) GetMailSettings(ctx context.Context, uid string) (model.MailSettings, error) {
	return f.mail, f.mailErr
}

func (f *fakeSettingsRepo) GetTargetSettings(ctx context.Context, uid string) (model.TargetSettings, error) {
	return f.target, nil
}

func (f *fakeSettingsRepo) ListTargetSegments(ctx context.Context, uid string) ([]model.TargetSegment, error) {
	return f.segments, f.segmentErr
}

type fakeHistoryRepo struct {
	mu      sync.Mutex
	records []*model.HistoryRecord
	uids    []string
	err     error
}

func (f *fakeHistoryRepo) Append(ctx context.Context, uid string, rec *model.HistoryRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.records = append(f.records, rec)
	f.uids = append(f.uids, uid)
	return nil
}

func (f *fakeHistoryRepo) List(ctx context.Context, uid string) ([]*model.HistoryRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.records, nil
}

type statusUpdate struct {
	UID      string
	TaskID   string
	Status   string
	ErrorMsg string
}

type fakeTaskRepo struct {
	mu      sync.Mutex
	due     []*model.ScheduledTask
	listErr error
	updates []statusUpdate
}

func (f *fakeTaskRepo) ListDueTasks(ctx context.Context, uid string, now time.Time) ([]*model.ScheduledTask, error) {
	return f.due, f.listErr
}

func (f *fakeTaskRepo) ListTasks(ctx context.Context, uid, status string) ([]*model.ScheduledTask, error) {
	return f.due, f.listErr
}

func (f *fakeTaskRepo) GetByID(ctx context.Context, uid, taskID string) (*model.ScheduledTask, error) {
	for _, t := range f.due {
		if t.ID == taskID {
			return t, nil
		}
	}
	return nil, nil
}

func (f *fakeTaskRepo) Create(ctx context.Context, t *model.ScheduledTask) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if t.ID == "" {
		t.ID = "generated-id"
	}
	f.due = append(f.due, t)
	return nil
}

func (f *fakeTaskRepo) UpdateStatus(ctx context.Context, uid, taskID, status, errorMsg string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updates = append(f.updates, statusUpdate{UID: uid, TaskID: taskID, Status: status, ErrorMsg: errorMsg})
	return nil
}

type fakeTransport struct {
	calls   []map[string]string
	outcome model.DeliveryOutcome
}

func (f *fakeTransport) Send(sender, senderPass, to, subject, body string) model.DeliveryOutcome {
	f.calls = append(f.calls, map[string]string{
		"sender": sender, "pass": senderPass, "to": to, "subject": subject, "body": body,
	})
	return f.outcome
}

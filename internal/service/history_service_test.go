package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rikulab/recruit-notify/internal/model"
	"github.com/rikulab/recruit-notify/internal/service"
)

func TestHistoryRecorderStatusMapping(t *testing.T) {
	cases := []struct {
		taskType string
		success  bool
		want     string
	}{
		{model.TaskTypeSMS, true, model.HistorySMSSent},
		{model.TaskTypeSMS, false, model.HistorySMSFailed},
		{model.TaskTypeMail, true, model.HistoryMailSent},
		{model.TaskTypeMail, false, model.HistoryMailFailed},
	}
	for _, c := range cases {
		repo := &fakeHistoryRepo{}
		recorder := service.NewHistoryRecorder(repo)
		task := &model.ScheduledTask{ID: "t1", UID: "u1", TaskType: c.taskType}

		recorder.Record(context.Background(), task, "", "", model.DeliveryOutcome{Success: c.success})

		require.Len(t, repo.records, 1, "%s success=%v", c.taskType, c.success)
		assert.Equal(t, c.want, repo.records[0].Status, "%s success=%v", c.taskType, c.success)
		assert.Equal(t, "u1", repo.uids[0])
	}
}

func TestHistoryRecorderFieldsFromDetail(t *testing.T) {
	repo := &fakeHistoryRepo{}
	recorder := service.NewHistoryRecorder(repo)
	task := &model.ScheduledTask{
		ID:       "t1",
		UID:      "u1",
		TaskType: model.TaskTypeSMS,
		OuboNo:   "OB-42",
		ApplicantDetail: map[string]string{
			"applicant_name": "鈴木",
			"gender":         "女性",
			"birth":          "2000-01-02",
			"email":          "suzuki@example.com",
			"tel":            "090-0000-0000",
			"addr":           "東京都",
			"school":         "テスト大学",
		},
	}
	out := model.DeliveryOutcome{Success: true, Info: map[string]any{"status_code": 200}}

	recorder.Record(context.Background(), task, "09012345678", "", out)

	require.Len(t, repo.records, 1)
	rec := repo.records[0]
	assert.Equal(t, "鈴木", rec.Name)
	assert.Equal(t, "女性", rec.Gender)
	assert.Equal(t, "2000-01-02", rec.Birth)
	assert.Equal(t, "OB-42", rec.OuboNo)
	// Explicit tel beats the detail value; email falls back to detail.
	assert.Equal(t, "09012345678", rec.Tel)
	assert.Equal(t, "suzuki@example.com", rec.Email)
	assert.Equal(t, "scheduled", rec.Template)
	assert.Equal(t, out.Info, rec.Response)
	assert.Greater(t, rec.SentAt, int64(0))
}

func TestHistoryRecorderNilDetail(t *testing.T) {
	repo := &fakeHistoryRepo{}
	recorder := service.NewHistoryRecorder(repo)
	task := &model.ScheduledTask{ID: "t1", UID: "u1", TaskType: model.TaskTypeMail}

	recorder.Record(context.Background(), task, "", "a@example.com", model.DeliveryOutcome{Success: false})

	require.Len(t, repo.records, 1)
	assert.Equal(t, "a@example.com", repo.records[0].Email)
	assert.Equal(t, model.HistoryMailFailed, repo.records[0].Status)
}

func TestHistoryRecorderAppendErrorIsSwallowed(t *testing.T) {
	repo := &fakeHistoryRepo{err: errors.New("store down")}
	recorder := service.NewHistoryRecorder(repo)
	task := &model.ScheduledTask{ID: "t1", UID: "u1", TaskType: model.TaskTypeSMS}

	// Must not panic or surface the error.
	recorder.Record(context.Background(), task, "", "", model.DeliveryOutcome{Success: true})
	assert.Empty(t, repo.records)
}

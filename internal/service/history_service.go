// internal/service/history_service.go
package service

import (
	"context"
	"log"
	"time"

	"github.com/rikulab/recruit-notify/internal/model"
	"github.com/rikulab/recruit-notify/internal/repository"
)

// HistoryRecorder appends one audit record per execution attempt, success
// or failure. Appends are fire-and-forget: a write failure is logged and
// never reverts the task status decision.
type HistoryRecorder struct {
	Repo repository.HistoryRepositoryInterface

	now func() time.Time
}

func NewHistoryRecorder(repo repository.HistoryRepositoryInterface) *HistoryRecorder {
	return &HistoryRecorder{Repo: repo, now: time.Now}
}

// Record builds and appends the record for one attempt. tel and email
// carry the channel-specific recipient (normalized number for SMS, the
// destination address for mail); applicant fields come from the detail map.
func (h *HistoryRecorder) Record(ctx context.Context, task *model.ScheduledTask, tel, email string, outcome model.DeliveryOutcome) {
	detail := task.ApplicantDetail
	if detail == nil {
		detail = map[string]string{}
	}
	if email == "" {
		email = detail["email"]
	}
	if tel == "" {
		tel = detail["tel"]
	}

	rec := &model.HistoryRecord{
		Name:     detail["applicant_name"],
		Gender:   detail["gender"],
		Birth:    detail["birth"],
		Email:    email,
		Tel:      tel,
		Addr:     detail["addr"],
		School:   detail["school"],
		OuboNo:   task.OuboNo,
		Status:   model.HistoryStatus(task.TaskType, outcome.Success),
		Template: "scheduled",
		Response: outcome.Info,
		SentAt:   h.now().Unix(),
	}

	if err := h.Repo.Append(ctx, task.UID, rec); err != nil {
		log.Printf("failed to write history for task %s: %v", task.ID, err)
	}
}

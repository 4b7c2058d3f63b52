// internal/model/task.go
package model

// Task types understood by the dispatcher.
const (
	TaskTypeSMS  = "sms"
	TaskTypeMail = "mail"
)

// Task statuses. Transitions are terminal: pending -> completed | failed.
const (
	StatusPending   = "pending"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// ScheduledTask is one unit of deferred SMS/mail work stored under
// accounts/{uid}/scheduled_tasks.
type ScheduledTask struct {
	ID              string            `json:"id"`
	UID             string            `json:"uid"`
	TaskType        string            `json:"taskType"`
	Status          string            `json:"status"`
	ScheduledTime   string            `json:"scheduledTime"`
	NextRun         int64             `json:"nextRun"` // epoch milliseconds
	To              string            `json:"to"`
	Template        string            `json:"template"`
	Subject         string            `json:"subject,omitempty"` // mail only
	SegmentID       string            `json:"segmentId"`
	OuboNo          string            `json:"ouboNo"`
	ApplicantDetail map[string]string `json:"applicantDetail"`
	UpdatedAt       int64             `json:"updatedAt,omitempty"`
	CompletedAt     int64             `json:"completedAt,omitempty"`
	ErrorMsg        string            `json:"errorMsg,omitempty"`
}

// Due reports whether the task is eligible for execution at nowMs.
func (t *ScheduledTask) Due(nowMs int64) bool {
	return t.Status == StatusPending && t.NextRun <= nowMs
}

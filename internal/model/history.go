// internal/model/history.go
package model

// History status vocabulary. The UI filters on these exact strings, so the
// set is closed: one per channel x outcome.
const (
	HistorySMSSent    = "送信済（S）"
	HistorySMSFailed  = "送信失敗（S）"
	HistoryMailSent   = "送信済（M）"
	HistoryMailFailed = "送信失敗（M）"
)

// HistoryStatus maps a channel and outcome to the localized status label.
// Unknown channels fall back to the SMS labels so an attempt is never
// recorded without a status.
func HistoryStatus(taskType string, success bool) string {
	switch taskType {
	case TaskTypeMail:
		if success {
			return HistoryMailSent
		}
		return HistoryMailFailed
	default:
		if success {
			return HistorySMSSent
		}
		return HistorySMSFailed
	}
}

// HistoryRecord is one append-only audit entry per delivery attempt,
// stored under accounts/{uid}/sms_history. Never mutated after insertion
// (the migrate CLI is the one sanctioned exception).
type HistoryRecord struct {
	Name     string         `json:"name"`
	Gender   string         `json:"gender"`
	Birth    string         `json:"birth"`
	Email    string         `json:"email"`
	Tel      string         `json:"tel"`
	Addr     string         `json:"addr"`
	School   string         `json:"school"`
	OuboNo   string         `json:"oubo_no"`
	Status   string         `json:"status"`
	Template string         `json:"template"` // source tag, e.g. "scheduled"
	Response map[string]any `json:"response"`
	SentAt   int64          `json:"sentAt"` // epoch seconds
}

// internal/model/outcome.go
package model

import "fmt"

// DeliveryOutcome is the uniform result of one send attempt, whatever the
// channel. Info carries provider details such as status_code, a truncated
// response/error snippet, or a free-form note.
type DeliveryOutcome struct {
	Success bool           `json:"success"`
	Info    map[string]any `json:"info"`
}

// Note builds a failure outcome that only carries a note.
func Note(note string) DeliveryOutcome {
	return DeliveryOutcome{Success: false, Info: map[string]any{"note": note}}
}

// ErrorMessage flattens the outcome info into the errorMsg persisted on a
// failed task.
func (o DeliveryOutcome) ErrorMessage() string {
	if len(o.Info) == 0 {
		return "unknown error"
	}
	if note, ok := o.Info["note"].(string); ok && len(o.Info) == 1 {
		return note
	}
	return fmt.Sprintf("%v", o.Info)
}

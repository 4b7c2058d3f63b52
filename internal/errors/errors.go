// internal/errors/errors.go
package appErrors

import "fmt"

// ErrTaskNotFound is a sentinel error
type ErrTaskNotFound struct {
	TaskID string
}

func (e *ErrTaskNotFound) Error() string {
	return fmt.Sprintf("task %q not found", e.TaskID)
}

// Helper constructor
func NewTaskNotFound(id string) error {
	return &ErrTaskNotFound{TaskID: id}
}

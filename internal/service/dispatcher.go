// internal/service/dispatcher.go
package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/rikulab/recruit-notify/internal/model"
	"github.com/rikulab/recruit-notify/internal/repository"
)

// DefaultPollInterval is the fixed sleep between dispatch cycles.
const DefaultPollInterval = 60 * time.Second

// SMSDeliverer delivers one SMS and reports a uniform outcome.
type SMSDeliverer interface {
	Send(ctx context.Context, uid, to, message string) model.DeliveryOutcome
}

// MailDeliverer delivers one email and reports a uniform outcome.
type MailDeliverer interface {
	Send(ctx context.Context, uid, to, subject, body string) model.DeliveryOutcome
}

// Dispatcher owns the task state machine: it polls due tasks, executes
// them against the delivery providers, records history and advances task
// status. Tasks stay pending in the store while an attempt runs, so a
// crash mid-attempt re-runs the task on restart (at-least-once, duplicate
// sends possible; there is deliberately no dedupe key).
type Dispatcher struct {
	Tasks    repository.TaskRepositoryInterface
	SMS      SMSDeliverer
	Mail     MailDeliverer
	History  *HistoryRecorder
	Interval time.Duration

	// Nudge triggers an extra poll between ticks; nil disables it.
	Nudge <-chan struct{}

	now func() time.Time
}

func NewDispatcher(tasks repository.TaskRepositoryInterface, sms SMSDeliverer, mail MailDeliverer, history *HistoryRecorder) *Dispatcher {
	return &Dispatcher{
		Tasks:    tasks,
		SMS:      sms,
		Mail:     mail,
		History:  history,
		Interval: DefaultPollInterval,
		now:      time.Now,
	}
}

// Run polls until ctx is cancelled. Each cycle completes fully before the
// next sleep; cancellation is honored between cycles, not mid-task.
func (d *Dispatcher) Run(ctx context.Context, uid string) {
	ticker := time.NewTicker(d.Interval)
	defer ticker.Stop()

	for {
		d.RunCycle(ctx, uid)

		select {
		case <-ctx.Done():
			log.Println("dispatcher stopping")
			return
		case <-ticker.C:
		case <-d.Nudge:
		}
	}
}

// RunCycle processes every currently due task for the tenant, in the order
// the store returns them, sequentially. A failure in one task never aborts
// the rest of the cycle.
func (d *Dispatcher) RunCycle(ctx context.Context, uid string) {
	tasks, err := d.Tasks.ListDueTasks(ctx, uid, d.now())
	if err != nil {
		log.Println("failed to list due tasks:", err)
		return
	}
	if len(tasks) == 0 {
		return
	}
	log.Printf("found %d due task(s) for %s", len(tasks), uid)

	for _, task := range tasks {
		d.ProcessTask(ctx, uid, task)
	}
}

// ProcessTask runs one attempt to conclusion: execute, record history,
// patch status. Status transitions are terminal; pending tasks either
// complete or fail, never both and never back. The status patch keys on
// the cycle's uid, not the document's uid field, so a task missing that
// field still reaches a terminal state instead of being retried forever.
func (d *Dispatcher) ProcessTask(ctx context.Context, uid string, task *model.ScheduledTask) {
	outcome, tel, email := d.execute(ctx, task)

	if task.UID != "" {
		d.History.Record(ctx, task, tel, email, outcome)
	}

	if outcome.Success {
		if err := d.Tasks.UpdateStatus(ctx, uid, task.ID, model.StatusCompleted, ""); err != nil {
			log.Printf("failed to mark task %s completed: %v", task.ID, err)
		}
		log.Printf("task %s completed", task.ID)
		return
	}

	errMsg := outcome.ErrorMessage()
	if err := d.Tasks.UpdateStatus(ctx, uid, task.ID, model.StatusFailed, errMsg); err != nil {
		log.Printf("failed to mark task %s failed: %v", task.ID, err)
	}
	log.Printf("task %s failed: %s", task.ID, errMsg)
}

// execute dispatches by task type. tel/email carry the channel-specific
// recipient for the history record. Panics are contained here so one
// malformed task cannot halt the loop.
func (d *Dispatcher) execute(ctx context.Context, task *model.ScheduledTask) (outcome model.DeliveryOutcome, tel, email string) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("task %s panicked: %v", task.ID, r)
			outcome = model.Note(fmt.Sprintf("task execution panic: %v", r))
		}
	}()

	switch task.TaskType {
	case model.TaskTypeSMS:
		return d.executeSMS(ctx, task)
	case model.TaskTypeMail:
		outcome = d.executeMail(ctx, task)
		return outcome, "", task.To
	default:
		return model.Note("unknown task type: " + task.TaskType), "", ""
	}
}

func (d *Dispatcher) executeSMS(ctx context.Context, task *model.ScheduledTask) (model.DeliveryOutcome, string, string) {
	norm, ok, reason := NormalizePhone(task.To)
	if !ok {
		log.Printf("電話番号の検証に失敗: %s -> %s", task.To, reason)
		return model.Note("invalid phone: " + reason), task.To, ""
	}

	message := RenderTemplate(task.Template, task.ApplicantDetail)
	return d.SMS.Send(ctx, task.UID, norm, message), norm, ""
}

func (d *Dispatcher) executeMail(ctx context.Context, task *model.ScheduledTask) model.DeliveryOutcome {
	subject := RenderTemplate(task.Subject, task.ApplicantDetail)
	body := RenderTemplate(task.Template, task.ApplicantDetail)
	return d.Mail.Send(ctx, task.UID, task.To, subject, body)
}

package tasks

import (
	"encoding/json"

	"github.com/hibiken/asynq"

	"telecare/models"
)

// Task type names routed through the asynq worker.
const (
	TypeSweepExpiredSlots     = "slots:sweep-expired"
	TypeReviewPaymentConflict = "payments:review-conflict"
)

// NewSweepTask builds the daily expired-slot sweep task. It carries no
// payload; the worker computes "today" in the service time zone when it runs.
func NewSweepTask() *asynq.Task {
	return asynq.NewTask(TypeSweepExpiredSlots, nil)
}

// NewConflictReviewTask queues a reconciliation conflict for operator review.
func NewConflictReviewTask(conflict models.ReconciliationConflict) (*asynq.Task, error) {
	b, err := json.Marshal(conflict)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeReviewPaymentConflict, b), nil
}

package tasks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
)

// TypeOrderConfirmationEmail is the asynq task type for post-checkout emails.
const TypeOrderConfirmationEmail = "email:order_confirmation"

// QueueDefault is the queue checkout tasks land on.
const QueueDefault = "default"

// OrderConfirmationPayload carries what the worker needs to send the email.
type OrderConfirmationPayload struct {
	OrderID   string `json:"orderId"`
	Reference string `json:"reference"`
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	Total     int64  `json:"total"`
}

// NewOrderConfirmationTask builds the asynq task for a placed order.
func NewOrderConfirmationTask(p OrderConfirmationPayload) (*asynq.Task, error) {
	if p.Email == "" {
		return nil, errors.New("tasks: email is required")
	}
	payload, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("tasks: marshal payload: %w", err)
	}
	return asynq.NewTask(TypeOrderConfirmationEmail, payload,
		asynq.Queue(QueueDefault),
		asynq.MaxRetry(5),
		asynq.Timeout(30*time.Second),
	), nil
}

// Enqueuer publishes tasks through an asynq client.
type Enqueuer struct {
	Client *asynq.Client
}

// EnqueueOrderConfirmation schedules the confirmation email. A nil client is
// a no-op so checkout keeps working when background delivery is disabled.
func (e Enqueuer) EnqueueOrderConfirmation(ctx context.Context, p OrderConfirmationPayload) error {
	if e.Client == nil {
		return nil
	}
	task, err := NewOrderConfirmationTask(p)
	if err != nil {
		return err
	}
	_, err = e.Client.EnqueueContext(ctx, task)
	return err
}

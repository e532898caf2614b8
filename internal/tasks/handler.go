package tasks

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"

	"github.com/noah-isme/backend-storefront/internal/common"
)

// EmailHandler consumes order confirmation tasks.
type EmailHandler struct {
	Sender common.EmailSender
	Logger zerolog.Logger
}

// HandleOrderConfirmation renders and sends the confirmation email.
func (h EmailHandler) HandleOrderConfirmation(_ context.Context, t *asynq.Task) error {
	var p OrderConfirmationPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		// Malformed payloads will never succeed, skip the retries.
		return fmt.Errorf("tasks: unmarshal payload: %v: %w", err, asynq.SkipRetry)
	}
	subject := fmt.Sprintf("Order %s confirmed", p.Reference)
	body := fmt.Sprintf(
		"<p>Hi %s,</p><p>Your order <strong>%s</strong> has been placed. Total: %d.</p>",
		p.FirstName, p.Reference, p.Total,
	)
	if h.Sender == nil {
		h.Logger.Warn().Str("order_id", p.OrderID).Msg("email sender not configured, dropping confirmation")
		return nil
	}
	if err := h.Sender.Send(p.Email, subject, body); err != nil {
		return fmt.Errorf("tasks: send confirmation: %w", err)
	}
	h.Logger.Info().Str("order_id", p.OrderID).Str("reference", p.Reference).Msg("order confirmation sent")
	return nil
}

// Mux returns an asynq mux with all task handlers registered.
func (h EmailHandler) Mux() *asynq.ServeMux {
	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeOrderConfirmationEmail, h.HandleOrderConfirmation)
	return mux
}

package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/spec-kit/account-service/internal/events"
	"github.com/spec-kit/account-service/internal/mailer"
)

// NotificationService turns credential events into outbound email. Send
// failures are logged and swallowed: the user-facing response has already
// been decided by the time these handlers run.
type NotificationService struct {
	dispatcher events.Dispatcher
	sender     mailer.Sender
	logger     *zap.Logger
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, sender mailer.Sender, logger *zap.Logger) *NotificationService {
	return &NotificationService{
		dispatcher: dispatcher,
		sender:     sender,
		logger:     logger,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventUserRegistered, n.handleUserRegistered)
	n.dispatcher.Subscribe(events.EventPasswordResetRequested, n.handlePasswordResetRequested)
	n.dispatcher.Subscribe(events.EventPasswordChanged, n.handlePasswordChanged)
}

func (n *NotificationService) handleUserRegistered(_ context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.UserRegisteredPayload)
	if !ok {
		return nil
	}
	body := fmt.Sprintf("<p>Hi %s,</p><p>Your account has been created. Welcome!</p>", payload.Name)
	n.send(payload.Email, "Welcome", body, event)
	return nil
}

func (n *NotificationService) handlePasswordResetRequested(_ context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.PasswordResetRequestedPayload)
	if !ok {
		return nil
	}
	body := fmt.Sprintf(
		"<p>We received a request to reset your password.</p>"+
			"<p>Your reset token is: <strong>%s</strong></p>"+
			"<p>It expires at %s. If you did not request this, you can ignore this email.</p>",
		payload.Token, payload.ExpiresAt.Format("15:04 MST, Jan 2 2006"),
	)
	n.send(payload.Email, "Password reset request", body, event)
	return nil
}

func (n *NotificationService) handlePasswordChanged(_ context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.PasswordChangedPayload)
	if !ok {
		return nil
	}
	body := "<p>Your password was just changed. If this wasn't you, reset it immediately.</p>"
	n.send(payload.Email, "Your password was changed", body, event)
	return nil
}

func (n *NotificationService) send(to, subject, body string, event events.Event) {
	if err := n.sender.Send(to, subject, body); err != nil {
		n.logger.Error("notification send failed",
			zap.String("event_type", string(event.Type)),
			zap.String("user_id", event.UserID),
			zap.Error(err),
		)
	}
}

package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/art-gallery-service/internal/config"
	"github.com/spec-kit/art-gallery-service/internal/events"
)

const webhookTimeout = 5 * time.Second

// NotificationService delivers domain events to operators.
type NotificationService struct {
	logger *zap.Logger
	cfg    config.NotificationConfig
}

// NewNotificationService creates the service.
func NewNotificationService(logger *zap.Logger, cfg config.NotificationConfig) *NotificationService {
	return &NotificationService{logger: logger, cfg: cfg}
}

// Deliver logs the event and forwards it to the configured webhook.
func (n *NotificationService) Deliver(ctx context.Context, event events.Event) error {
	n.logger.Info(string(event.Type),
		zap.String("event_id", event.ID),
		zap.String("subject", event.Subject),
		zap.Any("payload", event.Payload),
	)

	switch event.Type {
	case events.EventUserRegistered, events.EventPaymentVerified:
		n.sendEmailNotificationStub(event)
	}
	return n.postWebhook(ctx, event)
}

func (n *NotificationService) sendEmailNotificationStub(event events.Event) {
	if strings.TrimSpace(n.cfg.EmailFrom) == "" || event.Subject == "" {
		return
	}
	n.logger.Debug("sendEmailNotificationStub",
		zap.String("from", n.cfg.EmailFrom),
		zap.String("to", event.Subject),
		zap.String("event_type", string(event.Type)))
}

func (n *NotificationService) postWebhook(ctx context.Context, event events.Event) error {
	url := strings.TrimSpace(n.cfg.WebhookURL)
	if url == "" {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	agent := fiber.Post(url).JSON(event).Timeout(webhookTimeout)
	agent.Set(fiber.HeaderUserAgent, "art-gallery-service")
	status, _, errs := agent.Bytes()
	if len(errs) > 0 {
		return fmt.Errorf("post webhook: %w", errs[0])
	}
	if status >= fiber.StatusBadRequest {
		return fmt.Errorf("post webhook: unexpected status %d", status)
	}
	return nil
}

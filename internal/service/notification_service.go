package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/course-service/internal/config"
	"github.com/spec-kit/course-service/internal/events"
)

// NotificationService handles emitting notifications for domain events.
// Delivery is stubbed; only the subscription wiring and structured logging
// are real.
type NotificationService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	cfg        config.NotificationConfig
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, logger *zap.Logger, cfg config.NotificationConfig) *NotificationService {
	return &NotificationService{
		dispatcher: dispatcher,
		logger:     logger,
		cfg:        cfg,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventApplicationSubmitted, n.handleApplicationSubmitted)
	n.dispatcher.Subscribe(events.EventApplicationStatusChanged, n.handleApplicationStatusChanged)
	n.dispatcher.Subscribe(events.EventProgressUpdated, n.handleProgressUpdated)
}

func (n *NotificationService) handleApplicationSubmitted(ctx context.Context, event events.Event) error {
	n.logger.Info("ApplicationSubmitted", zap.Int64("course_id", event.CourseID), zap.Any("payload", event.Payload))
	n.sendEmailNotificationStub(ctx, event)
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleApplicationStatusChanged(ctx context.Context, event events.Event) error {
	n.logger.Info("ApplicationStatusChanged", zap.Int64("course_id", event.CourseID), zap.Any("payload", event.Payload))
	n.sendEmailNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleProgressUpdated(ctx context.Context, event events.Event) error {
	n.logger.Debug("ProgressUpdated", zap.Int64("course_id", event.CourseID), zap.Any("payload", event.Payload))
	return nil
}

func (n *NotificationService) sendEmailNotificationStub(_ context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.EmailFrom) == "" {
		return
	}
	n.logger.Debug("sendEmailNotificationStub",
		zap.String("from", n.cfg.EmailFrom),
		zap.Int64("course_id", event.CourseID),
		zap.String("event_type", string(event.Type)))
}

func (n *NotificationService) sendWebhookNotificationStub(_ context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.WebhookURL) == "" {
		return
	}
	n.logger.Debug("sendWebhookNotificationStub",
		zap.String("url", n.cfg.WebhookURL),
		zap.Int64("course_id", event.CourseID),
		zap.String("event_type", string(event.Type)))
}

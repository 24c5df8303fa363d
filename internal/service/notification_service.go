package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/orgchart-service/internal/config"
	"github.com/spec-kit/orgchart-service/internal/events"
)

const (
	notificationQueueSize = 256
	webhookTimeout        = 5 * time.Second
)

// NotificationService logs org chart events and forwards them to a webhook.
type NotificationService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	cfg        config.NotificationConfig
	queue      chan events.Event
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, logger *zap.Logger, cfg config.NotificationConfig) *NotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationService{
		dispatcher: dispatcher,
		logger:     logger,
		cfg:        cfg,
		queue:      make(chan events.Event, notificationQueueSize),
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventDesignationCreated, n.handleDesignationCreated)
	n.dispatcher.Subscribe(events.EventDesignationDeleted, n.handleDesignationDeleted)
	n.dispatcher.Subscribe(events.EventWhitelistReconciled, n.handleWhitelistReconciled)
	n.dispatcher.Subscribe(events.EventEmployeeReassigned, n.handleEmployeeReassigned)
}

// Queue exposes events waiting for webhook delivery.
func (n *NotificationService) Queue() <-chan events.Event {
	return n.queue
}

func (n *NotificationService) handleDesignationCreated(ctx context.Context, event events.Event) error {
	n.logger.Info("DesignationCreated", eventFields(event)...)
	n.enqueueWebhook(event)
	return nil
}

func (n *NotificationService) handleDesignationDeleted(ctx context.Context, event events.Event) error {
	n.logger.Info("DesignationDeleted", eventFields(event)...)
	n.enqueueWebhook(event)
	return nil
}

func (n *NotificationService) handleWhitelistReconciled(ctx context.Context, event events.Event) error {
	fields := eventFields(event)
	if payload, ok := event.Payload.(events.WhitelistReconciledPayload); ok && len(payload.FailedTitles) > 0 {
		n.logger.Warn("WhitelistReconciled with failures", fields...)
	} else {
		n.logger.Info("WhitelistReconciled", fields...)
	}
	n.enqueueWebhook(event)
	return nil
}

func (n *NotificationService) handleEmployeeReassigned(ctx context.Context, event events.Event) error {
	n.logger.Info("EmployeeReassigned", eventFields(event)...)
	n.enqueueWebhook(event)
	return nil
}

func (n *NotificationService) enqueueWebhook(event events.Event) {
	if strings.TrimSpace(n.cfg.WebhookURL) == "" {
		return
	}
	select {
	case n.queue <- event:
	default:
		n.logger.Warn("notification queue full, dropping event",
			zap.String("event_id", event.ID),
			zap.String("event_type", string(event.Type)))
	}
}

// Deliver posts event as JSON to the configured webhook.
func (n *NotificationService) Deliver(ctx context.Context, event events.Event) error {
	url := strings.TrimSpace(n.cfg.WebhookURL)
	if url == "" {
		return nil
	}
	timeout := webhookTimeout
	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); remaining < timeout {
			timeout = remaining
		}
	}

	agent := fiber.Post(url)
	agent.JSON(event)
	agent.Timeout(timeout)
	if err := agent.Parse(); err != nil {
		fiber.ReleaseAgent(agent)
		return fmt.Errorf("webhook %s: %w", event.Type, err)
	}
	status, _, errs := agent.Bytes()
	if len(errs) > 0 {
		return fmt.Errorf("webhook %s: %w", event.Type, errors.Join(errs...))
	}
	if status >= fiber.StatusBadRequest {
		return fmt.Errorf("webhook %s: unexpected status %d", event.Type, status)
	}
	n.logger.Debug("webhook delivered",
		zap.String("url", url),
		zap.String("event_id", event.ID),
		zap.String("event_type", string(event.Type)))
	return nil
}

func eventFields(event events.Event) []zap.Field {
	fields := []zap.Field{
		zap.String("event_id", event.ID),
		zap.String("organization_id", event.OrganizationID),
		zap.Any("payload", event.Payload),
	}
	if event.DepartmentID != nil {
		fields = append(fields, zap.String("department_id", *event.DepartmentID))
	}
	return fields
}

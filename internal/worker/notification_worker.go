package worker

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/spec-kit/orgchart-service/internal/service"
)

// StartNotificationWorker registers notification handlers and drains the
// webhook queue until ctx ends. The returned func waits for the drain loop.
func StartNotificationWorker(ctx context.Context, notificationService *service.NotificationService, logger *zap.Logger) (wait func()) {
	if notificationService == nil {
		return func() {}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	notificationService.RegisterHandlers()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		queue := notificationService.Queue()
		for {
			select {
			case <-ctx.Done():
				return
			case event := <-queue:
				if err := notificationService.Deliver(ctx, event); err != nil {
					logger.Warn("webhook delivery failed",
						zap.String("event_id", event.ID),
						zap.String("event_type", string(event.Type)),
						zap.Error(err))
				}
			}
		}
	}()
	return wg.Wait
}

package worker

import (
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-workflow/internal/service"
)

// StartNotificationWorker subscribes the notification service to workflow events.
func StartNotificationWorker(notificationService *service.NotificationService, logger *zap.Logger) {
	if notificationService == nil {
		return
	}
	notificationService.RegisterHandlers()
	if logger != nil {
		logger.Info("notification handlers registered",
			zap.Duration("poll_interval", notificationService.PollInterval()))
	}
}

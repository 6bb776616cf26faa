package notificator

import (
	"context"
	"fmt"

	"restaurant-system/internal/common/config"
	"restaurant-system/internal/common/logger"
	"restaurant-system/internal/common/mq"
	"restaurant-system/internal/microservices/notificator/service"
)

// Start binds the notification queue to the event fanout and logs every
// event until ctx is canceled.
func Start(ctx context.Context, cfg config.MQ, log *logger.Logger) error {
	client, err := mq.Dial(cfg, false)
	if err != nil {
		return fmt.Errorf("rabbitmq: %w", err)
	}
	defer client.Close()

	if err := client.DeclareFanout(cfg.Exchange); err != nil {
		return fmt.Errorf("declare %s: %w", cfg.Exchange, err)
	}
	if err := client.BindQueue(cfg.Queue, cfg.Exchange); err != nil {
		return fmt.Errorf("bind %s: %w", cfg.Queue, err)
	}
	log.Info("subscriber_ready", map[string]any{"exchange": cfg.Exchange, "queue": cfg.Queue})

	svc := service.New(client, cfg.Queue, log)
	return svc.NotificatorService.Notify(ctx)
}

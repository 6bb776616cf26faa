package service

import "restaurant-system/internal/common/logger"

type Service struct {
	NotificatorService *NotificatorService
}

func New(c Consumer, queue string, log *logger.Logger) *Service {
	return &Service{NotificatorService: NewNotificatorService(c, queue, log)}
}

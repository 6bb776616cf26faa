package service

import (
	"time"

	"restaurant-system/internal/common/logger"
	"restaurant-system/internal/microservices/order/repository"
)

type Service struct {
	OrderService OrderServiceInterface
	Menu         *repository.MenuCatalog
}

type Deps struct {
	Store   repository.OrderRepositoryInterface
	Menu    *repository.MenuCatalog
	Hub     Hub
	Relay   Publisher // optional
	Metrics Metrics   // optional
	Log     *logger.Logger

	StrictTransitions bool
	NodeID            int64
	Now               func() time.Time
}

func New(d Deps) (*Service, error) {
	orders, err := NewOrderService(d)
	if err != nil {
		return nil, err
	}
	return &Service{OrderService: orders, Menu: d.Menu}, nil
}

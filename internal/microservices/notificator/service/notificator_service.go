package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"

	"restaurant-system/internal/common/logger"
	"restaurant-system/internal/domain"
)

type Consumer interface {
	Consume(queue, consumer string, prefetch int) (<-chan amqp.Delivery, error)
}

type NotificatorService struct {
	consumer Consumer
	queue    string
	log      *logger.Logger
}

func NewNotificatorService(c Consumer, queue string, log *logger.Logger) *NotificatorService {
	return &NotificatorService{consumer: c, queue: queue, log: log}
}

// Notify logs every relayed order event until ctx ends or the broker
// closes the delivery channel.
func (ns *NotificatorService) Notify(ctx context.Context) error {
	msgs, err := ns.consumer.Consume(ns.queue, "notificator", 10)
	if err != nil {
		return fmt.Errorf("consume %s: %w", ns.queue, err)
	}
	for {
		select {
		case <-ctx.Done():
			return nil
		case d, ok := <-msgs:
			if !ok {
				return errors.New("delivery channel closed")
			}
			ns.Handle(d)
		}
	}
}

// Handle logs d and acks it; bodies that do not decode are dropped.
func (ns *NotificatorService) Handle(d amqp.Delivery) {
	fields, err := describe(d.Type, d.Body)
	if err != nil {
		ns.log.Error("notification_malformed", err, map[string]any{"event": d.Type, "message_id": d.MessageId})
		_ = d.Nack(false, false)
		return
	}
	fields["message_id"] = d.MessageId
	ns.log.Info("notification_received", fields)
	_ = d.Ack(false)
}

func describe(event string, body []byte) (map[string]any, error) {
	fields := map[string]any{"event": event}
	switch event {
	case domain.EventNewOrder:
		var o domain.Order
		if err := json.Unmarshal(body, &o); err != nil {
			return nil, err
		}
		fields["order_id"] = o.ID
		fields["status"] = o.Status
		fields["table"] = o.TableNumber
	case domain.EventOrderUpdated:
		var u domain.OrderUpdated
		if err := json.Unmarshal(body, &u); err != nil {
			return nil, err
		}
		fields["order_id"] = u.OrderID
		fields["status"] = u.Status
	case domain.EventCurrentOrders:
		var list []json.RawMessage
		if err := json.Unmarshal(body, &list); err != nil {
			return nil, err
		}
		fields["active_orders"] = len(list)
	default:
		if !json.Valid(body) {
			return nil, errors.New("body is not JSON")
		}
	}
	return fields, nil
}

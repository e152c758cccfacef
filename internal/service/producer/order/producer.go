package ordproducer

import (
	"context"
	"fmt"

	"github.com/Poupe902/Checkout-Bahia/internal/model"
	"github.com/Poupe902/Checkout-Bahia/internal/platform/kafka"
)

type Converter interface {
	CompletedOrderToPayload(event model.CompletedOrder) ([]byte, error)
}

type service struct {
	producer kafka.Producer
	conv     Converter
}

func NewOrderProducer(producer kafka.Producer, conv Converter) *service {
	return &service{producer: producer, conv: conv}
}

func (s *service) SendOrderCompleted(ctx context.Context, event model.CompletedOrder) error {
	payload, err := s.conv.CompletedOrderToPayload(event)
	if err != nil {
		return fmt.Errorf("converter completed_order_to_payload error: %w", err)
	}

	if err := s.producer.Send(ctx, event.SessionID[:], payload); err != nil {
		return fmt.Errorf("producer to order.completed topic error: %w", err)
	}

	return nil
}

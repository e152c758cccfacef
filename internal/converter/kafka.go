package converter

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/Poupe902/Checkout-Bahia/internal/model"
)

type kafkaConverter struct{}

func NewKafkaConverter() *kafkaConverter { return &kafkaConverter{} }

type completedOrderRecord struct {
	EventUUID     string `json:"event_uuid"`
	SessionUUID   string `json:"session_uuid"`
	TotalCents    int64  `json:"total_cents"`
	PaymentMethod string `json:"payment_method"`
	ChargeID      string `json:"charge_id"`
	Degraded      bool   `json:"degraded"`
	CreatedAt     string `json:"created_at"`
}

func (c *kafkaConverter) CompletedOrderToPayload(event model.CompletedOrder) ([]byte, error) {
	payload, err := json.Marshal(completedOrderRecord{
		EventUUID:     event.EventID.String(),
		SessionUUID:   event.SessionID.String(),
		TotalCents:    event.TotalCents,
		PaymentMethod: string(event.PaymentMethod),
		ChargeID:      event.ChargeID,
		Degraded:      event.Degraded,
		CreatedAt:     event.CreatedAt.Format(time.RFC3339),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal completed order: %w", err)
	}

	return payload, nil
}

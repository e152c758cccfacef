package model

import (
	"time"

	"github.com/google/uuid"
)

// CompletedOrder is published after a submission ends in SUCCEEDED or
// DEGRADED. Publishing is best-effort and never blocks the buyer.
type CompletedOrder struct {
	EventID       uuid.UUID
	SessionID     uuid.UUID
	TotalCents    int64
	PaymentMethod PaymentMethod
	ChargeID      string
	Degraded      bool
	CreatedAt     time.Time
}

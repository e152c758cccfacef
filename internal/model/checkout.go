package model

import "github.com/shopspring/decimal"

type Step int

const (
	StepIdentity Step = 1
	StepAddress  Step = 2
	StepPayment  Step = 3
)

type SubmissionPhase string

const (
	PhaseIdle       SubmissionPhase = "IDLE"
	PhaseRequesting SubmissionPhase = "REQUESTING"
	PhaseSucceeded  SubmissionPhase = "SUCCEEDED"
	PhaseDegraded   SubmissionPhase = "DEGRADED"
	PhaseFailed     SubmissionPhase = "FAILED"
)

// CheckoutState holds everything the wizard has captured so far. It is
// owned by the checkout service and mutated only through its
// transition methods; the transport layer gets read-only snapshots.
type CheckoutState struct {
	Step          Step
	PaymentMethod PaymentMethod
	Phase         SubmissionPhase

	Buyer          BuyerProfile
	Address        Address
	AddressEntered bool
	ShippingChosen bool
	ShippingPrice  decimal.Decimal

	Charge *ChargeResult

	// LastError is the user-facing text for a FAILED phase.
	LastError string
	// DemoAvailable exposes the continue-in-demo escape hatch after a
	// credentials-mismatch failure.
	DemoAvailable bool
	// RedirectedFromCard marks a card submission that settled through
	// the PIX recovery path, so the caller can route the buyer to the
	// PIX completion screen.
	RedirectedFromCard bool
}

func NewCheckoutState() CheckoutState {
	return CheckoutState{
		Step:          StepIdentity,
		PaymentMethod: PaymentMethodPIX,
		Phase:         PhaseIdle,
		ShippingPrice: decimal.Zero,
	}
}

package checkout

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Poupe902/Checkout-Bahia/internal/model"
	"github.com/Poupe902/Checkout-Bahia/internal/platform/logger"
	"github.com/Poupe902/Checkout-Bahia/internal/service/charge"
	"github.com/Poupe902/Checkout-Bahia/internal/session"
)

type GatewayClient interface {
	Charge(ctx context.Context, req model.ChargeRequest) (*model.ChargeResult, error)
}

type StoreClient interface {
	SaveOrder(ctx context.Context, ord model.Order, card *model.CardDetails) error
}

type AddressLookup interface {
	Lookup(ctx context.Context, code string) (*model.Address, error)
}

type OrderCompletedSender interface {
	SendOrderCompleted(ctx context.Context, event model.CompletedOrder) error
}

type SessionStore interface {
	Create() *session.Session
	Get(id uuid.UUID) (*session.Session, error)
}

type service struct {
	sessions SessionStore
	gateway  GatewayClient
	store    StoreClient
	lookup   AddressLookup
	builder  *charge.Builder
	producer OrderCompletedSender // nil when event publishing is disabled
}

func NewCheckoutService(
	sessions SessionStore,
	gateway GatewayClient,
	store StoreClient,
	lookup AddressLookup,
	builder *charge.Builder,
	producer OrderCompletedSender,
) *service {
	return &service{
		sessions: sessions,
		gateway:  gateway,
		store:    store,
		lookup:   lookup,
		builder:  builder,
		producer: producer,
	}
}

func (svc *service) Start(_ context.Context) (uuid.UUID, model.CheckoutState, error) {
	sess := svc.sessions.Create()
	return sess.ID, sess.State, nil
}

func (svc *service) State(_ context.Context, id uuid.UUID) (model.CheckoutState, error) {
	const op = "checkout.service.State"

	sess, err := svc.sessions.Get(id)
	if err != nil {
		return model.CheckoutState{}, fmt.Errorf("%s: %w", op, err)
	}

	sess.Lock()
	defer sess.Unlock()
	return sess.State, nil
}

// SubmitIdentity captures the buyer profile and advances to the
// address step. Name, email and document are required.
func (svc *service) SubmitIdentity(
	ctx context.Context,
	id uuid.UUID,
	buyer model.BuyerProfile,
) (model.CheckoutState, error) {
	const op = "checkout.service.SubmitIdentity"
	log := logger.With(logger.String("session_id", id.String()))

	sess, err := svc.sessions.Get(id)
	if err != nil {
		return model.CheckoutState{}, fmt.Errorf("%s: %w", op, err)
	}

	sess.Lock()
	defer sess.Unlock()

	if sess.State.Step != model.StepIdentity {
		log.Warn(ctx, "identity submitted off-step", logger.Int("step", int(sess.State.Step)))
		return sess.State, fmt.Errorf("%s: %w", op, model.ErrWrongStep)
	}

	if strings.TrimSpace(buyer.Name) == "" ||
		strings.TrimSpace(buyer.Email) == "" ||
		strings.TrimSpace(buyer.Document) == "" {
		return sess.State, fmt.Errorf("%s: %w", op, model.ErrValidation)
	}

	sess.State.Buyer = buyer
	sess.State.Step = model.StepAddress

	return sess.State, nil
}

// SubmitAddress is the first phase of step 2; the shipping choice is
// only offered after it passes.
func (svc *service) SubmitAddress(
	ctx context.Context,
	id uuid.UUID,
	addr model.Address,
) (model.CheckoutState, error) {
	const op = "checkout.service.SubmitAddress"

	sess, err := svc.sessions.Get(id)
	if err != nil {
		return model.CheckoutState{}, fmt.Errorf("%s: %w", op, err)
	}

	sess.Lock()
	defer sess.Unlock()

	if sess.State.Step != model.StepAddress {
		return sess.State, fmt.Errorf("%s: %w", op, model.ErrWrongStep)
	}

	if strings.TrimSpace(addr.Street) == "" ||
		strings.TrimSpace(addr.Number) == "" ||
		strings.TrimSpace(addr.Neighborhood) == "" {
		return sess.State, fmt.Errorf("%s: %w", op, model.ErrValidation)
	}

	sess.State.Address = addr
	sess.State.AddressEntered = true

	return sess.State, nil
}

// ChooseShipping completes step 2 and advances to payment.
func (svc *service) ChooseShipping(
	ctx context.Context,
	id uuid.UUID,
	option model.ShippingOption,
) (model.CheckoutState, error) {
	const op = "checkout.service.ChooseShipping"

	sess, err := svc.sessions.Get(id)
	if err != nil {
		return model.CheckoutState{}, fmt.Errorf("%s: %w", op, err)
	}

	sess.Lock()
	defer sess.Unlock()

	if sess.State.Step != model.StepAddress || !sess.State.AddressEntered {
		return sess.State, fmt.Errorf("%s: %w", op, model.ErrWrongStep)
	}

	switch option {
	case model.ShippingFree:
		sess.State.ShippingPrice = decimal.Zero
	case model.ShippingStandard:
		sess.State.ShippingPrice = model.StandardShippingPrice()
	default:
		return sess.State, fmt.Errorf("%s: %w", op, model.ErrValidation)
	}

	sess.State.ShippingChosen = true
	sess.State.Step = model.StepPayment

	return sess.State, nil
}

// ChoosePaymentMethod toggles the method on the payment step and
// resets any partial charge result.
func (svc *service) ChoosePaymentMethod(
	ctx context.Context,
	id uuid.UUID,
	method model.PaymentMethod,
) (model.CheckoutState, error) {
	const op = "checkout.service.ChoosePaymentMethod"

	sess, err := svc.sessions.Get(id)
	if err != nil {
		return model.CheckoutState{}, fmt.Errorf("%s: %w", op, err)
	}

	sess.Lock()
	defer sess.Unlock()

	if sess.State.Step != model.StepPayment {
		return sess.State, fmt.Errorf("%s: %w", op, model.ErrWrongStep)
	}
	if sess.State.Phase == model.PhaseRequesting {
		return sess.State, fmt.Errorf("%s: %w", op, model.ErrSubmissionInFlight)
	}

	switch method {
	case model.PaymentMethodPIX, model.PaymentMethodCard:
	default:
		return sess.State, fmt.Errorf("%s: %w", op, model.ErrValidation)
	}

	sess.State.PaymentMethod = method
	sess.State.Charge = nil
	sess.State.Phase = model.PhaseIdle
	sess.State.LastError = ""
	sess.State.DemoAvailable = false
	sess.State.RedirectedFromCard = false

	return sess.State, nil
}

// Edit returns to an earlier step's entry view. Data captured on later
// steps stays in place.
func (svc *service) Edit(
	ctx context.Context,
	id uuid.UUID,
	target model.Step,
) (model.CheckoutState, error) {
	const op = "checkout.service.Edit"

	sess, err := svc.sessions.Get(id)
	if err != nil {
		return model.CheckoutState{}, fmt.Errorf("%s: %w", op, err)
	}

	sess.Lock()
	defer sess.Unlock()

	if target != model.StepIdentity && target != model.StepAddress {
		return sess.State, fmt.Errorf("%s: %w", op, model.ErrValidation)
	}
	if target >= sess.State.Step {
		return sess.State, fmt.Errorf("%s: %w", op, model.ErrWrongStep)
	}
	if sess.State.Phase == model.PhaseRequesting {
		return sess.State, fmt.Errorf("%s: %w", op, model.ErrSubmissionInFlight)
	}

	sess.State.Step = target

	return sess.State, nil
}

// LookupPostalCode resolves a postal code for address prefill. Failure
// here never blocks checkout.
func (svc *service) LookupPostalCode(ctx context.Context, code string) (*model.Address, error) {
	const op = "checkout.service.LookupPostalCode"

	addr, err := svc.lookup.Lookup(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return addr, nil
}

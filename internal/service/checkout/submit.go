package checkout

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Poupe902/Checkout-Bahia/internal/model"
	"github.com/Poupe902/Checkout-Bahia/internal/platform/logger"
	"github.com/Poupe902/Checkout-Bahia/internal/service/charge"
	"github.com/Poupe902/Checkout-Bahia/internal/session"
)

const (
	cardDataMessage   = "Verifique os dados do cartão."
	pixFailureMessage = "Ops! Não foi possível gerar o seu PIX agora. Por favor, tente novamente ou entre em contato com nosso suporte."

	minCardDigits = 13
	minCVVDigits  = 3
)

var decimalCents = decimal.NewFromInt(100)

// Submit runs the payment pipeline for the session: build the charge
// request, attempt the charge and/or the persistence write, and apply
// the fallback cascade to whatever failed. The session mutex is held
// for the whole attempt, so a second submit while one is in flight is
// rejected before any side effect.
func (svc *service) Submit(
	ctx context.Context,
	id uuid.UUID,
	card *model.CardDetails,
) (model.CheckoutState, error) {
	const op = "checkout.service.Submit"
	log := logger.With(
		logger.String("session_id", id.String()),
	)

	sess, err := svc.sessions.Get(id)
	if err != nil {
		return model.CheckoutState{}, fmt.Errorf("%s: %w", op, err)
	}

	sess.Lock()
	defer sess.Unlock()

	if sess.State.Step != model.StepPayment || !sess.State.ShippingChosen {
		return sess.State, fmt.Errorf("%s: %w", op, model.ErrWrongStep)
	}
	if sess.State.Phase == model.PhaseRequesting {
		return sess.State, fmt.Errorf("%s: %w", op, model.ErrSubmissionInFlight)
	}

	sess.State.Phase = model.PhaseRequesting
	sess.State.LastError = ""
	sess.State.DemoAvailable = false
	sess.State.RedirectedFromCard = false
	sess.State.Charge = nil

	ord := svc.orderFromState(&sess.State)

	switch sess.State.PaymentMethod {
	case model.PaymentMethodCard:
		err = svc.submitCard(ctx, log, sess, ord, card)
	default:
		err = svc.submitPIX(ctx, log, sess, ord)
	}

	if sess.State.Phase == model.PhaseSucceeded || sess.State.Phase == model.PhaseDegraded {
		svc.publishCompleted(ctx, log, sess, ord)
	}

	if err != nil {
		return sess.State, fmt.Errorf("%s: %w", op, err)
	}
	return sess.State, nil
}

// DemoSubmit is the explicit escape hatch after an exhausted cascade:
// it settles the session with a synthetic charge. Persistence is still
// attempted, but its failure is ignored.
func (svc *service) DemoSubmit(ctx context.Context, id uuid.UUID) (model.CheckoutState, error) {
	const op = "checkout.service.DemoSubmit"
	log := logger.With(
		logger.String("session_id", id.String()),
	)

	sess, err := svc.sessions.Get(id)
	if err != nil {
		return model.CheckoutState{}, fmt.Errorf("%s: %w", op, err)
	}

	sess.Lock()
	defer sess.Unlock()

	if !sess.State.DemoAvailable {
		return sess.State, fmt.Errorf("%s: %w", op, model.ErrDemoUnavailable)
	}
	if sess.State.Phase == model.PhaseRequesting {
		return sess.State, fmt.Errorf("%s: %w", op, model.ErrSubmissionInFlight)
	}

	sess.State.Phase = model.PhaseRequesting
	sess.State.LastError = ""
	sess.State.DemoAvailable = false

	sess.State.PaymentMethod = model.PaymentMethodPIX
	ord := svc.orderFromState(&sess.State)

	result := charge.Synthetic()
	sess.State.Charge = &result
	sess.State.Phase = model.PhaseDegraded

	if err := svc.store.SaveOrder(ctx, ord, nil); err != nil {
		log.Warn(ctx, "demo order not persisted", logger.ErrorF(err))
	}

	svc.publishCompleted(ctx, log, sess, ord)

	return sess.State, nil
}

// submitPIX: one real charge attempt. A credentials-class failure
// fails the submission but arms the demo escape hatch; any other
// classification surfaces the provider's literal message.
func (svc *service) submitPIX(
	ctx context.Context,
	log *logger.Logger,
	sess *session.Session,
	ord model.Order,
) error {
	result, err := svc.gateway.Charge(ctx, svc.builder.Build(ord))
	if err != nil {
		if isCredentialsClass(err) {
			log.Warn(ctx, "pix charge hit credentials mismatch", logger.ErrorF(err))
			sess.State.Phase = model.PhaseFailed
			sess.State.LastError = pixFailureMessage
			sess.State.DemoAvailable = true
			return nil
		}

		log.Error(ctx, "pix charge failed", logger.ErrorF(err))
		sess.State.Phase = model.PhaseFailed
		sess.State.LastError = model.UserMessage(err, "Erro inesperado ao processar pedido.")
		return nil
	}

	sess.State.Charge = result
	sess.State.Phase = model.PhaseSucceeded

	if err := svc.store.SaveOrder(ctx, ord, nil); err != nil {
		// Persistence never blocks a charge result from reaching the
		// buyer.
		log.Warn(ctx, "order not persisted after pix charge", logger.ErrorF(err))
	}

	return nil
}

// submitCard: the card rail is unreliable upstream, so after the
// persistence write every card submission pivots to a real PIX
// recovery charge, with the synthetic artifact as terminal fallback.
func (svc *service) submitCard(
	ctx context.Context,
	log *logger.Logger,
	sess *session.Session,
	ord model.Order,
	card *model.CardDetails,
) error {
	if !validCard(card) {
		sess.State.Phase = model.PhaseFailed
		sess.State.LastError = cardDataMessage
		return model.ErrValidation
	}

	if err := svc.store.SaveOrder(ctx, ord, card); err != nil {
		log.Warn(ctx, "card order not persisted", logger.ErrorF(err))
	}

	// Recovery charge is sequenced strictly after the save resolves.
	result, err := svc.gateway.Charge(ctx, svc.builder.Build(ord))
	if err != nil {
		if isCredentialsClass(err) {
			log.Warn(ctx, "recovery pix hit credentials mismatch, degrading to synthetic",
				logger.ErrorF(err),
			)
			synthetic := charge.Synthetic()
			sess.State.Charge = &synthetic
			sess.State.Phase = model.PhaseDegraded
			sess.State.RedirectedFromCard = true
			return nil
		}

		log.Error(ctx, "recovery pix failed", logger.ErrorF(err))
		sess.State.Phase = model.PhaseFailed
		sess.State.LastError = model.UserMessage(err, "Erro inesperado ao processar pedido.")
		return nil
	}

	sess.State.Charge = result
	sess.State.Phase = model.PhaseDegraded
	sess.State.RedirectedFromCard = true

	return nil
}

func (svc *service) orderFromState(state *model.CheckoutState) model.Order {
	return model.NewOrder(
		model.CatalogItems(),
		state.ShippingPrice,
		state.Buyer,
		state.Address,
		state.PaymentMethod,
	)
}

func (svc *service) publishCompleted(
	ctx context.Context,
	log *logger.Logger,
	sess *session.Session,
	ord model.Order,
) {
	if svc.producer == nil || sess.State.Charge == nil {
		return
	}

	event := model.CompletedOrder{
		EventID:       uuid.New(),
		SessionID:     sess.ID,
		TotalCents:    ord.Total.Mul(decimalCents).Round(0).IntPart(),
		PaymentMethod: sess.State.PaymentMethod,
		ChargeID:      sess.State.Charge.ExternalID,
		Degraded:      sess.State.Phase == model.PhaseDegraded,
		CreatedAt:     time.Now().UTC(),
	}

	if err := svc.producer.SendOrderCompleted(ctx, event); err != nil {
		log.Warn(ctx, "order completed event not published", logger.ErrorF(err))
	}
}

// isCredentialsClass groups the classifications that mean "this
// attempt cannot succeed with the current configuration": a
// credentials mismatch proper, and a success response with no token,
// which is indistinguishable from misconfiguration.
func isCredentialsClass(err error) bool {
	return errors.Is(err, model.ErrCredentialsMismatch) ||
		errors.Is(err, model.ErrMalformedResponse)
}

func validCard(card *model.CardDetails) bool {
	if card == nil {
		return false
	}
	number := strings.ReplaceAll(card.Number, " ", "")
	return len(number) >= minCardDigits && len(card.CVV) >= minCVVDigits
}

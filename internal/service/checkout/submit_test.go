package checkout

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Poupe902/Checkout-Bahia/internal/model"
	"github.com/Poupe902/Checkout-Bahia/internal/service/charge"
	"github.com/Poupe902/Checkout-Bahia/internal/session"
)

func validTestCard() *model.CardDetails {
	return &model.CardDetails{
		Number:       "4111 1111 1111 1111",
		Name:         "MARIA SOUZA",
		Expiry:       "12/30",
		CVV:          "123",
		Installments: "1",
	}
}

func realCharge() *model.ChargeResult {
	return &model.ChargeResult{
		PayCode:    "real-pix-code",
		ImageURL:   "https://gateway.example/qr.png",
		ExternalID: "trx_1",
	}
}

func TestSubmitPIX(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	tests := []struct {
		name   string
		setup  func(d deps)
		assert func(t *testing.T, state model.CheckoutState, err error, d deps)
	}{
		{
			name: "charge and save succeed",
			setup: func(d deps) {
				d.gateway.On("Charge", mock.Anything, mock.MatchedBy(func(req model.ChargeRequest) bool {
					return req.AmountCents == 8990 && req.OfferHash == "free-offer"
				})).Return(realCharge(), nil).Once()
				d.store.On("SaveOrder", mock.Anything, mock.Anything, (*model.CardDetails)(nil)).
					Return(nil).Once()
				d.producer.On("SendOrderCompleted", mock.Anything, mock.MatchedBy(func(e model.CompletedOrder) bool {
					return e.TotalCents == 8990 && !e.Degraded && e.ChargeID == "trx_1"
				})).Return(nil).Once()
			},
			assert: func(t *testing.T, state model.CheckoutState, err error, d deps) {
				require.NoError(t, err)
				assert.Equal(t, model.PhaseSucceeded, state.Phase)
				require.NotNil(t, state.Charge)
				assert.Equal(t, "real-pix-code", state.Charge.PayCode)
				assert.False(t, state.DemoAvailable)
				d.gateway.AssertExpectations(t)
				d.store.AssertExpectations(t)
				d.producer.AssertExpectations(t)
			},
		},
		{
			name: "save failure never blocks the charge result",
			setup: func(d deps) {
				d.gateway.On("Charge", mock.Anything, mock.Anything).
					Return(realCharge(), nil).Once()
				d.store.On("SaveOrder", mock.Anything, mock.Anything, (*model.CardDetails)(nil)).
					Return(model.Classified(model.ErrSchemaMismatch, "missing column")).Once()
				d.producer.On("SendOrderCompleted", mock.Anything, mock.Anything).
					Return(nil).Once()
			},
			assert: func(t *testing.T, state model.CheckoutState, err error, d deps) {
				require.NoError(t, err)
				assert.Equal(t, model.PhaseSucceeded, state.Phase)
				require.NotNil(t, state.Charge)
				d.store.AssertExpectations(t)
			},
		},
		{
			name: "credentials mismatch fails with demo escape hatch",
			setup: func(d deps) {
				d.gateway.On("Charge", mock.Anything, mock.Anything).
					Return(nil, model.Classified(model.ErrCredentialsMismatch, "")).Once()
			},
			assert: func(t *testing.T, state model.CheckoutState, err error, d deps) {
				require.NoError(t, err)
				assert.Equal(t, model.PhaseFailed, state.Phase)
				assert.True(t, state.DemoAvailable)
				assert.Contains(t, state.LastError, "Não foi possível gerar o seu PIX")
				assert.Nil(t, state.Charge)
				d.store.AssertNotCalled(t, "SaveOrder", mock.Anything, mock.Anything, mock.Anything)
				d.producer.AssertNotCalled(t, "SendOrderCompleted", mock.Anything, mock.Anything)
			},
		},
		{
			name: "malformed success response behaves like credentials mismatch",
			setup: func(d deps) {
				d.gateway.On("Charge", mock.Anything, mock.Anything).
					Return(nil, model.Classified(model.ErrMalformedResponse, "")).Once()
			},
			assert: func(t *testing.T, state model.CheckoutState, err error, d deps) {
				require.NoError(t, err)
				assert.Equal(t, model.PhaseFailed, state.Phase)
				assert.True(t, state.DemoAvailable)
			},
		},
		{
			name: "provider rejection surfaces the literal message",
			setup: func(d deps) {
				d.gateway.On("Charge", mock.Anything, mock.Anything).
					Return(nil, model.Classified(model.ErrGatewayRejected, "LIMITE EXCEDIDO")).Once()
			},
			assert: func(t *testing.T, state model.CheckoutState, err error, d deps) {
				require.NoError(t, err)
				assert.Equal(t, model.PhaseFailed, state.Phase)
				assert.False(t, state.DemoAvailable)
				assert.Equal(t, "LIMITE EXCEDIDO", state.LastError)
			},
		},
		{
			name: "network failure is terminal for the attempt",
			setup: func(d deps) {
				d.gateway.On("Charge", mock.Anything, mock.Anything).
					Return(nil, model.Classified(model.ErrNetwork, "")).Once()
			},
			assert: func(t *testing.T, state model.CheckoutState, err error, d deps) {
				require.NoError(t, err)
				assert.Equal(t, model.PhaseFailed, state.Phase)
				assert.False(t, state.DemoAvailable)
			},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			d := newDeps()
			svc := newSvc(d)
			id := sessionAtPayment(t, svc, model.ShippingFree)

			tt.setup(d)

			state, err := svc.Submit(ctx, id, nil)
			tt.assert(t, state, err, d)
		})
	}
}

func TestSubmitCard(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	tests := []struct {
		name   string
		card   *model.CardDetails
		setup  func(d deps)
		assert func(t *testing.T, state model.CheckoutState, err error, d deps)
	}{
		{
			name: "short card number fails before any network call",
			card: &model.CardDetails{Number: "4111 1111", CVV: "123"},
			setup: func(d deps) {
				// No calls expected.
			},
			assert: func(t *testing.T, state model.CheckoutState, err error, d deps) {
				require.Error(t, err)
				assert.ErrorIs(t, err, model.ErrValidation)
				assert.Equal(t, model.PhaseFailed, state.Phase)
				assert.Equal(t, cardDataMessage, state.LastError)
				d.gateway.AssertNotCalled(t, "Charge", mock.Anything, mock.Anything)
				d.store.AssertNotCalled(t, "SaveOrder", mock.Anything, mock.Anything, mock.Anything)
			},
		},
		{
			name: "short cvv fails before any network call",
			card: &model.CardDetails{Number: "4111111111111111", CVV: "12"},
			setup: func(d deps) {
				// No calls expected.
			},
			assert: func(t *testing.T, state model.CheckoutState, err error, d deps) {
				require.Error(t, err)
				assert.ErrorIs(t, err, model.ErrValidation)
				d.gateway.AssertNotCalled(t, "Charge", mock.Anything, mock.Anything)
				d.store.AssertNotCalled(t, "SaveOrder", mock.Anything, mock.Anything, mock.Anything)
			},
		},
		{
			name: "missing card fails before any network call",
			card: nil,
			setup: func(d deps) {
				// No calls expected.
			},
			assert: func(t *testing.T, state model.CheckoutState, err error, d deps) {
				require.Error(t, err)
				assert.ErrorIs(t, err, model.ErrValidation)
			},
		},
		{
			name: "recovery pix succeeds after save, redirecting to pix screen",
			card: validTestCard(),
			setup: func(d deps) {
				d.store.On("SaveOrder", mock.Anything, mock.Anything, mock.MatchedBy(func(c *model.CardDetails) bool {
					return c != nil && c.CVV == "123"
				})).Return(nil).Once()
				d.gateway.On("Charge", mock.Anything, mock.MatchedBy(func(req model.ChargeRequest) bool {
					return req.AmountCents == 9980 && req.OfferHash == "paid-offer"
				})).Return(realCharge(), nil).Once()
				d.producer.On("SendOrderCompleted", mock.Anything, mock.MatchedBy(func(e model.CompletedOrder) bool {
					return e.Degraded
				})).Return(nil).Once()
			},
			assert: func(t *testing.T, state model.CheckoutState, err error, d deps) {
				require.NoError(t, err)
				assert.Equal(t, model.PhaseDegraded, state.Phase)
				assert.True(t, state.RedirectedFromCard)
				require.NotNil(t, state.Charge)
				assert.Equal(t, "real-pix-code", state.Charge.PayCode)
				d.store.AssertExpectations(t)
				d.gateway.AssertExpectations(t)
			},
		},
		{
			name: "recovery pix credentials mismatch degrades to synthetic charge",
			card: validTestCard(),
			setup: func(d deps) {
				d.store.On("SaveOrder", mock.Anything, mock.Anything, mock.Anything).
					Return(nil).Once()
				d.gateway.On("Charge", mock.Anything, mock.Anything).
					Return(nil, model.Classified(model.ErrCredentialsMismatch, "")).Once()
				d.producer.On("SendOrderCompleted", mock.Anything, mock.Anything).
					Return(nil).Once()
			},
			assert: func(t *testing.T, state model.CheckoutState, err error, d deps) {
				require.NoError(t, err)
				assert.Equal(t, model.PhaseDegraded, state.Phase)
				assert.True(t, state.RedirectedFromCard)
				require.NotNil(t, state.Charge, "buyer is never left without a completion artifact")
				assert.NotEmpty(t, state.Charge.PayCode)
				assert.Contains(t, state.Charge.ExternalID, "mock_")
				assert.Empty(t, state.LastError)
			},
		},
		{
			name: "save failure does not stop the recovery charge",
			card: validTestCard(),
			setup: func(d deps) {
				d.store.On("SaveOrder", mock.Anything, mock.Anything, mock.Anything).
					Return(model.Classified(model.ErrSchemaMismatch, "missing column")).Once()
				d.gateway.On("Charge", mock.Anything, mock.Anything).
					Return(realCharge(), nil).Once()
				d.producer.On("SendOrderCompleted", mock.Anything, mock.Anything).
					Return(nil).Once()
			},
			assert: func(t *testing.T, state model.CheckoutState, err error, d deps) {
				require.NoError(t, err)
				assert.Equal(t, model.PhaseDegraded, state.Phase)
				require.NotNil(t, state.Charge)
				d.gateway.AssertExpectations(t)
			},
		},
		{
			name: "recovery pix provider rejection surfaces the literal message",
			card: validTestCard(),
			setup: func(d deps) {
				d.store.On("SaveOrder", mock.Anything, mock.Anything, mock.Anything).
					Return(nil).Once()
				d.gateway.On("Charge", mock.Anything, mock.Anything).
					Return(nil, model.Classified(model.ErrGatewayRejected, "CARTÃO RECUSADO")).Once()
			},
			assert: func(t *testing.T, state model.CheckoutState, err error, d deps) {
				require.NoError(t, err)
				assert.Equal(t, model.PhaseFailed, state.Phase)
				assert.Equal(t, "CARTÃO RECUSADO", state.LastError)
				assert.Nil(t, state.Charge)
				assert.False(t, state.DemoAvailable)
			},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			d := newDeps()
			svc := newSvc(d)
			id := sessionAtPayment(t, svc, model.ShippingStandard)

			_, err := svc.ChoosePaymentMethod(ctx, id, model.PaymentMethodCard)
			require.NoError(t, err)

			tt.setup(d)

			state, err := svc.Submit(ctx, id, tt.card)
			tt.assert(t, state, err, d)
		})
	}
}

func TestSubmitGuards(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("submit before payment step", func(t *testing.T) {
		t.Parallel()

		svc := newSvc(newDeps())
		id, _, err := svc.Start(ctx)
		require.NoError(t, err)

		_, err = svc.Submit(ctx, id, nil)
		assert.ErrorIs(t, err, model.ErrWrongStep)
	})

	t.Run("second submit while one is in flight", func(t *testing.T) {
		t.Parallel()

		d := newDeps()
		svc := newSvc(d)
		id := sessionAtPayment(t, svc, model.ShippingFree)

		sess, err := svc.sessions.Get(id)
		require.NoError(t, err)
		sess.State.Phase = model.PhaseRequesting

		_, err = svc.Submit(ctx, id, nil)
		assert.ErrorIs(t, err, model.ErrSubmissionInFlight)
		d.gateway.AssertNotCalled(t, "Charge", mock.Anything, mock.Anything)
	})
}

func TestDemoSubmit(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("not available before an exhausted cascade", func(t *testing.T) {
		t.Parallel()

		svc := newSvc(newDeps())
		id := sessionAtPayment(t, svc, model.ShippingFree)

		_, err := svc.DemoSubmit(ctx, id)
		assert.ErrorIs(t, err, model.ErrDemoUnavailable)
	})

	t.Run("after credentials mismatch it settles with a synthetic charge", func(t *testing.T) {
		t.Parallel()

		d := newDeps()
		svc := newSvc(d)
		id := sessionAtPayment(t, svc, model.ShippingFree)

		d.gateway.On("Charge", mock.Anything, mock.Anything).
			Return(nil, model.Classified(model.ErrCredentialsMismatch, "")).Once()

		state, err := svc.Submit(ctx, id, nil)
		require.NoError(t, err)
		require.True(t, state.DemoAvailable)

		// Persistence failure is ignored for the demo path.
		d.store.On("SaveOrder", mock.Anything, mock.Anything, (*model.CardDetails)(nil)).
			Return(model.Classified(model.ErrStorePermission, "rls")).Once()
		d.producer.On("SendOrderCompleted", mock.Anything, mock.Anything).
			Return(nil).Once()

		state, err = svc.DemoSubmit(ctx, id)
		require.NoError(t, err)

		assert.Equal(t, model.PhaseDegraded, state.Phase)
		assert.Equal(t, model.PaymentMethodPIX, state.PaymentMethod)
		require.NotNil(t, state.Charge)
		assert.Contains(t, state.Charge.ExternalID, "mock_")
		assert.Empty(t, state.LastError)
		d.store.AssertExpectations(t)
	})
}

func TestSubmitWithoutProducerConfigured(t *testing.T) {
	t.Parallel()

	d := newDeps()
	svc := NewCheckoutService(
		session.NewStore(),
		d.gateway,
		d.store,
		d.lookup,
		charge.NewBuilder("free-offer", "paid-offer"),
		nil,
	)

	id := sessionAtPayment(t, svc, model.ShippingFree)

	d.gateway.On("Charge", mock.Anything, mock.Anything).Return(realCharge(), nil).Once()
	d.store.On("SaveOrder", mock.Anything, mock.Anything, (*model.CardDetails)(nil)).Return(nil).Once()

	state, err := svc.Submit(context.Background(), id, nil)
	require.NoError(t, err)
	assert.Equal(t, model.PhaseSucceeded, state.Phase)
}

package store

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Poupe902/Checkout-Bahia/internal/model"
)

func testOrder(method model.PaymentMethod) model.Order {
	return model.NewOrder(
		model.CatalogItems(),
		decimal.RequireFromString("9.90"),
		model.BuyerProfile{
			Name:  "Maria Souza",
			Email: "maria@example.com",
			Phone: "11988776655",
		},
		model.Address{
			ZipCode:      "01310100",
			Street:       "Av. Paulista",
			Number:       "1000",
			Neighborhood: "Bela Vista",
			City:         "São Paulo",
			State:        "SP",
		},
		method,
	)
}

func testCard() *model.CardDetails {
	return &model.CardDetails{
		Number:       "4111111111111111",
		Name:         "MARIA SOUZA",
		Expiry:       "12/30",
		CVV:          "123",
		Installments: "3",
	}
}

func missingColumnResponse(w http.ResponseWriter) {
	w.WriteHeader(http.StatusBadRequest)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"code":    "PGRST204",
		"message": "Could not find the 'card_installments' column of 'orders' in the schema cache",
	})
}

func TestSaveOrderFullPayload(t *testing.T) {
	t.Parallel()

	var captured map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/rest/v1/orders", r.URL.Path)
		require.Equal(t, "anon-key", r.Header.Get("apikey"))
		require.Equal(t, "Bearer anon-key", r.Header.Get("Authorization"))
		require.Equal(t, "return=representation", r.Header.Get("Prefer"))

		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte("[{}]"))
	}))
	defer srv.Close()

	sut := NewClient(srv.URL, "anon-key", 5*time.Second)

	err := sut.SaveOrder(context.Background(), testOrder(model.PaymentMethodCard), testCard())
	require.NoError(t, err)

	assert.Equal(t, "Maria Souza", captured["customer_name"])
	assert.Equal(t, 99.8, captured["total_amount"])
	assert.Equal(t, "credit_card", captured["payment_method"])
	assert.Equal(t, "4111111111111111", captured["card_number"])
	assert.Equal(t, "3", captured["card_installments"])
	assert.Equal(t, "Bela Vista", captured["address_neighborhood"])
}

func TestSaveOrderPIXHasNullCardColumns(t *testing.T) {
	t.Parallel()

	var captured map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	sut := NewClient(srv.URL, "anon-key", 5*time.Second)

	err := sut.SaveOrder(context.Background(), testOrder(model.PaymentMethodPIX), nil)
	require.NoError(t, err)

	v, present := captured["card_number"]
	assert.True(t, present, "card columns are sent explicitly as null for pix")
	assert.Nil(t, v)
	assert.Nil(t, captured["card_installments"])
}

func TestSaveOrderSchemaMismatchRetryLadder(t *testing.T) {
	t.Parallel()

	var payloads []map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var p map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&p))
		payloads = append(payloads, p)

		if len(payloads) < 3 {
			missingColumnResponse(w)
			return
		}
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	sut := NewClient(srv.URL, "anon-key", 5*time.Second)

	err := sut.SaveOrder(context.Background(), testOrder(model.PaymentMethodCard), testCard())
	require.NoError(t, err)
	require.Len(t, payloads, 3)

	// Attempt 0: full record.
	_, hasInstallments := payloads[0]["card_installments"]
	_, hasCard := payloads[0]["card_number"]
	assert.True(t, hasInstallments)
	assert.True(t, hasCard)

	// Attempt 1: installments dropped first.
	_, hasInstallments = payloads[1]["card_installments"]
	_, hasCard = payloads[1]["card_number"]
	assert.False(t, hasInstallments)
	assert.True(t, hasCard)

	// Attempt 2: all card columns dropped.
	_, hasInstallments = payloads[2]["card_installments"]
	_, hasCard = payloads[2]["card_number"]
	assert.False(t, hasInstallments)
	assert.False(t, hasCard)
}

func TestSaveOrderSchemaMismatchExhausted(t *testing.T) {
	t.Parallel()

	var attempts int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		attempts++
		missingColumnResponse(w)
	}))
	defer srv.Close()

	sut := NewClient(srv.URL, "anon-key", 5*time.Second)

	err := sut.SaveOrder(context.Background(), testOrder(model.PaymentMethodCard), testCard())
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrSchemaMismatch)
	assert.Equal(t, 3, attempts, "initial attempt plus two retries, no more")
}

func TestSaveOrderPermissionErrorsNeverRetry(t *testing.T) {
	t.Parallel()

	for _, status := range []int{http.StatusUnauthorized, http.StatusForbidden} {
		status := status
		t.Run(http.StatusText(status), func(t *testing.T) {
			t.Parallel()

			var attempts int
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				attempts++
				w.WriteHeader(status)
				_ = json.NewEncoder(w).Encode(map[string]any{"message": "permission denied"})
			}))
			defer srv.Close()

			sut := NewClient(srv.URL, "anon-key", 5*time.Second)

			err := sut.SaveOrder(context.Background(), testOrder(model.PaymentMethodPIX), nil)
			require.Error(t, err)
			assert.ErrorIs(t, err, model.ErrStorePermission)
			assert.Equal(t, 1, attempts)
			assert.Contains(t, model.UserMessage(err, ""), "POLICY")
		})
	}
}

func TestSaveOrderUnknownFailure(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]any{"message": "relation does not exist"})
	}))
	defer srv.Close()

	sut := NewClient(srv.URL, "anon-key", 5*time.Second)

	err := sut.SaveOrder(context.Background(), testOrder(model.PaymentMethodPIX), nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrUnknown)
	assert.Equal(t, "relation does not exist", model.UserMessage(err, ""))
}

func TestSaveOrderNetworkFailure(t *testing.T) {
	t.Parallel()

	sut := NewClient("http://127.0.0.1:1", "anon-key", time.Second)

	err := sut.SaveOrder(context.Background(), testOrder(model.PaymentMethodPIX), nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrNetwork)
}

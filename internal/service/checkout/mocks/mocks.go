// Package mocks provides testify mocks for the checkout service
// collaborators.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/Poupe902/Checkout-Bahia/internal/model"
)

type MockGatewayClient struct {
	mock.Mock
}

func (m *MockGatewayClient) Charge(ctx context.Context, req model.ChargeRequest) (*model.ChargeResult, error) {
	args := m.Called(ctx, req)
	if res := args.Get(0); res != nil {
		return res.(*model.ChargeResult), args.Error(1)
	}
	return nil, args.Error(1)
}

type MockStoreClient struct {
	mock.Mock
}

func (m *MockStoreClient) SaveOrder(ctx context.Context, ord model.Order, card *model.CardDetails) error {
	args := m.Called(ctx, ord, card)
	return args.Error(0)
}

type MockAddressLookup struct {
	mock.Mock
}

func (m *MockAddressLookup) Lookup(ctx context.Context, code string) (*model.Address, error) {
	args := m.Called(ctx, code)
	if res := args.Get(0); res != nil {
		return res.(*model.Address), args.Error(1)
	}
	return nil, args.Error(1)
}

type MockOrderCompletedSender struct {
	mock.Mock
}

func (m *MockOrderCompletedSender) SendOrderCompleted(ctx context.Context, event model.CompletedOrder) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

package model

import (
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

type PaymentMethod string

const (
	PaymentMethodPIX  PaymentMethod = "pix"
	PaymentMethodCard PaymentMethod = "credit_card"
)

type ShippingOption string

const (
	ShippingFree     ShippingOption = "free"
	ShippingStandard ShippingOption = "standard"
)

type Item struct {
	ID       string
	Name     string
	Price    decimal.Decimal
	Quantity int
}

// BuyerProfile is captured on the identity step and frozen once the
// buyer advances; only an explicit edit reopens it.
type BuyerProfile struct {
	Name     string
	Email    string
	Phone    string
	Document string
}

type Address struct {
	ZipCode      string
	Street       string
	Number       string
	Complement   string
	Neighborhood string
	City         string
	State        string
}

type CardDetails struct {
	Number       string
	Name         string
	Expiry       string
	CVV          string
	Installments string
}

type Order struct {
	Items         []Item
	Subtotal      decimal.Decimal
	ShippingPrice decimal.Decimal
	Total         decimal.Decimal
	Buyer         BuyerProfile
	Address       Address
	PaymentMethod PaymentMethod
}

// NewOrder computes the money fields once; they are never mutated
// afterwards. Total == Subtotal + ShippingPrice by construction.
func NewOrder(
	items []Item,
	shippingPrice decimal.Decimal,
	buyer BuyerProfile,
	addr Address,
	method PaymentMethod,
) Order {
	subtotal := lo.Reduce(items, func(acc decimal.Decimal, it Item, _ int) decimal.Decimal {
		return acc.Add(it.Price.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}, decimal.Zero)

	return Order{
		Items:         items,
		Subtotal:      subtotal,
		ShippingPrice: shippingPrice,
		Total:         subtotal.Add(shippingPrice),
		Buyer:         buyer,
		Address:       addr,
		PaymentMethod: method,
	}
}

func (o Order) FreeShipping() bool { return o.ShippingPrice.IsZero() }

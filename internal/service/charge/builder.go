package charge

import (
	"strings"
	"unicode"

	"github.com/shopspring/decimal"

	"github.com/Poupe902/Checkout-Bahia/internal/model"
)

// defaultPhone keeps the gateway's customer validation happy when the
// buyer left the optional phone field empty.
const defaultPhone = "11999999999"

var cents = decimal.NewFromInt(100)

// Builder turns an order into a gateway charge request. Pure, no
// failure modes: offer selection is a function of the shipping price
// and the amount is rounded to integer centavos exactly.
type Builder struct {
	freeShippingOffer string
	paidShippingOffer string
}

func NewBuilder(freeShippingOffer, paidShippingOffer string) *Builder {
	return &Builder{
		freeShippingOffer: freeShippingOffer,
		paidShippingOffer: paidShippingOffer,
	}
}

func (b *Builder) Build(ord model.Order) model.ChargeRequest {
	free := ord.FreeShipping()

	offer := b.paidShippingOffer
	if free {
		offer = b.freeShippingOffer
	}

	phone := digitsOnly(ord.Buyer.Phone)
	if phone == "" {
		phone = defaultPhone
	}

	return model.ChargeRequest{
		AmountCents:      ord.Total.Mul(cents).Round(0).IntPart(),
		OfferHash:        offer,
		ProductTitle:     model.ProductTitle(free),
		CustomerName:     strings.TrimSpace(ord.Buyer.Name),
		CustomerEmail:    strings.TrimSpace(ord.Buyer.Email),
		CustomerPhone:    phone,
		CustomerDocument: digitsOnly(ord.Buyer.Document),
	}
}

func digitsOnly(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) {
			return r
		}
		return -1
	}, s)
}

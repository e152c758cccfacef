package model

import "github.com/shopspring/decimal"

// The storefront sells a single fixed kit; prices are pinned here and
// never come from user input.

var (
	kitPrice              = decimal.RequireFromString("89.90")
	standardShippingPrice = decimal.RequireFromString("9.90")
)

const productBaseTitle = "Kit 24 Potes Herméticos Ecolock"

func CatalogItems() []Item {
	return []Item{
		{
			ID:       "ecolock-kit-24",
			Name:     productBaseTitle + " - Organizador Premium",
			Price:    kitPrice,
			Quantity: 1,
		},
	}
}

func StandardShippingPrice() decimal.Decimal { return standardShippingPrice }

// ProductTitle is what the gateway shows the buyer; it tracks the
// shipping choice because each choice maps to a distinct offer.
func ProductTitle(freeShipping bool) string {
	if freeShipping {
		return productBaseTitle + " - Frete Grátis"
	}
	return productBaseTitle + " - Frete Expresso"
}

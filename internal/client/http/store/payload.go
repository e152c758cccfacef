package store

import (
	"time"

	"github.com/Poupe902/Checkout-Bahia/internal/model"
)

// The store's orders table has drifted across deployments: older
// schemas miss card_installments, the oldest miss the card columns
// entirely. Each retry tier is its own payload type instead of
// deleting keys from a map at runtime.

type baseRecord struct {
	CustomerName        string  `json:"customer_name"`
	CustomerEmail       string  `json:"customer_email"`
	CustomerPhone       string  `json:"customer_phone"`
	TotalAmount         float64 `json:"total_amount"`
	PaymentMethod       string  `json:"payment_method"`
	ZipCode             string  `json:"zip_code"`
	AddressStreet       string  `json:"address_street"`
	AddressNumber       string  `json:"address_number"`
	AddressNeighborhood string  `json:"address_neighborhood"`
	AddressCity         string  `json:"address_city"`
	AddressState        string  `json:"address_state"`
	CreatedAt           string  `json:"created_at"`
}

type cardColumns struct {
	CardNumber *string `json:"card_number"`
	CardName   *string `json:"card_name"`
	CardExpiry *string `json:"card_expiry"`
	CardCVV    *string `json:"card_cvv"`
}

type fullRecord struct {
	baseRecord
	cardColumns
	CardInstallments *string `json:"card_installments"`
}

type noInstallmentsRecord struct {
	baseRecord
	cardColumns
}

func newBaseRecord(ord model.Order, now time.Time) baseRecord {
	total, _ := ord.Total.Float64()
	return baseRecord{
		CustomerName:        ord.Buyer.Name,
		CustomerEmail:       ord.Buyer.Email,
		CustomerPhone:       ord.Buyer.Phone,
		TotalAmount:         total,
		PaymentMethod:       string(ord.PaymentMethod),
		ZipCode:             ord.Address.ZipCode,
		AddressStreet:       ord.Address.Street,
		AddressNumber:       ord.Address.Number,
		AddressNeighborhood: ord.Address.Neighborhood,
		AddressCity:         ord.Address.City,
		AddressState:        ord.Address.State,
		CreatedAt:           now.UTC().Format(time.RFC3339),
	}
}

func newCardColumns(card *model.CardDetails) cardColumns {
	if card == nil {
		return cardColumns{}
	}
	return cardColumns{
		CardNumber: ptr(card.Number),
		CardName:   ptr(card.Name),
		CardExpiry: ptr(card.Expiry),
		CardCVV:    ptr(card.CVV),
	}
}

// recordForAttempt selects the payload tier for the given retry index:
// 0 = full, 1 = without installments, 2 = without card columns.
func recordForAttempt(ord model.Order, card *model.CardDetails, attempt int, now time.Time) any {
	base := newBaseRecord(ord, now)

	switch attempt {
	case 0:
		installments := (*string)(nil)
		if card != nil {
			n := card.Installments
			if n == "" {
				n = "1"
			}
			installments = ptr(n)
		}
		return fullRecord{
			baseRecord:       base,
			cardColumns:      newCardColumns(card),
			CardInstallments: installments,
		}
	case 1:
		return noInstallmentsRecord{
			baseRecord:  base,
			cardColumns: newCardColumns(card),
		}
	default:
		return base
	}
}

func ptr(s string) *string { return &s }

package converter

import (
	"github.com/google/uuid"

	"github.com/Poupe902/Checkout-Bahia/internal/model"
)

type ChargeDTO struct {
	PayCode    string `json:"pay_code"`
	ImageURL   string `json:"image_url"`
	ExternalID string `json:"external_id,omitempty"`
}

type CheckoutStateDTO struct {
	SessionID     string `json:"session_id"`
	Step          int    `json:"step"`
	PaymentMethod string `json:"payment_method"`
	Phase         string `json:"phase"`

	Subtotal      string `json:"subtotal"`
	ShippingPrice string `json:"shipping_price"`
	Total         string `json:"total"`

	Charge *ChargeDTO `json:"charge,omitempty"`

	Error              string `json:"error,omitempty"`
	DemoAvailable      bool   `json:"demo_available"`
	RedirectedFromCard bool   `json:"redirected_from_card"`
}

type AddressDTO struct {
	ZipCode      string `json:"zip_code"`
	Street       string `json:"street"`
	Neighborhood string `json:"neighborhood"`
	City         string `json:"city"`
	State        string `json:"state"`
}

func CheckoutStateToDTO(id uuid.UUID, state model.CheckoutState) CheckoutStateDTO {
	ord := model.NewOrder(
		model.CatalogItems(),
		state.ShippingPrice,
		state.Buyer,
		state.Address,
		state.PaymentMethod,
	)

	dto := CheckoutStateDTO{
		SessionID:          id.String(),
		Step:               int(state.Step),
		PaymentMethod:      string(state.PaymentMethod),
		Phase:              string(state.Phase),
		Subtotal:           ord.Subtotal.StringFixed(2),
		ShippingPrice:      ord.ShippingPrice.StringFixed(2),
		Total:              ord.Total.StringFixed(2),
		Error:              state.LastError,
		DemoAvailable:      state.DemoAvailable,
		RedirectedFromCard: state.RedirectedFromCard,
	}

	if state.Charge != nil {
		dto.Charge = &ChargeDTO{
			PayCode:    state.Charge.PayCode,
			ImageURL:   state.Charge.ImageURL,
			ExternalID: state.Charge.ExternalID,
		}
	}

	return dto
}

func AddressToDTO(addr model.Address) AddressDTO {
	return AddressDTO{
		ZipCode:      addr.ZipCode,
		Street:       addr.Street,
		Neighborhood: addr.Neighborhood,
		City:         addr.City,
		State:        addr.State,
	}
}

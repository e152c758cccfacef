package model

import "net/url"

// ChargeRequest is the normalized input for the payment gateway.
// AmountCents is the order total rounded to integer centavos.
type ChargeRequest struct {
	AmountCents  int64
	OfferHash    string
	ProductTitle string

	CustomerName     string
	CustomerEmail    string
	CustomerPhone    string
	CustomerDocument string
}

// ChargeResult is produced only by a successful or synthetic charge.
// PayCode presence is the success predicate; the struct is never
// partially populated.
type ChargeResult struct {
	PayCode    string
	ImageURL   string
	ExternalID string
}

// QRImageLink builds a scannable image URL for a copy-paste payment
// code, used when the gateway returns no artifact of its own.
func QRImageLink(payCode string) string {
	return "https://api.qrserver.com/v1/create-qr-code/?size=300x300&data=" + url.QueryEscape(payCode)
}

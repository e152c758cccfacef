package gateway

import (
	"github.com/Poupe902/Checkout-Bahia/internal/model"
)

// The provider has shipped the payment token and the QR artifact under
// several response shapes over time. Extraction is an ordered list of
// paths tried in sequence; the first non-empty string wins. Paths are
// relative to the envelope ("data" when present, the root otherwise).
var (
	payCodePaths = [][]string{
		{"pix", "pix_qr_code"},
		{"pix_code"},
		{"payment", "pix_code"},
		{"payment_info", "pix_code"},
		{"pix", "pix_code"},
		{"pix_qr_code_text"},
		{"pix_copy_paste"},
	}

	imagePaths = [][]string{
		{"pix", "qr_code_base64"},
		{"pix", "pix_qr_code_url"},
		{"pix_qr_code_url"},
		{"payment", "pix_qr_code_url"},
		{"payment_info", "pix_qr_code_url"},
		{"pix_qr_code"},
	}

	externalIDPaths = [][]string{
		{"hash"},
		{"id"},
	}
)

// extractResult probes a 2xx response body for the charge artifacts. A
// success response with no locatable pay code is classified as
// malformed; it is indistinguishable from misconfiguration upstream
// and the cascade treats it the same way.
func extractResult(doc map[string]any) (*model.ChargeResult, *model.ClassifiedError) {
	envelope := doc
	if data, ok := doc["data"].(map[string]any); ok {
		envelope = data
	}

	payCode := firstMatch(envelope, payCodePaths)
	if payCode == "" {
		return nil, model.Classified(model.ErrMalformedResponse, "")
	}

	image := firstMatch(envelope, imagePaths)
	if image == "" {
		image = model.QRImageLink(payCode)
	}

	return &model.ChargeResult{
		PayCode:    payCode,
		ImageURL:   image,
		ExternalID: firstMatch(envelope, externalIDPaths),
	}, nil
}

func firstMatch(doc map[string]any, paths [][]string) string {
	for _, path := range paths {
		if v := lookup(doc, path); v != "" {
			return v
		}
	}
	return ""
}

func lookup(doc map[string]any, path []string) string {
	node := any(doc)
	for _, key := range path {
		m, ok := node.(map[string]any)
		if !ok {
			return ""
		}
		node = m[key]
	}

	s, _ := node.(string)
	return s
}

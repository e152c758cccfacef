package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Poupe902/Checkout-Bahia/internal/model"
	"github.com/Poupe902/Checkout-Bahia/internal/platform/logger"
)

type client struct {
	httpc    *http.Client
	baseURL  string
	apiToken string
}

func NewClient(baseURL, apiToken string, timeout time.Duration) *client {
	return &client{
		httpc:    &http.Client{Timeout: timeout},
		baseURL:  strings.TrimRight(baseURL, "/"),
		apiToken: apiToken,
	}
}

type customerPayload struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phone_number"`
	Document    string `json:"document"`
}

type cartItemPayload struct {
	Title         string `json:"title"`
	Price         int64  `json:"price"`
	Quantity      int    `json:"quantity"`
	ProductHash   string `json:"product_hash"`
	OfferHash     string `json:"offer_hash"`
	OperationType int    `json:"operation_type"`
	Tangible      bool   `json:"tangible"`
}

type chargePayload struct {
	Amount            int64             `json:"amount"`
	ProductHash       string            `json:"product_hash"`
	OfferHash         string            `json:"offer_hash"`
	PaymentMethod     string            `json:"payment_method"`
	Customer          customerPayload   `json:"customer"`
	Cart              []cartItemPayload `json:"cart"`
	Installments      int               `json:"installments"`
	ExpireInDays      int               `json:"expire_in_days"`
	TransactionOrigin string            `json:"transaction_origin"`
}

// Charge issues a PIX charge for the given request. Repeated calls may
// create duplicate charges upstream; callers must serialize attempts.
func (c *client) Charge(ctx context.Context, req model.ChargeRequest) (*model.ChargeResult, error) {
	const op = "gateway.client.Charge"

	// The gateway's 422 validator wants the product hash repeated at
	// every level of the payload.
	payload := chargePayload{
		Amount:        req.AmountCents,
		ProductHash:   req.OfferHash,
		OfferHash:     req.OfferHash,
		PaymentMethod: "pix",
		Customer: customerPayload{
			Name:        req.CustomerName,
			Email:       req.CustomerEmail,
			PhoneNumber: req.CustomerPhone,
			Document:    req.CustomerDocument,
		},
		Cart: []cartItemPayload{{
			Title:         req.ProductTitle,
			Price:         req.AmountCents,
			Quantity:      1,
			ProductHash:   req.OfferHash,
			OfferHash:     req.OfferHash,
			OperationType: 1,
			Tangible:      true,
		}},
		Installments:      1,
		ExpireInDays:      1,
		TransactionOrigin: "api",
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("%s: marshal payload: %w", op, err)
	}

	endpoint := fmt.Sprintf("%s/transactions?api_token=%s", c.baseURL, url.QueryEscape(c.apiToken))

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%s: build request: %w", op, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	resp, err := c.httpc.Do(httpReq)
	if err != nil {
		logger.Error(ctx, "gateway transport failure", logger.ErrorF(err))
		return nil, fmt.Errorf("%s: %w", op, model.Classified(model.ErrNetwork, ""))
	}
	defer func() { _ = resp.Body.Close() }()

	var doc map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		doc = map[string]any{}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		cerr := classifyRejection(resp.StatusCode, doc)
		logger.Warn(ctx, "gateway rejected charge",
			logger.Int("status", resp.StatusCode),
			logger.String("message", cerr.Message),
		)
		return nil, fmt.Errorf("%s: %w", op, cerr)
	}

	res, extractErr := extractResult(doc)
	if extractErr != nil {
		logger.Error(ctx, "gateway success response without payment token",
			logger.Int("status", resp.StatusCode),
		)
		return nil, fmt.Errorf("%s: %w", op, extractErr)
	}

	return res, nil
}

// Phrases the provider uses for offer/hash/seller misconfiguration.
// Any of these means the attempt cannot succeed with the current
// credentials, so the cascade should try a different path.
var credentialPhrases = []string{
	"hash",
	"oferta",
	"vendedor",
	"não contém um valor válido",
	"obrigatória a indicação",
}

func classifyRejection(status int, doc map[string]any) *model.ClassifiedError {
	message := rejectionMessage(doc)

	lower := strings.ToLower(message)
	for _, phrase := range credentialPhrases {
		if strings.Contains(lower, phrase) {
			return model.Classified(model.ErrCredentialsMismatch, "")
		}
	}
	switch status {
	case http.StatusBadRequest, http.StatusUnauthorized, http.StatusUnprocessableEntity:
		return model.Classified(model.ErrCredentialsMismatch, "")
	}

	return model.Classified(model.ErrGatewayRejected, strings.ToUpper(message))
}

const genericRejection = "Houve um problema ao processar o seu pagamento."

func rejectionMessage(doc map[string]any) string {
	if msg, ok := doc["message"].(string); ok && msg != "" {
		return msg
	}

	// Validation errors arrive as {"errors": {field: [messages]}}.
	if errsObj, ok := doc["errors"].(map[string]any); ok {
		for _, v := range errsObj {
			switch field := v.(type) {
			case []any:
				if len(field) > 0 {
					return fmt.Sprint(field[0])
				}
			case string:
				return field
			default:
				return fmt.Sprint(field)
			}
		}
	}

	return genericRejection
}

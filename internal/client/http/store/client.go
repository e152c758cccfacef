package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/Poupe902/Checkout-Bahia/internal/model"
	"github.com/Poupe902/Checkout-Bahia/internal/platform/logger"
)

// missingColumnCode is PostgREST's "column not found in schema cache"
// error code.
const missingColumnCode = "PGRST204"

const maxSchemaRetries = 2

const permissionMessage = "Erro de Permissão: Verifique se você executou o comando de POLICY (RLS) no Supabase."

type client struct {
	httpc   *http.Client
	baseURL string
	apiKey  string
	now     func() time.Time
}

func NewClient(baseURL, apiKey string, timeout time.Duration) *client {
	return &client{
		httpc:   &http.Client{Timeout: timeout},
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		now:     time.Now,
	}
}

// SaveOrder writes a flat order record. On a schema-mismatch failure
// it retries with progressively reduced payloads: first without the
// installment count, then without the card columns. Permission
// failures are never retried.
func (c *client) SaveOrder(ctx context.Context, ord model.Order, card *model.CardDetails) error {
	const op = "store.client.SaveOrder"

	now := c.now()
	for attempt := 0; ; attempt++ {
		status, body, err := c.attempt(ctx, recordForAttempt(ord, card, attempt, now))
		if err != nil {
			logger.Error(ctx, "store transport failure", logger.ErrorF(err))
			return fmt.Errorf("%s: %w", op, model.Classified(model.ErrNetwork, ""))
		}

		if status >= 200 && status <= 299 {
			if attempt > 0 {
				logger.Warn(ctx, "order saved with reduced field set",
					logger.Int("attempt", attempt),
				)
			}
			return nil
		}

		if status == http.StatusUnauthorized || status == http.StatusForbidden {
			logger.Error(ctx, "store rejected credentials", logger.Int("status", status))
			return fmt.Errorf("%s: %w", op, model.Classified(model.ErrStorePermission, permissionMessage))
		}

		if schemaMismatch(body) {
			if attempt < maxSchemaRetries {
				logger.Warn(ctx, "missing column detected, retrying with reduced payload",
					logger.Int("attempt", attempt),
				)
				continue
			}
			return fmt.Errorf("%s: %w", op, model.Classified(model.ErrSchemaMismatch, body.Message))
		}

		message := body.Message
		if message == "" {
			message = fmt.Sprintf("store returned status %d", status)
		}
		logger.Error(ctx, "store write failed",
			logger.Int("status", status),
			logger.String("message", message),
		)
		return fmt.Errorf("%s: %w", op, model.Classified(model.ErrUnknown, message))
	}
}

type errorBody struct {
	Message string `json:"message"`
	Code    string `json:"code"`
}

func schemaMismatch(body errorBody) bool {
	return body.Code == missingColumnCode || strings.Contains(body.Message, "column")
}

func (c *client) attempt(ctx context.Context, record any) (int, errorBody, error) {
	payload, err := json.Marshal(record)
	if err != nil {
		return 0, errorBody{}, err
	}

	req, err := http.NewRequestWithContext(
		ctx, http.MethodPost,
		c.baseURL+"/rest/v1/orders",
		bytes.NewReader(payload),
	)
	if err != nil {
		return 0, errorBody{}, err
	}
	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Prefer", "return=representation")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return 0, errorBody{}, err
	}
	defer func() { _ = resp.Body.Close() }()

	var body errorBody
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_ = json.NewDecoder(resp.Body).Decode(&body)
	}

	return resp.StatusCode, body, nil
}

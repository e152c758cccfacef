package cep

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/Poupe902/Checkout-Bahia/internal/model"
)

type client struct {
	httpc   *http.Client
	baseURL string
}

func NewClient(baseURL string, timeout time.Duration) *client {
	return &client{
		httpc:   &http.Client{Timeout: timeout},
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

type lookupResponse struct {
	Street       string `json:"logradouro"`
	Neighborhood string `json:"bairro"`
	City         string `json:"localidade"`
	State        string `json:"uf"`
	NotFound     bool   `json:"erro"`
}

// Lookup resolves an 8-digit postal code into address fields. A failed
// lookup is not fatal for checkout; the buyer can type the address by
// hand.
func (c *client) Lookup(ctx context.Context, code string) (*model.Address, error) {
	const op = "cep.client.Lookup"

	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, code)
	if len(digits) != 8 {
		return nil, fmt.Errorf("%s: %w", op, model.ErrValidation)
	}

	req, err := http.NewRequestWithContext(
		ctx, http.MethodGet,
		fmt.Sprintf("%s/ws/%s/json/", c.baseURL, digits),
		http.NoBody,
	)
	if err != nil {
		return nil, fmt.Errorf("%s: build request: %w", op, err)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, model.ErrNetwork)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s: status %d: %w", op, resp.StatusCode, model.ErrNetwork)
	}

	var body lookupResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("%s: decode: %w", op, err)
	}

	if body.NotFound {
		return nil, fmt.Errorf("%s: %w", op, model.ErrCEPNotFound)
	}

	return &model.Address{
		ZipCode:      digits,
		Street:       body.Street,
		Neighborhood: body.Neighborhood,
		City:         body.City,
		State:        body.State,
	}, nil
}

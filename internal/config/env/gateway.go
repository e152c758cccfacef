package envconfig

import (
	"time"

	"github.com/caarlos0/env/v11"
)

// ======= Payment gateway =======

type gatewayEnv struct {
	APIURL   string `env:"GATEWAY_API_URL,required"`
	APIToken string `env:"GATEWAY_API_TOKEN,required"`

	FreeShippingOffer string `env:"GATEWAY_OFFER_FREE_SHIPPING,required"`
	PaidShippingOffer string `env:"GATEWAY_OFFER_PAID_SHIPPING,required"`

	Timeout time.Duration `env:"GATEWAY_HTTP_TIMEOUT" envDefault:"15s"`
}

type gateway struct {
	raw gatewayEnv
}

func NewGatewayConfig() (*gateway, error) {
	var raw gatewayEnv
	if err := env.Parse(&raw); err != nil {
		return nil, err
	}
	return &gateway{raw: raw}, nil
}

func (cfg *gateway) APIURL() string            { return cfg.raw.APIURL }
func (cfg *gateway) APIToken() string          { return cfg.raw.APIToken }
func (cfg *gateway) FreeShippingOffer() string { return cfg.raw.FreeShippingOffer }
func (cfg *gateway) PaidShippingOffer() string { return cfg.raw.PaidShippingOffer }
func (cfg *gateway) Timeout() time.Duration    { return cfg.raw.Timeout }

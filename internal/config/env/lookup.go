package envconfig

import (
	"time"

	"github.com/caarlos0/env/v11"
)

// ======= Postal code lookup =======

type lookupEnv struct {
	APIURL  string        `env:"CEP_API_URL" envDefault:"https://viacep.com.br"`
	Timeout time.Duration `env:"CEP_HTTP_TIMEOUT" envDefault:"5s"`
}

type lookup struct {
	raw lookupEnv
}

func NewLookupConfig() (*lookup, error) {
	var raw lookupEnv
	if err := env.Parse(&raw); err != nil {
		return nil, err
	}
	return &lookup{raw: raw}, nil
}

func (cfg *lookup) APIURL() string         { return cfg.raw.APIURL }
func (cfg *lookup) Timeout() time.Duration { return cfg.raw.Timeout }

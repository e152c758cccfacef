package envconfig

import (
	"time"

	"github.com/caarlos0/env/v11"
)

// ======= Persistence store =======

type storeEnv struct {
	URL    string `env:"STORE_URL,required"`
	APIKey string `env:"STORE_API_KEY,required"`

	Timeout time.Duration `env:"STORE_HTTP_TIMEOUT" envDefault:"10s"`
}

type store struct {
	raw storeEnv
}

func NewStoreConfig() (*store, error) {
	var raw storeEnv
	if err := env.Parse(&raw); err != nil {
		return nil, err
	}
	return &store{raw: raw}, nil
}

func (cfg *store) URL() string            { return cfg.raw.URL }
func (cfg *store) APIKey() string         { return cfg.raw.APIKey }
func (cfg *store) Timeout() time.Duration { return cfg.raw.Timeout }

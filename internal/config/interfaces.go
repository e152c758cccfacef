package config

import (
	"time"

	"github.com/IBM/sarama"
)

type Server interface {
	Host() string
	Port() int
	Address() string
	ReadTimeout() time.Duration
	ShutdownTimeout() time.Duration
}

type Logger interface {
	Level() string
	AsJSON() bool
}

type Gateway interface {
	APIURL() string
	APIToken() string
	FreeShippingOffer() string
	PaidShippingOffer() string
	Timeout() time.Duration
}

type Store interface {
	URL() string
	APIKey() string
	Timeout() time.Duration
}

type Lookup interface {
	APIURL() string
	Timeout() time.Duration
}

type Kafka interface {
	Enabled() bool
	Brokers() []string
	OrderCompletedTopic() string
	OrderCompletedProducerConfig() *sarama.Config
}

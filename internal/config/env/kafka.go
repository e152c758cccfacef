package envconfig

import (
	"github.com/IBM/sarama"
	"github.com/caarlos0/env/v11"
)

// Kafka is optional: with no brokers configured the checkout runs
// without event publishing.

type kafkaEnv struct {
	Brokers                 []string `env:"KAFKA_BROKERS"`
	OrderCompletedTopicName string   `env:"ORDER_COMPLETED_TOPIC_NAME" envDefault:"order.completed"`
}

type kafka struct {
	raw kafkaEnv
}

func NewKafkaConfig() (*kafka, error) {
	var raw kafkaEnv
	if err := env.Parse(&raw); err != nil {
		return nil, err
	}
	return &kafka{raw: raw}, nil
}

func (cfg *kafka) Enabled() bool               { return len(cfg.raw.Brokers) > 0 }
func (cfg *kafka) Brokers() []string           { return cfg.raw.Brokers }
func (cfg *kafka) OrderCompletedTopic() string { return cfg.raw.OrderCompletedTopicName }

func (cfg *kafka) OrderCompletedProducerConfig() *sarama.Config {
	config := sarama.NewConfig()
	config.Version = sarama.V4_0_0_0
	config.Producer.Return.Successes = true

	return config
}

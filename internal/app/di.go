package app

import (
	"context"
	"fmt"

	"github.com/IBM/sarama"
	"github.com/go-chi/chi/v5"

	cepclient "github.com/Poupe902/Checkout-Bahia/internal/client/http/cep"
	gwclient "github.com/Poupe902/Checkout-Bahia/internal/client/http/gateway"
	storeclient "github.com/Poupe902/Checkout-Bahia/internal/client/http/store"
	"github.com/Poupe902/Checkout-Bahia/internal/config"
	"github.com/Poupe902/Checkout-Bahia/internal/converter"
	"github.com/Poupe902/Checkout-Bahia/internal/platform/closer"
	"github.com/Poupe902/Checkout-Bahia/internal/platform/kafka"
	"github.com/Poupe902/Checkout-Bahia/internal/platform/kafka/producer"
	"github.com/Poupe902/Checkout-Bahia/internal/platform/logger"
	"github.com/Poupe902/Checkout-Bahia/internal/service/charge"
	service "github.com/Poupe902/Checkout-Bahia/internal/service/checkout"
	ordproducer "github.com/Poupe902/Checkout-Bahia/internal/service/producer/order"
	"github.com/Poupe902/Checkout-Bahia/internal/session"
	thttp "github.com/Poupe902/Checkout-Bahia/internal/transport/http/checkout/v1"
)

type di struct {
	gatewayClient service.GatewayClient
	storeClient   service.StoreClient
	lookupClient  service.AddressLookup

	sessions *session.Store
	builder  *charge.Builder

	syncProducer       sarama.SyncProducer
	completedProducer  kafka.Producer
	orderEventProducer service.OrderCompletedSender

	service thttp.CheckoutService
	handler *thttp.Handler

	router *chi.Mux
}

func NewDI() *di { return &di{} }

func (d *di) GatewayClient(_ context.Context) service.GatewayClient {
	if d.gatewayClient == nil {
		cfg := config.C().Gateway
		d.gatewayClient = gwclient.NewClient(cfg.APIURL(), cfg.APIToken(), cfg.Timeout())
	}
	return d.gatewayClient
}

func (d *di) StoreClient(_ context.Context) service.StoreClient {
	if d.storeClient == nil {
		cfg := config.C().Store
		d.storeClient = storeclient.NewClient(cfg.URL(), cfg.APIKey(), cfg.Timeout())
	}
	return d.storeClient
}

func (d *di) LookupClient(_ context.Context) service.AddressLookup {
	if d.lookupClient == nil {
		cfg := config.C().Lookup
		d.lookupClient = cepclient.NewClient(cfg.APIURL(), cfg.Timeout())
	}
	return d.lookupClient
}

func (d *di) Sessions(_ context.Context) *session.Store {
	if d.sessions == nil {
		d.sessions = session.NewStore()
	}
	return d.sessions
}

func (d *di) Builder(_ context.Context) *charge.Builder {
	if d.builder == nil {
		cfg := config.C().Gateway
		d.builder = charge.NewBuilder(cfg.FreeShippingOffer(), cfg.PaidShippingOffer())
	}
	return d.builder
}

func (d *di) OrderEventProducer(ctx context.Context) service.OrderCompletedSender {
	cfg := config.C().Kafka
	if !cfg.Enabled() {
		return nil
	}

	if d.orderEventProducer == nil {
		syncProducer, err := sarama.NewSyncProducer(cfg.Brokers(), cfg.OrderCompletedProducerConfig())
		if err != nil {
			panic(fmt.Sprintf("failed to create kafka sync producer %v: %v", cfg.Brokers(), err))
		}
		d.syncProducer = syncProducer

		closer.AddNamed("Kafka sync producer", func(ctx context.Context) error {
			return syncProducer.Close()
		})

		d.completedProducer = producer.NewProducer(
			syncProducer,
			cfg.OrderCompletedTopic(),
			logger.L(),
		)
		d.orderEventProducer = ordproducer.NewOrderProducer(
			d.completedProducer,
			converter.NewKafkaConverter(),
		)
	}
	return d.orderEventProducer
}

func (d *di) CheckoutService(ctx context.Context) thttp.CheckoutService {
	if d.service == nil {
		d.service = service.NewCheckoutService(
			d.Sessions(ctx),
			d.GatewayClient(ctx),
			d.StoreClient(ctx),
			d.LookupClient(ctx),
			d.Builder(ctx),
			d.OrderEventProducer(ctx),
		)
	}
	return d.service
}

func (d *di) CheckoutHandler(ctx context.Context) *thttp.Handler {
	if d.handler == nil {
		d.handler = thttp.NewCheckoutHandler(d.CheckoutService(ctx))
	}
	return d.handler
}

func (d *di) Router(_ context.Context) *chi.Mux {
	if d.router == nil {
		d.router = chi.NewRouter()
	}
	return d.router
}

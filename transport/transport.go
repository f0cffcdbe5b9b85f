// Package transport opens the bus publisher selected by configuration.
package transport

import (
	"fmt"

	"github.com/next-trace/scg-rfid-reader/adapters/inmemory"
	"github.com/next-trace/scg-rfid-reader/adapters/kafka"
	"github.com/next-trace/scg-rfid-reader/adapters/nats"
	"github.com/next-trace/scg-rfid-reader/adapters/postgres"
	"github.com/next-trace/scg-rfid-reader/adapters/rabbitmq"
	"github.com/next-trace/scg-rfid-reader/adapters/redis"
	"github.com/next-trace/scg-rfid-reader/config"
	cbus "github.com/next-trace/scg-rfid-reader/contract/bus"
	berr "github.com/next-trace/scg-rfid-reader/contract/errors"
)

// Open builds the configured publisher. The cleanup is never nil when err is nil.
// Adapters that carry headers get the request id propagator.
func Open(cfg config.Config) (cbus.Publisher, func(), error) {
	prop := cbus.RequestIDPropagator{}

	switch cfg.Transport {
	case config.TransportMemory, "":
		return inmemory.New(), func() {}, nil
	case config.TransportNATS:
		ad, cleanup, err := nats.NewWithNATS(cfg.NATS)
		if err != nil {
			return nil, nil, err
		}

		ad.Propagator = prop

		return ad, cleanup, nil
	case config.TransportRabbitMQ:
		ad, cleanup, err := rabbitmq.NewWithAMQPConn(cfg.RabbitMQ)
		if err != nil {
			return nil, nil, err
		}

		ad.Propagator = prop

		return ad, cleanup, nil
	case config.TransportKafka:
		ad, cleanup, err := kafka.NewWithKgo(cfg.Kafka)
		if err != nil {
			return nil, nil, err
		}

		ad.Propagator = prop

		return ad, cleanup, nil
	case config.TransportRedis:
		return redis.NewWithRedis(cfg.Redis)
	case config.TransportPostgres:
		return postgres.NewWithDSN(cfg.Postgres)
	default:
		return nil, nil, fmt.Errorf("transport %q: %w", cfg.Transport, berr.ErrTransportNotConfigured)
	}
}

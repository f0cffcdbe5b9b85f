package kafka

import (
	"context"
	"crypto/tls"
	"fmt"

	"github.com/twmb/franz-go/pkg/kgo"
	"github.com/twmb/franz-go/pkg/sasl/plain"

	berr "github.com/next-trace/scg-rfid-reader/contract/errors"
)

// Concrete franz-go based constructor and writer wrapper.

type SASLConfig struct {
	Mechanism string `yaml:"mechanism"` // only PLAIN is supported
	Username  string `yaml:"username"`
	Password  string `yaml:"password"`
}

type Config struct {
	Brokers    []string    `yaml:"brokers"`
	Topic      string      `yaml:"topic"`
	ClientID   string      `yaml:"client_id"`
	Idempotent bool        `yaml:"idempotent"`
	TLS        *tls.Config `yaml:"-"`
	SASL       *SASLConfig `yaml:"sasl"`
	Acks       string      `yaml:"acks"` // all (default), leader, none
}

type kgoWriter struct{ cl *kgo.Client }

func (w kgoWriter) Write(ctx context.Context, topic string, key, value []byte, headers map[string]string) error {
	rec := &kgo.Record{Topic: topic, Key: key, Value: value}
	if len(headers) > 0 {
		rec.Headers = make([]kgo.RecordHeader, 0, len(headers))
		for k, v := range headers {
			rec.Headers = append(rec.Headers, kgo.RecordHeader{Key: k, Value: []byte(v)})
		}
	}

	return w.cl.ProduceSync(ctx, rec).FirstErr()
}

func clientOpts(cfg Config) ([]kgo.Opt, error) {
	if len(cfg.Brokers) == 0 {
		return nil, fmt.Errorf("%w: kafka brokers required", berr.ErrTransportNotConfigured)
	}

	opts := []kgo.Opt{kgo.SeedBrokers(cfg.Brokers...)}
	if cfg.ClientID != "" {
		opts = append(opts, kgo.ClientID(cfg.ClientID))
	}

	if cfg.TLS != nil {
		opts = append(opts, kgo.DialTLSConfig(cfg.TLS))
	}

	switch cfg.Acks {
	case "", "all":
		if !cfg.Idempotent {
			opts = append(opts, kgo.DisableIdempotentWrite())
		}
	case "leader":
		// idempotent writes require acks from all in-sync replicas
		opts = append(opts, kgo.RequiredAcks(kgo.LeaderAck()), kgo.DisableIdempotentWrite())
	case "none":
		opts = append(opts, kgo.RequiredAcks(kgo.NoAck()), kgo.DisableIdempotentWrite())
	default:
		return nil, fmt.Errorf("%w: unknown kafka acks %q", berr.ErrTransportNotConfigured, cfg.Acks)
	}

	if cfg.SASL != nil && cfg.SASL.Mechanism != "" {
		if cfg.SASL.Mechanism != "PLAIN" {
			return nil, fmt.Errorf("%w: unsupported SASL mechanism %q", berr.ErrTransportNotConfigured, cfg.SASL.Mechanism)
		}

		opts = append(opts, kgo.SASL(plain.Auth{User: cfg.SASL.Username, Pass: cfg.SASL.Password}.AsMechanism()))
	}

	return opts, nil
}

// NewWithKgo builds a franz-go client based Adapter. The returned cleanup should be called to close the client.
func NewWithKgo(cfg Config) (*Adapter, func(), error) {
	opts, err := clientOpts(cfg)
	if err != nil {
		return nil, nil, err
	}

	cl, err := kgo.NewClient(opts...)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: kafka client init: %w", berr.ErrPublishFailed, err)
	}

	ad := New(kgoWriter{cl: cl})
	if cfg.Topic != "" {
		ad.Topic = cfg.Topic
	}

	return ad, cl.Close, nil
}

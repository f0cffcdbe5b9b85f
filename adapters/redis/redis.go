// Package redis publishes bus notifications with Redis PUBLISH on "bus:<channel>".
package redis

import (
	"context"
	"errors"
	"fmt"

	goredis "github.com/redis/go-redis/v9"

	cbus "github.com/next-trace/scg-rfid-reader/contract/bus"
	berr "github.com/next-trace/scg-rfid-reader/contract/errors"
	"github.com/next-trace/scg-rfid-reader/internal/wire"
)

const channelPrefix = "bus:"

// Client is the subset of *goredis.Client the adapter needs.
type Client interface {
	Publish(ctx context.Context, channel string, message any) *goredis.IntCmd
}

// Adapter implements cbus.Adapter over Redis pub/sub.
// Redis pub/sub carries no headers, so the envelope body is self-describing.
type Adapter struct {
	Client Client
}

var _ cbus.Adapter = (*Adapter)(nil)

func New(c Client) *Adapter { return &Adapter{Client: c} }

func (a *Adapter) Publish(ctx context.Context, n cbus.Notification, opts cbus.PublishOptions) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if a.Client == nil {
		return fmt.Errorf("redis publish: %w", berr.ErrTransportNotConfigured)
	}

	body, err := wire.Encode(n)
	if err != nil {
		return fmt.Errorf("redis publish serialize: %w", errors.Join(berr.ErrSerializationFailed, err))
	}

	if err := a.Client.Publish(ctx, channelPrefix+wire.Key(n, opts), body).Err(); err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}

		return fmt.Errorf("redis publish: %w", errors.Join(berr.ErrPublishFailed, err))
	}

	return nil
}

type Config struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// NewWithRedis creates a Redis client and returns an Adapter and a cleanup.
func NewWithRedis(cfg Config) (*Adapter, func(), error) {
	if cfg.Addr == "" {
		return nil, nil, fmt.Errorf("%w: redis addr required", berr.ErrTransportNotConfigured)
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	cleanup := func() { _ = rdb.Close() }

	return New(rdb), cleanup, nil
}

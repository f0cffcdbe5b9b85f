// Package postgres publishes bus notifications with pg_notify on a
// configurable LISTEN channel (default "imbus"). The payload is the full
// notification envelope.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/lib/pq" // registers the "postgres" driver

	cbus "github.com/next-trace/scg-rfid-reader/contract/bus"
	berr "github.com/next-trace/scg-rfid-reader/contract/errors"
	"github.com/next-trace/scg-rfid-reader/internal/wire"
)

// DefaultChannel is the LISTEN channel notifications are sent on.
const DefaultChannel = "imbus"

// maxPayload is the NOTIFY payload limit of a default PostgreSQL build.
const maxPayload = 8000

const notifyQuery = "SELECT pg_notify($1, $2)"

// Execer is satisfied by *sql.DB, *sql.Conn and *sql.Tx.
type Execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// Adapter implements cbus.Adapter using PostgreSQL NOTIFY.
type Adapter struct {
	DB      Execer
	Channel string
}

var _ cbus.Adapter = (*Adapter)(nil)

func New(db Execer) *Adapter { return &Adapter{DB: db, Channel: DefaultChannel} }

func (a *Adapter) Publish(ctx context.Context, n cbus.Notification, opts cbus.PublishOptions) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if a.DB == nil {
		return fmt.Errorf("postgres notify: %w", berr.ErrTransportNotConfigured)
	}

	body, err := wire.Encode(n)
	if err != nil {
		return fmt.Errorf("postgres notify serialize: %w", errors.Join(berr.ErrSerializationFailed, err))
	}

	if len(body) >= maxPayload {
		return fmt.Errorf("postgres notify: payload of %d bytes: %w", len(body), berr.ErrSerializationFailed)
	}

	channel := a.Channel
	if channel == "" {
		channel = DefaultChannel
	}

	if _, err := a.DB.ExecContext(ctx, notifyQuery, channel, string(body)); err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}

		return fmt.Errorf("postgres notify: %w", errors.Join(berr.ErrPublishFailed, err))
	}

	return nil
}

type Config struct {
	DSN     string `yaml:"dsn"`
	Channel string `yaml:"channel"`
}

// NewWithDSN opens a connection pool with the lib/pq driver and returns an Adapter and a cleanup.
func NewWithDSN(cfg Config) (*Adapter, func(), error) {
	if cfg.DSN == "" {
		return nil, nil, fmt.Errorf("%w: postgres dsn required", berr.ErrTransportNotConfigured)
	}

	db, err := sql.Open("postgres", cfg.DSN)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: postgres open: %w", berr.ErrPublishFailed, err)
	}

	ad := New(db)
	if cfg.Channel != "" {
		ad.Channel = cfg.Channel
	}

	return ad, func() { _ = db.Close() }, nil
}

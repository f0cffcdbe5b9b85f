// Command rfidbusd serves the contact card actions and forwards terminal
// notifications to the configured bus transport.
package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/next-trace/scg-rfid-reader/config"
	"github.com/next-trace/scg-rfid-reader/httpapi"
	"github.com/next-trace/scg-rfid-reader/partner"
	"github.com/next-trace/scg-rfid-reader/servicebus"
	"github.com/next-trace/scg-rfid-reader/transport"
)

func main() {
	configPath := flag.String("config", os.Getenv("RFID_CONFIG"), "path to YAML config file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		slog.Error("rfidbusd stopped", "err", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	level, _ := config.ParseLevel(cfg.LogLevel) // validated by Load
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	pub, closeTransport, err := transport.Open(cfg)
	if err != nil {
		return err
	}
	defer closeTransport()

	bus := servicebus.New(pub, logger, servicebus.WithSendMiddleware(servicebus.LoggingMiddleware(logger)))
	defer func() { _ = bus.Close() }()

	dispatcher := partner.NewDispatcher(bus, logger)
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: httpapi.NewRouter(httpapi.NewHandler(dispatcher, logger)),
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)

	go func() {
		logger.Info("listening", "addr", cfg.HTTPAddr, "transport", cfg.Transport)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}

		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	logger.Info("shutting down")

	return srv.Shutdown(shutdownCtx)
}

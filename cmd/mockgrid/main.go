package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/okian/gridbook/internal/mockgrid"
	"github.com/okian/gridbook/pkg/logger"
)

// Default configuration constants.
const (
	defaultAddr        = ":8091"
	defaultRounds      = 8
	defaultDriverCount = 20

	readTimeout       = 10 * time.Second
	writeTimeout      = 10 * time.Second
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 10 * time.Second
)

func main() {
	var (
		addr    = flag.String("addr", defaultAddr, "Listen address")
		rounds  = flag.Int("rounds", defaultRounds, "Number of rounds in the generated season")
		drivers = flag.Int("drivers", defaultDriverCount, "Number of drivers on the grid")
	)
	flag.Parse()

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return
	}
	defer func() { _ = logger.Sync() }()

	log := logger.Get().Named("mockgrid")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	gen := mockgrid.NewGenerator(
		mockgrid.WithRounds(*rounds),
		mockgrid.WithDriverCount(*drivers),
	)

	mux := http.NewServeMux()
	mux.Handle("/seasons/", mockgrid.NewHandler(gen, log))

	srv := &http.Server{
		Addr:              *addr,
		Handler:           mux,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	go func() {
		log.Info(ctx, "starting mock results source", logger.String("addr", *addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			os.Stderr.WriteString("HTTP server failed: " + err.Error() + "\n")
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(ctx, "server shutdown failed", logger.Error(err))
	}
}

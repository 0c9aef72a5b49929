package main

import (
	"context"
	"net/http"
	"time"

	"github.com/edaniels/golog"
	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"github.com/luckyfish-tu/camservo/bridge"
	"github.com/luckyfish-tu/camservo/link"
)

const shutdownTimeout = 5 * time.Second

func runBridge(ctx context.Context, l *link.Link, listenAddr string, logger golog.Logger) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	s := bridge.New(l, logger.Named("bridge"))
	server := &http.Server{
		Addr:              listenAddr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	linkErr := make(chan error, 1)
	go func() {
		defer cancel()
		linkErr <- l.Run(ctx, s.Broadcast)
	}()

	serveErr := make(chan error, 1)
	go func() {
		logger.Infow("bridge listening", "addr", listenAddr)
		err := server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			err = nil
		}
		serveErr <- err
		cancel()
	}()

	<-ctx.Done()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	return multierr.Combine(
		s.Close(),
		server.Shutdown(shutdownCtx),
		<-serveErr,
		<-linkErr,
	)
}

package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Cha-Sir/Camellia-Plugin-sub000/internal/constants"
	"github.com/Cha-Sir/Camellia-Plugin-sub000/internal/logging"
)

const shutdownTimeout = 10 * time.Second

// run serves HTTP and drives the queue timeout loop until ctx is cancelled,
// then drains the server and waits for in-flight runs to settle.
func (a *app) run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              a.cfg.ServerAddress,
		Handler:           a.router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logging.Info("Server started", logging.Fields{constants.LogFieldAddr: srv.Addr})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		return a.manager.RunTimeoutLoop(ctx, a.env.TickInterval)
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	err := g.Wait()
	a.manager.Wait()
	return err
}

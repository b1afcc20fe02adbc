package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/Cha-Sir/Camellia-Plugin-sub000/internal/config"
	"github.com/Cha-Sir/Camellia-Plugin-sub000/internal/logging"
	"github.com/Cha-Sir/Camellia-Plugin-sub000/internal/version"
)

func main() {
	env, err := config.ParseEnv()
	if err != nil {
		logging.Fatal("Invalid environment", err, nil)
	}
	cfg := loadConfigOrExit(env)
	logging.Info("Starting extraction server", logging.Fields(version.Fields()))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a := newApp(env, cfg)
	if err := a.run(ctx); err != nil {
		logging.Fatal("Server stopped with error", err, nil)
	}
	logging.Info("Server stopped", nil)
}

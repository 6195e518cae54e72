package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/vancomm/jigsaw-server/internal/app"
	"github.com/vancomm/jigsaw-server/internal/config"
)

func main() {
	envFile := flag.String("env", ".env", "dotenv file to load before reading the environment")
	flag.Parse()

	if err := config.LoadDotenv(*envFile); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	log, err := config.NewLogger()
	if err != nil {
		fmt.Fprintln(os.Stderr, "unable to set up logging:", err)
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	a, err := app.New(log)
	if err != nil {
		log.WithError(err).Fatal("invalid configuration")
	}
	if a.EphemeralSecret() {
		log.Warn("JWT_SECRET is not set; session tokens will not survive a restart")
	}

	if err := a.Start(ctx); err != nil {
		log.WithError(err).Error("failed to start server")
		os.Exit(1)
	}
}

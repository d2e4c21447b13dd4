package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/moodwatch/moodwatch-backend/internal/app"
)

func main() {
	a, err := app.New()
	if err != nil {
		fmt.Printf("failed to initialize app: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a.Start()
	errc := make(chan error, 1)
	go func() {
		a.Log.Info("Starting server", "port", a.Cfg.Port)
		errc <- a.Run(":" + a.Cfg.Port)
	}()

	select {
	case <-ctx.Done():
		a.Log.Info("Shutting down")
		a.Close()
	case err := <-errc:
		a.Close()
		if err != nil {
			fmt.Printf("server exited: %v\n", err)
			os.Exit(1)
		}
	}
}

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

// @title Spool Tracker API
// @version 1.0.0
// @description Filament spool inventory with RFID scale integration
// @BasePath /
// @schemes http

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

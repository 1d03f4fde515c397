package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/example/go-chimegen/internal/report"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := NewRootCmd().ExecuteContext(ctx)
	stop()

	if err != nil {
		report.NewPrinter(os.Stderr, 0).Error(err)

		os.Exit(1)
	}
}

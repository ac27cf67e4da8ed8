package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/jonmartinstorm/reposjekk/internal/cli"
	_ "github.com/lib/pq"
)

func main() {
	// Context for graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer cancel()

	go func() {
		<-ctx.Done()
		slog.Info("Signal mottatt – avslutter etter gjeldende steg")
	}()

	if err := cli.NewRootCommand(os.Stdout).ExecuteContext(ctx); err != nil {
		slog.Error("Applikasjonen feilet", "error", err)
		cancel()
		os.Exit(1)
	}
}

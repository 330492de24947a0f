package main

import (
	"context"
	"leaderboard-sync/cmd/leaderboard-sync/commands"
	"os/signal"
	"syscall"
)

func main() {
	// the watch command stops once the running refresh finishes
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	commands.ExecuteContext(ctx)
}

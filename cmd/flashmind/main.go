// Command flashmind is the FlashMind command line.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/p-devianne/flashmind/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := cli.Execute(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

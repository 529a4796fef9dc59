package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/km-arc/go-simple-di/app"
	"github.com/km-arc/go-simple-di/framework/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := cli.Main(ctx, os.Args[1:], app.Catalog(), os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

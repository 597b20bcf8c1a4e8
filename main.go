package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/codalotl/docstub/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code, _ := cli.RunContext(ctx, os.Args, nil)
	stop()
	os.Exit(code)
}

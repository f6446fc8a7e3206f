package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/matzehuels/kintree/internal/cli"
	kerrors "github.com/matzehuels/kintree/pkg/errors"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	c := cli.New(os.Stderr, cli.LogInfo)
	if err := c.RootCommand().ExecuteContext(ctx); err != nil {
		if errors.Is(err, context.Canceled) {
			os.Exit(130) // Standard shell convention for SIGINT
		}
		fmt.Fprintln(os.Stderr, err)
		if kerrors.Is(err, kerrors.ErrCodeInvalidInput) || kerrors.Is(err, kerrors.ErrCodeInvalidConfig) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}

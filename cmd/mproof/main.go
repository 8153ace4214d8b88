// Command mproof builds Merkle roots and multiproofs from the command line,
// and verifies proof bundles.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/gordian-engine/multiproof/internal/mpcli"
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := mpcli.Run(ctx, os.Args, mpcli.Config{
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	}); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	return 0
}

// Command docgen runs placeholder extraction, document generation, and PDF
// conversion against local files without the HTTP service or a database.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "docgen:", err)
		cancel()
		os.Exit(1)
	}
}

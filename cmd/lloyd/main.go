package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	if len(args) < 1 {
		usage(stderr)
		return fmt.Errorf("missing command")
	}

	switch args[0] {
	case "run":
		return handleRun(ctx, args[1:], stdout, stderr)
	case "serve":
		return handleServe(ctx, args[1:], stderr)
	case "-h", "--help", "help":
		usage(stdout)
		return nil
	default:
		usage(stderr)
		return fmt.Errorf("unknown command: %s", args[0])
	}
}

func usage(w io.Writer) {
	fmt.Fprintln(w, "Usage: lloyd <command> [options]")
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  run     generate a dataset, cluster it and save the results")
	fmt.Fprintln(w, "  serve   start the HTTP API")
}

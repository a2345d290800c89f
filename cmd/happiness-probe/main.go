package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/okian/happiness/internal/probe"
	"github.com/okian/happiness/pkg/logger"
)

const defaultRunTimeout = 2 * time.Minute

func main() {
	var (
		baseURL = flag.String("url", "http://localhost:8050", "Base URL of the service")
		timeout = flag.Duration("timeout", probe.DefaultTimeout, "HTTP request timeout")
		workers = flag.Int("workers", probe.DefaultWorkers, "Concurrent requests per check")
		pairs   = flag.Int("pairs", probe.DefaultPairs, "Country pairs for the comparison check")
		verbose = flag.Bool("verbose", false, "Log every request")
		help    = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		probe.ShowHelp()
		return
	}

	level := "info"
	if *verbose {
		level = "debug"
	}
	if err := logger.Init(logger.WithLevel(level), logger.WithWriter(os.Stderr)); err != nil {
		fmt.Fprintln(os.Stderr, "failed to initialize logging:", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultRunTimeout)
	defer cancel()

	report, err := probe.Run(ctx, &probe.Config{
		BaseURL: *baseURL,
		Timeout: *timeout,
		Workers: *workers,
		Pairs:   *pairs,
		Verbose: *verbose,
	})
	probe.PrintReport(os.Stdout, report)
	if err != nil {
		if !errors.Is(err, probe.ErrChecksFailed) {
			fmt.Fprintln(os.Stderr, "probe failed:", err)
		}
		os.Exit(1)
	}
}

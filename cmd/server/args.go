package main

import (
	"flag"

	"github.com/docopt/docopt-go"

	"github.com/murkotick/product-live-catalog/internal/config"
)

const ServerVersion = "0.1.0"

const usage = `Product document store.

Serves the realtime document store the product console syncs against.
Defaults come from the environment (GRPC_ADDR, STORE_PROVIDER, SPANNER_DATABASE).

Usage:
    server [--addr=<addr>] [--provider=<provider>] [--database=<database>] [-v]
    server -h | --help
    server --version

Options:
    -h --help                Show this screen.
    --version                Show version.
    --addr=<addr>            Listen address.
    --provider=<provider>    Store backend: memory or spanner.
    --database=<database>    Spanner database path.
    -v                       Verbose logging.`

// applyArgs parses argv and overrides cfg with any flags given.
func applyArgs(argv []string, cfg *config.Config) (verbose bool, err error) {
	parser := &docopt.Parser{HelpHandler: docopt.PrintHelpAndExit}
	opts, err := parser.ParseArgs(usage, argv, ServerVersion)
	if err != nil {
		return false, err
	}

	if addr, _ := opts.String("--addr"); addr != "" {
		cfg.GRPCAddr = addr
	}
	if provider, _ := opts.String("--provider"); provider != "" {
		cfg.StoreProvider = provider
	}
	if db, _ := opts.String("--database"); db != "" {
		cfg.SpannerDatabase = db
	}
	verbose, _ = opts.Bool("-v")
	return verbose, nil
}

func setupLogging(verbose bool) {
	flag.Set("logtostderr", "true")
	if verbose {
		flag.Set("v", "2")
	}
}

package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/docopt/docopt-go"
	"github.com/golang/glog"

	"github.com/murkotick/product-live-catalog/internal/app/product/repo"
	"github.com/murkotick/product-live-catalog/internal/app/product/screen"
	"github.com/murkotick/product-live-catalog/internal/config"
	"github.com/murkotick/product-live-catalog/internal/transport/grpc/storesvc"
)

const ConsoleVersion = "0.1.0"

func main() {
	usage := `Product console.

Edits the product collection of a running document store and shows the
live list. Commands are read from stdin, one per line; type "help" for a list.

Usage:
    console [--addr=<addr>] [--collection=<collection>] [-v]
    console -h | --help
    console --version

Options:
    -h --help                  Show this screen.
    --version                  Show version.
    --addr=<addr>              Store address (default $REMOTE_ADDR or localhost:50051).
    --collection=<collection>  Collection path (default $PRODUCTS_COLLECTION or products).
    -v                         Verbose logging.`

	opts, err := docopt.ParseArgs(usage, os.Args[1:], ConsoleVersion)
	if err != nil {
		panic(err)
	}

	flag.Set("logtostderr", "true")
	if verbose, _ := opts.Bool("-v"); verbose {
		flag.Set("v", "1")
	}
	defer glog.Flush()

	cfg := config.Load()
	if addr, _ := opts.String("--addr"); addr != "" {
		cfg.RemoteAddr = addr
	}
	if collection, _ := opts.String("--collection"); collection != "" {
		cfg.ProductsCollection = collection
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client, err := storesvc.Dial(cfg.RemoteAddr, cfg.ReconnectDelay)
	if err != nil {
		glog.Exitf("dial %s: %v", cfg.RemoteAddr, err)
	}
	defer client.Close()

	out := newOutput(os.Stdout)
	var s *screen.Screen
	s = screen.New(
		repo.NewProductRepo(client, cfg.ProductsCollection),
		screen.NotifierFunc(func(n screen.Notification) { out.println(n.String()) }),
		screen.WithOnChange(func() { out.print(screen.Render(s.View())) }),
	)
	if err := s.Activate(ctx); err != nil {
		glog.Exitf("activate: %v", err)
	}
	defer s.Close()

	fmt.Fprintf(os.Stdout, "connected to %s, collection %q\n", cfg.RemoteAddr, cfg.ProductsCollection)
	runCommands(ctx, os.Stdin, out, s, cfg.WriteTimeout)
}

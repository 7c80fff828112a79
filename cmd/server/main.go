package main

import (
	"context"
	"errors"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/golang/glog"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"

	"github.com/murkotick/product-live-catalog/internal/config"
	"github.com/murkotick/product-live-catalog/internal/pkg/clock"
	"github.com/murkotick/product-live-catalog/internal/pkg/docstore"
	"github.com/murkotick/product-live-catalog/internal/pkg/docstore/spannerstore"
	"github.com/murkotick/product-live-catalog/internal/transport/grpc/storesvc"
)

func main() {
	cfg := config.Load()
	verbose, err := applyArgs(os.Args[1:], &cfg)
	if err != nil {
		panic(err)
	}
	setupLogging(verbose)
	defer glog.Flush()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	keys := docstore.NewULIDGenerator(clock.RealClock{})
	store, err := docstore.NewFromProvider(ctx, cfg.StoreProvider, map[string]docstore.Constructor{
		docstore.ProviderMemory: func(context.Context) (docstore.Store, error) {
			return docstore.NewMemoryStore(keys), nil
		},
		docstore.ProviderSpanner: func(ctx context.Context) (docstore.Store, error) {
			s, err := spannerstore.Open(ctx, cfg.SpannerDatabase, keys, cfg.SpannerPollInterval)
			if err != nil {
				return nil, err
			}
			return s, nil
		},
	})
	if err != nil {
		glog.Exitf("open store: %v", err)
	}

	srv := grpc.NewServer(grpc.UnaryInterceptor(storesvc.LoggingInterceptor))
	storesvc.Register(srv, storesvc.NewHandler(store))

	lis, err := net.Listen("tcp", cfg.GRPCAddr)
	if err != nil {
		store.Close()
		glog.Exitf("listen %s: %v", cfg.GRPCAddr, err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		glog.Infof("document store (%s) listening on %s", cfg.StoreProvider, cfg.GRPCAddr)
		if err := srv.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		glog.Info("shutdown signal received")

		// ends open subscription streams so GracefulStop can drain
		if err := store.Close(); err != nil {
			glog.Warningf("close store: %v", err)
		}

		stopped := make(chan struct{})
		go func() {
			srv.GracefulStop()
			close(stopped)
		}()
		select {
		case <-stopped:
		case <-time.After(cfg.ShutdownTimeout):
			srv.Stop()
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		glog.Errorf("grpc serve: %v", err)
	}
	glog.Info("server stopped")
}

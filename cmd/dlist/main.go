// Spins up the dlist server, serving named doubly linked lists over the Redis protocol.

package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/nobletooth/dlist/pkg/config"
	"github.com/nobletooth/dlist/pkg/port"
	"github.com/nobletooth/dlist/pkg/store"
	"github.com/nobletooth/dlist/pkg/utils"
)

var printVersion = flag.Bool("print_version", false, "Print the version and exit.")

// run serves the Redis port and the metrics endpoint until `ctx` is cancelled or either of them fails.
func run(ctx context.Context, listStore *store.ListStore) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i, serve := range []func(context.Context) error{
		func(ctx context.Context) error { return port.RunRedisServer(ctx, listStore) },
		port.RunMetricsServer,
	} {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if errs[i] = serve(ctx); errs[i] != nil {
				cancel() // Take the other server down as well.
			}
		}()
	}
	wg.Wait()
	return errors.Join(errs...)
}

func main() {
	config.InitFlags()
	utils.InitLogging()

	if *printVersion {
		slog.Info("Dlist build info.", "version", utils.Version, "commit", utils.Commit, "build", utils.BuildTime)
		return
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	listStore := store.NewListStoreFromFlags()
	if err := run(ctx, listStore); err != nil {
		slog.Error("Dlist server stopped.", "err", err, "uptime", utils.Uptime())
		os.Exit(1)
	}
	slog.Info("Dlist server stopped.", "uptime", utils.Uptime())
}

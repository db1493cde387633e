package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	stats "github.com/lyft/gostats"
	"github.com/lyft/sysexconv/convert"
	"github.com/lyft/sysexconv/extract"
	"github.com/lyft/sysexconv/render"
	"github.com/lyft/sysexconv/settings"
	"github.com/lyft/sysexconv/watch"
	"golang.org/x/sync/errgroup"

	logger "github.com/sirupsen/logrus"
)

// Usage: sysexconv [input.h [output.js]]
func main() {
	s, err := settings.NewSettings()
	if err != nil {
		logger.Fatal(err)
	}
	s.ApplyArgs(os.Args[1:])

	level, err := logger.ParseLevel(s.LogLevel)
	if err != nil {
		logger.Fatalf("invalid log level %q: %s", s.LogLevel, err)
	}
	logger.SetLevel(level)

	store := stats.NewStore(stats.NewLoggingSink(), false)
	defer store.Flush()

	if err := run(s, store); err != nil {
		store.Flush()
		logger.Fatalf("%+v", err)
	}
}

func run(s settings.Settings, store stats.Store) error {
	extractOpt := extract.AllowEmpty
	if s.RejectEmpty {
		extractOpt = extract.RejectEmpty
	}
	helperOpt := render.WithoutLookupHelper
	if s.LookupHelper {
		helperOpt = render.WithLookupHelper
	}

	conv := convert.New(
		s.InputPath,
		s.OutputPath,
		extract.New(store, extractOpt),
		render.New(store, render.Container(s.Container), render.SourceName(filepath.Base(s.InputPath)), helperOpt),
		store,
	)

	if !s.Watch {
		_, err := conv.Run()
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	w, err := watch.New(conv, store, &watch.FileRefresher{})
	if err != nil {
		return err
	}
	logger.Infof("watching %s", s.InputPath)

	updates := make(chan int)
	w.AddUpdateCallback(updates)

	g, ctx := errgroup.WithContext(ctx)
	ctx, cancel := context.WithCancel(ctx)
	g.Go(func() error {
		defer cancel()
		return w.Run(ctx)
	})
	g.Go(func() error { return flushStats(ctx, store, s.FlushInterval) })
	g.Go(func() error { return logUpdates(ctx, updates, w) })
	return g.Wait()
}

// flushStats pushes metrics to the sink every interval so a long running watcher reports them.
func flushStats(ctx context.Context, store stats.Store, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			store.Flush()
			return nil
		case <-ticker.C:
			store.Flush()
		}
	}
}

func logUpdates(ctx context.Context, updates <-chan int, w *watch.Watcher) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-updates:
			logger.Infof("regenerated table: %d entries", w.Table().Len())
		}
	}
}

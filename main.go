package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"git.sr.ht/~rockorager/vaxis"
	"git.sr.ht/~rockorager/vaxis/vxfw"
	"github.com/deevus/embedview/app"
	"github.com/deevus/embedview/config"
	"github.com/deevus/embedview/host"
	"github.com/deevus/embedview/internal"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

const (
	tickInterval = 80 * time.Millisecond
	// stallGrace is added to the fetch timeout before a load still in
	// progress may be retried by hand.
	stallGrace = 5 * time.Second
)

func main() {
	configFlag := flag.String("config", config.DefaultPath(), "path to config file")
	urlFlag := flag.String("url", "", "page to embed (overrides config and "+config.EnvURL+")")
	flag.Parse()

	cfg, err := config.LoadFrom(*configFlag, config.Overrides{URL: *urlFlag})
	if err != nil {
		if errors.Is(err, config.ErrNoURL) {
			fmt.Fprintf(os.Stderr, "Error: %v\nSet url in %s, %s, or pass -url.\n", err, *configFlag, config.EnvURL)
		} else {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}

	logger, logCloser, err := internal.NewLogger(internal.LogConfig{
		Path:  cfg.Log.Path,
		Level: cfg.Log.Level,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer logCloser.Close()

	if err := run(cfg, logger); err != nil {
		logger.Error().Err(err).Msg("exiting")
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		logCloser.Close()
		os.Exit(1)
	}
}

func newFetcher(cfg *config.Config) host.Fetcher {
	switch cfg.Fetch.Renderer {
	case config.RendererChrome:
		return host.NewChromeFetcher(host.ChromeOptions{
			UserAgent: cfg.Fetch.UserAgent,
			Timeout:   cfg.Timeout(),
			ExecPath:  cfg.Fetch.ChromePath,
			NoSandbox: cfg.Fetch.ChromeNoSandbox,
		})
	default:
		return host.NewHTTPFetcher(host.HTTPOptions{
			UserAgent:    cfg.Fetch.UserAgent,
			Timeout:      cfg.Timeout(),
			MaxBodyBytes: cfg.Fetch.MaxBodyBytes,
		})
	}
}

func run(cfg *config.Config, logger zerolog.Logger) error {
	logger.Info().
		Str("url", cfg.URL).
		Str("renderer", cfg.Fetch.Renderer).
		Msg("starting")

	vxApp, err := vxfw.NewApp(vaxis.Options{})
	if err != nil {
		return fmt.Errorf("starting terminal: %w", err)
	}

	h := host.New(host.Params{
		Fetcher: newFetcher(cfg),
		Emit:    func(ev any) { vxApp.PostEvent(ev) },
		Logger:  internal.WithComponent(logger, "host"),
	})
	defer h.Close()

	root := app.New(app.Params{
		Host:       h,
		URL:        cfg.URL,
		Title:      cfg.Title,
		Logger:     internal.WithComponent(logger, "app"),
		StallAfter: cfg.Timeout() + stallGrace,
	})
	root.SetPostEvent(vxApp.PostEvent)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		root.RunTicker(gctx, tickInterval)
		return nil
	})
	g.Go(func() error {
		defer cancel()
		return vxApp.Run(root)
	})
	return g.Wait()
}

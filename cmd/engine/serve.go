package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"jobfinder-engine/internal/config"
	"jobfinder-engine/internal/events"
	"jobfinder-engine/internal/httpapi"
	"jobfinder-engine/internal/ingest"
	"jobfinder-engine/internal/poll"
	"jobfinder-engine/internal/scrape"
	"jobfinder-engine/internal/store"
)

const pollTimeout = 10 * time.Minute

var serveHost string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API and the background scraper",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveHost, "host", "127.0.0.1", "interface to listen on")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	logger := log.Default()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := loadApp(logger)
	if err != nil {
		return err
	}
	defer a.close()
	cfg := a.cfg

	var cfgVal atomic.Value // stores config.Config
	cfgVal.Store(cfg)

	search := scrape.NewHandle(a.buildRegistry(ctx, cfg))
	reload := func(next config.Config) {
		search.Swap(a.buildRegistry(ctx, next))
	}

	hub := events.NewHub()
	st := store.New(logger)
	st.OnChange(events.StoreHook(hub))

	// the ingest policy is fixed at startup
	decoder := ingest.NewDecoder(nil)
	if cfg.Ingest.FilterSubmitted {
		p := scrape.MapPolicy(cfg.Filter)
		decoder.Policy = &p
	}

	poller := poll.New(search, st, pollTimeout, logger)
	poller.Start(ctx, time.Duration(cfg.Polling.IntervalMinutes)*time.Minute)

	staticDir := cfg.App.StaticDir
	if staticDir != "" && !filepath.IsAbs(staticDir) {
		staticDir = filepath.Join(cfg.App.DataDir, staticDir)
	}

	handler := httpapi.NewHandler(httpapi.Deps{
		Search:      search,
		Store:       st,
		Ingest:      decoder,
		Hub:         hub,
		Poller:      poller,
		CfgVal:      &cfgVal,
		UserCfgPath: a.userCfgPath,
		LoadCfg:     a.loadConfig,
		Reload:      reload,
		StaticDir:   staticDir,
		Logger:      logger,
	})

	addr := net.JoinHostPort(serveHost, strconv.Itoa(cfg.App.Port))
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", addr, err)
	}
	logger.Printf("engine listening on http://%s (config=%s sources=%v)", ln.Addr(), a.userCfgPath, search.Sources())

	srv := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(ln) }()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Printf("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

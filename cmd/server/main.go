package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/AngelCh415/admira-dashboard/internal/assistant"
	"github.com/AngelCh415/admira-dashboard/internal/clients"
	"github.com/AngelCh415/admira-dashboard/internal/config"
	"github.com/AngelCh415/admira-dashboard/internal/httpx"
	"github.com/AngelCh415/admira-dashboard/internal/ingest"
	"github.com/AngelCh415/admira-dashboard/internal/metrics"
	"github.com/AngelCh415/admira-dashboard/internal/store"
	"github.com/AngelCh415/admira-dashboard/internal/telemetry"
)

func main() {
	cfg := config.FromEnv()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cl := ingest.NewHTTPClient(cfg.HTTPTimeout)
	ds, err := ingest.NewLoader(cl, logger).Load(ctx, cfg.DatasetSource)
	if err != nil {
		logger.Error("dataset error", slog.String("err", err.Error()))
		os.Exit(1)
	}

	tm := telemetry.New()
	an := assistant.NewAnalyzer(ds)
	rsp := assistant.NewResponder(an, store.NewMemoryStore(),
		assistant.WithDelay(cfg.ChatDelay),
		assistant.WithLocation(cfg.DisplayTZ),
		assistant.WithLogger(logger),
		assistant.WithObserver(func(c assistant.Category) { tm.QuestionAnswered(string(c)) }),
	)

	r := httpx.NewRouter(httpx.Deps{
		Log:         logger,
		Metrics:     metrics.NewService(ds),
		Analyzer:    an,
		Responder:   rsp,
		Clients:     clients.NewGenerator(),
		Telemetry:   tm,
		CORSOrigins: cfg.CORSOrigins,
		Location:    cfg.DisplayTZ,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("starting server", slog.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		logger.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	})
	if err := g.Wait(); err != nil {
		logger.Error("server error", slog.String("err", err.Error()))
		os.Exit(1)
	}
}

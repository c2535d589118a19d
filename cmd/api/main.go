package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"fiado/internal/charge"
	chargeStore "fiado/internal/charge/store"
	"fiado/internal/client"
	clientStore "fiado/internal/client/store"
	"fiado/internal/config"
	"fiado/internal/database"
	fiadoHttp "fiado/internal/http"
	chargeHandler "fiado/internal/http/charge"
	clientHandler "fiado/internal/http/client"
	reportHandler "fiado/internal/http/report"
	snapshotHandler "fiado/internal/http/snapshot"
	"fiado/internal/ledger"
	"fiado/internal/snapshot"
	snapStore "fiado/internal/snapshot/store"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	db, err := database.New(cfg.DB.Driver, cfg.DSN())
	if err != nil {
		slog.Error("failed to open database", "error", err, "driver", cfg.DB.Driver)
		os.Exit(1)
	}
	defer db.Close()

	var (
		clients = clientStore.New(db)
		charges = chargeStore.New(db)

		clientService   = client.NewService(clients)
		chargeService   = charge.NewService(charges)
		ledgerService   = ledger.NewService(clients, charges)
		snapshotService = snapshot.NewService(clientService, chargeService, snapStore.New(db))
	)

	var (
		clientsH  = clientHandler.NewHandler(clientService, chargeService, ledgerService)
		chargesH  = chargeHandler.NewHandler(chargeService, ledgerService)
		reportsH  = reportHandler.NewHandler(clientService, chargeService, ledgerService)
		snapshotH = snapshotHandler.NewHandler(snapshotService)
	)

	router := fiadoHttp.New(cfg.CORS.AllowedOrigins, clientsH, chargesH, reportsH, snapshotH)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.App.Port),
		Handler: router,
	}

	scheduler := ledger.NewScheduler(ledgerService, cfg.Reconcile.Interval)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return scheduler.Run(gctx)
	})

	g.Go(func() error {
		slog.Info("starting server", "port", cfg.App.Port, "driver", cfg.DB.Driver)

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}

		return nil
	})

	g.Go(func() error {
		<-gctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}

	slog.Info("shutdown complete")
}

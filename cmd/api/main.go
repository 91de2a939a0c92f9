package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"calc-history/internal/calculator"
	"calc-history/internal/history"
	"calc-history/internal/observability"
	"calc-history/internal/server"

	"go.uber.org/zap"
)

func main() {

	ctx := context.Background()

	if err := loadDotEnv(); err != nil {
		panic(err)
	}

	// Logger
	err := observability.InitLogger()
	if err != nil {
		panic(err)
	}
	defer observability.SyncLogger()

	// Log export (OTLP bridge)
	logShutdown, err := observability.InitLogging(ctx)
	if err != nil {
		panic(err)
	}
	defer logShutdown(ctx)

	// Tracing
	traceShutdown, err := observability.InitTracing(ctx)
	if err != nil {
		panic(err)
	}
	defer traceShutdown(ctx)

	// Metrics
	metricShutdown, err := initMetrics(ctx)
	if err != nil {
		panic(err)
	}
	defer metricShutdown(ctx)

	// History store — schema is ensured on every startup.
	store, err := history.OpenSQLite(ctx, historyDBPath())
	if err != nil {
		observability.Logger.Fatal("opening history store", zap.Error(err))
	}
	defer store.Close()

	// Router
	router := server.NewRouter(calculator.NewHandler(store))

	srv := &http.Server{
		Addr:    listenAddr(),
		Handler: router,
	}

	go func() {
		observability.Logger.Info("server started",
			zap.String("addr", srv.Addr),
			zap.String("history_db", historyDBPath()),
		)

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			observability.Logger.Fatal("server failed", zap.Error(err))
		}
	}()

	waitForShutdown(srv)
}

func waitForShutdown(srv *http.Server) {

	stop := make(chan os.Signal, 1)

	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	srv.Shutdown(ctx)
}

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"co2-predictor/internal/cfg"
	"co2-predictor/internal/encoding"
	"co2-predictor/internal/metrics"
	"co2-predictor/internal/model"
	"co2-predictor/internal/predict"
	"co2-predictor/internal/schema"
	"co2-predictor/internal/storage"
	"co2-predictor/internal/web"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

func main() {
	// .env is optional; real env vars win either way.
	_ = godotenv.Load()

	c, err := cfg.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("config load failed")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	m := metrics.New()
	mw := metrics.NewWrapper(m)

	store := initializeStorage(c)
	if store != nil {
		defer store.Close()
	}

	predictor := loadPredictor(c, mw)

	startMetricsServer(ctx, c)

	webServer := web.New(predictor, store, mw, c.WebPort, c.RequestTimeout, c.HistorySize)
	go func() {
		if err := webServer.Start(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("web server failed")
			cancel()
		}
	}()

	waitForShutdown(ctx, webServer)
}

// loadPredictor loads both halves of the artifact and builds the prediction
// context. Any failure here is fatal: without a model and its column list the
// process cannot serve predictions, and there is no retry or partial state.
func loadPredictor(c cfg.Settings, mw *metrics.Wrapper) *predict.Predictor {
	forest, err := model.Load(c.ModelPath)
	if err != nil {
		log.Fatal().Err(err).Msg("model artifact load failed")
	}
	log.Info().
		Str("path", c.ModelPath).
		Str("version", forest.Version).
		Int("trees", len(forest.Trees)).
		Int("features", forest.FeatureCount).
		Msg("model artifact loaded")

	cols, err := schema.LoadColumns(c.ColumnsPath)
	if err != nil {
		log.Fatal().Err(err).Msg("columns load failed")
	}
	log.Info().Str("path", c.ColumnsPath).Int("columns", cols.Len()).Msg("column list loaded")

	encoder, err := encoding.NewEncoder(cols)
	if err != nil {
		log.Fatal().Err(err).Msg("encoder construction failed")
	}

	predictor, err := predict.NewWithMetrics(forest, encoder, mw)
	if err != nil {
		log.Fatal().Err(err).Msg("predictor construction failed")
	}
	return predictor
}

// initializeStorage opens the history store if DATA_PATH is configured.
func initializeStorage(c cfg.Settings) *storage.Store {
	if c.DataPath == "" {
		return nil
	}
	store, err := storage.New(c.DataPath)
	if err != nil {
		log.Warn().Err(err).Msg("storage initialization failed, continuing without persistence")
		return nil
	}
	return store
}

// startMetricsServer starts the Prometheus metrics HTTP server.
func startMetricsServer(ctx context.Context, c cfg.Settings) {
	go func() {
		mux := http.NewServeMux()
		mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			w.Write([]byte("OK"))
		})
		mux.Handle("/metrics", promhttp.Handler())

		server := &http.Server{
			Addr:              fmt.Sprintf(":%d", c.MetricsPort),
			Handler:           mux,
			ReadHeaderTimeout: 10 * time.Second,
			ReadTimeout:       30 * time.Second,
			WriteTimeout:      30 * time.Second,
			IdleTimeout:       60 * time.Second,
		}

		go func() {
			<-ctx.Done()
			if err := server.Shutdown(context.Background()); err != nil {
				log.Error().Err(err).Msg("failed to shutdown metrics server")
			}
		}()

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("metrics server failed")
		}
	}()
}

// waitForShutdown blocks until a signal arrives, then drains the web server.
func waitForShutdown(ctx context.Context, webServer *web.Server) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case <-sigChan:
		log.Info().Msg("shutdown signal received")
	case <-ctx.Done():
		log.Info().Msg("context canceled")
	}

	log.Info().Msg("shutting down gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := webServer.Shutdown(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("web server shutdown incomplete")
	}
}

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bnmbanhmi/seekwell-sub001/pkg/analysis"
	"github.com/bnmbanhmi/seekwell-sub001/pkg/common/config"
	"github.com/bnmbanhmi/seekwell-sub001/pkg/common/database"
	"github.com/bnmbanhmi/seekwell-sub001/pkg/common/httpclient"
	"github.com/bnmbanhmi/seekwell-sub001/pkg/common/kafka"
	"github.com/bnmbanhmi/seekwell-sub001/pkg/common/logger"
	"github.com/bnmbanhmi/seekwell-sub001/pkg/history"
	"github.com/bnmbanhmi/seekwell-sub001/pkg/inference"
	"github.com/bnmbanhmi/seekwell-sub001/pkg/observability/metrics"
	"github.com/gorilla/mux"
)

func main() {
	logger.Init()
	metrics.Init()
	cfg := config.Load()

	protocolCfg, err := inference.LoadProtocols(cfg.ProtocolConfigPath)
	if err != nil {
		logger.Log.WithError(err).Warn("Falling back to default inference protocols")
	}

	outbound := httpclient.New(cfg.InferenceTimeout)
	client := inference.NewClient(cfg.InferenceBaseURL, outbound, protocolCfg.Protocols)
	poller := inference.NewPoller(cfg.InferenceBaseURL, outbound, cfg.PollMaxAttempts, cfg.PollDelay)

	store := history.NewRedisStore(database.GetRedis(), cfg.HistoryLimit)

	var recorder analysis.Recorder
	if db, err := database.GetPostgres(); err != nil {
		logger.Log.WithError(err).Warn("Running without assessment persistence")
	} else {
		repo := analysis.NewRepository(db)
		if err := repo.AutoMigrate(); err != nil {
			logger.Log.WithError(err).Fatal("Failed to migrate assessment tables")
		}
		recorder = repo
	}

	producer := kafka.NewProducer(cfg.AlertsTopic)
	defer producer.Close()

	validator := analysis.NewValidator(cfg.MaxUploadBytes, false)
	service := analysis.NewService(client, poller, validator, store, recorder, producer)
	handler := analysis.NewHandler(service, cfg.MaxUploadBytes)

	probeRemote(client)

	router := mux.NewRouter()
	router.HandleFunc("/health", healthCheck).Methods("GET")
	router.HandleFunc("/metrics", func(w http.ResponseWriter, r *http.Request) {
		metrics.WritePrometheus(w)
	}).Methods("GET")
	handler.Register(router.PathPrefix("/api/v1").Subrouter())

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%s", cfg.ServerHost, cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	go func() {
		logger.Log.WithFields(map[string]interface{}{
			"host": cfg.ServerHost,
			"port": cfg.ServerPort,
		}).Info("Lesion Analysis Service started")

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.WithError(err).Fatal("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Log.Info("Shutting down Lesion Analysis Service...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Log.WithError(err).Error("Server forced to shutdown")
	}

	if err := database.CloseRedis(); err != nil {
		logger.Log.WithError(err).Error("Failed to close Redis connection")
	}

	logger.Log.Info("Lesion Analysis Service stopped")
}

// probeRemote checks the inference Space at startup. A cold Space can take a
// while to wake, so an unreachable remote is logged, not fatal.
func probeRemote(client *inference.Client) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	err := httpclient.Retry(ctx, 3, 500*time.Millisecond, func() error {
		if status := client.CheckHealth(ctx); !status.Ready {
			return errors.New("inference service not ready")
		}
		return nil
	})
	if err != nil {
		logger.Log.WithError(err).WithField("base_url", client.BaseURL()).Warn("Remote inference service not reachable at startup")
	} else {
		logger.Log.WithField("base_url", client.BaseURL()).Info("Remote inference service is healthy")
	}
}

func healthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"healthy"}`))
}

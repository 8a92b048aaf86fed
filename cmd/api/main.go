package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/artspace/room-analyzer/internal/application"
	approoms "github.com/artspace/room-analyzer/internal/application/rooms"
	"github.com/artspace/room-analyzer/internal/config"
	"github.com/artspace/room-analyzer/internal/infra/ai/openai"
	"github.com/artspace/room-analyzer/internal/infra/httpserver"
	"github.com/artspace/room-analyzer/internal/infra/imaging"
	"github.com/artspace/room-analyzer/internal/logger"
	"github.com/artspace/room-analyzer/internal/middleware"
)

func main() {
	// path config.yaml
	path := "config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		path = v
	}

	cfg, err := config.Load(path)
	if err != nil {
		log.Fatalf("config load error: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config invalid: %v", err)
	}

	lg, err := logger.New(cfg.Log.Level, cfg.Log.Format, cfg.Log.File)
	if err != nil {
		log.Fatalf("logger init error: %v", err)
	}
	if cfg.OpenAI.APIKey == "" {
		lg.Warn("OPENAI_API_KEY is not set; every analysis will return the default recommendations")
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := middleware.NewMetrics(reg)

	client := openai.NewClient(cfg.OpenAI.APIKey, cfg.OpenAI.Model, cfg.OpenAI.BaseURL)

	svc := &approoms.Service{
		Client:       client,
		Normalizer:   imaging.Normalizer{MaxDimension: cfg.Image.MaxDimension},
		Observer:     metrics,
		Clock:        application.SystemClock{},
		Log:          lg,
		ModelTimeout: cfg.ModelTimeout(),
	}

	handler := httpserver.NewRouter(svc, httpserver.Options{
		MaxBodyBytes: cfg.Server.MaxBodyBytes,
		Log:          lg,
		Metrics:      metrics,
	})

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// run server
	go func() {
		lg.Infof("server listening on %s (model=%s)", addr, cfg.OpenAI.Model)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			lg.Fatalf("server error: %v", err)
		}
	}()

	// graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	lg.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		lg.Errorf("shutdown error: %v", err)
	}
}

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/utakatalp/form-predictor/internal/api"
	"github.com/utakatalp/form-predictor/internal/config"
	"github.com/utakatalp/form-predictor/internal/form"
	"github.com/utakatalp/form-predictor/internal/logger"
	"github.com/utakatalp/form-predictor/internal/model"
	"github.com/utakatalp/form-predictor/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("loading config: %v", err)
	}
	log := logger.Init(cfg.LogLevel, cfg.LogFormat)

	// Everything below is loaded once; the service never starts on a partial load.
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	matches, err := store.Load(ctx, store.Source{
		Driver: cfg.DataDriver,
		Path:   cfg.DataSource,
		Sheet:  cfg.DataSheet,
	})
	cancel()
	if err != nil {
		log.WithError(err).Fatal("loading historical matches")
	}
	history, err := form.NewHistory(matches)
	if err != nil {
		log.WithError(err).Fatal("building match history")
	}

	models, err := model.Load(cfg.ModelDir, cfg.Files)
	if err != nil {
		log.WithError(err).Fatal("loading models")
	}

	latest := matches[0]
	for _, m := range matches[1:] {
		if m.Date.After(latest.Date) {
			latest = m
		}
	}
	log.WithFields(logrus.Fields{
		"source":       cfg.DataSource,
		"driver":       cfg.DataDriver,
		"matches":      history.Len(),
		"teams":        len(history.Teams()),
		"latest":       latest.ScoreLine(),
		"window":       cfg.FormWindow,
		"result_order": models.ResultOrder,
	}).Info("history and models loaded")

	handler := api.NewHandler(history, form.NewExtractor(history, cfg.FormWindow), models)
	server := &http.Server{
		Addr: cfg.Addr(),
		Handler: api.NewRouter(handler, api.RouterConfig{
			CorsOrigins:    cfg.CorsOrigins,
			RequestTimeout: cfg.RequestTimeout,
		}, log),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: cfg.RequestTimeout + 5*time.Second,
	}

	go func() {
		log.WithField("addr", server.Addr).Info("predictor listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("server error")
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	log.Info("shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("shutdown error")
		os.Exit(1)
	}
	log.Info("predictor stopped")
}

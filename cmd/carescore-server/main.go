package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/iwvelando/carescore/internal/config"
	"github.com/iwvelando/carescore/internal/server"
	"github.com/iwvelando/carescore/pkg/constants"
	"go.uber.org/zap"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	serverConfig := flag.String("server-config", constants.DefaultServerConfigFile, "path to server configuration file")
	address := flag.String("address", "", "listen address override")
	logLevel := flag.String("log-level", "", "log level override (debug, info, warn, error)")
	flag.Parse()

	srvConf, err := server.LoadConfig(*serverConfig)
	if err != nil {
		fmt.Fprintf(os.Stderr, "{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to load server configuration at %s\", \"error\": \"%v\"}\n", *serverConfig, err)
		os.Exit(1)
	}
	if *address != "" {
		srvConf.Address = *address
	}

	logger, err := config.NewLogger(srvConf.Logging, *logLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to initialize logger\", \"error\": \"%v\"}\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync()
	}()

	appConf := config.Default()
	if srvConf.ConfigFile != "" {
		path := srvConf.ConfigFile
		if !filepath.IsAbs(path) {
			path = filepath.Join(filepath.Dir(*serverConfig), path)
		}
		loaded, err := config.LoadConfiguration(path)
		if err != nil {
			logger.Fatal("failed to load application configuration",
				zap.String("op", "main"),
				zap.String("path", path),
				zap.Error(err),
			)
		}
		appConf = *loaded
	}
	for _, warning := range appConf.ValidateConfiguration() {
		logger.Warn("Configuration warning: "+warning,
			zap.String("op", "main"),
		)
	}

	handler := server.NewHandler(logger, appConf.Benchmarks, server.Options{
		MaxBodySize: srvConf.BodySizeBytes(),
		RateLimit:   srvConf.RateLimit,
		RateBurst:   srvConf.RateBurst,
		Concurrency: appConf.Batch.Concurrency,
		Version:     version,
	})

	srv := &http.Server{
		Addr:              srvConf.Address,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed",
				zap.String("op", "main"),
				zap.Error(err),
			)
		}
	}()

	logger.Info("starting carescore server",
		zap.String("op", "main"),
		zap.String("address", srvConf.Address),
		zap.Int64("maxBodySize", srvConf.BodySizeBytes()),
		zap.Float64("rateLimit", srvConf.RateLimit),
		zap.String("version", version),
	)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal("server failed",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}
	logger.Info("server stopped", zap.String("op", "main"))
}

package main

import (
	"context"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/Wikid82/argus/internal/config"
	"github.com/Wikid82/argus/internal/database"
	"github.com/Wikid82/argus/internal/logger"
	"github.com/Wikid82/argus/internal/server"
	"github.com/Wikid82/argus/internal/version"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	if err := os.MkdirAll(cfg.LogDir, 0o755); err != nil {
		log.Fatalf("ensure log directory: %v", err)
	}
	rotator := &lumberjack.Logger{
		Filename:   filepath.Join(cfg.LogDir, "argus.log"),
		MaxSize:    10, // megabytes
		MaxBackups: 3,
		MaxAge:     28, // days
		Compress:   true,
	}
	logger.Init(cfg.Environment == "development", io.MultiWriter(os.Stdout, rotator))

	logger.WithFields(map[string]interface{}{"version": version.Full()}).
		Infof("starting %s", version.Name)

	db, err := database.Connect(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("connect database: %v", err)
	}

	srv, err := server.New(db, cfg)
	if err != nil {
		log.Fatalf("build server: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.WithFields(map[string]interface{}{"port": cfg.HTTPPort}).Info("listening")
	if err := srv.Run(ctx); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

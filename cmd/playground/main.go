// Package main is the entry point for the OpenGL playground.
package main

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/Faultbox/glplayground/internal/config"
	"github.com/Faultbox/glplayground/internal/logger"
	"github.com/Faultbox/glplayground/internal/playground"
)

func main() {
	// Parse CLI flags first
	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	if path := config.WriteConfigPath(); path != "" {
		if err := cfg.SaveTo(path); err != nil {
			fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("wrote %s\n", path)
		return
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("=== OpenGL Playground ===")
	logger.Sugar.Debugf("Config: %+v", cfg)

	app, err := playground.New(cfg)
	if err != nil {
		logger.Error("failed to start playground", zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}
	defer app.Close()

	if err := app.Run(); err != nil {
		logger.Error("render loop error", zap.Error(err))
		app.Close()
		logger.Sync()
		os.Exit(1)
	}

	logger.Info("playground closed normally")
}

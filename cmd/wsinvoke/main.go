package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/netapp-lib/webservice-go/internal/app"
	"github.com/netapp-lib/webservice-go/internal/config"
	"github.com/netapp-lib/webservice-go/internal/logger"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "wsinvoke failed: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := logger.Init(cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	log.DebugObj("wsinvoke starting", "config", map[string]any{
		"profile":    cfg.Profile,
		"host":       cfg.Host,
		"method":     cfg.RequestMethod,
		"timeout_ms": cfg.RequestTimeoutMS,
		"verify_tls": cfg.RequestVerifyTLS,
		"evaluator":  cfg.ResponseEvaluator,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	invoker, err := app.NewInvoker(cfg, log)
	if err != nil {
		log.ErrorObj("failed to initialize invoker", "error", err.Error())
		return err
	}

	if err := invoker.Run(ctx, os.Stdout); err != nil {
		return fmt.Errorf("invoke: %w", err)
	}
	return nil
}

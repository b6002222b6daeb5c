package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"signalforge/internal/app"
	sfcfg "signalforge/internal/config"
	"signalforge/internal/logger"
	"signalforge/internal/registry"

	"gopkg.in/yaml.v3"
)

func main() {
	cfgPath := os.Getenv("SIGNALFORGE_CONFIG")
	if cfgPath == "" {
		cfgPath = "configs/config.yaml"
	}
	mode := "run"
	if len(os.Args) > 1 {
		mode = strings.ToLower(strings.TrimSpace(os.Args[1]))
	}

	if mode == "init-config" {
		if err := writeDefaultConfig(cfgPath); err != nil {
			log.Fatalf("writing default config failed: %v", err)
		}
		fmt.Printf("wrote %s\n", cfgPath)
		return
	}

	cfg, err := sfcfg.Load(cfgPath)
	if err != nil {
		log.Fatalf("loading config failed: %v", err)
	}
	logFile, err := setupLogOutput(cfg.App.LogPath)
	if err != nil {
		log.Fatalf("initializing log output failed: %v", err)
	}
	if logFile != nil {
		defer logFile.Close()
	}
	logger.SetLevel(cfg.App.LogLevel)
	logger.Infof("config loaded (env=%s store=%s registry=%s)", cfg.App.Env, cfg.Store.Path, cfg.Registry.Dir)

	switch mode {
	case "current":
		resolver := registry.NewResolver(cfg.Registry.Dir)
		defer resolver.Close()
		res := resolver.ResolveCurrent()
		if res.State == registry.StateUnknown {
			fmt.Println("current model: unknown")
			return
		}
		fmt.Printf("current model: %s family=%s score=%.4f mode=%s source=%s\n",
			res.Version.VersionID, res.Version.ModelFamily, res.Version.ValidationScore,
			res.Version.ValidationMode, res.Source)
	case "train":
		a, err := app.NewApp(cfg)
		if err != nil {
			log.Fatalf("initializing app failed: %v", err)
		}
		defer a.Close()
		report, err := a.Pipeline.RunOnce(context.Background())
		if err != nil {
			log.Fatalf("training run failed: %v", err)
		}
		if report.VersionID != "" {
			fmt.Printf("published %s (%s, score=%.4f)\n", report.VersionID, report.Family, report.Score)
		} else {
			fmt.Printf("skipped: %d joined rows below training floor\n", report.SampleCount)
		}
	case "run":
		a, err := app.NewApp(cfg)
		if err != nil {
			log.Fatalf("initializing app failed: %v", err)
		}
		defer a.Close()
		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		if err := a.Run(ctx); err != nil && err != context.Canceled {
			log.Fatalf("run failed: %v", err)
		}
	default:
		log.Fatalf("unknown mode %q (expected run, train, current or init-config)", mode)
	}
}

func setupLogOutput(path string) (*os.File, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return nil, nil
	}
	dir := filepath.Dir(trimmed)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	file, err := os.OpenFile(trimmed, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, err
	}
	mw := io.MultiWriter(os.Stdout, file)
	log.SetOutput(mw)
	logger.SetOutput(mw)
	return file, nil
}

func writeDefaultConfig(path string) error {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	defaults := map[string]any{
		"app": map[string]any{
			"env":       "dev",
			"log_level": "info",
		},
		"store": map[string]any{
			"path":           "data/signals.db",
			"history_dir":    "data/history",
			"retention_days": 90,
		},
		"training": map[string]any{
			"fee_pct":     0.2,
			"min_samples": 50,
			"interval":    (24 * time.Hour).String(),
		},
		"registry": map[string]any{
			"dir": "data/models",
		},
	}
	out, err := yaml.Marshal(defaults)
	if err != nil {
		return err
	}
	return os.WriteFile(path, out, 0o644)
}

package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/annel0/voxel-light/internal/bench"
	"github.com/annel0/voxel-light/internal/config"
	"github.com/annel0/voxel-light/internal/logging"
	"github.com/annel0/voxel-light/internal/observability"
	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	var (
		configPath = flag.String("config", "", "Path to YAML config (LIGHT_CONFIG if empty)")
		seed       = flag.Int64("seed", 1, "World generator seed")
		size       = flag.Int("size", 3, "World size in chunks per axis")
		edits      = flag.Int("edits", 1000, "Number of random block edits")
		verify     = flag.Bool("verify", true, "Compare incremental light with a full recompute")
		persist    = flag.Bool("persist", false, "Save chunks to storage and rebuild the world from it")
		metrics    = flag.Bool("metrics", false, "Expose Prometheus /metrics while running")
	)
	flag.Parse()

	if err := logging.InitDefaultLogger("lightbench"); err != nil {
		log.Printf("⚠️ Файловый лог недоступен: %v", err)
	}
	defer logging.CloseDefaultLogger()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("❌ Failed to load config: %v", err)
	}
	if err := logging.ApplyLevel(cfg.Logging.Level); err != nil {
		log.Fatalf("❌ Invalid log level: %v", err)
	}

	ctx := context.Background()
	shutdown, err := observability.InitTelemetry(ctx, cfg.Telemetry)
	if err != nil {
		log.Fatalf("❌ Failed to init telemetry: %v", err)
	}
	defer func() {
		if err := shutdown(ctx); err != nil {
			logging.Warn("Ошибка остановки телеметрии: %v", err)
		}
	}()

	var reg prometheus.Registerer
	if *metrics {
		reg = prometheus.DefaultRegisterer
		bench.StartMetricsServer(fmt.Sprintf(":%d", cfg.Metrics.GetMetricsPort()))
	}

	report, err := bench.Run(ctx, cfg, bench.Options{
		Seed:    *seed,
		Size:    *size,
		Edits:   *edits,
		Verify:  *verify,
		Persist: *persist,
	}, reg)
	if err != nil {
		log.Fatalf("❌ Bench failed: %v", err)
	}
	report.Print(os.Stdout)

	if report.Mismatches > 0 || report.ReloadDiff > 0 {
		logging.CloseDefaultLogger()
		os.Exit(1)
	}
}

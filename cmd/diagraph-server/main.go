package main

import (
	"flag"
	"log"
	"os"

	"github.com/oxbow-labs/diagraph/pkg/api"
	"github.com/oxbow-labs/diagraph/pkg/config"
	"github.com/oxbow-labs/diagraph/pkg/logging"
	"github.com/oxbow-labs/diagraph/pkg/metrics"
	"github.com/oxbow-labs/diagraph/pkg/pipeline"
	"github.com/oxbow-labs/diagraph/pkg/server"
)

func main() {
	configPath := flag.String("config", "", "Path to YAML config file")
	addr := flag.String("addr", "", "Listen address (overrides config)")
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
		cfg = loaded
	}
	if *addr != "" {
		cfg.Server.ListenAddr = *addr
	}

	logger := logging.NewJSONLogger(os.Stdout, logging.ParseLevel(cfg.Server.LogLevel))
	reg := metrics.DefaultRegistry()

	log.Printf("🚀 Diagraph server starting...")
	log.Printf("📐 Tag radius: %gpx, connect radius: %gpx, merge radius: %gpx",
		cfg.Engine.TagRadius, cfg.Engine.ConnectRadius, cfg.Engine.MergeRadius)

	runner := pipeline.NewRunner(pipeline.Options{
		Assemble:   cfg.AssembleOptions(),
		Validate:   cfg.ValidateOptions(),
		Vocabulary: cfg.DetectVocabulary(),
		Logger:     logger,
		Metrics:    reg,
	})
	apiServer := api.NewServer(runner, pipeline.NewRunStore(), reg, logger)

	srv := server.NewGracefulServer(cfg.Server.ListenAddr, apiServer.Handler(), server.Options{
		ReadTimeout:     cfg.Server.ReadTimeout,
		WriteTimeout:    cfg.Server.WriteTimeout,
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
		Logger:          logger,
	})

	log.Printf("✅ Server listening on %s", cfg.Server.ListenAddr)
	log.Printf("📊 Health check: http://localhost%s/health", cfg.Server.ListenAddr)

	if err := srv.Start(); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

package main

import (
	"flag"
	"log"

	"TradeScout/internal/di"
	"TradeScout/pkg/config"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "config file path")
	flag.Parse()

	if err := run(*configPath); err != nil {
		log.Fatalf("tradescout: %v", err)
	}
}

func run(configPath string) error {
	cfg, err := config.LoadWithEnv(configPath)
	if err != nil {
		return err
	}
	log.Printf("env=%s kafka=%v clickhouse=%v redis=%v",
		cfg.Environment, cfg.Kafka.Enabled, cfg.ClickHouse.Enabled, cfg.Redis.Enabled)

	app, err := di.InitializeApp(cfg)
	if err != nil {
		return err
	}

	// blocks until SIGINT/SIGTERM
	return app.Run()
}

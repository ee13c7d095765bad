package main

import (
	"flag"
	"log"

	"mgtu_lab_backend/internal/app"
	"mgtu_lab_backend/internal/config"
	"mgtu_lab_backend/pkg/logger"
)

func main() {
	configPath := flag.String("config", "configs", "каталог с config.yaml")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	application := app.NewApp(cfg)
	defer logger.Log.Sync()

	application.Run()
}

package main

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"vectordeck/internal/cli"
	"vectordeck/internal/config"
	"vectordeck/internal/handler"
	"vectordeck/internal/middleware"
)

func main() {
	// CLI mode: vectordeck convert [...]
	if len(os.Args) > 1 && os.Args[1] == "convert" {
		cli.RunConvert(os.Args[2:])
		return
	}

	// Ensure data directory exists
	if err := os.MkdirAll("./data", 0755); err != nil {
		log.Fatalf("Failed to create data directory: %v", err)
	}

	// 1. Initialize ConfigManager and load config
	cm := config.NewConfigManager("./data/config.json")
	if err := cm.Load(); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	cfg := cm.Get()

	// 2. Create App
	app := handler.NewApp(cm)

	// 3. Build the middleware chain and register HTTP API handlers
	rl := middleware.NewRateLimiter(60, time.Minute)
	defer rl.Stop()
	chain := middleware.Chain(
		middleware.RequestID(),
		middleware.SecurityHeaders(),
		middleware.CORS(),
		rl.Limit(),
	)

	http.HandleFunc("/api/convert", chain(handler.HandleConvert(app)))
	http.HandleFunc("/api/health", chain(handler.HandleHealth()))
	http.HandleFunc("/api/config", chain(handler.HandleConfig(app)))

	// 4. Start HTTP server
	addr := cfg.Server.Addr
	fmt.Printf("vectordeck starting on http://%s\n", addr)
	log.Fatal(http.ListenAndServe(addr, nil))
}

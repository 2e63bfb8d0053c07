package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"mealworm/internal/clipper"
	"mealworm/internal/config"
	"mealworm/internal/database"
	"mealworm/internal/llm"
	"mealworm/internal/metrics"
	"mealworm/internal/notion"
	"mealworm/internal/planner"
	"mealworm/internal/preferences"
	"mealworm/internal/telegram"
)

func main() {
	cfg, err := config.NewFromEnv()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if cfg.TelegramBotToken == "" {
		log.Fatalf("TELEGRAM_BOT_TOKEN environment variable not set")
	}
	if cfg.TelegramWebhookURL == "" {
		log.Fatalf("TELEGRAM_WEBHOOK_URL environment variable not set")
	}

	ctx := context.Background()

	source := notion.NewClient(cfg)

	textGen, err := llm.NewTextGenerator(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to initialize text generator: %v", err)
	}
	if closer, ok := textGen.(llm.Closer); ok {
		defer closer.Close()
	}

	db, err := database.NewDB(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	prefsRepo := preferences.NewRepository(db.SQL)
	planRepo := planner.NewPlanRepository(db.SQL)
	metricsStore := metrics.NewStore(db.SQL)

	pipeline := planner.New(source, textGen, planner.WithUsageRecorder(metricsStore))
	recipeClipper := clipper.NewClipper(source, textGen)

	bot, err := telegram.NewBot(cfg, pipeline, recipeClipper, metricsStore, prefsRepo, planRepo)
	if err != nil {
		log.Fatalf("Failed to initialize Telegram Bot: %v", err)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	bot.RegisterHandlers()

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: nil,
	}

	go func() {
		log.Printf("Telegram Bot Server listening on port %s", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctxShutdown); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exiting")
}

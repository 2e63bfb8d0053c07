package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"mealworm/internal/api"
	"mealworm/internal/clipper"
	"mealworm/internal/config"
	"mealworm/internal/database"
	"mealworm/internal/llm"
	"mealworm/internal/metrics"
	"mealworm/internal/notion"
	"mealworm/internal/planner"
	"mealworm/internal/preferences"
	"mealworm/internal/render"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	ctx := context.Background()

	cfg, err := config.NewFromEnv()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

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

	switch os.Args[1] {
	case "plan":
		planCmd := flag.NewFlagSet("plan", flag.ExitOnError)
		format := planCmd.String("format", "text", "Output format: text, simple or markdown")
		user := planCmd.String("user", "default_user", "User whose preferences seed the plan")
		planCmd.Parse(os.Args[2:])

		runPlan(ctx, pipeline, prefsRepo, planRepo, *user, *format)
	case "serve":
		runServe(cfg, pipeline, prefsRepo, planRepo)
	case "clip":
		if len(os.Args) < 3 {
			fmt.Println("Usage: mealworm clip <url>")
			os.Exit(1)
		}
		recipeClipper := clipper.NewClipper(source, textGen)
		page, err := recipeClipper.ClipURL(ctx, os.Args[2])
		if err != nil {
			log.Fatalf("Clipping failed: %v", err)
		}
		fmt.Printf("Recipe saved: %s\n", page.URL)
	case "metrics-cleanup":
		cleanupCmd := flag.NewFlagSet("metrics-cleanup", flag.ExitOnError)
		days := cleanupCmd.Int("days", 30, "Keep records for the last N days")
		cleanupCmd.Parse(os.Args[2:])

		affected, err := metricsStore.Cleanup(*days)
		if err != nil {
			log.Fatalf("Cleanup failed: %v", err)
		}
		fmt.Printf("Successfully removed %d old metric records.\n", affected)
	default:
		fmt.Printf("Unknown command: %s\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func runPlan(ctx context.Context, pipeline *planner.Pipeline, prefsRepo *preferences.Repository, planRepo *planner.PlanRepository, userID, format string) {
	seed := map[string]interface{}{}
	if stored, err := prefsRepo.Get(ctx, userID); err != nil {
		log.Printf("Warning: failed to load preferences for %s: %v", userID, err)
	} else if stored != nil {
		seed = stored.PromptValues()
	}

	rec := pipeline.Run(ctx, seed)
	if rec.Failed() {
		log.Fatalf("Planning failed at step %q: %s", rec.Step, rec.ErrorMessage)
	}

	switch format {
	case "text":
		fmt.Println(render.ToText(rec.WeeklyPlan))
	case "simple":
		fmt.Println(render.ToSimple(rec.WeeklyPlan))
	case "markdown":
		fmt.Println(render.ToMarkdown(rec.WeeklyPlan))
	default:
		log.Fatalf("Unknown format %q (expected text, simple or markdown)", format)
	}

	fmt.Printf("\nPlanned against %d existing meals.\n", len(rec.ExistingMeals))

	planJSON, err := json.Marshal(rec.WeeklyPlan)
	if err != nil {
		log.Printf("Warning: failed to marshal plan for saving: %v", err)
		return
	}
	if err := planRepo.Save(ctx, userID, rec.WeeklyPlan.WeekStarting, planJSON); err != nil {
		log.Printf("Warning: failed to save plan: %v", err)
	}
}

func runServe(cfg *config.Config, pipeline *planner.Pipeline, prefsRepo *preferences.Repository, planRepo *planner.PlanRepository) {
	if cfg.APIJWTSecret == "" {
		log.Fatalf("API_JWT_SECRET environment variable not set")
	}

	server := api.NewServer(cfg, pipeline, prefsRepo, planRepo)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: server.Routes(),
	}

	go func() {
		log.Printf("API server listening on port %s", port)
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

func printUsage() {
	fmt.Println("Usage: mealworm <command> [arguments]")
	fmt.Println("\nCommands:")
	fmt.Println("  plan               Generate a weekly meal plan and print it")
	fmt.Println("  serve              Start the HTTP API server")
	fmt.Println("  clip <url>         Save a recipe from the web into the meal database")
	fmt.Println("  metrics-cleanup    Remove old metric records")
}

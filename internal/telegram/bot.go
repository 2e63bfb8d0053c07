package telegram

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"mealworm/internal/clipper"
	"mealworm/internal/config"
	"mealworm/internal/metrics"
	"mealworm/internal/planner"
	"mealworm/internal/preferences"
	"mealworm/internal/render"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Bot wraps the Telegram API, the planning pipeline, and the clipper.
type Bot struct {
	api          *tgbotapi.BotAPI
	pipeline     *planner.Pipeline
	clipper      *clipper.Clipper
	metricsStore *metrics.Store
	prefs        *preferences.Repository
	plans        *planner.PlanRepository
	cfg          *config.Config
}

// NewBot initializes the Telegram Bot and sets the webhook.
func NewBot(
	cfg *config.Config,
	pipeline *planner.Pipeline,
	recipeClipper *clipper.Clipper,
	metricsStore *metrics.Store,
	prefs *preferences.Repository,
	plans *planner.PlanRepository,
) (*Bot, error) {
	bot, err := tgbotapi.NewBotAPI(cfg.TelegramBotToken)
	if err != nil {
		return nil, fmt.Errorf("failed to init telegram api: %w", err)
	}

	log.Printf("Authorized on account %s", bot.Self.UserName)

	wh, _ := tgbotapi.NewWebhook(cfg.TelegramWebhookURL)
	resp, err := bot.Request(wh)
	if err != nil {
		return nil, fmt.Errorf("failed to set webhook to %s: %w", cfg.TelegramWebhookURL, err)
	}
	log.Printf("Webhook set response: %s", resp.Description)

	return &Bot{
		api:          bot,
		pipeline:     pipeline,
		clipper:      recipeClipper,
		metricsStore: metricsStore,
		prefs:        prefs,
		plans:        plans,
		cfg:          cfg,
	}, nil
}

// RegisterHandlers registers the webhook handler with the default HTTP mux.
func (b *Bot) RegisterHandlers() {
	http.HandleFunc("/webhook", b.handleWebhook)
	http.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
}

func (b *Bot) handleWebhook(w http.ResponseWriter, r *http.Request) {
	update, err := b.api.HandleUpdate(r)
	if err != nil {
		log.Printf("Error parsing update: %v", err)
		return
	}

	if update.Message == nil {
		return
	}

	if b.cfg.TelegramAllowUserID != 0 && update.Message.From.ID != b.cfg.TelegramAllowUserID {
		log.Printf("⚠️ Unauthorized access attempt from UserID: %d (@%s)", update.Message.From.ID, update.Message.From.UserName)
		return
	}

	go b.processMessage(update.Message)
}

func (b *Bot) processMessage(msg *tgbotapi.Message) {
	if msg.Text == "/metrics" {
		b.handleMetricsRequest(msg)
		return
	}

	// A URL means clipper mode, anything else is a planning request.
	if strings.HasPrefix(msg.Text, "http://") || strings.HasPrefix(msg.Text, "https://") {
		b.handleClipperRequest(msg)
		return
	}

	b.handlePlannerRequest(msg)
}

func (b *Bot) handleClipperRequest(msg *tgbotapi.Message) {
	statusText := "✂️ *Clipping recipe...* \n(Extracting and saving to your workspace)"
	replyMsg := tgbotapi.NewMessage(msg.Chat.ID, statusText)
	replyMsg.ParseMode = "Markdown"
	sentMsg, err := b.api.Send(replyMsg)
	if err != nil {
		log.Printf("Failed to send initial reply: %v", err)
		return
	}

	ctx := context.Background()

	page, err := b.clipper.ClipURL(ctx, msg.Text)
	var finalText string
	if err != nil {
		log.Printf("Error clipping recipe: %v", err)
		safeErr := strings.ReplaceAll(err.Error(), "`", "'")
		finalText = fmt.Sprintf("❌ *Error clipping recipe:*\n```\n%v\n```", safeErr)
	} else {
		finalText = fmt.Sprintf("✅ *Recipe Saved!*\n\n*Page:* %s", page.URL)
	}
	edit := tgbotapi.NewEditMessageText(msg.Chat.ID, sentMsg.MessageID, finalText)
	edit.ParseMode = "Markdown"
	b.api.Send(edit)
}

func (b *Bot) handlePlannerRequest(msg *tgbotapi.Message) {
	statusText := "🧑‍🍳 *Thinking...* \n(Analyzing your meals and generating a plan)"
	replyMsg := tgbotapi.NewMessage(msg.Chat.ID, statusText)
	replyMsg.ParseMode = "Markdown"
	sentMsg, err := b.api.Send(replyMsg)
	if err != nil {
		log.Printf("Failed to send initial reply: %v", err)
		return
	}

	ctx := context.Background()
	userID := fmt.Sprintf("%d", msg.From.ID)

	// A week that is already planned is not silently regenerated; the user
	// opts in with /redo.
	if msg.Text != "/redo" {
		weekStart := planner.NextSunday(time.Now())
		if exists, err := b.plans.ExistsForWeek(ctx, userID, weekStart); err != nil {
			log.Printf("Warning: failed to check existing plans for %s: %v", userID, err)
		} else if exists {
			promptText := fmt.Sprintf("🗓️ A plan already exists for the week starting *%s*.\nSend /redo to regenerate it.", weekStart.Format("2006-01-02"))
			edit := tgbotapi.NewEditMessageText(msg.Chat.ID, sentMsg.MessageID, promptText)
			edit.ParseMode = "Markdown"
			b.api.Send(edit)
			return
		}
	}

	seed := map[string]interface{}{}
	if stored, err := b.prefs.Get(ctx, userID); err != nil {
		log.Printf("Warning: failed to load preferences for %s: %v", userID, err)
	} else if stored != nil {
		seed = stored.PromptValues()
	}
	if msg.Text != "" && !strings.HasPrefix(msg.Text, "/") {
		seed["request"] = msg.Text
	}

	rec := b.pipeline.Run(ctx, seed)

	var finalText string
	if rec.Failed() {
		safeErr := strings.ReplaceAll(rec.ErrorMessage, "`", "'")
		finalText = fmt.Sprintf("❌ *Planning failed:*\n```\n%s\n```", safeErr)
	} else {
		b.savePlan(ctx, userID, rec)
		finalText = fmt.Sprintf("🍽️ *Your weekly plan* (%d meals on file)\n\n%s",
			len(rec.ExistingMeals), render.ToSimple(rec.WeeklyPlan))
	}

	edit := tgbotapi.NewEditMessageText(msg.Chat.ID, sentMsg.MessageID, finalText)
	edit.ParseMode = "Markdown"
	b.api.Send(edit)
}

func (b *Bot) savePlan(ctx context.Context, userID string, rec planner.PlanningRecord) {
	if rec.WeeklyPlan == nil {
		return
	}
	planJSON, err := json.Marshal(rec.WeeklyPlan)
	if err != nil {
		log.Printf("Warning: failed to marshal plan for saving: %v", err)
		return
	}
	if err := b.plans.Save(ctx, userID, rec.WeeklyPlan.WeekStarting, planJSON); err != nil {
		log.Printf("Warning: failed to save plan for %s: %v", userID, err)
	}
}

func (b *Bot) handleMetricsRequest(msg *tgbotapi.Message) {
	usage, err := b.metricsStore.DailyUsage(7)
	if err != nil {
		log.Printf("Failed to load metrics: %v", err)
		b.api.Send(tgbotapi.NewMessage(msg.Chat.ID, "❌ Failed to load metrics."))
		return
	}

	var sb strings.Builder
	sb.WriteString("📊 *Token usage (last 7 days)*\n")
	for _, u := range usage {
		fmt.Fprintf(&sb, "%s: %d prompt / %d completion (%d runs)\n",
			u.Day, u.PromptTokens, u.CompletionTokens, u.Executions)
	}
	if len(usage) == 0 {
		sb.WriteString("No recorded usage.")
	}

	reply := tgbotapi.NewMessage(msg.Chat.ID, sb.String())
	reply.ParseMode = "Markdown"
	b.api.Send(reply)
}

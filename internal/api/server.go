package api

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"mealworm/internal/config"
	"mealworm/internal/planner"
	"mealworm/internal/preferences"
	"mealworm/internal/render"
)

// Server exposes the planning workflow over HTTP.
type Server struct {
	cfg      *config.Config
	pipeline *planner.Pipeline
	prefs    *preferences.Repository
	plans    *planner.PlanRepository
}

// NewServer creates a Server over the given collaborators.
func NewServer(cfg *config.Config, pipeline *planner.Pipeline, prefs *preferences.Repository, plans *planner.PlanRepository) *Server {
	return &Server{
		cfg:      cfg,
		pipeline: pipeline,
		prefs:    prefs,
		plans:    plans,
	}
}

// Routes builds the HTTP mux for the API.
func (s *Server) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/v1/auth/login", s.handleLogin)
	mux.HandleFunc("POST /api/v1/agents/plan", s.requireAuth(s.handlePlan))
	mux.HandleFunc("GET /api/v1/plans", s.requireAuth(s.handleListPlans))
	mux.HandleFunc("GET /api/v1/preferences", s.requireAuth(s.handleGetPreferences))
	mux.HandleFunc("PUT /api/v1/preferences", s.requireAuth(s.handlePutPreferences))
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
	return mux
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserID   string `json:"user_id"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if s.cfg.APIPassword == "" || req.Password != s.cfg.APIPassword {
		writeError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	userID := req.UserID
	if userID == "" {
		userID = "default_user"
	}

	token, err := IssueToken([]byte(s.cfg.APIJWTSecret), userID)
	if err != nil {
		log.Printf("Failed to issue token: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to issue token")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"token": token})
}

// requireAuth verifies the bearer token and stashes the subject in the
// request headers for downstream handlers.
func (s *Server) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		tokenString, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || tokenString == "" {
			writeError(w, http.StatusUnauthorized, "missing bearer token")
			return
		}

		subject, err := VerifyToken([]byte(s.cfg.APIJWTSecret), tokenString)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "invalid token")
			return
		}

		r.Header.Set("X-User-ID", subject)
		next(w, r)
	}
}

func (s *Server) handlePlan(w http.ResponseWriter, r *http.Request) {
	userID := r.Header.Get("X-User-ID")

	// Refuse to regenerate an already-planned week unless forced.
	if s.plans != nil && r.URL.Query().Get("force") != "true" {
		weekStart := planner.NextSunday(time.Now())
		exists, err := s.plans.ExistsForWeek(r.Context(), userID, weekStart)
		if err != nil {
			log.Printf("Warning: failed to check existing plans for %s: %v", userID, err)
		} else if exists {
			writeJSON(w, http.StatusConflict, map[string]interface{}{
				"error":         "a plan already exists for this week; retry with ?force=true to regenerate",
				"week_starting": weekStart.Format("2006-01-02"),
			})
			return
		}
	}

	seed := map[string]interface{}{}
	if s.prefs != nil {
		stored, err := s.prefs.Get(r.Context(), userID)
		if err != nil {
			log.Printf("Warning: failed to load preferences for %s: %v", userID, err)
		} else if stored != nil {
			seed = stored.PromptValues()
		}
	}

	rec := s.pipeline.Run(r.Context(), seed)
	if rec.Failed() {
		writeJSON(w, http.StatusBadGateway, map[string]interface{}{
			"step":          rec.Step,
			"error_message": rec.ErrorMessage,
		})
		return
	}

	if s.plans != nil && rec.WeeklyPlan != nil {
		planJSON, err := json.Marshal(rec.WeeklyPlan)
		if err != nil {
			log.Printf("Warning: failed to marshal plan for saving: %v", err)
		} else if err := s.plans.Save(r.Context(), userID, rec.WeeklyPlan.WeekStarting, planJSON); err != nil {
			log.Printf("Warning: failed to save plan for %s: %v", userID, err)
		}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"step":        rec.Step,
		"total_meals": len(rec.ExistingMeals),
		"plan":        rec.WeeklyPlan,
		"markdown":    render.ToMarkdown(rec.WeeklyPlan),
	})
}

func (s *Server) handleListPlans(w http.ResponseWriter, r *http.Request) {
	userID := r.Header.Get("X-User-ID")

	limit := 5
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = n
	}

	stored, err := s.plans.ListRecent(r.Context(), userID, limit)
	if err != nil {
		log.Printf("Failed to list plans for %s: %v", userID, err)
		writeError(w, http.StatusInternalServerError, "failed to list plans")
		return
	}

	type planEntry struct {
		ID        int64           `json:"id"`
		WeekStart time.Time       `json:"week_start"`
		CreatedAt time.Time       `json:"created_at"`
		Plan      json.RawMessage `json:"plan"`
	}
	entries := make([]planEntry, 0, len(stored))
	for _, p := range stored {
		entries = append(entries, planEntry{
			ID:        p.ID,
			WeekStart: p.WeekStart,
			CreatedAt: p.CreatedAt,
			Plan:      json.RawMessage(p.PlanData),
		})
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"plans": entries})
}

func (s *Server) handleGetPreferences(w http.ResponseWriter, r *http.Request) {
	userID := r.Header.Get("X-User-ID")

	stored, err := s.prefs.Get(r.Context(), userID)
	if err != nil {
		log.Printf("Failed to load preferences for %s: %v", userID, err)
		writeError(w, http.StatusInternalServerError, "failed to load preferences")
		return
	}
	if stored == nil {
		stored = &preferences.Preferences{}
	}

	writeJSON(w, http.StatusOK, stored)
}

func (s *Server) handlePutPreferences(w http.ResponseWriter, r *http.Request) {
	userID := r.Header.Get("X-User-ID")

	var prefs preferences.Preferences
	if err := json.NewDecoder(r.Body).Decode(&prefs); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := s.prefs.Save(r.Context(), userID, prefs); err != nil {
		log.Printf("Failed to save preferences for %s: %v", userID, err)
		writeError(w, http.StatusInternalServerError, "failed to save preferences")
		return
	}

	writeJSON(w, http.StatusOK, prefs)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Failed to encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

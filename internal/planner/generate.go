package planner

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"log"
	"sort"
	"strings"
	"text/template"
	"time"

	"mealworm/internal/config"
	"mealworm/internal/meal"
	"mealworm/internal/shared"
)

//go:embed generate_prompt.md
var generatePrompt string

const generateSystemPrompt = "You are an expert meal planner. Create balanced, varied weekly meal plans."

// pipelineKeys are preference entries written by the analyze stage; they are
// rendered through the Analysis section, not as user preferences.
var pipelineKeys = map[string]struct{}{
	"analysis":      {},
	"total_meals":   {},
	"cuisine_types": {},
	"common_tags":   {},
	"note":          {},
}

type generatePromptData struct {
	Total          int
	AvailableMeals string
	Days           string
	Analysis       string
	Preferences    string
}

// generatePlan prompts the model with the available meals, the planning
// constraints and the prior analysis, then parses the response into a
// WeeklyMealPlan.
func (p *Pipeline) generatePlan(ctx context.Context, rec PlanningRecord) (StageOutput, error) {
	log.Println("Generating weekly meal plan...")

	analysis := "No analysis available"
	if a, ok := rec.Preferences["analysis"].(string); ok && a != "" {
		analysis = a
	}

	prompt, err := buildGeneratePrompt(generatePromptData{
		Total:          len(rec.ExistingMeals),
		AvailableMeals: buildAvailableMeals(rec.ExistingMeals),
		Days:           strings.Join(config.DaysOfWeek, ", "),
		Analysis:       analysis,
		Preferences:    buildPreferenceLines(rec.Preferences),
	})
	if err != nil {
		return StageOutput{}, fmt.Errorf("failed to generate meal plan: %w", err)
	}

	start := time.Now()
	resp, err := p.textGen.Complete(ctx, generateSystemPrompt, prompt)
	if err != nil {
		return StageOutput{}, fmt.Errorf("failed to generate meal plan: %w", err)
	}

	plan := parsePlanResponse(resp.Content, rec.ExistingMeals, config.DaysOfWeek, NextSunday(p.now()))
	log.Println("Weekly meal plan generated")

	return StageOutput{
		Plan: plan,
		Step: StepPlanGenerated,
		Meta: &shared.AgentMeta{
			AgentName: "Generator",
			Usage:     resp.Usage,
			Latency:   time.Since(start),
		},
	}, nil
}

func buildAvailableMeals(meals []meal.Meal) string {
	var sb strings.Builder
	for _, m := range meals {
		sb.WriteString("- " + m.Title)
		if m.CuisineType != "" {
			fmt.Fprintf(&sb, " (%s)", m.CuisineType)
		}
		if m.Description != "" {
			sb.WriteString(": " + truncate(m.Description, 100))
		}
		sb.WriteString("\n")
	}
	return strings.TrimRight(sb.String(), "\n")
}

// buildPreferenceLines renders caller-seeded preferences (likes, dislikes,
// dietary restrictions, day constraints) for the prompt, skipping the
// entries the analyze stage wrote.
func buildPreferenceLines(prefs map[string]interface{}) string {
	keys := make([]string, 0, len(prefs))
	for k := range prefs {
		if _, owned := pipelineKeys[k]; owned {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sb strings.Builder
	for _, k := range keys {
		fmt.Fprintf(&sb, "- %s: %v\n", k, prefs[k])
	}
	return strings.TrimRight(sb.String(), "\n")
}

// parsePlanResponse turns the model's text response into a plan. A line is a
// day assignment only if it contains a colon and one of the calendar day
// names; the text after the first colon is matched against the available
// titles by bidirectional containment, falling back to a placeholder meal.
// A line starting with "notes:" (any case) supplants the plan notes.
func parsePlanResponse(text string, meals []meal.Meal, days []string, weekStarting time.Time) *WeeklyMealPlan {
	plan := &WeeklyMealPlan{WeekStarting: weekStarting}
	for _, day := range days {
		plan.Days = append(plan.Days, DayPlan{Day: day})
	}

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if lower := strings.ToLower(line); strings.HasPrefix(lower, "notes:") {
			plan.Notes = strings.TrimSpace(line[len("notes:"):])
			continue
		}

		before, after, found := strings.Cut(line, ":")
		if !found {
			continue
		}
		day := containedDay(before, days)
		if day == "" {
			continue
		}
		title := strings.TrimSpace(after)
		if title == "" {
			continue
		}

		m := matchMeal(title, meals)
		assignMeal(plan, day, m)
	}

	plan.GroceryList = buildGroceryList(plan)
	return plan
}

// containedDay returns the first calendar day name contained in s, or "".
func containedDay(s string, days []string) string {
	lower := strings.ToLower(s)
	for _, day := range days {
		if strings.Contains(lower, strings.ToLower(day)) {
			return day
		}
	}
	return ""
}

// matchMeal looks the proposed name up in the available titles: either side
// containing the other counts, and the first match in slice order wins. With
// no match, a placeholder meal is synthesized from the free text.
func matchMeal(name string, meals []meal.Meal) meal.Meal {
	needle := strings.ToLower(name)
	for _, m := range meals {
		title := strings.ToLower(m.Title)
		if strings.Contains(title, needle) || strings.Contains(needle, title) {
			return m
		}
	}
	return meal.NewPlaceholder(name)
}

// assignMeal fills the earliest entry for the named day whose dinner slot is
// still open; a further assignment for the same day fills lunch instead.
// The template lists Sunday twice, so "earliest open" also routes a second
// Sunday line to the trailing Sunday entry.
func assignMeal(plan *WeeklyMealPlan, day string, m meal.Meal) {
	for i := range plan.Days {
		if plan.Days[i].Day != day {
			continue
		}
		if plan.Days[i].Dinner == nil {
			plan.Days[i].Dinner = &m
			return
		}
	}
	for i := range plan.Days {
		if plan.Days[i].Day != day {
			continue
		}
		if plan.Days[i].Lunch == nil {
			plan.Days[i].Lunch = &m
			return
		}
	}
}

// buildGroceryList aggregates the ingredients of the planned catalog meals.
// Placeholders carry no ingredients and contribute nothing.
func buildGroceryList(plan *WeeklyMealPlan) []string {
	seen := make(map[string]struct{})
	var items []string

	add := func(m *meal.Meal) {
		if m == nil {
			return
		}
		for _, ing := range m.Ingredients {
			key := strings.ToLower(ing)
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			items = append(items, ing)
		}
	}

	for i := range plan.Days {
		add(plan.Days[i].Breakfast)
		add(plan.Days[i].Lunch)
		add(plan.Days[i].Dinner)
		for j := range plan.Days[i].Snacks {
			add(&plan.Days[i].Snacks[j])
		}
	}

	return items
}

func buildGeneratePrompt(data generatePromptData) (string, error) {
	tmpl, err := template.New("generate").Parse(generatePrompt)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}

	return buf.String(), nil
}

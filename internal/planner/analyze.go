package planner

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"log"
	"strings"
	"text/template"
	"time"
	"unicode/utf8"

	"mealworm/internal/meal"
	"mealworm/internal/shared"
)

//go:embed analyze_prompt.md
var analyzePrompt string

const analyzeSystemPrompt = "You are a meal planning assistant analyzing existing recipes."

const (
	// maxAnalyzedMeals bounds the prompt: only the first N meals are summarized.
	maxAnalyzedMeals = 20
	// maxContentPreview caps the page-content excerpt per meal.
	maxContentPreview = 500
)

type analyzePromptData struct {
	Total   int
	Summary string
}

// analyzeMeals summarizes the fetched meals and asks the model for a
// natural-language analysis. An empty meal set short-circuits to a note-only
// preference map and proceeds; it is not an error.
func (p *Pipeline) analyzeMeals(ctx context.Context, rec PlanningRecord) (StageOutput, error) {
	log.Println("Analyzing existing meals...")

	meals := rec.ExistingMeals
	if len(meals) == 0 {
		return StageOutput{
			Preferences: map[string]interface{}{"note": "No existing meals found"},
			Step:        StepMealsAnalyzed,
		}, nil
	}

	prompt, err := buildAnalyzePrompt(analyzePromptData{
		Total:   len(meals),
		Summary: buildMealSummary(meals),
	})
	if err != nil {
		return StageOutput{}, fmt.Errorf("failed to analyze meals: %w", err)
	}

	start := time.Now()
	resp, err := p.textGen.Complete(ctx, analyzeSystemPrompt, prompt)
	if err != nil {
		return StageOutput{}, fmt.Errorf("failed to analyze meals: %w", err)
	}

	log.Println("Meal analysis complete")

	return StageOutput{
		Preferences: map[string]interface{}{
			"total_meals":   len(meals),
			"analysis":      resp.Content,
			"cuisine_types": distinctCuisineTypes(meals),
			"common_tags":   distinctTags(meals),
		},
		Step: StepMealsAnalyzed,
		Meta: &shared.AgentMeta{
			AgentName: "Analyzer",
			Usage:     resp.Usage,
			Latency:   time.Since(start),
		},
	}, nil
}

// buildMealSummary renders a bounded text summary: title, cuisine, tags and a
// content excerpt for each of the first maxAnalyzedMeals meals.
func buildMealSummary(meals []meal.Meal) string {
	var sb strings.Builder
	for i, m := range meals {
		if i >= maxAnalyzedMeals {
			break
		}
		sb.WriteString("- " + m.Title)
		if m.CuisineType != "" {
			fmt.Fprintf(&sb, " (%s)", m.CuisineType)
		}
		if len(m.Tags) > 0 {
			fmt.Fprintf(&sb, " [Tags: %s]", strings.Join(m.Tags, ", "))
		}
		if m.PageContent != "" {
			sb.WriteString("\n  Content: " + truncate(m.PageContent, maxContentPreview))
		}
		sb.WriteString("\n")
	}
	return strings.TrimRight(sb.String(), "\n")
}

// truncate caps s at max bytes without splitting a multi-byte rune,
// appending an ellipsis when anything was cut.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}

func distinctCuisineTypes(meals []meal.Meal) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, m := range meals {
		if m.CuisineType == "" {
			continue
		}
		if _, ok := seen[m.CuisineType]; ok {
			continue
		}
		seen[m.CuisineType] = struct{}{}
		out = append(out, m.CuisineType)
	}
	return out
}

func distinctTags(meals []meal.Meal) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, m := range meals {
		for _, tag := range m.Tags {
			if _, ok := seen[tag]; ok {
				continue
			}
			seen[tag] = struct{}{}
			out = append(out, tag)
		}
	}
	return out
}

func buildAnalyzePrompt(data analyzePromptData) (string, error) {
	tmpl, err := template.New("analyze").Parse(analyzePrompt)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}

	return buf.String(), nil
}

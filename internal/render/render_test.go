package render

import (
	"strings"
	"testing"
	"time"

	"mealworm/internal/meal"
	"mealworm/internal/planner"
)

func samplePlan() *planner.WeeklyMealPlan {
	prep := 25
	return &planner.WeeklyMealPlan{
		WeekStarting: time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC),
		Days: []planner.DayPlan{
			{
				Day: "Sunday",
				Dinner: &meal.Meal{
					Title:       "Chicken Curry",
					CuisineType: "Indian",
					PrepTime:    &prep,
				},
			},
			{Day: "Monday"},
		},
		Notes:       "Batch cook the curry.",
		GroceryList: []string{"Chicken", "Coconut Milk"},
	}
}

func TestToText(t *testing.T) {
	got := ToText(samplePlan())

	for _, want := range []string{
		"🍽️ WEEKLY MEAL PLAN",
		"Week starting: June 15, 2025",
		"📅 SUNDAY",
		"🌙 Dinner: Chicken Curry",
		"Cuisine: Indian",
		"Prep time: 25 minutes",
		"No meals planned",
		"📝 NOTES",
		"Batch cook the curry.",
		"🛒 GROCERY LIST",
		"• Chicken",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("text output missing %q:\n%s", want, got)
		}
	}
}

func TestToSimple(t *testing.T) {
	got := ToSimple(samplePlan())

	if !strings.Contains(got, "Sunday: Chicken Curry (Indian)") {
		t.Errorf("simple output missing dinner line:\n%s", got)
	}
	if !strings.Contains(got, "Monday: No meal planned") {
		t.Errorf("simple output missing empty-day line:\n%s", got)
	}
	if !strings.Contains(got, "Notes: Batch cook the curry.") {
		t.Errorf("simple output missing notes:\n%s", got)
	}
}

func TestToMarkdown(t *testing.T) {
	got := ToMarkdown(samplePlan())

	for _, want := range []string{
		"# 🍽️ Weekly Meal Plan",
		"**Week starting:** June 15, 2025",
		"## Sunday",
		"- **Dinner:** Chicken Curry _Indian_",
		"  - Prep time: 25 minutes",
		"- *No meals planned*",
		"## 📝 Notes",
		"## 🛒 Grocery List",
		"- Coconut Milk",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("markdown output missing %q:\n%s", want, got)
		}
	}
}

func TestNilPlan(t *testing.T) {
	if got := ToText(nil); got != "No meal plan available" {
		t.Errorf("unexpected text for nil plan: %q", got)
	}
	if got := ToSimple(nil); got != "No meal plan available" {
		t.Errorf("unexpected simple output for nil plan: %q", got)
	}
	if got := ToMarkdown(nil); got != "# No meal plan available" {
		t.Errorf("unexpected markdown for nil plan: %q", got)
	}
	if got := ToText(&planner.WeeklyMealPlan{}); got != "No meal plan available" {
		t.Errorf("unexpected text for empty plan: %q", got)
	}
}

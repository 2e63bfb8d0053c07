// Package render maps a weekly meal plan to textual representations.
// All functions are pure; the plan structure is never modified.
package render

import (
	"fmt"
	"strings"

	"mealworm/internal/planner"
)

const dateLayout = "January 02, 2006"

// ToText formats the plan as plain text.
func ToText(plan *planner.WeeklyMealPlan) string {
	if plan == nil || len(plan.Days) == 0 {
		return "No meal plan available"
	}

	var sb strings.Builder
	sb.WriteString("🍽️ WEEKLY MEAL PLAN\n")
	sb.WriteString(strings.Repeat("=", 30) + "\n")
	fmt.Fprintf(&sb, "Week starting: %s\n\n", plan.WeekStarting.Format(dateLayout))

	for _, day := range plan.Days {
		header := "📅 " + strings.ToUpper(day.Day)
		sb.WriteString(header + "\n")
		sb.WriteString(strings.Repeat("-", len([]rune(header))) + "\n")

		if day.Breakfast != nil {
			fmt.Fprintf(&sb, "🌅 Breakfast: %s\n", day.Breakfast.Title)
		}
		if day.Lunch != nil {
			fmt.Fprintf(&sb, "☀️ Lunch: %s\n", day.Lunch.Title)
		}
		if day.Dinner != nil {
			fmt.Fprintf(&sb, "🌙 Dinner: %s\n", day.Dinner.Title)
			if day.Dinner.CuisineType != "" {
				fmt.Fprintf(&sb, "   Cuisine: %s\n", day.Dinner.CuisineType)
			}
			if day.Dinner.PrepTime != nil {
				fmt.Fprintf(&sb, "   Prep time: %d minutes\n", *day.Dinner.PrepTime)
			}
		}
		if len(day.Snacks) > 0 {
			names := make([]string, 0, len(day.Snacks))
			for _, s := range day.Snacks {
				names = append(names, s.Title)
			}
			fmt.Fprintf(&sb, "🍿 Snacks: %s\n", strings.Join(names, ", "))
		}
		if day.Breakfast == nil && day.Lunch == nil && day.Dinner == nil && len(day.Snacks) == 0 {
			sb.WriteString("   No meals planned\n")
		}
		sb.WriteString("\n")
	}

	if plan.Notes != "" {
		sb.WriteString("📝 NOTES\n")
		sb.WriteString(strings.Repeat("=", 15) + "\n")
		sb.WriteString(plan.Notes + "\n\n")
	}

	if len(plan.GroceryList) > 0 {
		sb.WriteString("🛒 GROCERY LIST\n")
		sb.WriteString(strings.Repeat("=", 20) + "\n")
		for _, item := range plan.GroceryList {
			sb.WriteString("• " + item + "\n")
		}
	}

	return strings.TrimRight(sb.String(), "\n")
}

// ToSimple formats the plan as a compact "day: meal" listing.
func ToSimple(plan *planner.WeeklyMealPlan) string {
	if plan == nil || len(plan.Days) == 0 {
		return "No meal plan available"
	}

	var sb strings.Builder
	for _, day := range plan.Days {
		desc := "No meal planned"
		if day.Dinner != nil {
			desc = day.Dinner.Title
			if day.Dinner.CuisineType != "" {
				desc += fmt.Sprintf(" (%s)", day.Dinner.CuisineType)
			}
		}
		fmt.Fprintf(&sb, "%s: %s\n", day.Day, desc)
	}

	if plan.Notes != "" {
		fmt.Fprintf(&sb, "\nNotes: %s\n", plan.Notes)
	}

	return strings.TrimRight(sb.String(), "\n")
}

// ToMarkdown formats the plan as markdown.
func ToMarkdown(plan *planner.WeeklyMealPlan) string {
	if plan == nil || len(plan.Days) == 0 {
		return "# No meal plan available"
	}

	var sb strings.Builder
	sb.WriteString("# 🍽️ Weekly Meal Plan\n")
	fmt.Fprintf(&sb, "**Week starting:** %s\n\n", plan.WeekStarting.Format(dateLayout))

	for _, day := range plan.Days {
		fmt.Fprintf(&sb, "## %s\n", day.Day)

		if day.Breakfast != nil {
			fmt.Fprintf(&sb, "- **Breakfast:** %s\n", day.Breakfast.Title)
		}
		if day.Lunch != nil {
			fmt.Fprintf(&sb, "- **Lunch:** %s\n", day.Lunch.Title)
		}
		if day.Dinner != nil {
			line := fmt.Sprintf("- **Dinner:** %s", day.Dinner.Title)
			if day.Dinner.CuisineType != "" {
				line += fmt.Sprintf(" _%s_", day.Dinner.CuisineType)
			}
			sb.WriteString(line + "\n")
			if day.Dinner.PrepTime != nil {
				fmt.Fprintf(&sb, "  - Prep time: %d minutes\n", *day.Dinner.PrepTime)
			}
		}
		if len(day.Snacks) > 0 {
			names := make([]string, 0, len(day.Snacks))
			for _, s := range day.Snacks {
				names = append(names, s.Title)
			}
			fmt.Fprintf(&sb, "- **Snacks:** %s\n", strings.Join(names, ", "))
		}
		if day.Breakfast == nil && day.Lunch == nil && day.Dinner == nil && len(day.Snacks) == 0 {
			sb.WriteString("- *No meals planned*\n")
		}
		sb.WriteString("\n")
	}

	if plan.Notes != "" {
		sb.WriteString("## 📝 Notes\n")
		sb.WriteString(plan.Notes + "\n\n")
	}

	if len(plan.GroceryList) > 0 {
		sb.WriteString("## 🛒 Grocery List\n")
		for _, item := range plan.GroceryList {
			sb.WriteString("- " + item + "\n")
		}
	}

	return strings.TrimRight(sb.String(), "\n")
}

package planner

import (
	"time"

	"mealworm/internal/meal"
)

// DayPlan represents the meals planned for a single day. Meal slots hold
// references into the fetched set or placeholder meals synthesized from the
// plan text.
type DayPlan struct {
	Day       string      `json:"day"`
	Breakfast *meal.Meal  `json:"breakfast,omitempty"`
	Lunch     *meal.Meal  `json:"lunch,omitempty"`
	Dinner    *meal.Meal  `json:"dinner,omitempty"`
	Snacks    []meal.Meal `json:"snacks,omitempty"`
}

// WeeklyMealPlan represents a complete weekly meal plan.
type WeeklyMealPlan struct {
	WeekStarting time.Time `json:"week_starting"`
	Days         []DayPlan `json:"days"`
	Notes        string    `json:"notes,omitempty"`
	GroceryList  []string  `json:"grocery_list,omitempty"`
}

// NextSunday returns the date of the first Sunday strictly after now,
// truncated to midnight. Plans always start on the upcoming Sunday.
func NextSunday(now time.Time) time.Time {
	days := (int(time.Sunday) - int(now.Weekday()) + 7) % 7
	if days == 0 {
		days = 7
	}
	d := now.AddDate(0, 0, days)
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, d.Location())
}

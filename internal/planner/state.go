package planner

import (
	"mealworm/internal/meal"
	"mealworm/internal/shared"
)

// Step marks the last completed (or failed) stage of a pipeline run.
type Step string

const (
	StepStart         Step = "start"
	StepMealsFetched  Step = "meals_fetched"
	StepMealsAnalyzed Step = "meals_analyzed"
	StepPlanGenerated Step = "plan_generated"
	StepCompleted     Step = "completed"
	StepError         Step = "error"
)

// PlanningRecord is the state threaded through the pipeline's stages.
// Each run owns a fresh record; stages never share state across runs.
type PlanningRecord struct {
	ExistingMeals []meal.Meal            `json:"existing_meals"`
	Preferences   map[string]interface{} `json:"preferences"`
	WeeklyPlan    *WeeklyMealPlan        `json:"weekly_plan,omitempty"`
	ErrorMessage  string                 `json:"error_message,omitempty"`
	Step          Step                   `json:"step"`
}

// Failed reports whether the record reached the terminal error state.
func (r PlanningRecord) Failed() bool {
	return r.Step == StepError
}

// StageOutput is the partial update a stage produces. Zero-valued fields
// leave the corresponding record field untouched.
type StageOutput struct {
	Meals        []meal.Meal
	Preferences  map[string]interface{}
	Plan         *WeeklyMealPlan
	ErrorMessage string
	Step         Step

	// Meta reports LLM usage for stages that call the model.
	Meta *shared.AgentMeta
}

// NewRecord builds the initial record, optionally seeded with preference
// overrides. The seed map is copied, never retained.
func NewRecord(seed map[string]interface{}) PlanningRecord {
	prefs := make(map[string]interface{}, len(seed))
	for k, v := range seed {
		prefs[k] = v
	}
	return PlanningRecord{
		Preferences: prefs,
		Step:        StepStart,
	}
}

// Apply merges a stage output into the record and returns the new record.
// The input record is not mutated: preferences are merged copy-on-write.
func Apply(rec PlanningRecord, out StageOutput) PlanningRecord {
	if out.Meals != nil {
		rec.ExistingMeals = out.Meals
	}
	if len(out.Preferences) > 0 {
		merged := make(map[string]interface{}, len(rec.Preferences)+len(out.Preferences))
		for k, v := range rec.Preferences {
			merged[k] = v
		}
		for k, v := range out.Preferences {
			merged[k] = v
		}
		rec.Preferences = merged
	}
	if out.Plan != nil {
		rec.WeeklyPlan = out.Plan
	}
	if out.ErrorMessage != "" {
		rec.ErrorMessage = out.ErrorMessage
	}
	if out.Step != "" {
		rec.Step = out.Step
	}
	return rec
}

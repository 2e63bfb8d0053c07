package planner

import (
	"context"
	"errors"
	"log"
)

// formatPlan validates that the generate stage produced a plan and marks the
// run complete. The plan structure is already in its final shape; no further
// transformation happens here.
func (p *Pipeline) formatPlan(_ context.Context, rec PlanningRecord) (StageOutput, error) {
	log.Println("Formatting meal plan...")

	if rec.WeeklyPlan == nil {
		return StageOutput{}, errors.New("No meal plan generated")
	}

	log.Println("Meal plan formatted successfully")
	return StageOutput{Step: StepCompleted}, nil
}

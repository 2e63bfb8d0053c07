package planner

import (
	"context"
	"fmt"
	"log"
	"time"

	"mealworm/internal/llm"
	"mealworm/internal/notion"
	"mealworm/internal/shared"
)

// UsageRecorder receives per-stage LLM usage. Optional.
type UsageRecorder interface {
	RecordMeta(meta shared.AgentMeta) error
}

// StageFunc consumes the current record and produces a partial update.
type StageFunc func(ctx context.Context, rec PlanningRecord) (StageOutput, error)

// Stage is one step of the fixed fetch → analyze → generate → format sequence.
type Stage struct {
	Name         string
	Precondition Step
	Run          StageFunc
}

// Pipeline drives the planning stages over one shared record.
type Pipeline struct {
	source  notion.Client
	textGen llm.TextGenerator
	usage   UsageRecorder
	now     func() time.Time
	stages  []Stage
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithUsageRecorder wires a metrics sink for per-stage LLM usage.
func WithUsageRecorder(rec UsageRecorder) Option {
	return func(p *Pipeline) { p.usage = rec }
}

// WithClock overrides the time source. Used by tests to pin week starts.
func WithClock(now func() time.Time) Option {
	return func(p *Pipeline) { p.now = now }
}

// New creates a Pipeline over the given document source and text generator.
func New(source notion.Client, textGen llm.TextGenerator, opts ...Option) *Pipeline {
	p := &Pipeline{
		source:  source,
		textGen: textGen,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	p.stages = []Stage{
		{Name: "fetch_meals", Precondition: StepStart, Run: p.fetchMeals},
		{Name: "analyze_meals", Precondition: StepMealsFetched, Run: p.analyzeMeals},
		{Name: "generate_plan", Precondition: StepMealsAnalyzed, Run: p.generatePlan},
		{Name: "format_output", Precondition: StepPlanGenerated, Run: p.formatPlan},
	}
	return p
}

// Run drives the four stages in order and returns the final record, whether
// it completed or failed. Errors and panics never escape: anything that goes
// wrong ends up as ErrorMessage on a record in the terminal error state.
func (p *Pipeline) Run(ctx context.Context, preferences map[string]interface{}) (rec PlanningRecord) {
	log.Println("Starting meal planning workflow...")
	rec = NewRecord(preferences)

	defer func() {
		if r := recover(); r != nil {
			rec.ErrorMessage = fmt.Sprintf("workflow failed: %v", r)
			rec.Step = StepError
		}
	}()

	for _, stage := range p.stages {
		if rec.Step != stage.Precondition {
			rec.ErrorMessage = fmt.Sprintf("stage %s requires step %q, record is at %q", stage.Name, stage.Precondition, rec.Step)
			rec.Step = StepError
			return rec
		}

		out, err := stage.Run(ctx, rec)
		if err != nil {
			log.Printf("Stage %s failed: %v", stage.Name, err)
			rec.ErrorMessage = err.Error()
			rec.Step = StepError
			return rec
		}

		if out.Meta != nil && p.usage != nil {
			if err := p.usage.RecordMeta(*out.Meta); err != nil {
				log.Printf("Warning: failed to record usage for %s: %v", stage.Name, err)
			}
		}

		rec = Apply(rec, out)
		if rec.Step == StepError {
			return rec
		}
	}

	return rec
}

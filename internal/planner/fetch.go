package planner

import (
	"context"
	"fmt"
	"log"

	"mealworm/internal/meal"
	"mealworm/internal/notion"
)

// fetchMeals discovers meal databases, extracts a Meal from every page, unions
// the result with a keyword search pass, and deduplicates by title. Zero meals
// is a valid empty result, not an error.
func (p *Pipeline) fetchMeals(ctx context.Context, _ PlanningRecord) (StageOutput, error) {
	log.Println("Fetching existing meals from the workspace...")

	databases, err := p.source.FindMealDatabases(ctx)
	if err != nil {
		return StageOutput{}, fmt.Errorf("failed to fetch meals: %w", err)
	}
	log.Printf("Found %d meal-like databases", len(databases))

	var fromDatabases []meal.Meal
	for _, db := range databases {
		pages, err := p.source.QueryDatabase(ctx, db.ID)
		if err != nil {
			return StageOutput{}, fmt.Errorf("failed to fetch meals: %w", err)
		}
		fromDatabases = append(fromDatabases, p.extractMeals(ctx, pages, true)...)
	}

	// Second pass: standalone pages outside any known database. Queried after
	// the databases so the database variant of a title wins deduplication.
	searchResults, err := p.source.SearchPages(ctx, "meal recipe")
	if err != nil {
		return StageOutput{}, fmt.Errorf("failed to fetch meals: %w", err)
	}
	fromSearch := p.extractMeals(ctx, searchResults, false)

	unique := meal.DedupeByTitle(fromDatabases, fromSearch)
	log.Printf("Found %d unique meal pages", len(unique))

	return StageOutput{
		Meals: unique,
		Step:  StepMealsFetched,
	}, nil
}

// extractMeals folds pages into meals. A page that fails extraction is logged
// and dropped; one bad page never aborts the batch.
func (p *Pipeline) extractMeals(ctx context.Context, pages []notion.Page, withContent bool) []meal.Meal {
	var meals []meal.Meal
	for _, page := range pages {
		var blocks []notion.Block
		if withContent {
			b, err := p.source.PageBlocks(ctx, page.ID)
			if err != nil {
				log.Printf("Warning: failed to load content for page %s: %v", page.ID, err)
			} else {
				blocks = b
			}
		}

		m, err := meal.FromPage(page, blocks)
		if err != nil {
			log.Printf("Skipping page %s: %v", page.ID, err)
			continue
		}
		if m == nil {
			// No resolvable title: silent skip.
			continue
		}
		meals = append(meals, *m)
	}
	return meals
}

package clipper

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"mealworm/internal/llm"
	"mealworm/internal/notion"

	"github.com/PuerkitoBio/goquery"
)

const clipperSystemPrompt = "You are a recipe extraction expert. You return only valid JSON."

// Clipper fetches a recipe page from the web, extracts structured data with
// the model, and saves it as a new page in the user's meal database.
type Clipper struct {
	source  notion.Client
	textGen llm.TextGenerator
}

// ExtractedRecipe represents the data structured by the AI.
type ExtractedRecipe struct {
	Title       string   `json:"title"`
	Ingredients []string `json:"ingredients"`
	Steps       []string `json:"steps"`
	PrepTime    string   `json:"prep_time"`
	Servings    string   `json:"servings"`
}

// NewClipper creates a new Clipper instance.
func NewClipper(source notion.Client, textGen llm.TextGenerator) *Clipper {
	return &Clipper{
		source:  source,
		textGen: textGen,
	}
}

// ClipURL fetches the URL, extracts the recipe using AI, and saves it as a
// page in the first discovered meal database.
func (c *Clipper) ClipURL(ctx context.Context, url string) (*notion.Page, error) {
	content, err := c.fetchAndCleanHTML(url)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch content: %w", err)
	}

	prompt := fmt.Sprintf(`Extract the recipe details from the following page content.
Return the result strictly as a JSON object with this structure:
{
  "title": "Recipe Title",
  "ingredients": ["item 1", "item 2", ...],
  "steps": ["Step 1 description", "Step 2 description", ...],
  "prep_time": "e.g. 30 mins",
  "servings": "e.g. 4 people"
}

Do not include any other text in your response.

Page content:
%s
`, content)

	resp, err := c.textGen.Complete(ctx, clipperSystemPrompt, prompt)
	if err != nil {
		return nil, fmt.Errorf("ai extraction failed: %w", err)
	}

	var extracted ExtractedRecipe
	if err := json.Unmarshal([]byte(resp.Content), &extracted); err != nil {
		return nil, fmt.Errorf("failed to parse AI response: %w. Response: %s", err, resp.Content)
	}
	if extracted.Title == "" {
		return nil, fmt.Errorf("extracted recipe has no title")
	}

	databases, err := c.source.FindMealDatabases(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to find meal databases: %w", err)
	}
	if len(databases) == 0 {
		return nil, fmt.Errorf("no meal database found in the workspace")
	}

	page, err := c.source.CreatePage(ctx, databases[0].ID, extracted.Title, buildRecipeBlocks(extracted, url))
	if err != nil {
		return nil, fmt.Errorf("failed to save recipe page: %w", err)
	}

	return page, nil
}

func (c *Clipper) fetchAndCleanHTML(url string) (string, error) {
	client := &http.Client{Timeout: 15 * time.Second}
	resp, err := client.Get(url)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("failed to fetch URL: status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return "", err
	}

	// Remove noise to save LLM tokens
	doc.Find("script, style, nav, footer, iframe, ads, .ads, #ads").Each(func(i int, s *goquery.Selection) {
		s.Remove()
	})

	return doc.Find("body").Text(), nil
}

// buildRecipeBlocks renders the extracted recipe as page body blocks.
func buildRecipeBlocks(r ExtractedRecipe, sourceURL string) []notion.Block {
	text := func(s string) *notion.BlockText {
		return &notion.BlockText{RichText: []notion.RichText{{Text: &notion.TextContent{Content: s}}}}
	}

	blocks := []notion.Block{
		{Type: notion.BlockParagraph, Paragraph: text("Imported from: " + sourceURL)},
		{Type: notion.BlockHeading2, Heading2: text("Ingredients")},
	}
	for _, ing := range r.Ingredients {
		blocks = append(blocks, notion.Block{Type: notion.BlockBulletedListItem, BulletedListItem: text(ing)})
	}

	blocks = append(blocks, notion.Block{Type: notion.BlockHeading2, Heading2: text("Instructions")})
	for _, step := range r.Steps {
		blocks = append(blocks, notion.Block{Type: notion.BlockNumberedListItem, NumberedListItem: text(step)})
	}

	if r.PrepTime != "" || r.Servings != "" {
		blocks = append(blocks, notion.Block{
			Type:      notion.BlockParagraph,
			Paragraph: text(fmt.Sprintf("Prep Time: %s | Servings: %s", r.PrepTime, r.Servings)),
		})
	}

	return blocks
}

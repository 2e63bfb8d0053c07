package meal

import (
	"fmt"
	"strings"
	"time"

	"mealworm/internal/notion"
)

// PlaceholderID marks meals synthesized from free text instead of a page.
const PlaceholderID = "placeholder"

// NewPlaceholder builds a meal for a plan entry with no matching page.
func NewPlaceholder(title string) Meal {
	return Meal{
		ID:          PlaceholderID,
		Title:       title,
		Description: "Selected from the generated plan; no matching meal page found",
	}
}

// titleProperties is the probing order for the page title. The names are
// case-sensitive on purpose: workspaces use "Name" or "Title" for database
// pages and a bare "title" key for standalone pages.
var titleProperties = []string{"Name", "Title", "title"}

// FromPage converts one workspace page into at most one Meal.
//
// A page without a resolvable title yields (nil, nil): it is skipped, not an
// error. A malformed property yields an error so the caller can drop the page
// and keep going. Blocks are optional; when present they are flattened into
// PageContent.
func FromPage(page notion.Page, blocks []notion.Block) (*Meal, error) {
	title := resolveTitle(page)
	if title == "" {
		return nil, nil
	}

	m := &Meal{
		ID:     page.ID,
		Title:  title,
		Source: page,
	}

	for name, prop := range page.Properties {
		if err := applyProperty(m, name, prop); err != nil {
			return nil, fmt.Errorf("property %q: %w", name, err)
		}
	}

	if len(blocks) > 0 {
		m.PageContent = FlattenBlocks(blocks)
	}

	return m, nil
}

func resolveTitle(page notion.Page) string {
	for _, name := range titleProperties {
		prop, ok := page.Properties[name]
		if !ok || prop.Type != notion.PropertyTitle || len(prop.Title) == 0 {
			continue
		}
		if title := notion.PlainText(prop.Title); title != "" {
			return title
		}
	}
	return ""
}

// applyProperty dispatches one property onto the meal by declared type and a
// case-insensitive match against the recognized semantic names. Unrecognized
// properties are ignored.
func applyProperty(m *Meal, name string, prop notion.Property) error {
	lower := strings.ToLower(name)

	switch prop.Type {
	case notion.PropertyRichText:
		if lower == "description" || lower == "notes" {
			m.Description = notion.PlainText(prop.RichText)
		}

	case notion.PropertySelect:
		if prop.Select == nil {
			return nil
		}
		switch lower {
		case "cuisine", "cuisine_type", "type":
			m.CuisineType = prop.Select.Name
		case "difficulty":
			m.Difficulty = prop.Select.Name
		}

	case notion.PropertyNumber:
		if prop.Number == nil {
			return nil
		}
		n := int(*prop.Number)
		switch lower {
		case "prep_time", "prep":
			if n < 0 {
				return fmt.Errorf("negative prep time %d", n)
			}
			m.PrepTime = &n
		case "cook_time", "cook":
			if n < 0 {
				return fmt.Errorf("negative cook time %d", n)
			}
			m.CookTime = &n
		case "rating", "score":
			m.Rating = &n
		}

	case notion.PropertyMultiSelect:
		if lower == "tags" || lower == "categories" {
			tags := make([]string, 0, len(prop.MultiSelect))
			for _, opt := range prop.MultiSelect {
				tags = append(tags, opt.Name)
			}
			m.Tags = tags
		}

	case notion.PropertyDate:
		if lower != "last_made" && lower != "last_cooked" {
			return nil
		}
		if prop.Date == nil || prop.Date.Start == "" {
			return nil
		}
		ts, err := parseDate(prop.Date.Start)
		if err != nil {
			return fmt.Errorf("invalid date %q: %w", prop.Date.Start, err)
		}
		m.LastMade = &ts
	}

	return nil
}

func parseDate(s string) (time.Time, error) {
	if ts, err := time.Parse(time.RFC3339, s); err == nil {
		return ts, nil
	}
	return time.Parse("2006-01-02", s)
}

// FlattenBlocks renders top-level blocks to plain text, one line per block.
// Nesting below the first level is not descended into. Blocks whose text is
// empty or whitespace-only are omitted.
func FlattenBlocks(blocks []notion.Block) string {
	var lines []string
	for _, block := range blocks {
		if line := renderBlock(block); line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n")
}

func renderBlock(block notion.Block) string {
	switch block.Type {
	case notion.BlockParagraph:
		return blockLine(block.Paragraph, "")
	case notion.BlockHeading1:
		return blockLine(block.Heading1, "# ")
	case notion.BlockHeading2:
		return blockLine(block.Heading2, "## ")
	case notion.BlockHeading3:
		return blockLine(block.Heading3, "### ")
	case notion.BlockBulletedListItem:
		return blockLine(block.BulletedListItem, "- ")
	case notion.BlockNumberedListItem:
		// No running counter: every item renders with a literal "1." and
		// markdown renumbers on display.
		return blockLine(block.NumberedListItem, "1. ")
	case notion.BlockToDo:
		if block.ToDo == nil {
			return ""
		}
		prefix := "[ ] "
		if block.ToDo.Checked {
			prefix = "[x] "
		}
		return prefixedLine(prefix, notion.PlainText(block.ToDo.RichText))
	case notion.BlockToggle:
		return blockLine(block.Toggle, "▶ ")
	case notion.BlockQuote:
		return blockLine(block.Quote, "> ")
	case notion.BlockCallout:
		if block.Callout == nil {
			return ""
		}
		icon := "💡"
		if block.Callout.Icon != nil && block.Callout.Icon.Emoji != "" {
			icon = block.Callout.Icon.Emoji
		}
		return prefixedLine(icon+" ", notion.PlainText(block.Callout.RichText))
	default:
		return ""
	}
}

func blockLine(text *notion.BlockText, prefix string) string {
	if text == nil {
		return ""
	}
	return prefixedLine(prefix, notion.PlainText(text.RichText))
}

func prefixedLine(prefix, text string) string {
	if strings.TrimSpace(text) == "" {
		return ""
	}
	return prefix + text
}

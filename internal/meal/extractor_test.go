package meal

import (
	"reflect"
	"testing"
	"time"

	"mealworm/internal/notion"
)

func titleProp(text string) notion.Property {
	return notion.Property{
		Type:  notion.PropertyTitle,
		Title: []notion.RichText{{PlainText: text}},
	}
}

func richTextProp(text string) notion.Property {
	return notion.Property{
		Type:     notion.PropertyRichText,
		RichText: []notion.RichText{{PlainText: text}},
	}
}

func selectProp(name string) notion.Property {
	return notion.Property{
		Type:   notion.PropertySelect,
		Select: &notion.SelectOption{Name: name},
	}
}

func numberProp(n float64) notion.Property {
	return notion.Property{Type: notion.PropertyNumber, Number: &n}
}

func TestFromPageTitleResolution(t *testing.T) {
	t.Run("prefers Name over Title", func(t *testing.T) {
		page := notion.Page{
			ID: "page-1",
			Properties: map[string]notion.Property{
				"Name":  titleProp("Chicken Curry"),
				"Title": titleProp("Wrong Title"),
			},
		}

		m, err := FromPage(page, nil)
		if err != nil {
			t.Fatalf("FromPage returned error: %v", err)
		}
		if m.Title != "Chicken Curry" {
			t.Errorf("expected title 'Chicken Curry', got %q", m.Title)
		}
	})

	t.Run("falls back to lowercase title", func(t *testing.T) {
		page := notion.Page{
			ID: "page-2",
			Properties: map[string]notion.Property{
				"title": titleProp("Standalone Page"),
			},
		}

		m, err := FromPage(page, nil)
		if err != nil {
			t.Fatalf("FromPage returned error: %v", err)
		}
		if m.Title != "Standalone Page" {
			t.Errorf("expected title 'Standalone Page', got %q", m.Title)
		}
	})

	t.Run("page without title is skipped, not an error", func(t *testing.T) {
		page := notion.Page{
			ID: "page-3",
			Properties: map[string]notion.Property{
				"Description": richTextProp("no title here"),
			},
		}

		m, err := FromPage(page, nil)
		if err != nil {
			t.Fatalf("FromPage returned error: %v", err)
		}
		if m != nil {
			t.Errorf("expected nil meal for title-less page, got %+v", m)
		}
	})

	t.Run("empty title text is treated as missing", func(t *testing.T) {
		page := notion.Page{
			ID: "page-4",
			Properties: map[string]notion.Property{
				"Name":  titleProp(""),
				"Title": titleProp("Backup Title"),
			},
		}

		m, err := FromPage(page, nil)
		if err != nil {
			t.Fatalf("FromPage returned error: %v", err)
		}
		if m == nil || m.Title != "Backup Title" {
			t.Errorf("expected fallback to 'Backup Title', got %+v", m)
		}
	})
}

func TestFromPageProperties(t *testing.T) {
	lastMade := "2024-03-15"

	page := notion.Page{
		ID: "page-10",
		Properties: map[string]notion.Property{
			"Name":        titleProp("Beef Tacos"),
			"Description": richTextProp("Weeknight favourite"),
			"Cuisine":     selectProp("Mexican"),
			"Difficulty":  selectProp("Easy"),
			"Prep_Time":   numberProp(15),
			"Cook_Time":   numberProp(20),
			"Rating":      numberProp(5),
			"Tags": {
				Type:        notion.PropertyMultiSelect,
				MultiSelect: []notion.SelectOption{{Name: "quick"}, {Name: "family"}},
			},
			"Last_Made": {
				Type: notion.PropertyDate,
				Date: &notion.DateValue{Start: lastMade},
			},
			"Unrelated": selectProp("ignored"),
		},
	}

	m, err := FromPage(page, nil)
	if err != nil {
		t.Fatalf("FromPage returned error: %v", err)
	}

	if m.ID != "page-10" {
		t.Errorf("expected ID 'page-10', got %q", m.ID)
	}
	if m.Description != "Weeknight favourite" {
		t.Errorf("expected description, got %q", m.Description)
	}
	if m.CuisineType != "Mexican" {
		t.Errorf("expected cuisine 'Mexican', got %q", m.CuisineType)
	}
	if m.Difficulty != "Easy" {
		t.Errorf("expected difficulty 'Easy', got %q", m.Difficulty)
	}
	if m.PrepTime == nil || *m.PrepTime != 15 {
		t.Errorf("expected prep time 15, got %v", m.PrepTime)
	}
	if m.CookTime == nil || *m.CookTime != 20 {
		t.Errorf("expected cook time 20, got %v", m.CookTime)
	}
	if m.Rating == nil || *m.Rating != 5 {
		t.Errorf("expected rating 5, got %v", m.Rating)
	}
	if !reflect.DeepEqual(m.Tags, []string{"quick", "family"}) {
		t.Errorf("unexpected tags: %v", m.Tags)
	}
	want := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	if m.LastMade == nil || !m.LastMade.Equal(want) {
		t.Errorf("expected last made %v, got %v", want, m.LastMade)
	}
}

func TestFromPageMalformedProperties(t *testing.T) {
	t.Run("invalid date is an error", func(t *testing.T) {
		page := notion.Page{
			ID: "page-20",
			Properties: map[string]notion.Property{
				"Name": titleProp("Bad Date"),
				"last_made": {
					Type: notion.PropertyDate,
					Date: &notion.DateValue{Start: "not-a-date"},
				},
			},
		}

		if _, err := FromPage(page, nil); err == nil {
			t.Error("expected error for malformed date, got nil")
		}
	})

	t.Run("negative cook time is an error", func(t *testing.T) {
		page := notion.Page{
			ID: "page-21",
			Properties: map[string]notion.Property{
				"Name":      titleProp("Negative Time"),
				"cook_time": numberProp(-5),
			},
		}

		if _, err := FromPage(page, nil); err == nil {
			t.Error("expected error for negative cook time, got nil")
		}
	})
}

func TestFromPageIsDeterministic(t *testing.T) {
	page := notion.Page{
		ID: "page-30",
		Properties: map[string]notion.Property{
			"Name":    titleProp("Lentil Soup"),
			"Cuisine": selectProp("Indian"),
			"Rating":  numberProp(4),
		},
	}
	blocks := []notion.Block{
		{Type: notion.BlockParagraph, Paragraph: &notion.BlockText{RichText: []notion.RichText{{PlainText: "Simmer gently."}}}},
	}

	first, err := FromPage(page, blocks)
	if err != nil {
		t.Fatalf("first FromPage returned error: %v", err)
	}
	second, err := FromPage(page, blocks)
	if err != nil {
		t.Fatalf("second FromPage returned error: %v", err)
	}

	if !reflect.DeepEqual(first, second) {
		t.Errorf("expected identical meals, got %+v vs %+v", first, second)
	}
}

func blockText(text string) *notion.BlockText {
	return &notion.BlockText{RichText: []notion.RichText{{PlainText: text}}}
}

func TestFlattenBlocks(t *testing.T) {
	blocks := []notion.Block{
		{Type: notion.BlockHeading1, Heading1: blockText("Ingredients")},
		{Type: notion.BlockHeading2, Heading2: blockText("Pantry")},
		{Type: notion.BlockHeading3, Heading3: blockText("Spices")},
		{Type: notion.BlockParagraph, Paragraph: blockText("Serves four.")},
		{Type: notion.BlockBulletedListItem, BulletedListItem: blockText("2 onions")},
		{Type: notion.BlockNumberedListItem, NumberedListItem: blockText("Chop the onions")},
		{Type: notion.BlockNumberedListItem, NumberedListItem: blockText("Fry until golden")},
		{Type: notion.BlockNumberedListItem, NumberedListItem: blockText("Add the spices")},
		{Type: notion.BlockToDo, ToDo: &notion.ToDoBlock{RichText: []notion.RichText{{PlainText: "Buy cumin"}}, Checked: false}},
		{Type: notion.BlockToDo, ToDo: &notion.ToDoBlock{RichText: []notion.RichText{{PlainText: "Soak lentils"}}, Checked: true}},
		{Type: notion.BlockToggle, Toggle: blockText("Variations")},
		{Type: notion.BlockQuote, Quote: blockText("Best served hot")},
		{Type: notion.BlockCallout, Callout: &notion.CalloutBlock{RichText: []notion.RichText{{PlainText: "Freezes well"}}}},
		{Type: notion.BlockCallout, Callout: &notion.CalloutBlock{
			RichText: []notion.RichText{{PlainText: "Spicy!"}},
			Icon:     &notion.Icon{Emoji: "🔥"},
		}},
		{Type: notion.BlockParagraph, Paragraph: blockText("   ")},
		{Type: "unsupported_type"},
	}

	got := FlattenBlocks(blocks)
	want := "# Ingredients\n" +
		"## Pantry\n" +
		"### Spices\n" +
		"Serves four.\n" +
		"- 2 onions\n" +
		"1. Chop the onions\n" +
		"1. Fry until golden\n" +
		"1. Add the spices\n" +
		"[ ] Buy cumin\n" +
		"[x] Soak lentils\n" +
		"▶ Variations\n" +
		"> Best served hot\n" +
		"💡 Freezes well\n" +
		"🔥 Spicy!"

	if got != want {
		t.Errorf("unexpected flattened content:\ngot:\n%s\nwant:\n%s", got, want)
	}
}

func TestFlattenBlocksEmpty(t *testing.T) {
	if got := FlattenBlocks(nil); got != "" {
		t.Errorf("expected empty string for no blocks, got %q", got)
	}
}

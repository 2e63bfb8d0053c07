package notion

// Property kinds recognized by the extractor.
const (
	PropertyTitle       = "title"
	PropertyRichText    = "rich_text"
	PropertySelect      = "select"
	PropertyMultiSelect = "multi_select"
	PropertyNumber      = "number"
	PropertyDate        = "date"
)

// Block types rendered by the flattener.
const (
	BlockParagraph        = "paragraph"
	BlockHeading1         = "heading_1"
	BlockHeading2         = "heading_2"
	BlockHeading3         = "heading_3"
	BlockBulletedListItem = "bulleted_list_item"
	BlockNumberedListItem = "numbered_list_item"
	BlockToDo             = "to_do"
	BlockToggle           = "toggle"
	BlockQuote            = "quote"
	BlockCallout          = "callout"
)

// TextContent is the writable payload of a rich-text run.
type TextContent struct {
	Content string `json:"content"`
}

// RichText is a single run of text within a property or block.
type RichText struct {
	PlainText string       `json:"plain_text,omitempty"`
	Text      *TextContent `json:"text,omitempty"`
}

// SelectOption is one label of a select or multi-select property.
type SelectOption struct {
	Name string `json:"name"`
}

// DateValue is the payload of a date property.
type DateValue struct {
	Start string `json:"start"`
	End   string `json:"end,omitempty"`
}

// Property is a typed page property. Type names which of the
// per-kind fields carries the value; the rest stay zero.
type Property struct {
	Type        string         `json:"type"`
	Title       []RichText     `json:"title,omitempty"`
	RichText    []RichText     `json:"rich_text,omitempty"`
	Select      *SelectOption  `json:"select,omitempty"`
	MultiSelect []SelectOption `json:"multi_select,omitempty"`
	Number      *float64       `json:"number,omitempty"`
	Date        *DateValue     `json:"date,omitempty"`
}

// Page is one workspace document: named typed properties plus, fetched
// separately, an ordered list of content blocks.
type Page struct {
	ID         string              `json:"id"`
	URL        string              `json:"url,omitempty"`
	Properties map[string]Property `json:"properties"`
}

// Database is a container of pages.
type Database struct {
	ID    string     `json:"id"`
	Title []RichText `json:"title,omitempty"`
}

// Icon is an emoji icon attached to a callout block.
type Icon struct {
	Emoji string `json:"emoji,omitempty"`
}

// BlockText is the common payload of text-bearing block types.
type BlockText struct {
	RichText []RichText `json:"rich_text"`
}

// ToDoBlock is the payload of a checklist item.
type ToDoBlock struct {
	RichText []RichText `json:"rich_text"`
	Checked  bool       `json:"checked"`
}

// CalloutBlock is the payload of a callout.
type CalloutBlock struct {
	RichText []RichText `json:"rich_text"`
	Icon     *Icon      `json:"icon,omitempty"`
}

// Block is one typed unit of a page body. Like Property, Type selects
// the populated payload field.
type Block struct {
	Type             string        `json:"type"`
	Paragraph        *BlockText    `json:"paragraph,omitempty"`
	Heading1         *BlockText    `json:"heading_1,omitempty"`
	Heading2         *BlockText    `json:"heading_2,omitempty"`
	Heading3         *BlockText    `json:"heading_3,omitempty"`
	BulletedListItem *BlockText    `json:"bulleted_list_item,omitempty"`
	NumberedListItem *BlockText    `json:"numbered_list_item,omitempty"`
	ToDo             *ToDoBlock    `json:"to_do,omitempty"`
	Toggle           *BlockText    `json:"toggle,omitempty"`
	Quote            *BlockText    `json:"quote,omitempty"`
	Callout          *CalloutBlock `json:"callout,omitempty"`
	HasChildren      bool          `json:"has_children,omitempty"`
}

// PlainText joins the plain text of all runs.
func PlainText(runs []RichText) string {
	var out string
	for _, r := range runs {
		if r.PlainText != "" {
			out += r.PlainText
		} else if r.Text != nil {
			out += r.Text.Content
		}
	}
	return out
}

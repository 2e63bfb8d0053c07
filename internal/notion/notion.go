package notion

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"mealworm/internal/config"
)

const notionVersion = "2022-06-28"

// mealKeywords are the probes used to discover meal-like databases.
var mealKeywords = []string{"meal", "recipe", "food", "cooking", "kitchen", "dinner", "lunch", "breakfast"}

// Client is an interface for the workspace document source.
type Client interface {
	FindMealDatabases(ctx context.Context) ([]Database, error)
	QueryDatabase(ctx context.Context, databaseID string) ([]Page, error)
	SearchPages(ctx context.Context, query string) ([]Page, error)
	PageBlocks(ctx context.Context, pageID string) ([]Block, error)
	CreatePage(ctx context.Context, databaseID, title string, children []Block) (*Page, error)
}

// notionClient is the concrete implementation of the workspace client.
type notionClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates a new workspace API client.
func NewClient(cfg *config.Config) Client {
	return &notionClient{
		baseURL: cfg.NotionAPIURL,
		apiKey:  cfg.NotionAPIKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// FindMealDatabases probes the workspace with meal-related keywords and
// returns the discovered databases, deduplicated by ID.
func (c *notionClient) FindMealDatabases(ctx context.Context) ([]Database, error) {
	var databases []Database
	seen := make(map[string]struct{})

	for _, keyword := range mealKeywords {
		results, err := c.searchDatabases(ctx, keyword)
		if err != nil {
			return nil, fmt.Errorf("failed to search databases for %q: %w", keyword, err)
		}
		for _, db := range results {
			if _, ok := seen[db.ID]; ok {
				continue
			}
			seen[db.ID] = struct{}{}
			databases = append(databases, db)
		}
	}

	return databases, nil
}

// QueryDatabase lists every page of a database, following pagination.
func (c *notionClient) QueryDatabase(ctx context.Context, databaseID string) ([]Page, error) {
	var pages []Page
	cursor := ""

	for {
		body := map[string]interface{}{"page_size": 100}
		if cursor != "" {
			body["start_cursor"] = cursor
		}

		var result struct {
			Results    []Page `json:"results"`
			HasMore    bool   `json:"has_more"`
			NextCursor string `json:"next_cursor"`
		}
		if err := c.do(ctx, "POST", fmt.Sprintf("/v1/databases/%s/query", databaseID), body, &result); err != nil {
			return nil, fmt.Errorf("failed to query database %s: %w", databaseID, err)
		}

		pages = append(pages, result.Results...)
		if !result.HasMore || result.NextCursor == "" {
			return pages, nil
		}
		cursor = result.NextCursor
	}
}

// SearchPages searches the workspace for pages matching the query.
func (c *notionClient) SearchPages(ctx context.Context, query string) ([]Page, error) {
	body := map[string]interface{}{
		"query":  query,
		"filter": map[string]string{"property": "object", "value": "page"},
	}

	var result struct {
		Results []Page `json:"results"`
	}
	if err := c.do(ctx, "POST", "/v1/search", body, &result); err != nil {
		return nil, fmt.Errorf("failed to search pages: %w", err)
	}

	return result.Results, nil
}

// PageBlocks lists the top-level content blocks of a page, following pagination.
func (c *notionClient) PageBlocks(ctx context.Context, pageID string) ([]Block, error) {
	var blocks []Block
	cursor := ""

	for {
		path := fmt.Sprintf("/v1/blocks/%s/children?page_size=100", pageID)
		if cursor != "" {
			path += "&start_cursor=" + cursor
		}

		var result struct {
			Results    []Block `json:"results"`
			HasMore    bool    `json:"has_more"`
			NextCursor string  `json:"next_cursor"`
		}
		if err := c.do(ctx, "GET", path, nil, &result); err != nil {
			return nil, fmt.Errorf("failed to list blocks for page %s: %w", pageID, err)
		}

		blocks = append(blocks, result.Results...)
		if !result.HasMore || result.NextCursor == "" {
			return blocks, nil
		}
		cursor = result.NextCursor
	}
}

// CreatePage creates a page in a database with a title and body blocks.
func (c *notionClient) CreatePage(ctx context.Context, databaseID, title string, children []Block) (*Page, error) {
	body := map[string]interface{}{
		"parent": map[string]string{"database_id": databaseID},
		"properties": map[string]interface{}{
			"Name": map[string]interface{}{
				"title": []RichText{{Text: &TextContent{Content: title}}},
			},
		},
	}
	if len(children) > 0 {
		body["children"] = children
	}

	var page Page
	if err := c.do(ctx, "POST", "/v1/pages", body, &page); err != nil {
		return nil, fmt.Errorf("failed to create page: %w", err)
	}

	return &page, nil
}

func (c *notionClient) searchDatabases(ctx context.Context, query string) ([]Database, error) {
	body := map[string]interface{}{
		"query":  query,
		"filter": map[string]string{"property": "object", "value": "database"},
	}

	var result struct {
		Results []Database `json:"results"`
	}
	if err := c.do(ctx, "POST", "/v1/search", body, &result); err != nil {
		return nil, err
	}

	return result.Results, nil
}

func (c *notionClient) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		reader = bytes.NewBuffer(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Notion-Version", notionVersion)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("workspace api error: status=%d body=%s", resp.StatusCode, string(bodyBytes))
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}

package tools

import (
	"context"
	"fmt"

	"github.com/mmcdole/gofeed"
)

// RSSFeedTool fetches and parses an RSS/Atom feed.
type RSSFeedTool struct{}

func (r *RSSFeedTool) Name() string { return "rss-feed" }

func (r *RSSFeedTool) Execute(ctx context.Context, input map[string]any) (any, error) {
	feedURL, _ := input["url"].(string)
	if feedURL == "" {
		return nil, fmt.Errorf("url is required")
	}

	limit := 10
	if n, ok := input["limit"].(float64); ok && n > 0 {
		limit = int(n)
	}

	parser := gofeed.NewParser()
	feed, err := parser.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		return nil, fmt.Errorf("parse feed: %w", err)
	}

	items := make([]map[string]any, 0, limit)
	for i, item := range feed.Items {
		if i >= limit {
			break
		}
		entry := map[string]any{
			"title": item.Title,
			"link":  item.Link,
		}
		if item.Description != "" {
			entry["description"] = item.Description
		}
		if item.PublishedParsed != nil {
			entry["published"] = item.PublishedParsed.UTC().Format("2006-01-02T15:04:05Z")
		}
		items = append(items, entry)
	}

	return map[string]any{
		"feed":  feed.Title,
		"items": items,
	}, nil
}

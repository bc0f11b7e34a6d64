package ingest

import (
	"context"
	"log/slog"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"

	"github.com/finsight/newsintel/core"
)

const defaultMaxPerFeed = 20

// RSSSource fetches items from one RSS or Atom feed.
type RSSSource struct {
	name     string
	url      string
	maxItems int
	parser   *gofeed.Parser
	logger   *slog.Logger
}

var _ Source = (*RSSSource)(nil)

// RSSOption configures an RSSSource.
type RSSOption func(*RSSSource)

// WithMaxItems caps the number of items taken per fetch.
// Default is 20.
func WithMaxItems(max int) RSSOption {
	return func(s *RSSSource) {
		if max > 0 {
			s.maxItems = max
		}
	}
}

// NewRSSSource creates a feed source for the given URL.
func NewRSSSource(name, url string, opts ...RSSOption) (*RSSSource, error) {
	if strings.TrimSpace(url) == "" {
		return nil, ErrEmptyFeedURL
	}
	if name == "" {
		name = url
	}

	s := &RSSSource{
		name:     name,
		url:      url,
		maxItems: defaultMaxPerFeed,
		parser:   gofeed.NewParser(),
		logger:   slog.Default().With("component", "rss-source", "source", name),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Name identifies the source.
func (s *RSSSource) Name() string {
	return s.name
}

// Fetch parses the feed and converts its items. Items without a usable
// title or link are dropped.
func (s *RSSSource) Fetch(ctx context.Context) ([]core.RawItem, error) {
	feed, err := s.parser.ParseURLWithContext(s.url, ctx)
	if err != nil {
		return nil, err
	}

	items := make([]core.RawItem, 0, len(feed.Items))
	for _, entry := range feed.Items {
		if len(items) >= s.maxItems {
			break
		}
		if item, ok := convertEntry(entry); ok {
			items = append(items, item)
		}
	}

	s.logger.Debug("fetched feed", "entries", len(feed.Items), "accepted", len(items))
	return items, nil
}

// convertEntry maps one feed entry onto a RawItem.
func convertEntry(entry *gofeed.Item) (core.RawItem, bool) {
	title := strings.TrimSpace(entry.Title)
	if title == "" {
		return core.RawItem{}, false
	}

	link := entry.Link
	if link == "" {
		link = entry.GUID
	}
	if link == "" {
		return core.RawItem{}, false
	}

	body := entry.Content
	if body == "" {
		body = entry.Description
	}

	item := core.RawItem{
		Title:     title,
		Content:   stripHTML(body),
		SourceURL: link,
	}
	if entry.PublishedParsed != nil {
		item.Timestamp = *entry.PublishedParsed
	} else if entry.UpdatedParsed != nil {
		item.Timestamp = *entry.UpdatedParsed
	}
	return item, true
}

// stripHTML reduces feed markup to plain text with normalized whitespace.
func stripHTML(markup string) string {
	if markup == "" {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return strings.Join(strings.Fields(markup), " ")
	}
	return strings.Join(strings.Fields(doc.Text()), " ")
}

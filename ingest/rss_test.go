package ingest

import (
	"testing"
	"time"

	"github.com/mmcdole/gofeed"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRSSSource_RequiresURL(t *testing.T) {
	_, err := NewRSSSource("moneywire", "  ")
	assert.ErrorIs(t, err, ErrEmptyFeedURL)
}

func TestNewRSSSource_DefaultsNameToURL(t *testing.T) {
	source, err := NewRSSSource("", "https://example.com/rss")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/rss", source.Name())
}

func TestConvertEntry(t *testing.T) {
	published := time.Date(2025, 11, 3, 8, 0, 0, 0, time.UTC)

	t.Run("complete entry", func(t *testing.T) {
		item, ok := convertEntry(&gofeed.Item{
			Title:           "  Jindal Steel posts record profit  ",
			Link:            "https://example.com/jindal",
			Description:     "<p>Record <b>profit</b> on exports.</p>",
			PublishedParsed: &published,
		})
		require.True(t, ok)
		assert.Equal(t, "Jindal Steel posts record profit", item.Title)
		assert.Equal(t, "Record profit on exports.", item.Content)
		assert.Equal(t, "https://example.com/jindal", item.SourceURL)
		assert.Equal(t, published, item.Timestamp)
	})

	t.Run("prefers full content over description", func(t *testing.T) {
		item, ok := convertEntry(&gofeed.Item{
			Title:       "title",
			Link:        "https://example.com/a",
			Content:     "full body",
			Description: "summary",
		})
		require.True(t, ok)
		assert.Equal(t, "full body", item.Content)
	})

	t.Run("falls back to GUID for link", func(t *testing.T) {
		item, ok := convertEntry(&gofeed.Item{
			Title: "title",
			GUID:  "urn:guid:1",
		})
		require.True(t, ok)
		assert.Equal(t, "urn:guid:1", item.SourceURL)
	})

	t.Run("missing timestamp stays zero", func(t *testing.T) {
		item, ok := convertEntry(&gofeed.Item{Title: "title", Link: "https://x"})
		require.True(t, ok)
		assert.True(t, item.Timestamp.IsZero())
	})

	t.Run("rejects missing title or link", func(t *testing.T) {
		_, ok := convertEntry(&gofeed.Item{Link: "https://x"})
		assert.False(t, ok)

		_, ok = convertEntry(&gofeed.Item{Title: "title"})
		assert.False(t, ok)
	})
}

func TestStripHTML(t *testing.T) {
	assert.Equal(t, "", stripHTML(""))
	assert.Equal(t, "plain text", stripHTML("plain   text"))
	assert.Equal(t, "Steel & Power up 5%",
		stripHTML("<div>Steel &amp; Power <em>up</em>\n 5%</div>"))
}

package openai

import (
	"context"
	"log/slog"
	"strings"

	"github.com/finsight/newsintel/ai"
	"github.com/finsight/newsintel/core"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// FilterExtractor implements ai.FilterExtractor using OpenAI-compatible chat APIs.
type FilterExtractor struct {
	client llms.Model
	logger *slog.Logger
}

// filterReply is an internal type used for JSON unmarshaling.
type filterReply struct {
	SearchQuery     string   `json:"search_query"`
	Companies       []string `json:"companies"`
	Sectors         []string `json:"sectors"`
	ImpactDirection string   `json:"impact_direction"`
}

// newFilterExtractor is an internal constructor that returns the concrete type.
// Used by Provider to manage the instance.
func newFilterExtractor(config *ai.Config) (*FilterExtractor, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	client, err := openai.New(
		openai.WithBaseURL(config.AnalystHost),
		openai.WithToken("none"),
		openai.WithModel(config.AnalystModel),
	)
	if err != nil {
		return nil, err
	}

	return &FilterExtractor{
		client: client,
		logger: slog.Default().With("component", "openai-filter-extractor"),
	}, nil
}

// NewFilterExtractor creates a new query filter extractor using the provided configuration.
//
// Returns ai.FilterExtractor interface to enforce abstraction.
func NewFilterExtractor(config *ai.Config) (ai.FilterExtractor, error) {
	return newFilterExtractor(config)
}

// ExtractFilter turns a free-text query into a structured QueryFilter.
// SearchQuery is always populated; when the model leaves it empty the raw
// query text is used instead.
func (f *FilterExtractor) ExtractFilter(ctx context.Context, query string) (core.QueryFilter, error) {
	var reply filterReply
	if err := generateJSON(ctx, f.client, f.logger, buildFilterPrompt(),
		"User query to analyze: "+query, &reply); err != nil {
		return core.QueryFilter{}, err
	}

	filter := core.QueryFilter{
		SearchQuery: strings.TrimSpace(reply.SearchQuery),
		Companies:   reply.Companies,
		Sectors:     reply.Sectors,
	}
	if filter.SearchQuery == "" {
		filter.SearchQuery = query
	}

	direction := core.ImpactDirection(strings.ToUpper(strings.TrimSpace(reply.ImpactDirection)))
	if direction.Valid() {
		filter.Direction = direction
	}

	f.logger.Debug("extracted query filter",
		"searchQuery", filter.SearchQuery,
		"direction", filter.Direction,
		"companies", len(filter.Companies))
	return filter, nil
}

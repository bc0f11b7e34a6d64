package static

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finsight/newsintel/core"
)

func TestResolveTicker_KnownCompanies(t *testing.T) {
	resolver := NewResolver(nil)
	ctx := context.Background()

	tests := []struct {
		company string
		ticker  string
	}{
		{"Jindal Steel and Power", "JSPL.NS"},
		{"jindal steel", "JSPL.NS"},
		{"Caterpillar", "CAT"},
		{"Caterpillar Inc.", "CAT"},
		{"Tesla", "TSLA"},
		{"Omaxe", "OMAXE.NS"},
	}

	for _, tt := range tests {
		t.Run(tt.company, func(t *testing.T) {
			ticker, err := resolver.ResolveTicker(ctx, tt.company)
			require.NoError(t, err)
			assert.Equal(t, tt.ticker, ticker)
		})
	}
}

func TestResolveTicker_Unknown(t *testing.T) {
	resolver := NewResolver(nil)

	ticker, err := resolver.ResolveTicker(context.Background(), "Acme Widgets Ltd")
	require.NoError(t, err)
	assert.Equal(t, core.TickerNotFound, ticker)
}

func TestResolveTicker_EmptyName(t *testing.T) {
	resolver := NewResolver(nil)

	ticker, err := resolver.ResolveTicker(context.Background(), "   ")
	require.NoError(t, err)
	assert.Equal(t, core.TickerNotFound, ticker)
}

func TestResolveTicker_ExtraSymbols(t *testing.T) {
	resolver := NewResolver(map[string]string{"Acme Widgets": "ACME"})

	ticker, err := resolver.ResolveTicker(context.Background(), "Acme Widgets")
	require.NoError(t, err)
	assert.Equal(t, "ACME", ticker)
}

package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIDFromContent_Deterministic(t *testing.T) {
	id1 := IDFromContent("TCS wins $2B contract")
	id2 := IDFromContent("TCS wins $2B contract")
	id3 := IDFromContent("HDFC Bank faces RBI scrutiny")

	assert.Equal(t, id1, id2, "identical content must produce identical IDs")
	assert.NotEqual(t, id1, id3, "different content must produce different IDs")
}

func TestIDString_FixedWidthHex(t *testing.T) {
	id := ID(0xab)
	require.Len(t, id.String(), 16)
	assert.Equal(t, "00000000000000ab", id.String())
}

func TestImpactDirection_Valid(t *testing.T) {
	for _, d := range []ImpactDirection{DirectionPositive, DirectionNegative, DirectionNeutral, DirectionUnclear} {
		assert.True(t, d.Valid(), string(d))
	}
	assert.False(t, ImpactDirection("SIDEWAYS").Valid())
	assert.False(t, ImpactDirection("").Valid())
}

func TestImpactKind_ConfidenceBounds(t *testing.T) {
	tests := []struct {
		kind ImpactKind
		lo   float64
		hi   float64
	}{
		{ImpactDirect, 1.0, 1.0},
		{ImpactSector, 0.60, 0.80},
		{ImpactRegulatory, 0.80, 0.95},
	}

	for _, tt := range tests {
		lo, hi := tt.kind.ConfidenceBounds()
		assert.Equal(t, tt.lo, lo, string(tt.kind))
		assert.Equal(t, tt.hi, hi, string(tt.kind))
	}
}

func TestStage_String(t *testing.T) {
	assert.Equal(t, "ITERATING", StageIterating.String())
	assert.Equal(t, "ENRICHING_ENTITIES", StageEnrichingEntities.String())
	assert.Equal(t, "DONE", StageDone.String())
	assert.Equal(t, "STAGE(99)", Stage(99).String())
}

func TestStage_Terminal(t *testing.T) {
	assert.True(t, StageDone.Terminal())
	assert.True(t, StageError.Terminal())
	assert.False(t, StageIterating.Terminal())
	assert.False(t, StagePersisting.Terminal())
}

func TestExtractedEntities_ZeroValue(t *testing.T) {
	var entities ExtractedEntities
	assert.Empty(t, entities.Companies)
	assert.Empty(t, entities.Sectors)
	assert.Empty(t, entities.Regulators)
	assert.Empty(t, entities.People)
	assert.Empty(t, entities.Events)
}

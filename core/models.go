package core

import (
	"encoding/binary"
	"fmt"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for consolidated stories.
// It is derived from story content using BLAKE2b hashing, so the same
// coverage always maps to the same identifier.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// String renders the ID as a fixed-width hex string. This form is used as
// the structured-store primary key and as the vector index key.
func (id ID) String() string {
	return fmt.Sprintf("%016x", uint64(id))
}

// TickerNotFound is the sentinel ticker symbol for companies the resolver
// could not map to a listed security. It is stored as-is rather than
// failing the story.
const TickerNotFound = "NOT_FOUND"

// RawItem is a single news item as produced by ingestion.
// It is never mutated after creation.
type RawItem struct {
	ID        string // assigned at ingestion, unique per item
	Title     string
	Content   string
	SourceURL string
	Timestamp time.Time // zero when the source did not provide one
}

// ExtractedEntities holds the named entities pulled out of a story,
// grouped by category. All categories default to empty lists.
type ExtractedEntities struct {
	Companies  []string
	Sectors    []string
	Regulators []string
	People     []string
	Events     []string
}

// ImpactDirection is the expected directional effect of a story on a security.
type ImpactDirection string

const (
	DirectionPositive ImpactDirection = "POSITIVE"
	DirectionNegative ImpactDirection = "NEGATIVE"
	DirectionNeutral  ImpactDirection = "NEUTRAL"
	DirectionUnclear  ImpactDirection = "UNCLEAR"
)

// Valid reports whether the direction is one of the known values.
func (d ImpactDirection) Valid() bool {
	switch d {
	case DirectionPositive, DirectionNegative, DirectionNeutral, DirectionUnclear:
		return true
	}
	return false
}

// ImpactKind classifies how a story affects a security.
type ImpactKind string

const (
	// ImpactDirect is an impact on a company named in the story.
	ImpactDirect ImpactKind = "DIRECT"
	// ImpactSector is an industry-wide impact.
	ImpactSector ImpactKind = "SECTOR"
	// ImpactRegulatory is a policy- or regulator-driven impact.
	ImpactRegulatory ImpactKind = "REGULATORY"
)

// Valid reports whether the kind is one of the known values.
func (k ImpactKind) Valid() bool {
	switch k {
	case ImpactDirect, ImpactSector, ImpactRegulatory:
		return true
	}
	return false
}

// ConfidenceBounds returns the inclusive confidence band required for the
// impact kind. Unknown kinds get the full [0,1] range.
func (k ImpactKind) ConfidenceBounds() (lo, hi float64) {
	switch k {
	case ImpactDirect:
		return 1.0, 1.0
	case ImpactSector:
		return 0.60, 0.80
	case ImpactRegulatory:
		return 0.80, 0.95
	}
	return 0.0, 1.0
}

// StockImpact is a single resolved security impact.
// Produced by enrichment, never mutated after.
type StockImpact struct {
	CompanyName string
	Ticker      string // TickerNotFound when unresolved
	Direction   ImpactDirection
	Confidence  float64 // 0.0 to 1.0, constrained by Kind
	Kind        ImpactKind
}

// ConsolidatedStory is the single canonical record for a cluster of
// near-duplicate raw items. Created once by deduplication, enriched and
// persisted in place.
type ConsolidatedStory struct {
	ID        ID
	Text      string
	Sources   []RawItem
	Entities  ExtractedEntities
	Impacts   []StockImpact
	Sentiment string // empty until enrichment assigns a label

	StoreKey  string // structured-store primary key, set by persistence
	VectorKey string // vector index key, set by persistence
}

// Stage is a workflow engine state. The closed enum plus the transition
// table in the pipeline package make illegal states unrepresentable.
type Stage int

const (
	StageIngesting Stage = iota + 1
	StageDeduplicating
	StageIterating
	StageEnrichingEntities
	StageEnrichingImpact
	StagePersisting
	StageDone
	StageError
)

var stageNames = map[Stage]string{
	StageIngesting:         "INGESTING",
	StageDeduplicating:     "DEDUPLICATING",
	StageIterating:         "ITERATING",
	StageEnrichingEntities: "ENRICHING_ENTITIES",
	StageEnrichingImpact:   "ENRICHING_IMPACT",
	StagePersisting:        "PERSISTING",
	StageDone:              "DONE",
	StageError:             "ERROR",
}

func (s Stage) String() string {
	if name, ok := stageNames[s]; ok {
		return name
	}
	return fmt.Sprintf("STAGE(%d)", int(s))
}

// Terminal reports whether the stage is absorbing.
func (s Stage) Terminal() bool {
	return s == StageDone || s == StageError
}

// PipelineState is the mutable state of one batch run. It is owned
// exclusively by the workflow engine and never shared across batches.
// The pending queue and the completed stories are kept in separate
// containers so queue length alone decides loop termination.
type PipelineState struct {
	Batch      []RawItem
	Queue      []*ConsolidatedStory
	Completed  []*ConsolidatedStory
	Current    *ConsolidatedStory
	Status     Stage
	ErrMessage string
}

// QueryFilter is the structured form of a free-text query.
// Built once per query, read-only afterward.
type QueryFilter struct {
	SearchQuery string
	Companies   []string // company names or tickers
	Sectors     []string
	Direction   ImpactDirection // empty when the query does not constrain direction
}

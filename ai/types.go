package ai

// EntityCategories defines the entity groups the extractor reports.
// They mirror the fields of core.ExtractedEntities.
var EntityCategories = []string{
	"companies",
	"sectors",
	"regulators",
	"people",
	"events",
}

// SentimentLabels defines the valid sentiment labels for a story.
var SentimentLabels = []string{
	"POSITIVE",
	"NEGATIVE",
	"NEUTRAL",
}

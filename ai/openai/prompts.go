package openai

import (
	"fmt"
	"strings"

	"github.com/finsight/newsintel/ai"
)

const entityResponseSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "properties": {
    "companies":  {"type": "array", "items": {"type": "string"}},
    "sectors":    {"type": "array", "items": {"type": "string"}},
    "regulators": {"type": "array", "items": {"type": "string"}},
    "people":     {"type": "array", "items": {"type": "string"}},
    "events":     {"type": "array", "items": {"type": "string"}}
  },
  "required": ["companies", "sectors", "regulators", "people", "events"],
  "additionalProperties": false
}`

const entityPromptTemplate = `You are an expert financial analyst. Extract the key entities (%s) from the provided news story and return them as JSON.

Output ONLY valid JSON which complies with the schema given below. Do not include any preamble, explanation,
greeting, or acknowledgment. Start your response directly with the opening brace { and end with the closing
brace }. Your output must exactly follow this schema:

%s

Rules:
- Include only entities that are explicitly mentioned in the story. Do not hallucinate.
- If an entity category is not present, return an empty list for that category.
- Focus only on financially relevant information.
- The JSON must parse without errors; no trailing commas, no extra keys, and no extraneous text outside the object.

Example:
Input: "TCS has won a $2 billion contract from a European retailer, boosting the IT sector outlook."
Output:
{
  "companies": ["TCS"],
  "sectors": ["IT"],
  "regulators": [],
  "people": [],
  "events": ["contract win"]
}`

const sentimentPrompt = `Analyze the financial news story and assign a single sentiment label: 'POSITIVE', 'NEGATIVE', or 'NEUTRAL'. Respond ONLY with the label, nothing else. Do not use quotes, punctuation, or any introductory text.`

const impactResponseSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "properties": {
    "impacts": {
      "type": "array",
      "items": {
        "type": "object",
        "properties": {
          "company_name": {"type": "string"},
          "direction":    {"type": "string", "enum": ["POSITIVE", "NEGATIVE", "NEUTRAL", "UNCLEAR"]},
          "confidence":   {"type": "number", "minimum": 0.0, "maximum": 1.0},
          "kind":         {"type": "string", "enum": ["DIRECT", "SECTOR", "REGULATORY"]}
        },
        "required": ["company_name", "direction", "confidence", "kind"],
        "additionalProperties": false
      }
    }
  },
  "required": ["impacts"],
  "additionalProperties": false
}`

const impactPromptTemplate = `You are an expert financial analyst. Determine the directional impact, confidence score, and impact kind for every relevant security mentioned in the news story. Analyze the entire context (content, entities, sentiment) to generate the final structured output.

Output ONLY valid JSON which complies with the schema given below. Start your response directly with the
opening brace { and end with the closing brace }. Your output must exactly follow this schema:

%s

Rules:
- Produce one entry per named company; for sector-wide or regulatory impacts use the affected sector or
  regulated companies as the entry name.
- Confidence rules (MUST be applied strictly):
  - Direct mention of a company (kind "DIRECT"): confidence MUST be 1.0.
  - Sector-wide impact (kind "SECTOR"): confidence MUST be between 0.60 and 0.80.
  - Regulatory impact (kind "REGULATORY"): confidence MUST be between 0.80 and 0.95.
- The direction MUST be one of: POSITIVE, NEGATIVE, NEUTRAL, UNCLEAR.
- If no security is affected, return "impacts": [].
- The JSON must parse without errors; no trailing commas, no extra keys, and no extraneous text outside the object.`

const impactUserTemplate = `Story content:
%s

Extracted companies: %s
Extracted sectors: %s
Extracted regulators: %s
Sentiment (for context): %s

Analyze the story and the extracted entities, then determine the financial impact (direction, confidence, and kind) for each affected security.`

const filterResponseSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "properties": {
    "search_query":     {"type": "string"},
    "companies":        {"type": "array", "items": {"type": "string"}},
    "sectors":          {"type": "array", "items": {"type": "string"}},
    "impact_direction": {"type": "string", "enum": ["POSITIVE", "NEGATIVE", "NEUTRAL", "UNCLEAR", ""]}
  },
  "required": ["search_query"],
  "additionalProperties": false
}`

const filterPromptTemplate = `You are an expert filter extraction system. Analyze the user's financial news query and extract structured search parameters as JSON.

Output ONLY valid JSON which complies with the schema given below. Start your response directly with the
opening brace { and end with the closing brace }. Your output must exactly follow this schema:

%s

Rules:
- The "search_query" field is MANDATORY and must contain the core, simplified search phrase, even if other
  fields are filled (e.g. "latest news about dividend payments").
- "companies" lists specific company names or stock tickers mentioned in the query.
- "sectors" lists industry sectors (e.g. Banking, Auto, IT) mentioned in the query.
- "impact_direction" is the required stock impact direction if the query asks for one; use "" when the
  query does not specify a direction.
- If nothing specific is mentioned for a field, use an empty list or "".`

// buildEntityPrompt creates the entity extraction system prompt with the
// category list and schema embedded.
func buildEntityPrompt() string {
	return fmt.Sprintf(entityPromptTemplate,
		strings.Join(ai.EntityCategories, ", "),
		entityResponseSchema)
}

// buildImpactPrompt creates the impact classification system prompt.
func buildImpactPrompt() string {
	return fmt.Sprintf(impactPromptTemplate, impactResponseSchema)
}

// buildFilterPrompt creates the query filter extraction system prompt.
func buildFilterPrompt() string {
	return fmt.Sprintf(filterPromptTemplate, filterResponseSchema)
}

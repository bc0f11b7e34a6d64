package openai

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRepairJSON_MissingOpeningQuote(t *testing.T) {
	broken := `{"company_name": "TCS", kind": "DIRECT"}`
	assert.Equal(t, `{"company_name": "TCS", "kind": "DIRECT"}`, repairJSON(broken))
}

func TestRepairJSON_ValidInputUnchanged(t *testing.T) {
	valid := `{"impacts": [{"company_name": "TCS", "direction": "POSITIVE", "confidence": 1.0, "kind": "DIRECT"}]}`
	assert.Equal(t, valid, repairJSON(valid))
}

func TestStripCodeFences(t *testing.T) {
	assert.Equal(t, `{"a":1}`, stripCodeFences("```json\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, stripCodeFences("```\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, stripCodeFences(`{"a":1}`))
}

func TestTruncateRunes(t *testing.T) {
	assert.Equal(t, "abc", truncateRunes("abc", 10))
	assert.Equal(t, "ab", truncateRunes("abcd", 2))
}

func TestJoinOrNone(t *testing.T) {
	assert.Equal(t, "(none)", joinOrNone(nil))
	assert.Equal(t, "TCS, Infosys", joinOrNone([]string{"TCS", "Infosys"}))
}

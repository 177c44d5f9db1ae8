package node

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractJSONObjectPassthrough(t *testing.T) {
	in := `{"a":1}`
	assert.Equal(t, in, ExtractJSONObject(in))
}

func TestExtractJSONObjectSurroundingProse(t *testing.T) {
	in := "Sure, here it is:\n{\"a\":1,\"b\":{\"c\":2}}\nHope that helps!"
	out := ExtractJSONObject(in)
	assert.Equal(t, `{"a":1,"b":{"c":2}}`, out)
	assert.True(t, json.Valid([]byte(out)))
}

func TestExtractJSONObjectBracesInsideStrings(t *testing.T) {
	in := `prefix {"text":"use {curly} braces"} suffix`
	out := ExtractJSONObject(in)
	assert.Equal(t, `{"text":"use {curly} braces"}`, out)
}

func TestExtractJSONObjectCodeFence(t *testing.T) {
	in := "```json\n{\"a\":1}\n```"
	assert.Equal(t, `{"a":1}`, ExtractJSONObject(in))
}

func TestExtractJSONObjectArray(t *testing.T) {
	in := "result: [1,2,3] done"
	assert.Equal(t, "[1,2,3]", ExtractJSONObject(in))
}

func TestExtractJSONObjectNoJSON(t *testing.T) {
	in := "no structured data here"
	assert.Equal(t, in, ExtractJSONObject(in))
}

func TestEscapeRawNewlines(t *testing.T) {
	in := "{\"script\":\"line one\nline two\"}"
	out := EscapeRawNewlines(in)
	require.True(t, json.Valid([]byte(out)))

	var parsed struct {
		Script string `json:"script"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &parsed))
	assert.Equal(t, "line one\nline two", parsed.Script)
}

func TestEscapeRawNewlinesLeavesEscapedAlone(t *testing.T) {
	in := `{"script":"already\nescaped"}`
	assert.Equal(t, in, EscapeRawNewlines(in))
}

func TestEscapeRawNewlinesOutsideStrings(t *testing.T) {
	in := "{\n\"a\": 1\n}"
	assert.Equal(t, in, EscapeRawNewlines(in), "newlines outside strings are legal JSON whitespace")
}

package brainstorm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizePlainProse(t *testing.T) {
	c := Normalize("Just write about your day, it always works.")
	text, ok := c.(TextContent)
	require.True(t, ok)
	assert.Equal(t, "Just write about your day, it always works.", text.Text)
}

func TestNormalizeEmptyString(t *testing.T) {
	c := Normalize("")
	text, ok := c.(TextContent)
	require.True(t, ok)
	assert.Equal(t, "", text.Text)
}

func TestNormalizeQuestionPayload(t *testing.T) {
	raw := `{"type":"question","message":"Which vibe?","options":["Funny","Edgy"]}`
	c := Normalize(raw)
	q, ok := c.(QuestionContent)
	require.True(t, ok)
	assert.Equal(t, "Which vibe?", q.Text)
	require.Len(t, q.Options, 2)
	// 合成 ID，不从选项文本推断身份
	assert.Equal(t, "option_1", q.Options[0].ID)
	assert.Equal(t, "Funny", q.Options[0].Label)
	assert.Equal(t, "option_2", q.Options[1].ID)
}

func TestNormalizeQuestionObjectOptions(t *testing.T) {
	raw := `{"type":"question","message":"Pick one","options":[{"label":"A","value":"a"},{"label":"B"}]}`
	c := Normalize(raw)
	q, ok := c.(QuestionContent)
	require.True(t, ok)
	require.Len(t, q.Options, 2)
	assert.Equal(t, "a", q.Options[0].Value)
	assert.Equal(t, "B", q.Options[1].Value)
}

func TestNormalizeCardNestedData(t *testing.T) {
	raw := `{"type":"preview","message":"Here you go","data":{"title":"Morning routine","script":"Wake up at 5am","visual_hook":"sunrise timelapse","hashtags":["#morning"],"timeline":[{"time":"0-3s","visual":"alarm","audio":"beep"}]}}`
	c := Normalize(raw)
	card, ok := c.(CardContent)
	require.True(t, ok)
	assert.Equal(t, "Morning routine", card.Card.Title)
	assert.Equal(t, "Wake up at 5am", card.Card.Script)
	assert.Equal(t, "sunrise timelapse", card.Card.VisualHook)
	require.Len(t, card.Card.Timeline, 1)
	assert.Equal(t, "0-3s", card.Card.Timeline[0].Time)
	assert.Equal(t, "alarm", card.Card.Timeline[0].Visual)
	assert.Equal(t, "beep", card.Card.Timeline[0].Audio)
}

func TestNormalizeCardFlatPayload(t *testing.T) {
	raw := `{"type":"card","title":"Flat","script":"No data wrapper","platform":"TikTok"}`
	c := Normalize(raw)
	card, ok := c.(CardContent)
	require.True(t, ok)
	assert.Equal(t, "Flat", card.Card.Title)
	assert.Equal(t, "TikTok", card.Card.PlatformLabel)
}

func TestNormalizeProseThenJSON(t *testing.T) {
	raw := "Here's an idea:\n{\"type\":\"preview\",\"data\":{\"title\":\"X\",\"script\":\"Y\"}}"
	c := Normalize(raw)
	card, ok := c.(CardContent)
	require.True(t, ok, "prose-wrapped payload must still yield a card, got %T", c)
	assert.Equal(t, "X", card.Card.Title)
	assert.Equal(t, "Y", card.Card.Script)
}

func TestNormalizeCodeFencedJSON(t *testing.T) {
	raw := "```json\n{\"type\":\"question\",\"message\":\"Q?\",\"options\":[\"yes\"]}\n```"
	c := Normalize(raw)
	q, ok := c.(QuestionContent)
	require.True(t, ok)
	assert.Equal(t, "Q?", q.Text)
}

func TestNormalizeRawNewlinesInStrings(t *testing.T) {
	raw := "{\"type\":\"card\",\"title\":\"T\",\"script\":\"line one\nline two\"}"
	c := Normalize(raw)
	card, ok := c.(CardContent)
	require.True(t, ok)
	assert.Equal(t, "line one\nline two", card.Card.Script)
}

func TestNormalizeMessageFieldRescue(t *testing.T) {
	// 截断的 JSON：整体解析失败，但 message 字段完整
	raw := `{"message":"Try a \"before and after\" cut","type":"question","options":["a",`
	c := Normalize(raw)
	text, ok := c.(TextContent)
	require.True(t, ok)
	assert.Equal(t, `Try a "before and after" cut`, text.Text)
}

func TestNormalizeUnknownTypeFallsBackToMessage(t *testing.T) {
	raw := `{"type":"whatever","message":"still readable"}`
	c := Normalize(raw)
	text, ok := c.(TextContent)
	require.True(t, ok)
	assert.Equal(t, "still readable", text.Text)
}

func TestNormalizeTotality(t *testing.T) {
	inputs := []string{
		"",
		"   ",
		"plain prose with no json at all",
		"prose with a stray { brace",
		"{",
		"[1, 2, 3]",
		`{"type":"question"`,
		"```\ntruncated {\"type\":\"card\"\n```",
		"{\"type\":\"preview\",\"data\":{\"title\":\"ok\"}} trailing prose",
		"\x00\xff binary-ish",
	}
	for _, in := range inputs {
		c := Normalize(in)
		require.NotNil(t, c, "input %q", in)
	}
}

func TestMetadataRoundTrip(t *testing.T) {
	original := QuestionContent{
		Text:    "Pick a platform",
		Options: []Option{{ID: "option_1", Label: "Instagram", Value: "Instagram"}},
	}
	meta := EncodeMetadata(original)
	restored := DecodeMetadata(original.Kind(), meta, "raw text irrelevant")
	q, ok := restored.(QuestionContent)
	require.True(t, ok)
	assert.Equal(t, original, q)
}

func TestDecodeMetadataKeepsOptionsWithoutText(t *testing.T) {
	original := QuestionContent{
		Options: []Option{{ID: "option_1", Label: "Reels", Value: "Reels"}},
	}
	restored := DecodeMetadata(original.Kind(), EncodeMetadata(original), "fallback")
	q, ok := restored.(QuestionContent)
	require.True(t, ok)
	assert.Equal(t, original.Options, q.Options)
}

func TestDecodeMetadataCorruptFallsBackToRaw(t *testing.T) {
	c := DecodeMetadata("card", []byte("not json"), "original completion")
	text, ok := c.(TextContent)
	require.True(t, ok)
	assert.Equal(t, "original completion", text.Text)
}

package messaging

import (
	"encoding/json"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeEnvelope(t *testing.T) {
	msg, err := NewMessage("m1", TypeMessageInserted, "t1", "p1", map[string]string{"content": "hi"})
	require.NoError(t, err)
	raw, err := json.Marshal(msg)
	require.NoError(t, err)

	decoded, ok := decodeEnvelope(redis.XMessage{Values: map[string]interface{}{"data": string(raw)}})
	require.True(t, ok)
	assert.Equal(t, "m1", decoded.ID)
	assert.Equal(t, TypeMessageInserted, decoded.Type)
}

func TestDecodeEnvelopeMissingData(t *testing.T) {
	_, ok := decodeEnvelope(redis.XMessage{Values: map[string]interface{}{}})
	assert.False(t, ok)
}

func TestDecodeEnvelopeMalformedJSON(t *testing.T) {
	_, ok := decodeEnvelope(redis.XMessage{Values: map[string]interface{}{"data": "{not json"}})
	assert.False(t, ok)
}

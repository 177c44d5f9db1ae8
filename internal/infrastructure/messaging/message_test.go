package messaging

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMessageRoundTrip(t *testing.T) {
	type payload struct {
		Action string `json:"action"`
	}

	msg, err := NewMessage("m1", TypeAudit, "t1", "p1", payload{Action: "POST /v1/projects"})
	require.NoError(t, err)

	msg.SetMetadata("role", "assistant")
	assert.Equal(t, "assistant", msg.GetMetadata("role"))
	assert.Equal(t, "", msg.GetMetadata("missing"))

	var out payload
	require.NoError(t, msg.UnmarshalPayload(&out))
	assert.Equal(t, "POST /v1/projects", out.Action)
}

func TestChatStreamIsTenantScoped(t *testing.T) {
	assert.Equal(t, Stream("stream:chat:t1:p1"), ChatStream("t1", "p1"))
	assert.NotEqual(t, ChatStream("t1", "p1"), ChatStream("t2", "p1"))
}

func TestDLQStreamName(t *testing.T) {
	assert.Equal(t, "dlq:stream:audit:log", StreamAuditLog.DLQStream())
}

func TestCalculateBackoffGrowsAndCaps(t *testing.T) {
	cfg := BackoffConfig{Initial: time.Second, Max: 10 * time.Second, Multiplier: 2}

	assert.Equal(t, time.Second, cfg.CalculateBackoff(0))
	assert.Equal(t, 2*time.Second, cfg.CalculateBackoff(1))
	assert.Equal(t, 4*time.Second, cfg.CalculateBackoff(2))
	assert.Equal(t, 10*time.Second, cfg.CalculateBackoff(10))
}

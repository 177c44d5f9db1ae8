package brainstorm

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"viralspark-api/internal/domain/entity"
)

func msgAt(id string, at time.Time) *entity.BrainstormMessage {
	return &entity.BrainstormMessage{
		ID:        id,
		TenantID:  "t1",
		ProjectID: "p1",
		Role:      entity.RoleUser,
		Type:      entity.MessageTypeText,
		Content:   "m-" + id,
		CreatedAt: at,
	}
}

func TestTimelineLoadHistorySortsAndDedupes(t *testing.T) {
	base := time.Now()
	tl := NewTimeline()
	tl.LoadHistory([]*entity.BrainstormMessage{
		msgAt("c", base.Add(2*time.Second)),
		msgAt("a", base),
		msgAt("b", base.Add(time.Second)),
		msgAt("a", base), // 存储不应返回重复，但必须容忍
	})

	got := tl.Messages()
	require.Len(t, got, 3)
	assert.Equal(t, "a", got[0].ID)
	assert.Equal(t, "b", got[1].ID)
	assert.Equal(t, "c", got[2].ID)
}

func TestTimelineOptimisticThenRemoteConverges(t *testing.T) {
	tl := NewTimeline()
	m := msgAt("x", time.Now())

	require.True(t, tl.Append(m))
	// 实时通道稍后送达同一条消息
	assert.False(t, tl.ApplyRemote(msgAt("x", time.Now().Add(time.Minute))))

	got := tl.Messages()
	require.Len(t, got, 1)
	assert.Equal(t, "x", got[0].ID)
}

func TestTimelineRemoteFirstThenLocal(t *testing.T) {
	tl := NewTimeline()
	require.True(t, tl.ApplyRemote(msgAt("y", time.Now())))
	assert.False(t, tl.Append(msgAt("y", time.Now())))
	assert.Equal(t, 1, tl.Len())
}

func TestTimelineRemoteDuplicateOfHistory(t *testing.T) {
	base := time.Now()
	tl := NewTimeline()
	tl.LoadHistory([]*entity.BrainstormMessage{
		msgAt("a", base),
		msgAt("b", base.Add(time.Second)),
	})

	assert.False(t, tl.ApplyRemote(msgAt("b", base.Add(time.Second))))
	assert.Equal(t, 2, tl.Len())
}

func TestTimelinePositionStableOnDuplicate(t *testing.T) {
	base := time.Now()
	tl := NewTimeline()
	tl.Append(msgAt("first", base))
	tl.Append(msgAt("second", base.Add(time.Second)))

	tl.ApplyRemote(msgAt("first", base.Add(time.Hour)))

	got := tl.Messages()
	require.Len(t, got, 2)
	assert.Equal(t, "first", got[0].ID, "duplicate must keep the position of first insertion")
}

func TestTimelineClear(t *testing.T) {
	tl := NewTimeline()
	tl.Append(msgAt("a", time.Now()))
	tl.Clear()
	assert.Equal(t, 0, tl.Len())
	assert.True(t, tl.Append(msgAt("a", time.Now())), "cleared ids are insertable again")
}

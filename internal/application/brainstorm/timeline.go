package brainstorm

import (
	"sort"
	"sync"

	"viralspark-api/internal/domain/entity"
)

// Timeline 合并三个消息到达通道（历史加载、本地乐观插入、实时推送）
// 为一条按 ID 去重的有序序列
//
// 约定：加载后不再重排序，新消息总是追加到尾部；实时通道乱序投递
// 是已知局限，由历史加载兜底对齐
type Timeline struct {
	mu    sync.Mutex
	order []*entity.BrainstormMessage
	seen  map[string]struct{}
}

// NewTimeline 创建空时间线
func NewTimeline() *Timeline {
	return &Timeline{seen: make(map[string]struct{})}
}

// LoadHistory 整体替换为历史记录，按创建时间升序排序并按 ID 去重
// 去重是防御性的：实时投递可能先于加载返回落进存储
func (t *Timeline) LoadHistory(messages []*entity.BrainstormMessage) {
	sorted := make([]*entity.BrainstormMessage, len(messages))
	copy(sorted, messages)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CreatedAt.Before(sorted[j].CreatedAt)
	})

	t.mu.Lock()
	defer t.mu.Unlock()
	t.order = t.order[:0]
	t.seen = make(map[string]struct{}, len(sorted))
	for _, m := range sorted {
		if _, ok := t.seen[m.ID]; ok {
			continue
		}
		t.seen[m.ID] = struct{}{}
		t.order = append(t.order, m)
	}
}

// Append 乐观插入到尾部，不等待持久化确认
// 同 ID 已存在时丢弃并返回 false
func (t *Timeline) Append(m *entity.BrainstormMessage) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.seen[m.ID]; ok {
		return false
	}
	t.seen[m.ID] = struct{}{}
	t.order = append(t.order, m)
	return true
}

// ApplyRemote 实时通道到达：已知 ID 直接丢弃（乐观插入已占位），否则追加到尾部
func (t *Timeline) ApplyRemote(m *entity.BrainstormMessage) bool {
	return t.Append(m)
}

// Contains 检查 ID 是否已在时间线中
func (t *Timeline) Contains(id string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, ok := t.seen[id]
	return ok
}

// Messages 返回当前序列的快照
func (t *Timeline) Messages() []*entity.BrainstormMessage {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]*entity.BrainstormMessage, len(t.order))
	copy(out, t.order)
	return out
}

// Len 返回消息数量
func (t *Timeline) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.order)
}

// Clear 清空时间线（仅重置路径使用）
func (t *Timeline) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.order = t.order[:0]
	t.seen = make(map[string]struct{})
}

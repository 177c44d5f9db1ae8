package brainstorm

import (
	"context"
	"time"

	"viralspark-api/internal/domain/entity"
)

// MessageStore 消息存储端口
// Append 对同 ID 重复写入幂等：乐观插入与实时确认竞争时不会双写
type MessageStore interface {
	Append(ctx context.Context, message *entity.BrainstormMessage) error
	LoadHistory(ctx context.Context, tenantID, projectID string) ([]*entity.BrainstormMessage, error)
	DeleteAll(ctx context.Context, tenantID, projectID string) error
}

// Publisher 实时通道的生产端：把新插入的消息广播给项目的所有连接
type Publisher interface {
	PublishInserted(ctx context.Context, message *entity.BrainstormMessage) error
}

// ChatTurn 发送给补全服务的一轮历史
type ChatTurn struct {
	Role    entity.Role
	Content string
}

// Completer 生成式补全端口：一次用户轮换一次不透明补全
type Completer interface {
	Complete(ctx context.Context, history []ChatTurn, cfg entity.FlowConfig) (string, error)
}

// Sleeper 时间端口，脚本化提问前的“思考”停顿经由它注入
// 测试里替换为零延时实现
type Sleeper interface {
	Sleep(ctx context.Context, d time.Duration)
}

// realSleeper 生产实现，可被 ctx 取消打断
type realSleeper struct{}

func (realSleeper) Sleep(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}

// NewRealSleeper 返回基于 time.Timer 的 Sleeper
func NewRealSleeper() Sleeper {
	return realSleeper{}
}

// NopPublisher 空实现，未接实时通道时使用
type NopPublisher struct{}

func (NopPublisher) PublishInserted(ctx context.Context, message *entity.BrainstormMessage) error {
	return nil
}

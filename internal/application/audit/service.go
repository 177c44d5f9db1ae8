// Package audit 实现审计流水线的落库侧
package audit

import (
	"context"
	"time"

	"viralspark-api/internal/domain/entity"
	"viralspark-api/internal/domain/repository"
	"viralspark-api/internal/infrastructure/messaging"
	"viralspark-api/pkg/logger"
)

// Service 审计服务，消费审计事件并写入数据库
type Service struct {
	logs repository.AuditLogRepository
}

// NewService 创建审计服务
func NewService(logs repository.AuditLogRepository) *Service {
	return &Service{logs: logs}
}

// HandleEvent 消费者组的处理器。返回错误会触发重试与死信。
func (s *Service) HandleEvent(ctx context.Context, msg *messaging.Message) error {
	var event messaging.AuditEventMessage
	if err := msg.UnmarshalPayload(&event); err != nil {
		// 载荷损坏的消息重试没有意义，记录后直接确认
		logger.Warn(ctx, "discarding malformed audit event", "error", err, "message_id", msg.ID)
		return nil
	}

	occurredAt := msg.CreatedAt
	if event.OccurredAt > 0 {
		occurredAt = time.Unix(event.OccurredAt, 0)
	}

	record := &entity.AuditLog{
		TenantID:   event.TenantID,
		UserID:     event.UserID,
		Action:     event.Action,
		Resource:   event.Resource,
		Method:     event.Method,
		Path:       event.Path,
		StatusCode: event.StatusCode,
		ClientIP:   event.ClientIP,
		RequestID:  event.RequestID,
		Detail:     event.Detail,
		OccurredAt: occurredAt,
	}

	return s.logs.Create(ctx, record)
}

// ListByTenant 按租户分页查询审计日志，供管理端使用
func (s *Service) ListByTenant(ctx context.Context, tenantID string, pagination repository.Pagination) (*repository.PagedResult[*entity.AuditLog], error) {
	return s.logs.ListByTenant(ctx, tenantID, pagination)
}

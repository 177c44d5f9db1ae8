// Package dto 提供 HTTP 层数据传输对象
package dto

import (
	"time"

	"viralspark-api/internal/domain/entity"
)

// TenantResponse 租户响应（管理端）
type TenantResponse struct {
	ID        string              `json:"id"`
	Name      string              `json:"name"`
	Slug      string              `json:"slug"`
	Plan      string              `json:"plan"`
	Status    string              `json:"status"`
	Quota     *entity.TenantQuota `json:"quota,omitempty"`
	CreatedAt time.Time           `json:"created_at"`
}

// UpdateTenantPlanRequest 租户套餐调整请求
// Quota 为空时使用套餐默认配额，非空表示人工覆盖
type UpdateTenantPlanRequest struct {
	Plan  string              `json:"plan" binding:"required,oneof=free creator business"`
	Quota *entity.TenantQuota `json:"quota,omitempty"`
}

// UpdateTenantStatusRequest 租户状态调整请求
type UpdateTenantStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=active suspended"`
}

// AuditLogResponse 审计日志响应
type AuditLogResponse struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id,omitempty"`
	Action     string    `json:"action"`
	Method     string    `json:"method"`
	Path       string    `json:"path"`
	StatusCode int       `json:"status_code"`
	ClientIP   string    `json:"client_ip,omitempty"`
	RequestID  string    `json:"request_id,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// ToTenantResponse 将领域实体转换为 DTO
func ToTenantResponse(t *entity.Tenant) *TenantResponse {
	if t == nil {
		return nil
	}
	return &TenantResponse{
		ID:        t.ID,
		Name:      t.Name,
		Slug:      t.Slug,
		Plan:      string(t.Plan),
		Status:    string(t.Status),
		Quota:     t.Quota,
		CreatedAt: t.CreatedAt,
	}
}

// ToTenantResponses 批量转换
func ToTenantResponses(tenants []*entity.Tenant) []*TenantResponse {
	out := make([]*TenantResponse, 0, len(tenants))
	for _, t := range tenants {
		out = append(out, ToTenantResponse(t))
	}
	return out
}

// ToAuditLogResponse 将领域实体转换为 DTO
func ToAuditLogResponse(l *entity.AuditLog) *AuditLogResponse {
	if l == nil {
		return nil
	}
	return &AuditLogResponse{
		ID:         l.ID,
		UserID:     l.UserID,
		Action:     l.Action,
		Method:     l.Method,
		Path:       l.Path,
		StatusCode: l.StatusCode,
		ClientIP:   l.ClientIP,
		RequestID:  l.RequestID,
		OccurredAt: l.OccurredAt,
	}
}

// ToAuditLogResponses 批量转换
func ToAuditLogResponses(logs []*entity.AuditLog) []*AuditLogResponse {
	out := make([]*AuditLogResponse, 0, len(logs))
	for _, l := range logs {
		out = append(out, ToAuditLogResponse(l))
	}
	return out
}

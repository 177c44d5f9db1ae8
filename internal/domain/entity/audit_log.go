// Package entity 定义领域实体
package entity

import (
	"encoding/json"
	"time"
)

// AuditLog 审计日志，由审计流水线异步落库
type AuditLog struct {
	ID         string          `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	TenantID   string          `json:"tenant_id" gorm:"type:uuid;index;not null"`
	UserID     string          `json:"user_id,omitempty" gorm:"type:uuid;index"`
	Action     string          `json:"action" gorm:"type:varchar(128);not null"`
	Resource   string          `json:"resource" gorm:"type:varchar(255)"`
	Method     string          `json:"method" gorm:"type:varchar(16)"`
	Path       string          `json:"path" gorm:"type:varchar(512)"`
	StatusCode int             `json:"status_code"`
	ClientIP   string          `json:"client_ip" gorm:"type:varchar(64)"`
	RequestID  string          `json:"request_id" gorm:"type:varchar(64);index"`
	Detail     json.RawMessage `json:"detail,omitempty" gorm:"type:jsonb"`
	OccurredAt time.Time       `json:"occurred_at" gorm:"index;not null"`
	CreatedAt  time.Time       `json:"created_at" gorm:"autoCreateTime"`
}

// TableName 指定表名
func (AuditLog) TableName() string {
	return "audit_logs"
}

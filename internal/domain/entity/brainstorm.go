// Package entity 定义领域实体
package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// FlowStep 创意助手引导流程的阶段
type FlowStep string

const (
	FlowStepWelcome       FlowStep = "welcome"
	FlowStepPlatform      FlowStep = "platform"
	FlowStepContentType   FlowStep = "content_type"
	FlowStepAudience      FlowStep = "audience"
	FlowStepVibe          FlowStep = "vibe"
	FlowStepBrainstorming FlowStep = "brainstorming"
)

// flowOrder 阶段顺序，brainstorming 为终态
var flowOrder = map[FlowStep]int{
	FlowStepWelcome:       0,
	FlowStepPlatform:      1,
	FlowStepContentType:   2,
	FlowStepAudience:      3,
	FlowStepVibe:          4,
	FlowStepBrainstorming: 5,
}

// Rank 返回阶段在固定顺序中的序号
func (s FlowStep) Rank() int {
	return flowOrder[s]
}

// Before 判断当前阶段是否早于 other
func (s FlowStep) Before(other FlowStep) bool {
	return s.Rank() < other.Rank()
}

// IsTerminal 判断是否为终态（自由头脑风暴）
func (s FlowStep) IsTerminal() bool {
	return s == FlowStepBrainstorming
}

// FlowConfig 引导流程累积的配置，Start Fresh 时清空
type FlowConfig struct {
	Platform    string `json:"platform,omitempty"`
	ContentType string `json:"content_type,omitempty"`
	Audience    string `json:"audience,omitempty"`
	Vibe        string `json:"vibe,omitempty"`
}

// IsEmpty 判断配置是否全部为空
func (c FlowConfig) IsEmpty() bool {
	return c == FlowConfig{}
}

// BrainstormSessionStatus 会话状态
type BrainstormSessionStatus string

const (
	BrainstormSessionStatusActive BrainstormSessionStatus = "active"
	BrainstormSessionStatusClosed BrainstormSessionStatus = "closed"
)

// BrainstormSession 项目维度的创意助手会话
// 每个客户端持有自己的 step/config，消息列表通过存储与实时通道共享
type BrainstormSession struct {
	ID        string                  `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	TenantID  string                  `json:"tenant_id" gorm:"type:uuid;index;not null"`
	ProjectID string                  `json:"project_id" gorm:"type:uuid;index;not null"`
	UserID    *string                 `json:"user_id,omitempty" gorm:"type:uuid;index"`
	Step      FlowStep                `json:"step" gorm:"type:varchar(32);not null;default:'welcome'"`
	Config    FlowConfig              `json:"config" gorm:"type:jsonb;serializer:json;not null"`
	Status    BrainstormSessionStatus `json:"status" gorm:"type:varchar(32);not null;default:'active'"`
	CreatedAt time.Time               `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time               `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName 指定表名
func (BrainstormSession) TableName() string {
	return "brainstorm_sessions"
}

// NewBrainstormSession 创建新会话
func NewBrainstormSession(tenantID, projectID, userID string) *BrainstormSession {
	now := time.Now()
	s := &BrainstormSession{
		TenantID:  tenantID,
		ProjectID: projectID,
		Step:      FlowStepWelcome,
		Config:    FlowConfig{},
		Status:    BrainstormSessionStatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if userID != "" {
		s.UserID = &userID
	}
	return s
}

// Role 消息的发出方
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// MessageType 消息内容类别
type MessageType string

const (
	MessageTypeText     MessageType = "text"
	MessageTypeQuestion MessageType = "question"
	MessageTypeCard     MessageType = "card"
)

// BrainstormMessage 会话消息，创建后不可变
// ID 由客户端（或引擎）生成，乐观插入与实时推送以此收敛去重
type BrainstormMessage struct {
	ID        string          `json:"id" gorm:"type:uuid;primaryKey"`
	TenantID  string          `json:"tenant_id" gorm:"type:uuid;index;not null"`
	ProjectID string          `json:"project_id" gorm:"type:uuid;index:idx_brainstorm_messages_project_created,priority:1;not null"`
	Role      Role            `json:"role" gorm:"type:varchar(16);not null"`
	Type      MessageType     `json:"type" gorm:"type:varchar(16);not null;default:'text'"`
	Content   string          `json:"content" gorm:"type:text;not null"`
	Metadata  json.RawMessage `json:"metadata,omitempty" gorm:"type:jsonb"`
	CreatedAt time.Time       `json:"created_at" gorm:"index:idx_brainstorm_messages_project_created,priority:2;autoCreateTime"`
}

// TableName 指定表名
func (BrainstormMessage) TableName() string {
	return "brainstorm_messages"
}

// NewBrainstormMessage 创建新消息，ID 在创建时生成
func NewBrainstormMessage(tenantID, projectID string, role Role, msgType MessageType, content string, metadata json.RawMessage) *BrainstormMessage {
	return &BrainstormMessage{
		ID:        uuid.NewString(),
		TenantID:  tenantID,
		ProjectID: projectID,
		Role:      role,
		Type:      msgType,
		Content:   content,
		Metadata:  metadata,
		CreatedAt: time.Now(),
	}
}

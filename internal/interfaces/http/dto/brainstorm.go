// Package dto 提供 HTTP 层数据传输对象
package dto

import (
	"encoding/json"
	"time"

	"viralspark-api/internal/domain/entity"
)

// UserInputRequest 自由文本输入请求
type UserInputRequest struct {
	Text string `json:"text" binding:"required,max=4000"`
}

// OptionSelectRequest 选项点击请求
type OptionSelectRequest struct {
	OptionID string `json:"option_id" binding:"required,max=64"`
	Value    string `json:"value,omitempty" binding:"max=255"`
}

// BrainstormMessageDTO 会话消息
// Metadata 携带结构化内容（问题选项、创意卡），由前端渲染
type BrainstormMessageDTO struct {
	ID        string          `json:"id"`
	Role      string          `json:"role"`
	Type      string          `json:"type"`
	Content   string          `json:"content"`
	Metadata  json.RawMessage `json:"metadata,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

// BrainstormStateResponse 会话状态响应
type BrainstormStateResponse struct {
	Step     string                  `json:"step"`
	Config   entity.FlowConfig       `json:"config"`
	Messages []*BrainstormMessageDTO `json:"messages"`
}

// ToBrainstormMessageDTO 将领域实体转换为 DTO
func ToBrainstormMessageDTO(m *entity.BrainstormMessage) *BrainstormMessageDTO {
	if m == nil {
		return nil
	}
	return &BrainstormMessageDTO{
		ID:        m.ID,
		Role:      string(m.Role),
		Type:      string(m.Type),
		Content:   m.Content,
		Metadata:  m.Metadata,
		CreatedAt: m.CreatedAt,
	}
}

// ToBrainstormMessageDTOs 批量转换
func ToBrainstormMessageDTOs(messages []*entity.BrainstormMessage) []*BrainstormMessageDTO {
	out := make([]*BrainstormMessageDTO, 0, len(messages))
	for _, m := range messages {
		out = append(out, ToBrainstormMessageDTO(m))
	}
	return out
}

// ChatClientOp websocket 客户端操作
type ChatClientOp struct {
	Op       string `json:"op"`
	Text     string `json:"text,omitempty"`
	OptionID string `json:"option_id,omitempty"`
	Value    string `json:"value,omitempty"`
}

// ChatServerEvent websocket 服务端事件
type ChatServerEvent struct {
	Type     string                  `json:"type"`
	Message  *BrainstormMessageDTO   `json:"message,omitempty"`
	Messages []*BrainstormMessageDTO `json:"messages,omitempty"`
	Step     string                  `json:"step,omitempty"`
	Config   *entity.FlowConfig      `json:"config,omitempty"`
	Code     string                  `json:"code,omitempty"`
	Error    string                  `json:"error,omitempty"`
}

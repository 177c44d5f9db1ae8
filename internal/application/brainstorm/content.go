// Package brainstorm 实现创意助手的对话流程引擎
// 包含状态机、模型输出归一化和多来源消息去重合并
package brainstorm

import (
	"encoding/json"

	"viralspark-api/internal/domain/entity"
)

// Content 归一化后的消息内容，三种形态之一
// 归一化只在消息创建时发生一次，之后通过 type+metadata 重建
type Content interface {
	// Kind 返回内容类别
	Kind() entity.MessageType
	// Display 返回用于纯文本展示的内容
	Display() string

	isContent()
}

// TextContent 纯文本内容
type TextContent struct {
	Text string `json:"text"`
}

func (TextContent) Kind() entity.MessageType { return entity.MessageTypeText }
func (c TextContent) Display() string        { return c.Text }
func (TextContent) isContent()               {}

// Option 脚本化问题的可点击选项
type Option struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Value string `json:"value"`
}

// QuestionContent 带选项的脚本化问题
type QuestionContent struct {
	Text    string   `json:"text"`
	Options []Option `json:"options"`
}

func (QuestionContent) Kind() entity.MessageType { return entity.MessageTypeQuestion }
func (c QuestionContent) Display() string        { return c.Text }
func (QuestionContent) isContent()               {}

// TimelineEntry 创意卡片中的分镜条目，原样透传
type TimelineEntry struct {
	Time   string `json:"time"`
	Visual string `json:"visual"`
	Audio  string `json:"audio"`
}

// Card 创意卡片载荷
type Card struct {
	Title         string          `json:"title"`
	PlatformLabel string          `json:"platform_label,omitempty"`
	Script        string          `json:"script,omitempty"`
	VisualHook    string          `json:"visual_hook,omitempty"`
	Hashtags      []string        `json:"hashtags,omitempty"`
	Timeline      []TimelineEntry `json:"timeline,omitempty"`
}

// CardContent 模型生成的创意卡片
type CardContent struct {
	Text string `json:"text"`
	Card Card   `json:"card"`
}

func (CardContent) Kind() entity.MessageType { return entity.MessageTypeCard }
func (c CardContent) Display() string {
	if c.Text != "" {
		return c.Text
	}
	return c.Card.Title
}
func (CardContent) isContent() {}

// EncodeMetadata 把内容序列化为消息的 metadata
// metadata 必须足以无损重建 Content，加载时不再重新解析原始文本
func EncodeMetadata(c Content) json.RawMessage {
	raw, err := json.Marshal(c)
	if err != nil {
		return json.RawMessage("{}")
	}
	return raw
}

// DecodeMetadata 从 type+metadata 重建 Content
// 解码失败时退回用原始文本构造 TextContent，与归一化的兜底语义一致
func DecodeMetadata(msgType entity.MessageType, metadata json.RawMessage, rawContent string) Content {
	switch msgType {
	case entity.MessageTypeQuestion:
		var c QuestionContent
		// 问题文本可以为空（只有选项），不能据此丢弃选项
		if err := json.Unmarshal(metadata, &c); err == nil && (c.Text != "" || len(c.Options) > 0) {
			return c
		}
	case entity.MessageTypeCard:
		var c CardContent
		if err := json.Unmarshal(metadata, &c); err == nil {
			return c
		}
	case entity.MessageTypeText:
		var c TextContent
		if err := json.Unmarshal(metadata, &c); err == nil && c.Text != "" {
			return c
		}
	}
	return TextContent{Text: rawContent}
}

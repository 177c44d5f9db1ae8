package brainstorm

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"viralspark-api/internal/workflow/node"
	"viralspark-api/pkg/metrics"
)

// messageFieldRe 从残缺 JSON 中抢救 "message" 字段，处理转义引号
var messageFieldRe = regexp.MustCompile(`"message"\s*:\s*"((?:[^"\\]|\\.)*)"`)

// Normalize 把一次模型补全的原始文本归一化为 Content
// 全函数：任意输入都返回可渲染结果，从不向调用方抛解析错误
// 按序尝试，每一级都是上一级的兜底：
//  1. 完全不含 JSON 痕迹的内容直接按纯文本处理，避免把普通散文误判成坏 JSON
//  2. 整串直接解析
//  3. 清洗后重试：剥代码围栏、截取配平的 {...}、转义字符串内裸换行
//  4. 正则抢救 "message" 字段
//  5. 原样退回纯文本
func Normalize(raw string) Content {
	trimmed := strings.TrimSpace(raw)
	candidate := trimmed
	if strings.HasPrefix(trimmed, "```") {
		candidate = node.StripCodeFence(trimmed)
	}
	// 完全不含 JSON 起始符的内容直接按散文处理，不做任何解析尝试；
	// 夹杂大括号的散文会走后面的截取/兜底路径
	if !strings.ContainsAny(candidate, "{[") {
		metrics.NormalizerFallbacksTotal.WithLabelValues("prose").Inc()
		return TextContent{Text: raw}
	}

	if c, ok := parsePayload(candidate); ok {
		metrics.NormalizerFallbacksTotal.WithLabelValues("direct").Inc()
		return c
	}

	cleaned := node.EscapeRawNewlines(node.ExtractJSONObject(trimmed))
	if c, ok := parsePayload(cleaned); ok {
		metrics.NormalizerFallbacksTotal.WithLabelValues("cleanup").Inc()
		return c
	}

	if m := messageFieldRe.FindStringSubmatch(trimmed); m != nil {
		metrics.NormalizerFallbacksTotal.WithLabelValues("regex").Inc()
		return TextContent{Text: unescapeJSONString(m[1])}
	}

	metrics.NormalizerFallbacksTotal.WithLabelValues("verbatim").Inc()
	return TextContent{Text: raw}
}

// payload 模型结构化输出的宽松信封
// 卡片类载荷既可能嵌在 data 里，也可能平铺在顶层
type payload struct {
	Type    string          `json:"type"`
	Message string          `json:"message"`
	Options []payloadOption `json:"options"`
	Data    json.RawMessage `json:"data"`

	cardFields
}

// cardFields 平铺形态的卡片字段
type cardFields struct {
	Title         string          `json:"title"`
	Platform      string          `json:"platform"`
	PlatformLabel string          `json:"platform_label"`
	Script        string          `json:"script"`
	VisualHook    string          `json:"visual_hook"`
	Hashtags      []string        `json:"hashtags"`
	Timeline      []TimelineEntry `json:"timeline"`
}

func (f cardFields) empty() bool {
	return f.Title == "" && f.Platform == "" && f.PlatformLabel == "" &&
		f.Script == "" && f.VisualHook == "" &&
		len(f.Hashtags) == 0 && len(f.Timeline) == 0
}

// payloadOption 选项既可能是纯字符串，也可能是对象
type payloadOption struct {
	Label string
	Value string
}

func (o *payloadOption) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		o.Label = s
		o.Value = s
		return nil
	}
	var obj struct {
		Label string `json:"label"`
		Value string `json:"value"`
		Text  string `json:"text"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	o.Label = obj.Label
	if o.Label == "" {
		o.Label = obj.Text
	}
	o.Value = obj.Value
	if o.Value == "" {
		o.Value = o.Label
	}
	return nil
}

// parsePayload 解析候选字符串并按 type 判别分发
func parsePayload(candidate string) (Content, bool) {
	if candidate == "" {
		return nil, false
	}
	var p payload
	if err := json.Unmarshal([]byte(candidate), &p); err != nil {
		return nil, false
	}
	return dispatch(&p, candidate), true
}

// dispatch 按 type 判别选择内容形态
func dispatch(p *payload, candidate string) Content {
	switch strings.ToLower(p.Type) {
	case "question":
		return questionFrom(p)
	case "preview", "card", "idea":
		return cardFrom(p)
	default:
		if p.Message != "" {
			return TextContent{Text: p.Message}
		}
		return TextContent{Text: candidate}
	}
}

// questionFrom 选项映射为稳定的合成 ID
// 下游 UI 不应从选项文本推断平台或品牌身份
func questionFrom(p *payload) Content {
	opts := make([]Option, 0, len(p.Options))
	for i, o := range p.Options {
		if o.Label == "" {
			continue
		}
		opts = append(opts, Option{
			ID:    fmt.Sprintf("option_%d", i+1),
			Label: o.Label,
			Value: o.Value,
		})
	}
	return QuestionContent{Text: p.Message, Options: opts}
}

// cardFrom 兼容 data 嵌套与顶层平铺两种形态，timeline 原样透传
func cardFrom(p *payload) Content {
	fields := p.cardFields
	if len(p.Data) > 0 {
		var nested cardFields
		if err := json.Unmarshal(p.Data, &nested); err == nil && !nested.empty() {
			fields = nested
		}
	}
	label := fields.PlatformLabel
	if label == "" {
		label = fields.Platform
	}
	return CardContent{
		Text: p.Message,
		Card: Card{
			Title:         fields.Title,
			PlatformLabel: label,
			Script:        fields.Script,
			VisualHook:    fields.VisualHook,
			Hashtags:      fields.Hashtags,
			Timeline:      fields.Timeline,
		},
	}
}

// unescapeJSONString 还原正则抢救出的 JSON 字符串字面量
func unescapeJSONString(s string) string {
	if out, err := strconv.Unquote(`"` + s + `"`); err == nil {
		return out
	}
	r := strings.NewReplacer(`\"`, `"`, `\\`, `\`, `\n`, "\n", `\r`, "\r", `\t`, "\t")
	return r.Replace(s)
}

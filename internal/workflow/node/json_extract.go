package node

import (
	"encoding/json"
	"strings"
)

// StripCodeFence 去掉模型输出外层的 Markdown 代码围栏。
func StripCodeFence(s string) string {
	raw := strings.TrimSpace(s)
	if !strings.HasPrefix(raw, "```") {
		return raw
	}
	raw = strings.TrimPrefix(raw, "```")
	// 围栏起始行可能带语言标注（```json）
	if idx := strings.IndexByte(raw, '\n'); idx >= 0 {
		first := strings.TrimSpace(raw[:idx])
		if first == "" || isFenceLang(first) {
			raw = raw[idx+1:]
		}
	}
	raw = strings.TrimSuffix(strings.TrimSpace(raw), "```")
	return strings.TrimSpace(raw)
}

func isFenceLang(s string) bool {
	for _, r := range s {
		if !(r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9') {
			return false
		}
	}
	return true
}

// ExtractJSONObject 尝试从模型输出中截取“第一个完整 JSON 对象/数组”。
// 这是一个容错逻辑：模型可能会在 JSON 前后夹杂多余文本。
// 截取按括号配平扫描，字符串内部的括号不参与计数。
func ExtractJSONObject(s string) string {
	raw := StripCodeFence(s)
	if raw == "" {
		return raw
	}

	objStart := strings.IndexByte(raw, '{')
	arrStart := strings.IndexByte(raw, '[')
	start := -1
	switch {
	case objStart >= 0 && (arrStart < 0 || objStart < arrStart):
		start = objStart
	case arrStart >= 0:
		start = arrStart
	}
	if start < 0 {
		return strings.TrimSpace(s)
	}

	if end := balancedEnd(raw, start); end > start {
		raw = raw[start : end+1]
	} else if last := lastCloser(raw, raw[start]); last > start {
		// 配平失败（截断输出）时退回“最后一个闭括号”截取
		raw = raw[start : last+1]
	} else {
		raw = raw[start:]
	}

	// 简单校验：确保至少能被 Decoder 消费到一个 JSON 起始。
	dec := json.NewDecoder(strings.NewReader(raw))
	dec.UseNumber()
	tok, err := dec.Token()
	if err == nil {
		if d, ok := tok.(json.Delim); ok && (d == '{' || d == '[') {
			return raw
		}
	}
	return strings.TrimSpace(s)
}

// balancedEnd 从 start 起扫描配平的闭括号位置，找不到返回 -1。
func balancedEnd(s string, start int) int {
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{', '[':
			depth++
		case '}', ']':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

func lastCloser(s string, opener byte) int {
	if opener == '{' {
		return strings.LastIndexByte(s, '}')
	}
	return strings.LastIndexByte(s, ']')
}

// EscapeRawNewlines 把 JSON 字符串字面量内部未转义的换行符转成 \n / \r。
// 模型经常在 "script" 这类字段里直接输出多行文本，导致 JSON 非法。
func EscapeRawNewlines(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	inString := false
	escaped := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
				b.WriteByte(c)
				continue
			case c == '\\':
				escaped = true
				b.WriteByte(c)
				continue
			case c == '"':
				inString = false
				b.WriteByte(c)
				continue
			case c == '\n':
				b.WriteString(`\n`)
				continue
			case c == '\r':
				b.WriteString(`\r`)
				continue
			}
			b.WriteByte(c)
			continue
		}
		if c == '"' {
			inString = true
		}
		b.WriteByte(c)
	}
	return b.String()
}

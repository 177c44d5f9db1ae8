package node

import "strings"

// 各家网关对不支持 response_format 的报错措辞不一，按关键词识别
var formatErrHints = []string{
	"response_format",
	"json_schema",
	"response_schema",
	"failed to parse",
}

// IsResponseFormatUnsupportedError 判断错误是否为模型不支持结构化输出，
// 命中时调用方降级为纯提示词生成
func IsResponseFormatUnsupportedError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	for _, hint := range formatErrHints {
		if strings.Contains(msg, hint) {
			return true
		}
	}
	return strings.Contains(msg, "response") &&
		(strings.Contains(msg, "unknown parameter") || strings.Contains(msg, "invalid"))
}

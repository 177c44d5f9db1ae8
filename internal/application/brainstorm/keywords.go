package brainstorm

import "strings"

// keywordRule 关键词 → 平台（及可选的具体内容形式）
type keywordRule struct {
	keyword     string
	platform    string
	contentType string
}

// keywordTable 固定规则表，大小写不敏感的子串匹配
// 具体形式（reel、shorts）排在泛平台词之前，先命中者生效
var keywordTable = []keywordRule{
	{"reel", "Instagram", "Instagram Reel"},
	{"instagram story", "Instagram", "Instagram Story"},
	{"carousel", "Instagram", "Instagram Carousel"},
	{"tiktok", "TikTok", "TikTok Video"},
	{"tik tok", "TikTok", "TikTok Video"},
	{"youtube short", "YouTube", "YouTube Short"},
	{"shorts", "YouTube", "YouTube Short"},
	{"vlog", "YouTube", "YouTube Video"},
	{"tweet", "Twitter", "Tweet Thread"},
	{"thread", "Twitter", "Tweet Thread"},
	{"newsletter", "Email", "Email Newsletter"},
	{"instagram", "Instagram", ""},
	{"insta", "Instagram", ""},
	{"youtube", "YouTube", ""},
	{"linkedin", "LinkedIn", ""},
	{"twitter", "Twitter", ""},
	{"email", "Email", ""},
}

// DetectPlatform 在自由文本中探测平台/内容形式关键词
// 命中平台即 ok；contentType 仅在命中具体形式词时非空
func DetectPlatform(text string) (platform, contentType string, ok bool) {
	lower := strings.ToLower(text)
	for _, rule := range keywordTable {
		if !strings.Contains(lower, rule.keyword) {
			continue
		}
		if platform == "" {
			platform = rule.platform
		}
		// 继续扫描：泛平台词命中后仍可能有更具体的形式词
		if contentType == "" && rule.contentType != "" && rule.platform == platform {
			contentType = rule.contentType
		}
		if contentType != "" {
			break
		}
	}
	return platform, contentType, platform != ""
}

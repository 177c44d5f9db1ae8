// Package prompt 管理内嵌的提示词模板
package prompt

import (
	"embed"
	"fmt"
	"strings"
	"sync"

	einoprompt "github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/schema"
)

//go:embed templates/*.txt
var templatesFS embed.FS

// ID 提示词标识，模板文件按 <id>.system.txt 与 <id>.user.txt 成对存放
type ID string

// BrainstormCardV1 创意卡片生成提示词
const BrainstormCardV1 ID = "brainstorm_card_v1"

var (
	mu    sync.Mutex
	cache = map[ID]einoprompt.ChatTemplate{}
)

// ChatTemplate 返回编译好的聊天模板，首次访问时从内嵌文件加载
func ChatTemplate(id ID) (einoprompt.ChatTemplate, error) {
	mu.Lock()
	defer mu.Unlock()

	if tpl, ok := cache[id]; ok {
		return tpl, nil
	}

	system, err := readTemplate(fmt.Sprintf("templates/%s.system.txt", id))
	if err != nil {
		return nil, err
	}
	user, err := readTemplate(fmt.Sprintf("templates/%s.user.txt", id))
	if err != nil {
		return nil, err
	}

	tpl := einoprompt.FromMessages(
		schema.FString,
		schema.SystemMessage(system),
		schema.UserMessage(user),
	)
	cache[id] = tpl
	return tpl, nil
}

func readTemplate(path string) (string, error) {
	b, err := templatesFS.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("load prompt template %s: %w", path, err)
	}
	return strings.TrimSpace(string(b)), nil
}

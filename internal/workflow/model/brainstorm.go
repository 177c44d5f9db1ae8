package model

// ChatTurn 发送给模型的一轮对话历史
type ChatTurn struct {
	Role    string
	Content string
}

// BrainstormGenerateInput 定义了创意生成链的输入参数
type BrainstormGenerateInput struct {
	Platform    string
	ContentType string
	Audience    string
	Vibe        string

	History []ChatTurn

	Provider string
	Model    string

	Temperature *float32
	MaxTokens   *int
}

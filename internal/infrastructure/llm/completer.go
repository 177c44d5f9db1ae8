package llm

import (
	"context"
	"fmt"
	"time"

	"viralspark-api/internal/application/brainstorm"
	"viralspark-api/internal/config"
	"viralspark-api/internal/domain/entity"
	"viralspark-api/internal/workflow/chain"
	wfmodel "viralspark-api/internal/workflow/model"
	"viralspark-api/pkg/metrics"
)

// ChainCompleter 把创意生成链适配成应用层的补全端口
type ChainCompleter struct {
	chain    *chain.BrainstormChain
	provider string
	model    string
}

// NewChainCompleter 创建补全适配器，使用配置中的默认 provider
func NewChainCompleter(c *chain.BrainstormChain, cfg *config.Config) *ChainCompleter {
	provider := cfg.LLM.DefaultProvider
	modelName := ""
	if p, ok := cfg.LLM.Providers[provider]; ok {
		modelName = p.Model
	}
	return &ChainCompleter{
		chain:    c,
		provider: provider,
		model:    modelName,
	}
}

// Complete 执行一次生成调用，返回模型原始输出文本
func (c *ChainCompleter) Complete(ctx context.Context, history []brainstorm.ChatTurn, cfg entity.FlowConfig) (string, error) {
	in := &wfmodel.BrainstormGenerateInput{
		Platform:    cfg.Platform,
		ContentType: cfg.ContentType,
		Audience:    cfg.Audience,
		Vibe:        cfg.Vibe,
		Provider:    c.provider,
		History:     make([]wfmodel.ChatTurn, 0, len(history)),
	}
	for _, turn := range history {
		in.History = append(in.History, wfmodel.ChatTurn{
			Role:    string(turn.Role),
			Content: turn.Content,
		})
	}

	start := time.Now()
	outMsg, err := c.chain.Invoke(ctx, in)
	metrics.LLMCallDuration.WithLabelValues(c.provider, c.model).Observe(time.Since(start).Seconds())

	if err != nil {
		metrics.LLMCallTotal.WithLabelValues(c.provider, c.model, "error").Inc()
		return "", fmt.Errorf("brainstorm generation failed: %w", err)
	}
	metrics.LLMCallTotal.WithLabelValues(c.provider, c.model, "ok").Inc()

	if outMsg.ResponseMeta != nil && outMsg.ResponseMeta.Usage != nil {
		usage := outMsg.ResponseMeta.Usage
		metrics.LLMTokensUsed.WithLabelValues(c.provider, c.model, "prompt").Add(float64(usage.PromptTokens))
		metrics.LLMTokensUsed.WithLabelValues(c.provider, c.model, "completion").Add(float64(usage.CompletionTokens))
	}

	return outMsg.Content, nil
}

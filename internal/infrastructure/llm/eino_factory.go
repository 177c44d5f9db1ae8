// Package llm 提供 LLM 客户端的基础设施实现
package llm

import (
	"context"
	"fmt"
	"sync"

	"viralspark-api/internal/config"
	apperrors "viralspark-api/pkg/errors"

	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
)

// EinoFactory 按 provider 名惰性构建并缓存 Eino ChatModel
type EinoFactory struct {
	config *config.LLMConfig

	mu     sync.RWMutex
	models map[string]model.BaseChatModel
}

// NewEinoFactory 创建 Eino LLM 工厂
func NewEinoFactory(cfg *config.Config) *EinoFactory {
	return &EinoFactory{
		config: &cfg.LLM,
		models: make(map[string]model.BaseChatModel),
	}
}

// Get 返回指定 provider 的 ChatModel，name 为空时用配置的默认 provider
func (f *EinoFactory) Get(ctx context.Context, name string) (model.BaseChatModel, error) {
	if name == "" {
		name = f.config.DefaultProvider
	}

	f.mu.RLock()
	m, ok := f.models[name]
	f.mu.RUnlock()
	if ok {
		return m, nil
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if m, ok = f.models[name]; ok {
		return m, nil
	}

	m, err := f.build(ctx, name)
	if err != nil {
		return nil, err
	}
	f.models[name] = m
	return m, nil
}

func (f *EinoFactory) build(ctx context.Context, name string) (model.BaseChatModel, error) {
	providerCfg, ok := f.config.Providers[name]
	if !ok {
		return nil, apperrors.New(apperrors.CodeLLMProviderError,
			fmt.Sprintf("provider %s not found in LLM config", name))
	}

	chatModel, err := openai.NewChatModel(ctx, &openai.ChatModelConfig{
		APIKey:      providerCfg.APIKey,
		BaseURL:     providerCfg.BaseURL,
		Model:       providerCfg.Model,
		MaxTokens:   &providerCfg.MaxTokens,
		Temperature: ptrFloat32(float32(providerCfg.Temperature)),
		Timeout:     providerCfg.Timeout,
	})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeLLMProviderError,
			fmt.Sprintf("create chat model for %s", name), err)
	}
	return chatModel, nil
}

func ptrFloat32(f float32) *float32 {
	return &f
}

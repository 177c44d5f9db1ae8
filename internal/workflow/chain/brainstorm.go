package chain

import (
	"context"
	"fmt"
	"strings"
	"sync"

	openaiopts "github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"

	llmctx "viralspark-api/internal/domain/service"
	wfmodel "viralspark-api/internal/workflow/model"
	wfnode "viralspark-api/internal/workflow/node"
	workflowport "viralspark-api/internal/workflow/port"
	workflowprompt "viralspark-api/internal/workflow/prompt"
	"viralspark-api/pkg/logger"
)

type BrainstormChain struct {
	factory workflowport.ChatModelFactory

	chainOnce sync.Once
	chain     compose.Runnable[*wfmodel.BrainstormGenerateInput, *schema.Message]
	chainErr  error
}

func NewBrainstormChain(factory workflowport.ChatModelFactory) *BrainstormChain {
	return &BrainstormChain{factory: factory}
}

func (c *BrainstormChain) Invoke(ctx context.Context, in *wfmodel.BrainstormGenerateInput) (*schema.Message, error) {
	if c == nil || c.factory == nil {
		return nil, fmt.Errorf("llm factory not configured")
	}
	if in == nil {
		return nil, fmt.Errorf("input is nil")
	}

	chain, err := c.getChain()
	if err != nil {
		return nil, err
	}
	return chain.Invoke(ctx, in)
}

type brainstormChainState struct {
	In       *wfmodel.BrainstormGenerateInput
	Messages []*schema.Message
	OutMsg   *schema.Message
}

func (c *BrainstormChain) getChain() (compose.Runnable[*wfmodel.BrainstormGenerateInput, *schema.Message], error) {
	c.chainOnce.Do(func() {
		c.chain, c.chainErr = c.buildChain(context.Background())
	})
	return c.chain, c.chainErr
}

func (c *BrainstormChain) buildChain(ctx context.Context) (compose.Runnable[*wfmodel.BrainstormGenerateInput, *schema.Message], error) {
	chain := compose.NewChain[*wfmodel.BrainstormGenerateInput, *schema.Message]()

	chain.AppendLambda(
		compose.InvokableLambda(func(_ context.Context, in *wfmodel.BrainstormGenerateInput) (*brainstormChainState, error) {
			if in == nil {
				return nil, fmt.Errorf("input is nil")
			}
			return &brainstormChainState{In: in}, nil
		}),
		compose.WithNodeName("brainstorm.init"),
	)

	chain.AppendLambda(
		compose.InvokableLambda(func(ctx context.Context, st *brainstormChainState) (*brainstormChainState, error) {
			if st == nil || st.In == nil {
				return nil, fmt.Errorf("state is nil")
			}
			msgs, err := formatBrainstormMessages(ctx, st.In)
			if err != nil {
				return nil, err
			}
			st.Messages = msgs
			return st, nil
		}),
		compose.WithNodeName("brainstorm.template"),
	)

	chain.AppendLambda(
		compose.InvokableLambda(func(ctx context.Context, st *brainstormChainState) (*brainstormChainState, error) {
			if st == nil || st.In == nil {
				return nil, fmt.Errorf("state is nil")
			}
			if c.factory == nil {
				return nil, fmt.Errorf("llm factory not configured")
			}

			ctx = llmctx.WithWorkflowProvider(ctx, "brainstorm_generate", strings.TrimSpace(st.In.Provider))
			chatModel, err := c.factory.Get(ctx, strings.TrimSpace(st.In.Provider))
			if err != nil {
				return nil, err
			}

			outMsg, err := chatModel.Generate(ctx, st.Messages, buildBrainstormModelOptions(st.In, true)...)
			if err != nil && wfnode.IsResponseFormatUnsupportedError(err) {
				logger.Warn(ctx, "llm json_schema not supported, fallback to prompt-only",
					"workflow", llmctx.WorkflowFromContext(ctx),
					"provider", llmctx.ProviderFromContext(ctx),
					"model", strings.TrimSpace(st.In.Model),
					"error", err.Error(),
				)
				outMsg, err = chatModel.Generate(ctx, st.Messages, buildBrainstormModelOptions(st.In, false)...)
			}
			if err != nil {
				return nil, err
			}
			if outMsg == nil {
				return nil, fmt.Errorf("empty llm response")
			}
			st.OutMsg = outMsg
			return st, nil
		}),
		compose.WithNodeName("brainstorm.llm"),
	)

	chain.AppendLambda(
		compose.InvokableLambda(func(_ context.Context, st *brainstormChainState) (*schema.Message, error) {
			if st == nil || st.OutMsg == nil {
				return nil, fmt.Errorf("state is nil")
			}
			return st.OutMsg, nil
		}),
		compose.WithNodeName("brainstorm.finalize"),
	)

	return chain.Compile(ctx)
}

func formatBrainstormMessages(ctx context.Context, in *wfmodel.BrainstormGenerateInput) ([]*schema.Message, error) {
	tpl, err := workflowprompt.ChatTemplate(workflowprompt.BrainstormCardV1)
	if err != nil {
		return nil, err
	}

	vars := map[string]any{
		"platform":     orUnspecified(in.Platform),
		"content_type": orUnspecified(in.ContentType),
		"audience":     orUnspecified(in.Audience),
		"vibe":         orUnspecified(in.Vibe),
	}
	msgs, err := tpl.Format(ctx, vars)
	if err != nil {
		return nil, err
	}

	for _, turn := range in.History {
		content := strings.TrimSpace(turn.Content)
		if content == "" {
			continue
		}
		switch strings.ToLower(strings.TrimSpace(turn.Role)) {
		case "assistant":
			msgs = append(msgs, schema.AssistantMessage(content, nil))
		default:
			msgs = append(msgs, schema.UserMessage(content))
		}
	}
	return msgs, nil
}

func orUnspecified(v string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return "unspecified"
	}
	return v
}

func buildBrainstormModelOptions(in *wfmodel.BrainstormGenerateInput, enableSchema bool) []model.Option {
	opts := make([]model.Option, 0, 4)
	if in == nil {
		return opts
	}
	if in.Temperature != nil {
		opts = append(opts, model.WithTemperature(*in.Temperature))
	}
	if in.MaxTokens != nil {
		opts = append(opts, model.WithMaxTokens(*in.MaxTokens))
	}
	if strings.TrimSpace(in.Model) != "" {
		opts = append(opts, model.WithModel(strings.TrimSpace(in.Model)))
	}

	if enableSchema {
		opts = append(opts, openaiopts.WithExtraFields(map[string]any{
			"response_format": map[string]any{
				"type": "json_schema",
				"json_schema": map[string]any{
					"name":   "brainstorm_card",
					"strict": false,
					"schema": brainstormCardJSONSchema(),
				},
			},
		}))
	}

	return opts
}

func brainstormCardJSONSchema() map[string]any {
	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"required":             []any{"type", "message"},
		"properties": map[string]any{
			"type": map[string]any{
				"type": "string",
				"enum": []any{"card", "text"},
			},
			"message": map[string]any{"type": "string"},
			"data": map[string]any{
				"type":                 "object",
				"additionalProperties": false,
				"required":             []any{"title", "script"},
				"properties": map[string]any{
					"title":       map[string]any{"type": "string"},
					"platform":    map[string]any{"type": "string"},
					"script":      map[string]any{"type": "string"},
					"visual_hook": map[string]any{"type": "string"},
					"hashtags": map[string]any{
						"type":  "array",
						"items": map[string]any{"type": "string"},
					},
					"timeline": map[string]any{
						"type": "array",
						"items": map[string]any{
							"type":                 "object",
							"additionalProperties": false,
							"required":             []any{"time", "visual"},
							"properties": map[string]any{
								"time":   map[string]any{"type": "string"},
								"visual": map[string]any{"type": "string"},
								"audio":  map[string]any{"type": "string"},
							},
						},
					},
				},
			},
		},
	}
}

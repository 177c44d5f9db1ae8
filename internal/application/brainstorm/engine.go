package brainstorm

import (
	"context"
	"strings"
	"sync"
	"time"

	"viralspark-api/internal/domain/entity"
	apperrors "viralspark-api/pkg/errors"
	"viralspark-api/pkg/logger"
	"viralspark-api/pkg/metrics"
)

// Options 引擎依赖，全部显式注入，不做任何环境读取
type Options struct {
	TenantID  string
	ProjectID string
	UserID    string

	Store     MessageStore
	Publisher Publisher
	Completer Completer
	Sleeper   Sleeper

	// ThinkingDelay 脚本化提问前的固定停顿
	ThinkingDelay time.Duration
	// CompletionTimeout 补全调用的客户端超时，0 表示不额外限制
	CompletionTimeout time.Duration
	// HistoryLimit 传给补全服务的最大历史轮数，0 表示不限制
	HistoryLimit int
}

// Engine 会话状态机：驱动脚本化引导流程，完成后交给模型自由头脑风暴
//
// step/config 归单个引擎实例独占；消息列表经由存储与实时通道跨端共享，
// 引擎内用 Timeline 收敛去重
type Engine struct {
	opts Options

	mu       sync.Mutex
	step     entity.FlowStep
	config   entity.FlowConfig
	timeline *Timeline
}

// NewEngine 创建引擎，初始阶段为 welcome
func NewEngine(opts Options) *Engine {
	if opts.Sleeper == nil {
		opts.Sleeper = NewRealSleeper()
	}
	if opts.Publisher == nil {
		opts.Publisher = NopPublisher{}
	}
	return &Engine{
		opts:     opts,
		step:     entity.FlowStepWelcome,
		timeline: NewTimeline(),
	}
}

// Restore 从持久化的会话快照恢复阶段与配置，须在 Start 之前调用
func (e *Engine) Restore(step entity.FlowStep, cfg entity.FlowConfig) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if step != "" {
		e.step = step
	}
	e.config = cfg
}

// Start 加载历史；历史为空时发出脚本化开场白
func (e *Engine) Start(ctx context.Context) error {
	history, err := e.opts.Store.LoadHistory(ctx, e.opts.TenantID, e.opts.ProjectID)
	if err != nil {
		return apperrors.Wrap(apperrors.CodeDatabaseError, "load conversation history", err)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.timeline.LoadHistory(history)
	if e.timeline.Len() == 0 {
		e.emitScripted(ctx, welcomeOpener())
	}
	return nil
}

// HandleUserInput 处理一条自由文本输入
//
// 顺序固定：先乐观追加用户消息，再决定本地推进还是委托模型；
// 关键词快进可跳过阶段但从不回退
func (e *Engine) HandleUserInput(ctx context.Context, text string) error {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	metrics.BrainstormTurnsTotal.WithLabelValues(string(e.step), "input").Inc()

	e.appendMessage(ctx, entity.NewBrainstormMessage(
		e.opts.TenantID, e.opts.ProjectID, entity.RoleUser,
		entity.MessageTypeText, trimmed, nil,
	))

	// 关键词快进：自由文本已经编码了后续阶段的答案时跳过脚本化提问
	if e.step.Before(entity.FlowStepAudience) {
		if platform, contentType, ok := DetectPlatform(trimmed); ok {
			e.config.Platform = platform
			if contentType != "" {
				e.config.ContentType = contentType
				e.step = entity.FlowStepAudience
				e.emitScripted(ctx, audienceQuestion())
			} else {
				e.step = entity.FlowStepContentType
				e.emitScripted(ctx, contentTypeQuestion(platform))
			}
			return nil
		}
	}

	if !e.step.IsTerminal() {
		e.storeAndAdvance(ctx, e.step, trimmed)
		return nil
	}
	return e.delegate(ctx, "")
}

// HandleOptionSelected 处理一次选项点击，转移表与 HandleUserInput 相同
// 但无需关键词探测；value 原样存入当前阶段的字段
func (e *Engine) HandleOptionSelected(ctx context.Context, optionID, value string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	metrics.BrainstormTurnsTotal.WithLabelValues(string(e.step), "option").Inc()

	display := value
	if display == "" {
		display = "Something else"
	}
	e.appendMessage(ctx, entity.NewBrainstormMessage(
		e.opts.TenantID, e.opts.ProjectID, entity.RoleUser,
		entity.MessageTypeText, display, nil,
	))

	switch optionID {
	case OptionIDOther:
		// 不推进阶段，下一条自由输入由顺序兜底捕获
		e.emitScripted(ctx, otherFollowUp(e.step))
		return nil
	case OptionIDMoreIdeas:
		if e.step.IsTerminal() {
			return e.delegate(ctx, regenerateInstruction)
		}
	}

	if !e.step.IsTerminal() {
		answered := e.step
		// 开场白的选项实际回答的是平台问题
		if answered == entity.FlowStepWelcome {
			answered = entity.FlowStepPlatform
		}
		e.storeAndAdvance(ctx, answered, value)
		return nil
	}
	return e.delegate(ctx, "")
}

// Reset 清空会话重新开始
// 删除失败时中止并重新加载历史，本地状态绝不先于存储清空
func (e *Engine) Reset(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.opts.Store.DeleteAll(ctx, e.opts.TenantID, e.opts.ProjectID); err != nil {
		metrics.BrainstormResetsTotal.WithLabelValues("failed").Inc()
		if history, loadErr := e.opts.Store.LoadHistory(ctx, e.opts.TenantID, e.opts.ProjectID); loadErr == nil {
			e.timeline.LoadHistory(history)
		} else {
			logger.Error(ctx, "reload history after failed reset", loadErr,
				"project_id", e.opts.ProjectID)
		}
		return apperrors.Wrap(apperrors.CodeResetFailed, "reset conversation", err)
	}

	e.timeline.Clear()
	e.config = entity.FlowConfig{}
	e.step = entity.FlowStepWelcome
	e.emitScripted(ctx, welcomeOpener())
	metrics.BrainstormResetsTotal.WithLabelValues("ok").Inc()
	return nil
}

// ApplyRemote 实时通道到达的消息并入时间线，返回是否为新消息
func (e *Engine) ApplyRemote(m *entity.BrainstormMessage) bool {
	fresh := e.timeline.ApplyRemote(m)
	if fresh {
		metrics.RealtimeEventsTotal.WithLabelValues("applied").Inc()
	} else {
		metrics.RealtimeEventsTotal.WithLabelValues("duplicate").Inc()
	}
	return fresh
}

// Step 当前阶段
func (e *Engine) Step() entity.FlowStep {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.step
}

// Config 当前累积配置
func (e *Engine) Config() entity.FlowConfig {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.config
}

// Messages 当前消息序列快照
func (e *Engine) Messages() []*entity.BrainstormMessage {
	return e.timeline.Messages()
}

// storeAndAdvance 顺序兜底：answer 按字面存入 answeredStep 拥有的字段，
// 推进到下一阶段并发出对应脚本化提问；vibe 之后进入 brainstorming
func (e *Engine) storeAndAdvance(ctx context.Context, answeredStep entity.FlowStep, answer string) {
	switch answeredStep {
	case entity.FlowStepPlatform:
		e.config.Platform = answer
	case entity.FlowStepContentType:
		e.config.ContentType = answer
	case entity.FlowStepAudience:
		e.config.Audience = answer
	case entity.FlowStepVibe:
		e.config.Vibe = answer
	}

	if answeredStep == entity.FlowStepVibe {
		e.step = entity.FlowStepBrainstorming
		e.emitScripted(ctx, topicPrompt())
		return
	}
	e.step = nextStep(answeredStep)
	e.emitScripted(ctx, scriptedQuestionFor(e.step, e.config))
}

func nextStep(step entity.FlowStep) entity.FlowStep {
	switch step {
	case entity.FlowStepWelcome:
		return entity.FlowStepPlatform
	case entity.FlowStepPlatform:
		return entity.FlowStepContentType
	case entity.FlowStepContentType:
		return entity.FlowStepAudience
	case entity.FlowStepAudience:
		return entity.FlowStepVibe
	default:
		return entity.FlowStepBrainstorming
	}
}

// delegate 终态委托：历史加累积配置交给补全服务，
// 输出经归一化后作为助手消息追加；失败不改变阶段，用户重试即可
func (e *Engine) delegate(ctx context.Context, instruction string) error {
	history := e.chatHistory()
	if instruction != "" {
		history = append(history, ChatTurn{Role: entity.RoleUser, Content: instruction})
	}

	callCtx := ctx
	if e.opts.CompletionTimeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, e.opts.CompletionTimeout)
		defer cancel()
	}

	raw, err := e.opts.Completer.Complete(callCtx, history, e.config)
	if err != nil {
		return apperrors.Wrap(apperrors.CodeCompletionFailed, "assistant had an error, try again", err)
	}

	content := Normalize(raw)
	e.appendMessage(ctx, entity.NewBrainstormMessage(
		e.opts.TenantID, e.opts.ProjectID, entity.RoleAssistant,
		content.Kind(), raw, EncodeMetadata(content),
	))
	return nil
}

// chatHistory 把时间线裁剪成补全服务的输入
func (e *Engine) chatHistory() []ChatTurn {
	msgs := e.timeline.Messages()
	if limit := e.opts.HistoryLimit; limit > 0 && len(msgs) > limit {
		msgs = msgs[len(msgs)-limit:]
	}
	turns := make([]ChatTurn, 0, len(msgs))
	for _, m := range msgs {
		turns = append(turns, ChatTurn{Role: m.Role, Content: m.Content})
	}
	return turns
}

// emitScripted 脚本化助手消息：固定“思考”停顿后追加，
// 必然排在触发它的用户消息之后
func (e *Engine) emitScripted(ctx context.Context, content Content) {
	e.opts.Sleeper.Sleep(ctx, e.opts.ThinkingDelay)
	e.appendMessage(ctx, entity.NewBrainstormMessage(
		e.opts.TenantID, e.opts.ProjectID, entity.RoleAssistant,
		content.Kind(), content.Display(), EncodeMetadata(content),
	))
}

// appendMessage 乐观插入：先进时间线，持久化与广播尽力而为
// 持久化失败只记日志，不回滚本地插入
func (e *Engine) appendMessage(ctx context.Context, m *entity.BrainstormMessage) {
	if !e.timeline.Append(m) {
		return
	}
	if err := e.opts.Store.Append(ctx, m); err != nil {
		logger.Warn(ctx, "persist message failed, keeping optimistic copy",
			"message_id", m.ID, "project_id", m.ProjectID, "error", err)
	}
	if err := e.opts.Publisher.PublishInserted(ctx, m); err != nil {
		logger.Warn(ctx, "publish message failed",
			"message_id", m.ID, "project_id", m.ProjectID, "error", err)
	}
}

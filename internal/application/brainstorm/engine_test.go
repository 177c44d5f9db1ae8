package brainstorm

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"viralspark-api/internal/domain/entity"
	apperrors "viralspark-api/pkg/errors"
)

// fakeStore 内存消息存储，可注入故障
type fakeStore struct {
	mu        sync.Mutex
	messages  []*entity.BrainstormMessage
	appendErr error
	deleteErr error
}

func (s *fakeStore) Append(_ context.Context, m *entity.BrainstormMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.appendErr != nil {
		return s.appendErr
	}
	for _, existing := range s.messages {
		if existing.ID == m.ID {
			return nil // 同 ID 幂等
		}
	}
	s.messages = append(s.messages, m)
	return nil
}

func (s *fakeStore) LoadHistory(_ context.Context, _, _ string) ([]*entity.BrainstormMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*entity.BrainstormMessage, len(s.messages))
	copy(out, s.messages)
	return out, nil
}

func (s *fakeStore) DeleteAll(_ context.Context, _, _ string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.deleteErr != nil {
		return s.deleteErr
	}
	s.messages = nil
	return nil
}

type fakeCompleter struct {
	response string
	err      error
	calls    int
	lastTurn string
}

func (c *fakeCompleter) Complete(_ context.Context, history []ChatTurn, _ entity.FlowConfig) (string, error) {
	c.calls++
	if len(history) > 0 {
		c.lastTurn = history[len(history)-1].Content
	}
	if c.err != nil {
		return "", c.err
	}
	return c.response, nil
}

type instantSleeper struct{}

func (instantSleeper) Sleep(context.Context, time.Duration) {}

func newTestEngine(store *fakeStore, completer *fakeCompleter) *Engine {
	return NewEngine(Options{
		TenantID:      "tenant-1",
		ProjectID:     "project-1",
		Store:         store,
		Completer:     completer,
		Sleeper:       instantSleeper{},
		ThinkingDelay: time.Second, // instantSleeper 下无实际等待
	})
}

func TestEmptyInputIsNoop(t *testing.T) {
	store := &fakeStore{}
	e := newTestEngine(store, &fakeCompleter{})

	require.NoError(t, e.HandleUserInput(context.Background(), "   "))
	assert.Empty(t, e.Messages())
	assert.Equal(t, entity.FlowStepWelcome, e.Step())
}

func TestUserMessageAppendedBeforeScriptedReply(t *testing.T) {
	store := &fakeStore{}
	e := newTestEngine(store, &fakeCompleter{})

	require.NoError(t, e.HandleUserInput(context.Background(), "hello"))

	msgs := e.Messages()
	require.Len(t, msgs, 2)
	assert.Equal(t, entity.RoleUser, msgs[0].Role)
	assert.Equal(t, "hello", msgs[0].Content)
	assert.Equal(t, entity.RoleAssistant, msgs[1].Role)
}

func TestKeywordFastForwardReel(t *testing.T) {
	store := &fakeStore{}
	completer := &fakeCompleter{}
	e := newTestEngine(store, completer)

	require.NoError(t, e.HandleUserInput(context.Background(), "make me a reel"))

	cfg := e.Config()
	assert.Equal(t, "Instagram", cfg.Platform)
	assert.Equal(t, "Instagram Reel", cfg.ContentType)
	assert.Equal(t, entity.FlowStepAudience, e.Step())
	assert.Zero(t, completer.calls, "fast-forward must not call the model")

	msgs := e.Messages()
	require.Len(t, msgs, 2)
	last := msgs[len(msgs)-1]
	assert.Equal(t, entity.MessageTypeQuestion, last.Type)
	q, ok := DecodeMetadata(last.Type, last.Metadata, last.Content).(QuestionContent)
	require.True(t, ok)
	assert.Equal(t, audienceQuestion().(QuestionContent).Text, q.Text)
	assert.NotEmpty(t, q.Options)
}

func TestKeywordFastForwardPlatformOnly(t *testing.T) {
	e := newTestEngine(&fakeStore{}, &fakeCompleter{})

	require.NoError(t, e.HandleUserInput(context.Background(), "something for instagram please"))

	assert.Equal(t, "Instagram", e.Config().Platform)
	assert.Empty(t, e.Config().ContentType)
	assert.Equal(t, entity.FlowStepContentType, e.Step())
}

func TestSequentialFallbackWalksAllSteps(t *testing.T) {
	e := newTestEngine(&fakeStore{}, &fakeCompleter{response: "ok"})
	ctx := context.Background()

	// welcome 阶段的输入不含关键词：推进到 platform 提问
	require.NoError(t, e.HandleUserInput(ctx, "hey there"))
	require.Equal(t, entity.FlowStepPlatform, e.Step())

	require.NoError(t, e.HandleUserInput(ctx, "My Niche Forum")) // 字面量答案
	require.Equal(t, entity.FlowStepContentType, e.Step())
	assert.Equal(t, "My Niche Forum", e.Config().Platform)

	require.NoError(t, e.HandleUserInput(ctx, "Long Post"))
	require.Equal(t, entity.FlowStepAudience, e.Step())

	require.NoError(t, e.HandleUserInput(ctx, "Retired Engineers"))
	require.Equal(t, entity.FlowStepVibe, e.Step())

	require.NoError(t, e.HandleUserInput(ctx, "Dry Humor"))
	require.Equal(t, entity.FlowStepBrainstorming, e.Step())

	cfg := e.Config()
	assert.Equal(t, entity.FlowConfig{
		Platform:    "My Niche Forum",
		ContentType: "Long Post",
		Audience:    "Retired Engineers",
		Vibe:        "Dry Humor",
	}, cfg)
}

func TestStepMonotonicity(t *testing.T) {
	e := newTestEngine(&fakeStore{}, &fakeCompleter{response: "idea"})
	ctx := context.Background()

	inputs := []string{"make me a reel", "Gen Z", "funny", "dog toys", "more about dogs"}
	prev := e.Step().Rank()
	for _, in := range inputs {
		require.NoError(t, e.HandleUserInput(ctx, in))
		cur := e.Step().Rank()
		assert.GreaterOrEqual(t, cur, prev, "step must never move backwards (input %q)", in)
		prev = cur
	}
	assert.Equal(t, entity.FlowStepBrainstorming, e.Step())
}

func TestOptionSelectedAdvances(t *testing.T) {
	e := newTestEngine(&fakeStore{}, &fakeCompleter{})
	ctx := context.Background()

	// 开场白上的平台选项
	require.NoError(t, e.HandleOptionSelected(ctx, "option_2", "TikTok"))
	assert.Equal(t, "TikTok", e.Config().Platform)
	assert.Equal(t, entity.FlowStepContentType, e.Step())

	require.NoError(t, e.HandleOptionSelected(ctx, "option_1", "TikTok Video"))
	assert.Equal(t, "TikTok Video", e.Config().ContentType)
	assert.Equal(t, entity.FlowStepAudience, e.Step())
}

func TestOtherOptionHoldsStep(t *testing.T) {
	e := newTestEngine(&fakeStore{}, &fakeCompleter{})
	ctx := context.Background()

	require.NoError(t, e.HandleUserInput(ctx, "make me a reel"))
	require.Equal(t, entity.FlowStepAudience, e.Step())
	before := len(e.Messages())

	require.NoError(t, e.HandleOptionSelected(ctx, OptionIDOther, ""))

	assert.Equal(t, entity.FlowStepAudience, e.Step(), "other must not advance the step")
	assert.Empty(t, e.Config().Audience)

	msgs := e.Messages()
	require.Len(t, msgs, before+2) // 用户点击 + 脚本化追问
	last := msgs[len(msgs)-1]
	assert.Equal(t, entity.RoleAssistant, last.Role)
	assert.Equal(t, entity.MessageTypeText, last.Type)

	// 下一条自由输入被顺序兜底捕获
	require.NoError(t, e.HandleUserInput(ctx, "Left-handed guitarists"))
	assert.Equal(t, "Left-handed guitarists", e.Config().Audience)
	assert.Equal(t, entity.FlowStepVibe, e.Step())
}

func TestMoreIdeasDelegatesWithoutAdvancing(t *testing.T) {
	completer := &fakeCompleter{response: "another idea"}
	e := newTestEngine(&fakeStore{}, completer)
	ctx := context.Background()

	driveToBrainstorming(t, e)
	require.NoError(t, e.HandleUserInput(ctx, "dog toys"))
	callsBefore := completer.calls

	require.NoError(t, e.HandleOptionSelected(ctx, OptionIDMoreIdeas, "More ideas"))

	assert.Equal(t, entity.FlowStepBrainstorming, e.Step())
	assert.Equal(t, callsBefore+1, completer.calls)
	assert.Equal(t, regenerateInstruction, completer.lastTurn)
}

func TestBrainstormingDelegatesAndNormalizes(t *testing.T) {
	completer := &fakeCompleter{
		response: "Here's an idea:\n{\"type\":\"preview\",\"data\":{\"title\":\"X\",\"script\":\"Y\"}}",
	}
	e := newTestEngine(&fakeStore{}, completer)
	ctx := context.Background()

	driveToBrainstorming(t, e)
	require.NoError(t, e.HandleUserInput(ctx, "dog toys"))

	msgs := e.Messages()
	last := msgs[len(msgs)-1]
	require.Equal(t, entity.RoleAssistant, last.Role)
	require.Equal(t, entity.MessageTypeCard, last.Type)

	card, ok := DecodeMetadata(last.Type, last.Metadata, last.Content).(CardContent)
	require.True(t, ok)
	assert.Equal(t, "X", card.Card.Title)
	assert.Equal(t, "Y", card.Card.Script)
}

func TestCompletionFailureKeepsState(t *testing.T) {
	completer := &fakeCompleter{err: errors.New("upstream 503")}
	e := newTestEngine(&fakeStore{}, completer)
	ctx := context.Background()

	driveToBrainstorming(t, e)
	before := len(e.Messages())

	err := e.HandleUserInput(ctx, "dog toys")
	require.Error(t, err)
	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.CodeCompletionFailed, appErr.Code)

	// 阶段保持 brainstorming，用户消息保留，无助手消息
	assert.Equal(t, entity.FlowStepBrainstorming, e.Step())
	msgs := e.Messages()
	require.Len(t, msgs, before+1)
	assert.Equal(t, entity.RoleUser, msgs[len(msgs)-1].Role)
}

func TestPersistFailureKeepsOptimisticCopy(t *testing.T) {
	store := &fakeStore{appendErr: errors.New("db down")}
	e := newTestEngine(store, &fakeCompleter{})

	require.NoError(t, e.HandleUserInput(context.Background(), "hello"))
	assert.Len(t, e.Messages(), 2, "append failure must not roll back local state")
}

func TestResetClearsEverything(t *testing.T) {
	store := &fakeStore{}
	e := newTestEngine(store, &fakeCompleter{})
	ctx := context.Background()

	require.NoError(t, e.HandleUserInput(ctx, "make me a reel"))
	require.NoError(t, e.Reset(ctx))

	assert.Equal(t, entity.FlowStepWelcome, e.Step())
	assert.True(t, e.Config().IsEmpty())
	msgs := e.Messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, entity.MessageTypeQuestion, msgs[0].Type)
}

func TestResetIdempotent(t *testing.T) {
	store := &fakeStore{}
	e := newTestEngine(store, &fakeCompleter{})
	ctx := context.Background()

	require.NoError(t, e.HandleUserInput(ctx, "make me a reel"))
	require.NoError(t, e.Reset(ctx))
	first := snapshot(e)

	require.NoError(t, e.Reset(ctx))
	second := snapshot(e)

	assert.Equal(t, first.step, second.step)
	assert.Equal(t, first.config, second.config)
	assert.Equal(t, first.count, second.count)
}

func TestResetDeleteFailureReloadsHistory(t *testing.T) {
	store := &fakeStore{}
	e := newTestEngine(store, &fakeCompleter{})
	ctx := context.Background()

	require.NoError(t, e.HandleUserInput(ctx, "make me a reel"))
	persisted := len(store.messages)
	require.Equal(t, 2, persisted)

	store.deleteErr = errors.New("delete rejected")
	err := e.Reset(ctx)
	require.Error(t, err)
	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.CodeResetFailed, appErr.Code)

	// 本地状态未被抢先清空，与存储保持一致
	assert.Len(t, e.Messages(), persisted)
	assert.Equal(t, entity.FlowStepAudience, e.Step())
	assert.Equal(t, "Instagram", e.Config().Platform)
}

func TestApplyRemoteDeduplicates(t *testing.T) {
	e := newTestEngine(&fakeStore{}, &fakeCompleter{})
	ctx := context.Background()

	require.NoError(t, e.HandleUserInput(ctx, "hello"))
	msgs := e.Messages()
	require.Len(t, msgs, 2)

	// 实时通道回送本端刚插入的消息
	assert.False(t, e.ApplyRemote(msgs[0]))
	assert.Len(t, e.Messages(), 2)

	// 其他客户端的新消息正常并入
	other := entity.NewBrainstormMessage("tenant-1", "project-1",
		entity.RoleUser, entity.MessageTypeText, "from another tab", nil)
	assert.True(t, e.ApplyRemote(other))
	assert.Len(t, e.Messages(), 3)
}

func TestStartWithEmptyHistoryEmitsOpener(t *testing.T) {
	store := &fakeStore{}
	e := newTestEngine(store, &fakeCompleter{})

	require.NoError(t, e.Start(context.Background()))

	msgs := e.Messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, entity.RoleAssistant, msgs[0].Role)
	assert.Equal(t, entity.MessageTypeQuestion, msgs[0].Type)
}

func TestStartWithExistingHistorySkipsOpener(t *testing.T) {
	store := &fakeStore{}
	seed := entity.NewBrainstormMessage("tenant-1", "project-1",
		entity.RoleUser, entity.MessageTypeText, "earlier turn", nil)
	require.NoError(t, store.Append(context.Background(), seed))

	e := newTestEngine(store, &fakeCompleter{})
	require.NoError(t, e.Start(context.Background()))

	msgs := e.Messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, seed.ID, msgs[0].ID)
}

type engineSnapshot struct {
	step   entity.FlowStep
	config entity.FlowConfig
	count  int
}

func snapshot(e *Engine) engineSnapshot {
	return engineSnapshot{step: e.Step(), config: e.Config(), count: len(e.Messages())}
}

// driveToBrainstorming 走完整个脚本化流程
func driveToBrainstorming(t *testing.T, e *Engine) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, e.HandleUserInput(ctx, "make me a reel"))
	require.NoError(t, e.HandleUserInput(ctx, "Gen Z"))
	require.NoError(t, e.HandleUserInput(ctx, "Funny"))
	require.Equal(t, entity.FlowStepBrainstorming, e.Step())
}

// Package handler 提供 HTTP 请求处理器
package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"viralspark-api/internal/application/brainstorm"
	"viralspark-api/internal/application/quota"
	"viralspark-api/internal/domain/entity"
	"viralspark-api/internal/domain/repository"
	"viralspark-api/internal/infrastructure/messaging"
	"viralspark-api/internal/interfaces/http/dto"
	"viralspark-api/internal/interfaces/http/middleware"
	apperrors "viralspark-api/pkg/errors"
	"viralspark-api/pkg/logger"
	"viralspark-api/pkg/metrics"
)

const (
	chatWSWriteWait = 10 * time.Second
	chatWSPongWait  = 60 * time.Second
	chatWSPingEvery = (chatWSPongWait * 9) / 10
)

var chatWSUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(_ *http.Request) bool {
		return true
	},
}

// ChatWSHandler 实时会话 websocket 处理器。
// 每个连接先收到完整历史，随后接收项目流上的新消息；
// 同一消息可能到达多次，客户端按 ID 去重。
type ChatWSHandler struct {
	manager    *brainstorm.Manager
	projects   repository.ProjectRepository
	quota      *quota.Service
	subscriber *messaging.ChatSubscriber
}

// NewChatWSHandler 创建 websocket 处理器
func NewChatWSHandler(manager *brainstorm.Manager, projects repository.ProjectRepository, quotaSvc *quota.Service, subscriber *messaging.ChatSubscriber) *ChatWSHandler {
	return &ChatWSHandler{
		manager:    manager,
		projects:   projects,
		quota:      quotaSvc,
		subscriber: subscriber,
	}
}

// Handle 升级连接并驱动会话
func (h *ChatWSHandler) Handle(c *gin.Context) {
	ctx := c.Request.Context()
	tenantID := middleware.GetTenantIDFromGin(c)
	userID := middleware.GetUserIDFromGin(c)
	projectID := c.Param("id")

	project, err := h.projects.GetByID(ctx, projectID)
	if err != nil {
		dto.InternalError(c, "failed to get project")
		return
	}
	if project == nil || project.TenantID != tenantID {
		dto.NotFound(c, "project not found")
		return
	}

	conn, err := chatWSUpgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	metrics.RealtimeConnections.Inc()
	defer metrics.RealtimeConnections.Dec()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if err := conn.SetReadDeadline(time.Now().Add(chatWSPongWait)); err != nil {
		return
	}
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(chatWSPongWait))
	})

	writeCh := make(chan dto.ChatServerEvent, 32)
	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		ticker := time.NewTicker(chatWSPingEvery)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case out := <-writeCh:
				if err := conn.SetWriteDeadline(time.Now().Add(chatWSWriteWait)); err != nil {
					return
				}
				if err := conn.WriteJSON(out); err != nil {
					return
				}
			case <-ticker.C:
				if err := conn.SetWriteDeadline(time.Now().Add(chatWSWriteWait)); err != nil {
					return
				}
				if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
					return
				}
			}
		}
	}()

	engine, err := h.manager.Acquire(ctx, tenantID, projectID, userID)
	if err != nil {
		pushChatWS(writeCh, errorEvent(err))
		cancel()
		<-writerDone
		return
	}

	// 先发历史快照
	pushChatWS(writeCh, h.stateEvent("history", engine))

	// 订阅项目流，推送后续到达的消息
	go func() {
		subErr := h.subscriber.Subscribe(ctx, tenantID, projectID, func(m *entity.BrainstormMessage) {
			if engine.ApplyRemote(m) {
				metrics.RealtimeEventsTotal.WithLabelValues("delivered").Inc()
			} else {
				metrics.RealtimeEventsTotal.WithLabelValues("duplicate").Inc()
			}
			// 本端已见过的消息仍然转发，其他连接靠它收敛；客户端按 ID 去重
			pushChatWS(writeCh, dto.ChatServerEvent{
				Type:    "message",
				Message: dto.ToBrainstormMessageDTO(m),
			})
		})
		if subErr != nil {
			logger.Warn(ctx, "chat stream subscription ended", "error", subErr, "project_id", projectID)
		}
	}()

	for {
		var op dto.ChatClientOp
		if err := conn.ReadJSON(&op); err != nil {
			cancel()
			<-writerDone
			return
		}

		switch strings.ToLower(strings.TrimSpace(op.Op)) {
		case "ping":
			pushChatWS(writeCh, dto.ChatServerEvent{Type: "pong"})

		case "input":
			if err := h.quota.CheckBrainstormTurn(ctx, tenantID); err != nil {
				pushChatWS(writeCh, errorEvent(err))
				continue
			}
			if _, err := h.manager.UserInput(ctx, tenantID, projectID, userID, op.Text); err != nil {
				pushChatWS(writeCh, errorEvent(err))
				continue
			}
			pushChatWS(writeCh, h.stateEvent("state", engine))

		case "option":
			if err := h.quota.CheckBrainstormTurn(ctx, tenantID); err != nil {
				pushChatWS(writeCh, errorEvent(err))
				continue
			}
			if _, err := h.manager.OptionSelected(ctx, tenantID, projectID, userID, op.OptionID, op.Value); err != nil {
				pushChatWS(writeCh, errorEvent(err))
				continue
			}
			pushChatWS(writeCh, h.stateEvent("state", engine))

		case "reset":
			if _, err := h.manager.Reset(ctx, tenantID, projectID, userID); err != nil {
				pushChatWS(writeCh, errorEvent(err))
				continue
			}
			pushChatWS(writeCh, h.stateEvent("state", engine))

		default:
			pushChatWS(writeCh, dto.ChatServerEvent{
				Type:  "error",
				Code:  "invalid_op",
				Error: "unknown op: " + op.Op,
			})
		}
	}
}

// stateEvent 构造包含完整会话状态的事件
func (h *ChatWSHandler) stateEvent(eventType string, engine *brainstorm.Engine) dto.ChatServerEvent {
	cfg := engine.Config()
	return dto.ChatServerEvent{
		Type:     eventType,
		Step:     string(engine.Step()),
		Config:   &cfg,
		Messages: dto.ToBrainstormMessageDTOs(engine.Messages()),
	}
}

// errorEvent 把应用错误映射为 websocket 错误事件
func errorEvent(err error) dto.ChatServerEvent {
	evt := dto.ChatServerEvent{Type: "error", Code: "internal", Error: "internal error"}
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		evt.Code = string(appErr.Code)
		evt.Error = appErr.Message
	}
	return evt
}

// pushChatWS 尽力投递：缓冲满时丢弃最旧事件，保持连接活性
func pushChatWS(writeCh chan dto.ChatServerEvent, out dto.ChatServerEvent) {
	if writeCh == nil {
		return
	}
	select {
	case writeCh <- out:
		return
	default:
	}
	select {
	case <-writeCh:
	default:
	}
	select {
	case writeCh <- out:
	default:
	}
}

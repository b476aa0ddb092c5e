package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/admitchat/admitchat/internal/domain/entity"
	"github.com/admitchat/admitchat/internal/domain/session"
	"github.com/admitchat/admitchat/internal/domain/valueobject"
	"github.com/admitchat/admitchat/internal/infrastructure/sessionstore"
	"github.com/admitchat/admitchat/pkg/safego"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // 同源站点挂件, 生产环境在反代层限制来源
	},
}

// EventType 消息类型
type EventType string

const (
	EventTypeQuestion EventType = "question"
	EventTypeLead     EventType = "lead"
	EventTypeSync     EventType = "sync"
	EventTypeState    EventType = "state"
	EventTypeError    EventType = "error"
	EventTypePing     EventType = "ping"
	EventTypePong     EventType = "pong"
)

// Event WebSocket 消息
type Event struct {
	Type      EventType `json:"type"`
	SessionID string    `json:"session_id,omitempty"`
	Content   string    `json:"content,omitempty"`
	Name      string    `json:"name,omitempty"`
	Email     string    `json:"email,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	Timestamp int64     `json:"timestamp"`
}

// StateEvent 服务端回推的完整会话状态
type StateEvent struct {
	Type         EventType                `json:"type"`
	SessionID    string                   `json:"session_id"`
	Conversation valueobject.Conversation `json:"conversation"`
	PromptShown  bool                     `json:"promptShown"`
	Loading      bool                     `json:"loading"`
	Error        string                   `json:"error,omitempty"`
	Timestamp    int64                    `json:"timestamp"`
}

// Handler 把挂件事件接到会话引擎上。每个连接一个引擎, 状态在事件间
// 落到 sessionstore, 断线重连时按 session_id 恢复。
type Handler struct {
	assistant session.Assistant
	visitors  session.VisitorService
	store     sessionstore.Store
	greeting  func() string
	logger    *zap.Logger
}

// NewHandler 创建 WebSocket 处理器
func NewHandler(assistant session.Assistant, visitors session.VisitorService, store sessionstore.Store, greeting func() string, logger *zap.Logger) *Handler {
	return &Handler{
		assistant: assistant,
		visitors:  visitors,
		store:     store,
		greeting:  greeting,
		logger:    logger,
	}
}

// Serve 返回挂到 /ws 的 gin 处理函数
func (h *Handler) Serve() gin.HandlerFunc {
	return func(c *gin.Context) {
		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			h.logger.Warn("WebSocket upgrade failed", zap.Error(err))
			return
		}

		sessionID := c.Query("session_id")
		if sessionID == "" {
			sessionID = uuid.NewString()
		}

		h.serveConn(c.Request.Context(), conn, sessionID)
	}
}

func (h *Handler) serveConn(ctx context.Context, conn *websocket.Conn, sessionID string) {
	defer conn.Close()

	engine, rec, err := h.resume(ctx, sessionID)
	if err != nil {
		h.logger.Error("Session resume failed", zap.String("session_id", sessionID), zap.Error(err))
		return
	}

	h.logger.Info("Widget connected", zap.String("session_id", sessionID))
	h.writeState(conn, sessionID, engine.State())

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			h.logger.Info("Widget disconnected", zap.String("session_id", sessionID))
			return
		}

		var event Event
		if err := json.Unmarshal(raw, &event); err != nil {
			h.writeError(conn, sessionID, "malformed event")
			continue
		}

		switch event.Type {
		case EventTypePing:
			h.writeEvent(conn, &Event{Type: EventTypePong, SessionID: sessionID})

		case EventTypeQuestion:
			state, err := engine.SubmitQuestion(ctx, event.Content)
			if errors.Is(err, entity.ErrEmptyQuestion) {
				// 对应原挂件的 "Please input a question" 弹窗, 不触发网络调用
				h.writeError(conn, sessionID, "Please input a question")
				continue
			}
			h.writeState(conn, sessionID, state)
			h.persist(ctx, rec, state)
			// 回车提交路径上的尽力而为持久化
			safego.Go(h.logger, "conversation-sync", func() {
				syncCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				if err := engine.Sync(syncCtx); err != nil {
					h.logger.Warn("Conversation sync failed", zap.String("session_id", sessionID), zap.Error(err))
				}
			})

		case EventTypeLead:
			contact := valueobject.NewContact(event.Name, event.Email, event.Phone)
			state, err := engine.CaptureLead(ctx, contact)
			if err != nil {
				h.writeError(conn, sessionID, "An error occurred while fetching the data. Please try again.")
				continue
			}
			h.writeState(conn, sessionID, state)
			h.persist(ctx, rec, state)

		case EventTypeSync:
			if err := engine.Sync(ctx); err != nil {
				h.writeError(conn, sessionID, "An error occurred while fetching the data. Please try again.")
				continue
			}
			h.writeState(conn, sessionID, engine.State())

		default:
			h.writeError(conn, sessionID, "unknown event type")
		}
	}
}

// resume 从存储恢复会话, 不存在则新建
func (h *Handler) resume(ctx context.Context, sessionID string) (*session.Engine, *sessionstore.Record, error) {
	rec, err := h.store.Get(ctx, sessionID)
	if err != nil {
		return nil, nil, err
	}

	if rec == nil {
		engine := session.NewEngine(h.greeting(), h.assistant, h.visitors, h.logger)
		state := engine.State()
		rec = &sessionstore.Record{
			ID:           sessionID,
			Conversation: state.Conversation,
			PromptShown:  state.PromptShown,
		}
		if err := h.store.Create(ctx, rec); err != nil {
			return nil, nil, err
		}
		return engine, rec, nil
	}

	state := session.State{
		Conversation: rec.Conversation,
		Contact:      valueobject.NewContact(rec.Name, rec.Email, rec.Phone),
		PromptShown:  rec.PromptShown,
	}
	return session.NewEngineWithState(state, h.assistant, h.visitors, h.logger), rec, nil
}

// persist 把引擎状态落回会话存储; 版本冲突说明另一个连接在写同一会话
func (h *Handler) persist(ctx context.Context, rec *sessionstore.Record, state session.State) {
	rec.Conversation = state.Conversation
	rec.Name = state.Contact.Name()
	rec.Email = state.Contact.Email()
	rec.Phone = state.Contact.Phone()
	rec.PromptShown = state.PromptShown

	if err := h.store.Update(ctx, rec); err != nil {
		if errors.Is(err, sessionstore.ErrVersionConflict) {
			h.logger.Warn("Concurrent session writer detected", zap.String("session_id", rec.ID))
			return
		}
		h.logger.Error("Session persist failed", zap.String("session_id", rec.ID), zap.Error(err))
	}
}

func (h *Handler) writeState(conn *websocket.Conn, sessionID string, state session.State) {
	h.write(conn, &StateEvent{
		Type:         EventTypeState,
		SessionID:    sessionID,
		Conversation: state.Conversation,
		PromptShown:  state.PromptShown,
		Loading:      state.Loading,
		Error:        state.Error,
		Timestamp:    time.Now().Unix(),
	})
}

func (h *Handler) writeError(conn *websocket.Conn, sessionID, message string) {
	h.writeEvent(conn, &Event{
		Type:      EventTypeError,
		SessionID: sessionID,
		Content:   message,
	})
}

func (h *Handler) writeEvent(conn *websocket.Conn, event *Event) {
	event.Timestamp = time.Now().Unix()
	h.write(conn, event)
}

func (h *Handler) write(conn *websocket.Conn, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		h.logger.Error("Failed to marshal event", zap.Error(err))
		return
	}
	if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
		h.logger.Warn("WebSocket write failed", zap.Error(err))
	}
}

package valueobject

import (
	"encoding/json"
	"fmt"
)

// MessageType 消息类型
type MessageType string

const (
	// MessageTypeAPI 机器人回复
	MessageTypeAPI MessageType = "apiMessage"
	// MessageTypeUser 访客提问
	MessageTypeUser MessageType = "userMessage"
)

// SourceDocument 回答引用的检索文档
type SourceDocument struct {
	PageContent string            `json:"pageContent"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}

// Message 会话中的一条消息（不可变）
type Message struct {
	Type       MessageType      `json:"type"`
	Message    string           `json:"message"`
	SourceDocs []SourceDocument `json:"sourceDocs,omitempty"`
}

// NewUserMessage 创建访客消息
func NewUserMessage(text string) Message {
	return Message{
		Type:    MessageTypeUser,
		Message: text,
	}
}

// NewAPIMessage 创建机器人消息
func NewAPIMessage(text string, docs []SourceDocument) Message {
	// 值对象不可变，创建副本
	var copied []SourceDocument
	if len(docs) > 0 {
		copied = make([]SourceDocument, len(docs))
		copy(copied, docs)
	}
	return Message{
		Type:       MessageTypeAPI,
		Message:    text,
		SourceDocs: copied,
	}
}

// IsFromUser 判断是否访客消息
func (m Message) IsFromUser() bool {
	return m.Type == MessageTypeUser
}

// QAPair 一轮问答，线上格式为二元数组 ["question", "answer"]
type QAPair struct {
	Question string
	Answer   string
}

// MarshalJSON 序列化为 [question, answer]
func (p QAPair) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]string{p.Question, p.Answer})
}

// UnmarshalJSON 从 [question, answer] 反序列化
func (p *QAPair) UnmarshalJSON(data []byte) error {
	var pair []string
	if err := json.Unmarshal(data, &pair); err != nil {
		return err
	}
	if len(pair) != 2 {
		return fmt.Errorf("qa pair must have exactly 2 elements, got %d", len(pair))
	}
	p.Question = pair[0]
	p.Answer = pair[1]
	return nil
}

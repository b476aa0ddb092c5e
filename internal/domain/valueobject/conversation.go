package valueobject

// Conversation 会话状态值对象：展示用消息列表 + 发给问答后端的上下文。
// 两个序列都只增不减；所有变更方法返回新值，原值保持不变。
type Conversation struct {
	Messages []Message `json:"messages"`
	History  []QAPair  `json:"history"`
}

// NewConversation 创建以欢迎语开场的会话
func NewConversation(greeting string) Conversation {
	return Conversation{
		Messages: []Message{NewAPIMessage(greeting, nil)},
		History:  []QAPair{},
	}
}

// WithQuestion 追加一条访客提问（乐观追加，回答尚未返回）
func (c Conversation) WithQuestion(question string) Conversation {
	return Conversation{
		Messages: appendMessage(c.Messages, NewUserMessage(question)),
		History:  copyHistory(c.History),
	}
}

// WithAnswer 追加机器人回答并扩展问答历史
func (c Conversation) WithAnswer(question, answer string, docs []SourceDocument) Conversation {
	return Conversation{
		Messages: appendMessage(c.Messages, NewAPIMessage(answer, docs)),
		History:  append(copyHistory(c.History), QAPair{Question: question, Answer: answer}),
	}
}

// Len 返回消息数
func (c Conversation) Len() int {
	return len(c.Messages)
}

// IsEmpty 判断是否没有任何消息（含欢迎语）
func (c Conversation) IsEmpty() bool {
	return len(c.Messages) == 0
}

// LastMessage 返回最后一条消息
func (c Conversation) LastMessage() (Message, bool) {
	if len(c.Messages) == 0 {
		return Message{}, false
	}
	return c.Messages[len(c.Messages)-1], true
}

// Equals 值对象相等性比较
func (c Conversation) Equals(other Conversation) bool {
	if len(c.Messages) != len(other.Messages) || len(c.History) != len(other.History) {
		return false
	}
	for i, m := range c.Messages {
		o := other.Messages[i]
		if m.Type != o.Type || m.Message != o.Message || len(m.SourceDocs) != len(o.SourceDocs) {
			return false
		}
	}
	for i, p := range c.History {
		if p != other.History[i] {
			return false
		}
	}
	return true
}

func appendMessage(msgs []Message, m Message) []Message {
	out := make([]Message, len(msgs)+1)
	copy(out, msgs)
	out[len(msgs)] = m
	return out
}

func copyHistory(history []QAPair) []QAPair {
	out := make([]QAPair, len(history))
	copy(out, history)
	return out
}

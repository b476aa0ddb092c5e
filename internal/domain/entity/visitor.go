package entity

import (
	"time"

	"github.com/admitchat/admitchat/internal/domain/valueobject"
)

// Visitor 访客实体，以邮箱为唯一键
type Visitor struct {
	email        string
	name         string
	phone        string
	conversation valueobject.Conversation
	createdAt    time.Time
	updatedAt    time.Time
}

// NewVisitor 创建新访客（工厂方法）
func NewVisitor(contact valueobject.Contact, conversation valueobject.Conversation) (*Visitor, error) {
	if !contact.HasEmail() {
		return nil, ErrInvalidEmail
	}

	now := time.Now()
	return &Visitor{
		email:        contact.Email(),
		name:         contact.Name(),
		phone:        contact.Phone(),
		conversation: conversation,
		createdAt:    now,
		updatedAt:    now,
	}, nil
}

// ReconstructVisitor 重建访客（用于从持久化层恢复）
func ReconstructVisitor(
	email string,
	name string,
	phone string,
	conversation valueobject.Conversation,
	createdAt time.Time,
	updatedAt time.Time,
) *Visitor {
	return &Visitor{
		email:        email,
		name:         name,
		phone:        phone,
		conversation: conversation,
		createdAt:    createdAt,
		updatedAt:    updatedAt,
	}
}

// Email 返回邮箱
func (v *Visitor) Email() string {
	return v.email
}

// Name 返回姓名
func (v *Visitor) Name() string {
	return v.name
}

// Phone 返回电话
func (v *Visitor) Phone() string {
	return v.phone
}

// Conversation 返回会话快照
func (v *Visitor) Conversation() valueobject.Conversation {
	return v.conversation
}

// CreatedAt 返回创建时间
func (v *Visitor) CreatedAt() time.Time {
	return v.createdAt
}

// UpdatedAt 返回更新时间
func (v *Visitor) UpdatedAt() time.Time {
	return v.updatedAt
}

// ReplaceConversation 整体覆盖会话快照（最后写入者胜出，非合并）
func (v *Visitor) ReplaceConversation(conversation valueobject.Conversation) {
	v.conversation = conversation
	v.updatedAt = time.Now()
}

package repository

import (
	"context"

	"github.com/admitchat/admitchat/internal/domain/entity"
	"github.com/admitchat/admitchat/internal/domain/valueobject"
)

// VisitorRepository 访客仓储接口
type VisitorRepository interface {
	// Upsert inserts the visitor if the email is new and reports created=true.
	// If a row for the email already exists it is left untouched and the
	// stored visitor is returned with created=false. The insert-or-skip is a
	// single atomic statement backed by the unique email index, so two
	// concurrent first-time registrations cannot both insert.
	Upsert(ctx context.Context, visitor *entity.Visitor) (stored *entity.Visitor, created bool, err error)

	// FindByEmail 根据邮箱查找访客，不存在时返回 NotFound 错误
	FindByEmail(ctx context.Context, email string) (*entity.Visitor, error)

	// UpdateConversation 整体覆盖指定邮箱的会话快照，邮箱不存在时返回 NotFound 错误
	UpdateConversation(ctx context.Context, email string, conversation valueobject.Conversation) error

	// Delete 删除访客
	Delete(ctx context.Context, email string) error

	// Count 统计访客数量
	Count(ctx context.Context) (int64, error)
}

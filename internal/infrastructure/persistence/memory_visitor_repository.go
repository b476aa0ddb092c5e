package persistence

import (
	"context"
	"sync"

	"github.com/admitchat/admitchat/internal/domain/entity"
	"github.com/admitchat/admitchat/internal/domain/repository"
	"github.com/admitchat/admitchat/internal/domain/valueobject"
	"github.com/admitchat/admitchat/pkg/errors"
)

// MemoryVisitorRepository 内存实现的访客仓储（用于开发/测试）
type MemoryVisitorRepository struct {
	mu       sync.RWMutex
	visitors map[string]*entity.Visitor
}

// NewMemoryVisitorRepository 创建内存访客仓储
func NewMemoryVisitorRepository() repository.VisitorRepository {
	return &MemoryVisitorRepository{
		visitors: make(map[string]*entity.Visitor),
	}
}

// Upsert 不存在则插入；锁内的查找加插入在这里天然原子
func (r *MemoryVisitorRepository) Upsert(ctx context.Context, visitor *entity.Visitor) (*entity.Visitor, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if stored, ok := r.visitors[visitor.Email()]; ok {
		return stored, false, nil
	}

	r.visitors[visitor.Email()] = visitor
	return visitor, true, nil
}

// FindByEmail 根据邮箱查找访客
func (r *MemoryVisitorRepository) FindByEmail(ctx context.Context, email string) (*entity.Visitor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	visitor, ok := r.visitors[email]
	if !ok {
		return nil, errors.NewNotFoundError("Email does not exist")
	}
	return visitor, nil
}

// UpdateConversation 整体覆盖会话快照
func (r *MemoryVisitorRepository) UpdateConversation(ctx context.Context, email string, conversation valueobject.Conversation) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	visitor, ok := r.visitors[email]
	if !ok {
		return errors.NewNotFoundError("Email does not exist")
	}
	visitor.ReplaceConversation(conversation)
	return nil
}

// Delete 删除访客
func (r *MemoryVisitorRepository) Delete(ctx context.Context, email string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.visitors[email]; !ok {
		return errors.NewNotFoundError("Email does not exist")
	}
	delete(r.visitors, email)
	return nil
}

// Count 统计访客数量
func (r *MemoryVisitorRepository) Count(ctx context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.visitors)), nil
}

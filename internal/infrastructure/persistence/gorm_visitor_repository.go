package persistence

import (
	"context"
	"encoding/json"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/admitchat/admitchat/internal/domain/entity"
	"github.com/admitchat/admitchat/internal/domain/repository"
	"github.com/admitchat/admitchat/internal/domain/valueobject"
	"github.com/admitchat/admitchat/internal/infrastructure/persistence/models"
	domainErrors "github.com/admitchat/admitchat/pkg/errors"
)

// GormVisitorRepository GORM 实现的访客仓储
type GormVisitorRepository struct {
	db *gorm.DB
}

// NewGormVisitorRepository 创建 GORM 访客仓储
func NewGormVisitorRepository(db *gorm.DB) repository.VisitorRepository {
	return &GormVisitorRepository{
		db: db,
	}
}

// Upsert 原子化的"不存在则插入"。靠邮箱唯一索引 + ON CONFLICT DO NOTHING
// 保证并发注册同一新邮箱时只有一方插入成功，另一方读到已有记录。
func (r *GormVisitorRepository) Upsert(ctx context.Context, visitor *entity.Visitor) (*entity.Visitor, bool, error) {
	model, err := r.toModel(visitor)
	if err != nil {
		return nil, false, err
	}

	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "email"}},
			DoNothing: true,
		}).
		Create(model)
	if result.Error != nil {
		return nil, false, domainErrors.NewInternalErrorWithCause("failed to upsert visitor", result.Error)
	}

	created := result.RowsAffected > 0
	if created {
		return visitor, true, nil
	}

	// 冲突分支：返回已存储的记录，保持其 metaData 不变
	stored, err := r.FindByEmail(ctx, visitor.Email())
	if err != nil {
		return nil, false, err
	}
	return stored, false, nil
}

// FindByEmail 根据邮箱查找访客
func (r *GormVisitorRepository) FindByEmail(ctx context.Context, email string) (*entity.Visitor, error) {
	var model models.VisitorModel
	if err := r.db.WithContext(ctx).First(&model, "email = ?", email).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainErrors.NewNotFoundError("Email does not exist")
		}
		return nil, domainErrors.NewInternalErrorWithCause("failed to find visitor", err)
	}

	return r.toEntity(&model)
}

// UpdateConversation 整体覆盖会话快照（最后写入者胜出）
func (r *GormVisitorRepository) UpdateConversation(ctx context.Context, email string, conversation valueobject.Conversation) error {
	raw, err := json.Marshal(conversation)
	if err != nil {
		return domainErrors.NewInternalErrorWithCause("failed to marshal conversation", err)
	}

	result := r.db.WithContext(ctx).
		Model(&models.VisitorModel{}).
		Where("email = ?", email).
		Update("meta_data", string(raw))
	if result.Error != nil {
		return domainErrors.NewInternalErrorWithCause("failed to update conversation", result.Error)
	}
	if result.RowsAffected == 0 {
		return domainErrors.NewNotFoundError("Email does not exist")
	}
	return nil
}

// Delete 删除访客
func (r *GormVisitorRepository) Delete(ctx context.Context, email string) error {
	result := r.db.WithContext(ctx).Delete(&models.VisitorModel{}, "email = ?", email)
	if result.Error != nil {
		return domainErrors.NewInternalErrorWithCause("failed to delete visitor", result.Error)
	}
	if result.RowsAffected == 0 {
		return domainErrors.NewNotFoundError("Email does not exist")
	}
	return nil
}

// Count 统计访客数量
func (r *GormVisitorRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.VisitorModel{}).Count(&count).Error; err != nil {
		return 0, domainErrors.NewInternalErrorWithCause("failed to count visitors", err)
	}
	return count, nil
}

// 转换方法

func (r *GormVisitorRepository) toModel(visitor *entity.Visitor) (*models.VisitorModel, error) {
	raw, err := json.Marshal(visitor.Conversation())
	if err != nil {
		return nil, domainErrors.NewInternalErrorWithCause("failed to marshal conversation", err)
	}

	return &models.VisitorModel{
		Email:     visitor.Email(),
		Name:      visitor.Name(),
		Phone:     visitor.Phone(),
		MetaData:  string(raw),
		CreatedAt: visitor.CreatedAt(),
		UpdatedAt: visitor.UpdatedAt(),
	}, nil
}

func (r *GormVisitorRepository) toEntity(model *models.VisitorModel) (*entity.Visitor, error) {
	var conversation valueobject.Conversation
	if model.MetaData != "" {
		if err := json.Unmarshal([]byte(model.MetaData), &conversation); err != nil {
			return nil, domainErrors.NewInternalErrorWithCause("failed to unmarshal conversation", err)
		}
	}

	return entity.ReconstructVisitor(
		model.Email,
		model.Name,
		model.Phone,
		conversation,
		model.CreatedAt,
		model.UpdatedAt,
	), nil
}

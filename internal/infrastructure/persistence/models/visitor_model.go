package models

import (
	"time"
)

// VisitorModel 数据库访客模型，邮箱唯一索引是并发首次注册的最终防线
type VisitorModel struct {
	ID        uint   `gorm:"primaryKey;autoIncrement"`
	Email     string `gorm:"uniqueIndex;size:254;not null"`
	Name      string `gorm:"size:128"`
	Phone     string `gorm:"size:32"`
	MetaData  string `gorm:"type:text"` // JSON encoded conversation snapshot
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName 指定表名
func (VisitorModel) TableName() string {
	return "visitors"
}

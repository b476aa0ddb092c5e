package entity

import "errors"

var (
	// ErrInvalidEmail 邮箱为空或缺失
	ErrInvalidEmail = errors.New("visitor email must not be empty")
	// ErrEmptyQuestion 提问为空（去空白后）
	ErrEmptyQuestion = errors.New("question must not be empty")
)

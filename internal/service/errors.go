package service

import (
	"errors"
	"fmt"
)

var (
	// ErrAuthRequired 写操作需要已登录的主体
	ErrAuthRequired = errors.New("authentication required")
	// ErrValidation 表单字段缺失或取值非法，具体字段见 *ValidationError
	ErrValidation = errors.New("validation failed")
	// ErrCategoryProtected 试图移除 all 分类
	ErrCategoryProtected = errors.New("category \"all\" cannot be removed")
	// ErrCategoryExists 分类 id 已存在
	ErrCategoryExists = errors.New("category already exists")
)

// ValidationError describes the first invalid field of an input.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s %s", ErrValidation, e.Field, e.Reason)
}

// Is lets errors.Is(err, ErrValidation) match every field error.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

func required(field string) error {
	return &ValidationError{Field: field, Reason: "is required"}
}

func invalid(field string) error {
	return &ValidationError{Field: field, Reason: "is invalid"}
}

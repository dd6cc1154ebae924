package db

import (
	"errors"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Credential 保存邮箱密码登录所需的账号信息，UID 是对外暴露的稳定主体 ID。
type Credential struct {
	gorm.Model
	UID      string `gorm:"size:64;uniqueIndex;not null"`
	Email    string `gorm:"size:255;uniqueIndex;not null"`
	Password string `gorm:"not null"`
}

// TableName 返回自定义表名
func (Credential) TableName() string {
	return "credentials"
}

// NormalizeEmail 统一邮箱大小写与空白。
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// EnsureCredential 存在性检查：邮箱不存在时以 bcrypt 哈希创建账号；已存在时更新密码。
func EnsureCredential(gdb *gorm.DB, email, password string) (*Credential, error) {
	trimmedEmail := NormalizeEmail(email)
	trimmedPassword := strings.TrimSpace(password)
	if trimmedEmail == "" || trimmedPassword == "" {
		return nil, errors.New("email and password are required")
	}

	if gdb == nil {
		return nil, errors.New("database not initialized")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(trimmedPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	var existing Credential
	if err := gdb.Where("email = ?", trimmedEmail).First(&existing).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}

		created := Credential{UID: uuid.NewString(), Email: trimmedEmail, Password: string(hashed)}
		if err := gdb.Create(&created).Error; err != nil {
			return nil, err
		}
		return &created, nil
	}

	existing.Password = string(hashed)
	if err := gdb.Save(&existing).Error; err != nil {
		return nil, err
	}
	return &existing, nil
}

// FindCredentialByEmail 按邮箱查找账号，不存在时返回 gorm.ErrRecordNotFound。
func FindCredentialByEmail(gdb *gorm.DB, email string) (*Credential, error) {
	var item Credential
	if err := gdb.Where("email = ?", NormalizeEmail(email)).First(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

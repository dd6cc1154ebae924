package db

import "time"

// Document 以 JSON 字段表保存文档型记录，集合名 + 文档 ID 唯一。
type Document struct {
	ID         uint                   `gorm:"primaryKey"`
	Collection string                 `gorm:"size:64;not null;uniqueIndex:idx_documents_collection_doc"`
	DocID      string                 `gorm:"size:128;not null;uniqueIndex:idx_documents_collection_doc"`
	Data       map[string]interface{} `gorm:"serializer:json;type:text"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// TableName 返回自定义表名
func (Document) TableName() string {
	return "documents"
}

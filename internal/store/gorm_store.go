package store

import (
	"context"
	"errors"
	"strings"

	"github.com/artfolio/internal/db"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormStore keeps documents in the sqlite documents table.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore creates a GormStore instance.
func NewGormStore(gdb *gorm.DB) *GormStore {
	return &GormStore{db: gdb}
}

// Create inserts a new document under a generated id.
func (s *GormStore) Create(ctx context.Context, collection string, fields Fields) (string, error) {
	doc := db.Document{
		Collection: collection,
		DocID:      uuid.NewString(),
		Data:       toData(fields),
	}
	if err := s.db.WithContext(ctx).Create(&doc).Error; err != nil {
		return "", wrapErr("create", collection, "", classifyGormErr(err))
	}
	return doc.DocID, nil
}

// Get fetches a document by id.
func (s *GormStore) Get(ctx context.Context, collection, id string) (Record, error) {
	doc, err := s.find(s.db.WithContext(ctx), collection, id)
	if err != nil {
		return Record{}, wrapErr("get", collection, id, err)
	}
	return toRecord(doc), nil
}

// List returns every document of the collection, sorted when an order is given.
func (s *GormStore) List(ctx context.Context, collection string, order ...Order) ([]Record, error) {
	var docs []db.Document
	if err := s.db.WithContext(ctx).
		Where("collection = ?", collection).
		Order("id asc").
		Find(&docs).Error; err != nil {
		return nil, wrapErr("list", collection, "", classifyGormErr(err))
	}

	records := make([]Record, 0, len(docs))
	for _, doc := range docs {
		records = append(records, toRecord(doc))
	}
	for i := len(order) - 1; i >= 0; i-- {
		sortRecords(records, order[i])
	}
	return records, nil
}

// Update merges partial into the stored document.
func (s *GormStore) Update(ctx context.Context, collection, id string, partial Fields) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		doc, err := s.find(tx, collection, id)
		if err != nil {
			return err
		}
		if doc.Data == nil {
			doc.Data = map[string]interface{}{}
		}
		for key, value := range partial {
			doc.Data[key] = value
		}
		return classifyGormErr(tx.Save(&doc).Error)
	})
	return wrapErr("update", collection, id, err)
}

// Set replaces the document, creating it when it does not exist yet.
func (s *GormStore) Set(ctx context.Context, collection, id string, fields Fields) error {
	if strings.TrimSpace(id) == "" {
		return wrapErr("set", collection, id, errors.New("document id is required"))
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		doc, err := s.find(tx, collection, id)
		if errors.Is(err, ErrNotFound) {
			created := db.Document{Collection: collection, DocID: id, Data: toData(fields)}
			return classifyGormErr(tx.Create(&created).Error)
		}
		if err != nil {
			return err
		}
		doc.Data = toData(fields)
		return classifyGormErr(tx.Save(&doc).Error)
	})
	return wrapErr("set", collection, id, err)
}

// Delete removes a document.
func (s *GormStore) Delete(ctx context.Context, collection, id string) error {
	result := s.db.WithContext(ctx).
		Where("collection = ? AND doc_id = ?", collection, id).
		Delete(&db.Document{})
	if result.Error != nil {
		return wrapErr("delete", collection, id, classifyGormErr(result.Error))
	}
	if result.RowsAffected == 0 {
		return wrapErr("delete", collection, id, ErrNotFound)
	}
	return nil
}

func (s *GormStore) find(tx *gorm.DB, collection, id string) (db.Document, error) {
	var doc db.Document
	if err := tx.Where("collection = ? AND doc_id = ?", collection, id).First(&doc).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return doc, ErrNotFound
		}
		return doc, classifyGormErr(err)
	}
	return doc, nil
}

func classifyGormErr(err error) error {
	if err == nil {
		return nil
	}
	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "readonly") || strings.Contains(msg, "read-only") || strings.Contains(msg, "not authorized") {
		return errors.Join(ErrPermissionDenied, err)
	}
	return err
}

func toData(fields Fields) map[string]interface{} {
	data := make(map[string]interface{}, len(fields))
	for key, value := range fields {
		data[key] = value
	}
	return data
}

func toRecord(doc db.Document) Record {
	fields := make(Fields, len(doc.Data))
	for key, value := range doc.Data {
		fields[key] = value
	}
	return Record{ID: doc.DocID, Fields: fields}
}

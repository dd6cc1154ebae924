package store

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/artfolio/internal/db"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupStoreTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:store-%d?mode=memory&cache=shared", time.Now().UnixNano())
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	if err := db.Migrate(gdb); err != nil {
		t.Fatalf("failed to migrate test db: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := gdb.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return gdb
}

func TestGormStoreCreateGet(t *testing.T) {
	ctx := context.Background()
	s := NewGormStore(setupStoreTestDB(t))

	id, err := s.Create(ctx, CollectionArtworks, Fields{"title": "Dawn", "tags": []any{"oil"}})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if id == "" {
		t.Fatal("expected generated id")
	}

	record, err := s.Get(ctx, CollectionArtworks, id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if record.ID != id || record.Fields["title"] != "Dawn" {
		t.Fatalf("unexpected record %#v", record)
	}

	if _, err := s.Get(ctx, CollectionProjects, id); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found in other collection, got %v", err)
	}
}

func TestGormStoreNotFound(t *testing.T) {
	ctx := context.Background()
	s := NewGormStore(setupStoreTestDB(t))

	_, err := s.Get(ctx, CollectionArtworks, "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound from get, got %v", err)
	}
	var storeErr *Error
	if !errors.As(err, &storeErr) || storeErr.Op != "get" {
		t.Fatalf("expected *Error with op get, got %#v", err)
	}
	if err := s.Update(ctx, CollectionArtworks, "missing", Fields{"a": 1}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound from update, got %v", err)
	}
	if err := s.Delete(ctx, CollectionArtworks, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound from delete, got %v", err)
	}
}

func TestGormStoreUpdateMergesTopLevelKeys(t *testing.T) {
	ctx := context.Background()
	s := NewGormStore(setupStoreTestDB(t))

	id, err := s.Create(ctx, CollectionProjects, Fields{"title": "A", "userId": "u1", "createdAt": "2024-01-01T00:00:00Z"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := s.Update(ctx, CollectionProjects, id, Fields{"title": "B"}); err != nil {
		t.Fatalf("update: %v", err)
	}

	record, err := s.Get(ctx, CollectionProjects, id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if record.Fields["title"] != "B" {
		t.Fatalf("expected updated title, got %v", record.Fields["title"])
	}
	if record.Fields["userId"] != "u1" || record.Fields["createdAt"] != "2024-01-01T00:00:00Z" {
		t.Fatalf("expected untouched keys to survive, got %#v", record.Fields)
	}
}

func TestGormStoreSetUpserts(t *testing.T) {
	ctx := context.Background()
	s := NewGormStore(setupStoreTestDB(t))

	if err := s.Set(ctx, CollectionTheme, SingletonID, Fields{"primary": "#000", "text": "#111"}); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := s.Set(ctx, CollectionTheme, SingletonID, Fields{"primary": "#fff"}); err != nil {
		t.Fatalf("set again: %v", err)
	}

	record, err := s.Get(ctx, CollectionTheme, SingletonID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if record.Fields["primary"] != "#fff" {
		t.Fatalf("expected replaced primary, got %v", record.Fields["primary"])
	}
	if _, ok := record.Fields["text"]; ok {
		t.Fatal("expected set to replace the whole document")
	}

	records, err := s.List(ctx, CollectionTheme)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected a single theme document, got %d", len(records))
	}
}

func TestGormStoreListOrdersByTimestamp(t *testing.T) {
	ctx := context.Background()
	s := NewGormStore(setupStoreTestDB(t))

	base := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	stamps := []time.Time{
		base.Add(2 * time.Second),
		base.Add(1500 * time.Millisecond),
		base.Add(3 * time.Hour),
		base,
	}
	for i, stamp := range stamps {
		if _, err := s.Create(ctx, CollectionProjects, Fields{"title": fmt.Sprintf("p%d", i), "createdAt": stamp}); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	records, err := s.List(ctx, CollectionProjects, Order{Field: "createdAt", Desc: true})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(records) != len(stamps) {
		t.Fatalf("expected %d records, got %d", len(stamps), len(records))
	}
	for i := 1; i < len(records); i++ {
		prev, _ := asTime(records[i-1].Fields["createdAt"])
		next, _ := asTime(records[i].Fields["createdAt"])
		if prev.Before(next) {
			t.Fatalf("records not in descending order at %d: %s before %s", i, prev, next)
		}
	}
	if records[0].Fields["title"] != "p2" || records[len(records)-1].Fields["title"] != "p3" {
		t.Fatalf("unexpected order: first=%v last=%v", records[0].Fields["title"], records[len(records)-1].Fields["title"])
	}
}

func TestGormStoreDelete(t *testing.T) {
	ctx := context.Background()
	s := NewGormStore(setupStoreTestDB(t))

	id, err := s.Create(ctx, CollectionArtworks, Fields{"title": "x"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := s.Delete(ctx, CollectionArtworks, id); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := s.Get(ctx, CollectionArtworks, id); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected deleted record to be gone, got %v", err)
	}
}

func TestInstrumentPassesThrough(t *testing.T) {
	ctx := context.Background()
	s := Instrument(NewGormStore(setupStoreTestDB(t)), nil)

	id, err := s.Create(ctx, CollectionArtworks, Fields{"title": "x"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := s.Get(ctx, CollectionArtworks, id); err != nil {
		t.Fatalf("get: %v", err)
	}
	if _, err := s.Get(ctx, CollectionArtworks, "nope"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

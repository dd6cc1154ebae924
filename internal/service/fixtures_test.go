package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/artfolio/internal/auth"
	"github.com/artfolio/internal/db"
	"github.com/artfolio/internal/store"
	"github.com/artfolio/internal/upload"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupServiceTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:service-%d?mode=memory&cache=shared", time.Now().UnixNano())
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

// countingStore 包装真实存储，记录每类调用次数，可注入写入失败
type countingStore struct {
	store.Store

	mu         sync.Mutex
	calls      map[string]int
	lastCreate store.Fields
	lastUpdate store.Fields
	failCreate error
	failUpdate error
}

func newCountingStore(t *testing.T) *countingStore {
	return &countingStore{Store: store.NewGormStore(setupServiceTestDB(t)), calls: map[string]int{}}
}

func (s *countingStore) count(op string) {
	s.mu.Lock()
	s.calls[op]++
	s.mu.Unlock()
}

func (s *countingStore) Calls(op string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[op]
}

func (s *countingStore) Writes() int {
	return s.Calls("create") + s.Calls("update") + s.Calls("set") + s.Calls("delete")
}

func (s *countingStore) Total() int {
	return s.Writes() + s.Calls("get") + s.Calls("list")
}

func (s *countingStore) Create(ctx context.Context, collection string, fields store.Fields) (string, error) {
	s.count("create")
	s.mu.Lock()
	s.lastCreate = fields.Clone()
	fail := s.failCreate
	s.mu.Unlock()
	if fail != nil {
		return "", &store.Error{Op: "create", Collection: collection, Err: fail}
	}
	return s.Store.Create(ctx, collection, fields)
}

func (s *countingStore) Get(ctx context.Context, collection, id string) (store.Record, error) {
	s.count("get")
	return s.Store.Get(ctx, collection, id)
}

func (s *countingStore) List(ctx context.Context, collection string, order ...store.Order) ([]store.Record, error) {
	s.count("list")
	return s.Store.List(ctx, collection, order...)
}

func (s *countingStore) Update(ctx context.Context, collection, id string, partial store.Fields) error {
	s.count("update")
	s.mu.Lock()
	s.lastUpdate = partial.Clone()
	fail := s.failUpdate
	s.mu.Unlock()
	if fail != nil {
		return &store.Error{Op: "update", Collection: collection, ID: id, Err: fail}
	}
	return s.Store.Update(ctx, collection, id, partial)
}

func (s *countingStore) Set(ctx context.Context, collection, id string, fields store.Fields) error {
	s.count("set")
	return s.Store.Set(ctx, collection, id, fields)
}

func (s *countingStore) Delete(ctx context.Context, collection, id string) error {
	s.count("delete")
	return s.Store.Delete(ctx, collection, id)
}

// fakeUploader 返回可预测的 URL，并记录上传与删除
type fakeUploader struct {
	mu       sync.Mutex
	uploads  []string
	removed  []string
	failFile string
}

func (u *fakeUploader) Upload(_ context.Context, file upload.File) (upload.Asset, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.uploads = append(u.uploads, file.Name)
	if u.failFile != "" && file.Name == u.failFile {
		return upload.Asset{}, &upload.Error{Backend: "fake", StatusCode: 500, Message: "boom"}
	}
	return upload.Asset{URL: "https://cdn.test/" + file.Name, AssetID: "asset-" + file.Name, Width: 800, Height: 600}, nil
}

func (u *fakeUploader) Remove(_ context.Context, assetID string) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.removed = append(u.removed, assetID)
	return nil
}

func (u *fakeUploader) Uploads() int {
	u.mu.Lock()
	defer u.mu.Unlock()
	return len(u.uploads)
}

func (u *fakeUploader) Removed() []string {
	u.mu.Lock()
	defer u.mu.Unlock()
	return append([]string(nil), u.removed...)
}

func imageFile(name string) *upload.File {
	return &upload.File{Name: name, ContentType: "image/png", Size: 4, Reader: strings.NewReader("fake")}
}

func adminContext(id string) context.Context {
	return auth.WithPrincipal(context.Background(), &auth.Principal{ID: id, Email: id + "@example.com", Role: auth.RoleAdmin})
}

// stepClock 每次调用前进一秒，保证时间戳严格递增
func stepClock(start time.Time) clock {
	var mu sync.Mutex
	current := start
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		current = current.Add(time.Second)
		return current
	}
}

var errWriteRejected = errors.New("write rejected")

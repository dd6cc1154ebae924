package db

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupCredentialTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:credentials-%d?mode=memory&cache=shared", time.Now().UnixNano())
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	if err := Migrate(gdb); err != nil {
		t.Fatalf("failed to migrate test db: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := gdb.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return gdb
}

func TestEnsureCredentialCreatesAndRotates(t *testing.T) {
	gdb := setupCredentialTestDB(t)

	created, err := EnsureCredential(gdb, " Artist@Example.com ", "first-pass")
	if err != nil {
		t.Fatalf("ensure credential: %v", err)
	}
	if created.Email != "artist@example.com" {
		t.Fatalf("expected normalized email, got %q", created.Email)
	}
	if created.UID == "" {
		t.Fatal("expected uid to be assigned")
	}

	rotated, err := EnsureCredential(gdb, "artist@example.com", "second-pass")
	if err != nil {
		t.Fatalf("rotate credential: %v", err)
	}
	if rotated.UID != created.UID {
		t.Fatalf("expected uid to stay stable, got %q and %q", created.UID, rotated.UID)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(rotated.Password), []byte("second-pass")); err != nil {
		t.Fatalf("expected rotated password to match: %v", err)
	}

	var count int64
	gdb.Model(&Credential{}).Count(&count)
	if count != 1 {
		t.Fatalf("expected 1 credential, got %d", count)
	}
}

func TestEnsureCredentialRequiresFields(t *testing.T) {
	gdb := setupCredentialTestDB(t)
	if _, err := EnsureCredential(gdb, "", "pass"); err == nil {
		t.Fatal("expected error for missing email")
	}
	if _, err := EnsureCredential(gdb, "a@b.c", "  "); err == nil {
		t.Fatal("expected error for missing password")
	}
}

func TestFindCredentialByEmail(t *testing.T) {
	gdb := setupCredentialTestDB(t)
	if _, err := EnsureCredential(gdb, "admin@example.com", "secret"); err != nil {
		t.Fatalf("ensure credential: %v", err)
	}

	found, err := FindCredentialByEmail(gdb, "ADMIN@example.com")
	if err != nil {
		t.Fatalf("find credential: %v", err)
	}
	if found.Email != "admin@example.com" {
		t.Fatalf("unexpected email %q", found.Email)
	}
	if _, err := FindCredentialByEmail(gdb, "nobody@example.com"); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected ErrRecordNotFound, got %v", err)
	}
}

package cache

import (
	"context"
	"testing"
	"time"

	gormsqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"opsdeck/internal/infrastructure/persistence/sqlite/model"
)

func setupSQLiteCache(t *testing.T) *SQLiteCache {
	t.Helper()

	db, err := gorm.Open(gormsqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	if err := db.AutoMigrate(&model.OpsKV{}); err != nil {
		t.Fatalf("auto migrate ops_kv: %v", err)
	}

	return NewSQLiteCache(db)
}

func TestSQLiteCacheSetGetDelete(t *testing.T) {
	cache := setupSQLiteCache(t)
	ctx := context.Background()

	if err := cache.Set(ctx, "trip_endpoint:tr-1", `{"lat":48.1,"lng":11.5}`, 0); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	value, found, err := cache.Get(ctx, "trip_endpoint:tr-1")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if !found {
		t.Fatalf("Get() expected found=true")
	}
	if value != `{"lat":48.1,"lng":11.5}` {
		t.Fatalf("Get() value = %q", value)
	}

	if err := cache.Set(ctx, "trip_endpoint:tr-1", `{"lat":48.2,"lng":11.6}`, 0); err != nil {
		t.Fatalf("Set(update) error = %v", err)
	}

	value, found, err = cache.Get(ctx, "trip_endpoint:tr-1")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if !found || value != `{"lat":48.2,"lng":11.6}` {
		t.Fatalf("Get() after update = %q, found=%v", value, found)
	}

	if err := cache.Delete(ctx, "trip_endpoint:tr-1"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	_, found, err = cache.Get(ctx, "trip_endpoint:tr-1")
	if err != nil {
		t.Fatalf("Get() after delete error = %v", err)
	}
	if found {
		t.Fatalf("Get() expected found=false after delete")
	}
}

func TestSQLiteCacheTTLExpiry(t *testing.T) {
	cache := setupSQLiteCache(t)
	ctx := context.Background()

	at := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	cache.now = func() time.Time { return at }

	if err := cache.Set(ctx, "device_last_scan:dock-1", "AST-1", time.Minute); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	if _, found, _ := cache.Get(ctx, "device_last_scan:dock-1"); !found {
		t.Fatalf("Get() before expiry: found=false")
	}

	at = at.Add(2 * time.Minute)
	if _, found, _ := cache.Get(ctx, "device_last_scan:dock-1"); found {
		t.Fatalf("Get() after expiry: found=true")
	}
}

func TestSQLiteCacheRejectsEmptyKey(t *testing.T) {
	cache := setupSQLiteCache(t)
	ctx := context.Background()

	if err := cache.Set(ctx, "", "v", 0); err == nil {
		t.Fatalf("Set() expected error for empty key")
	}
	if _, _, err := cache.Get(ctx, ""); err == nil {
		t.Fatalf("Get() expected error for empty key")
	}
	if err := cache.Delete(ctx, ""); err == nil {
		t.Fatalf("Delete() expected error for empty key")
	}
}

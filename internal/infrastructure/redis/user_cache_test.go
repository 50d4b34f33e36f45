package redis

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/ErlanBelekov/user-api/internal/domain"
	goredis "github.com/redis/go-redis/v9"
)

// memRedis keeps string values in a map and implements the commands
// UserCache issues. Any other command panics on the nil embedded interface.
type memRedis struct {
	goredis.Cmdable
	data map[string]string
	ttls map[string]time.Duration
}

func newMemRedis() *memRedis {
	return &memRedis{data: map[string]string{}, ttls: map[string]time.Duration{}}
}

func asString(v any) string {
	switch v := v.(type) {
	case []byte:
		return string(v)
	case string:
		return v
	}
	panic("unexpected value type")
}

func (m *memRedis) Get(_ context.Context, key string) *goredis.StringCmd {
	v, ok := m.data[key]
	if !ok {
		return goredis.NewStringResult("", goredis.Nil)
	}
	return goredis.NewStringResult(v, nil)
}

func (m *memRedis) Set(_ context.Context, key string, value any, ttl time.Duration) *goredis.StatusCmd {
	m.data[key] = asString(value)
	m.ttls[key] = ttl
	return goredis.NewStatusResult("OK", nil)
}

func (m *memRedis) SetNX(_ context.Context, key string, value any, ttl time.Duration) *goredis.BoolCmd {
	if _, ok := m.data[key]; ok {
		return goredis.NewBoolResult(false, nil)
	}
	m.data[key] = asString(value)
	m.ttls[key] = ttl
	return goredis.NewBoolResult(true, nil)
}

func newTestCache(rdb *memRedis) *UserCache {
	return &UserCache{
		rdb:    rdb,
		ttl:    5 * time.Minute,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func TestEncodeUser_OmitsPasswordHash(t *testing.T) {
	u := &domain.User{
		ID:           "b8e0c1e4-4a43-4b8e-9a3f-2b1e0d3c9f10",
		Name:         "Ana",
		Email:        "ana@example.com",
		PasswordHash: "$2a$10$secret",
		Active:       true,
		CreatedAt:    time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		UpdatedAt:    time.Date(2026, 2, 3, 4, 5, 6, 0, time.UTC),
	}

	data, err := encodeUser(u)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if strings.Contains(string(data), "secret") {
		t.Fatalf("encoded user leaks password hash: %s", data)
	}

	got, err := decodeUser(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.ID != u.ID || got.Email != u.Email || got.Name != u.Name || !got.Active {
		t.Errorf("decoded %+v, want fields of %+v", got, u)
	}
	if !got.CreatedAt.Equal(u.CreatedAt) || !got.UpdatedAt.Equal(u.UpdatedAt) {
		t.Errorf("timestamps changed: %+v", got)
	}
	if got.PasswordHash != "" {
		t.Errorf("PasswordHash = %q, want empty", got.PasswordHash)
	}
}

func TestDecodeUser_Garbage(t *testing.T) {
	if _, err := decodeUser([]byte("{not json")); err == nil {
		t.Fatal("expected error")
	}
}

func TestUserKey(t *testing.T) {
	if got := userKey("abc"); got != "user:abc" {
		t.Errorf("userKey = %q, want user:abc", got)
	}
}

func TestUserCache_SetThenGet(t *testing.T) {
	rdb := newMemRedis()
	c := newTestCache(rdb)
	ctx := context.Background()

	c.Set(ctx, &domain.User{ID: "u1", Name: "Ana", Active: true})

	got, ok := c.Get(ctx, "u1")
	if !ok || got.Name != "Ana" || !got.Active {
		t.Fatalf("Get = %+v, %v; want cached Ana", got, ok)
	}
	if rdb.ttls["user:u1"] != 5*time.Minute {
		t.Errorf("ttl = %v, want 5m", rdb.ttls["user:u1"])
	}
}

func TestUserCache_StaleFillAfterDelete_IsDropped(t *testing.T) {
	rdb := newMemRedis()
	c := newTestCache(rdb)
	ctx := context.Background()

	// A reader loaded the active row, then a write inactivated the user
	// and invalidated the key before the reader filled the cache.
	stale := &domain.User{ID: "u1", Name: "Ana", Active: true}
	c.Delete(ctx, "u1")
	c.Set(ctx, stale)

	if got, ok := c.Get(ctx, "u1"); ok {
		t.Fatalf("Get = %+v, want miss while the key is invalidated", got)
	}
	if rdb.ttls["user:u1"] != tombstoneTTL {
		t.Errorf("invalidation ttl = %v, want %v", rdb.ttls["user:u1"], tombstoneTTL)
	}
}

func TestUserCache_DeleteOverwritesCachedUser(t *testing.T) {
	rdb := newMemRedis()
	c := newTestCache(rdb)
	ctx := context.Background()

	c.Set(ctx, &domain.User{ID: "u1", Active: true})
	c.Delete(ctx, "u1")

	if _, ok := c.Get(ctx, "u1"); ok {
		t.Fatal("Get after Delete should miss")
	}
}

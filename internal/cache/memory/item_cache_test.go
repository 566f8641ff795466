package memory

import (
	"context"
	"testing"
	"time"

	"github.com/Gunvolt24/medialist/internal/domain"
)

func newItem(id int64) *domain.MediaItem {
	return &domain.MediaItem{
		ItemID: domain.ItemID{ID: id},
		Title:  "track",
		MRL:    "file:///music/track.flac",
	}
}

func TestSetGet_HitMiss(t *testing.T) {
	c := NewLRUCacheTTL(2, 5*time.Minute)
	ctx := context.Background()

	// miss
	if _, ok := c.Get(ctx, domain.ItemID{ID: 1}); ok {
		t.Fatalf("expected miss before Set")
	}

	// hit после Set
	_ = c.Set(ctx, newItem(1))
	got, ok := c.Get(ctx, domain.ItemID{ID: 1})
	if !ok || got.ItemID.ID != 1 {
		t.Fatalf("expected hit for id=1")
	}
}

func TestSet_IgnoresNilAndZeroID(t *testing.T) {
	c := NewLRUCacheTTL(2, 0)
	ctx := context.Background()

	_ = c.Set(ctx, nil)
	_ = c.Set(ctx, &domain.MediaItem{})
	if c.ll.Len() != 0 {
		t.Fatalf("nil/zero-id items should not be cached")
	}
}

func TestTTL_Expiry(t *testing.T) {
	c := NewLRUCacheTTL(2, 100*time.Millisecond)
	ctx := context.Background()

	_ = c.Set(ctx, newItem(5))
	if _, ok := c.Get(ctx, domain.ItemID{ID: 5}); !ok {
		t.Fatalf("expected hit right after Set")
	}
	time.Sleep(150 * time.Millisecond)
	if _, ok := c.Get(ctx, domain.ItemID{ID: 5}); ok {
		t.Fatalf("expected miss after TTL expires")
	}
}

func TestLRUEviction(t *testing.T) {
	c := NewLRUCacheTTL(2, 0) // 0 = без TTL
	ctx := context.Background()

	_ = c.Set(ctx, newItem(1))
	_ = c.Set(ctx, newItem(2))
	// id=1 сделать «свежим»
	if _, ok := c.Get(ctx, domain.ItemID{ID: 1}); !ok {
		t.Fatalf("expected hit for id=1")
	}
	// Добавляем третий — вытеснит id=2 (самый старый)
	_ = c.Set(ctx, newItem(3))

	if _, ok := c.Get(ctx, domain.ItemID{ID: 2}); ok {
		t.Fatalf("expected id=2 to be evicted")
	}
	if _, ok := c.Get(ctx, domain.ItemID{ID: 1}); !ok || c.ll.Len() != 2 {
		t.Fatalf("expected id=1 and id=3 to stay in cache")
	}
}

func TestRemove(t *testing.T) {
	c := NewLRUCacheTTL(2, 0)
	ctx := context.Background()

	_ = c.Set(ctx, newItem(9))
	c.Remove(ctx, domain.ItemID{ID: 9})
	if _, ok := c.Get(ctx, domain.ItemID{ID: 9}); ok {
		t.Fatalf("expected miss after Remove")
	}

	// повторный Remove — no-op
	c.Remove(ctx, domain.ItemID{ID: 9})
}

func TestParentScopedKeys(t *testing.T) {
	c := NewLRUCacheTTL(4, 0)
	ctx := context.Background()

	plain := newItem(1)
	scoped := newItem(1)
	scoped.ItemID.ParentID = 7
	scoped.Title = "scoped"

	_ = c.Set(ctx, plain)
	_ = c.Set(ctx, scoped)

	got, ok := c.Get(ctx, domain.ItemID{ID: 1, ParentID: 7})
	if !ok || got.Title != "scoped" {
		t.Fatalf("parent-scoped entry should be independent, got %+v", got)
	}
	if _, ok := c.Get(ctx, domain.ItemID{ID: 1}); !ok {
		t.Fatalf("unscoped entry should survive")
	}
}

func TestCloneImmutability(t *testing.T) {
	c := NewLRUCacheTTL(1, 0)
	ctx := context.Background()
	_ = c.Set(ctx, newItem(3))

	// меняем то, что вернул Get — не должно влиять на кэш
	first, _ := c.Get(ctx, domain.ItemID{ID: 3})
	first.Title = "changed"

	second, _ := c.Get(ctx, domain.ItemID{ID: 3})
	if second.Title == "changed" {
		t.Fatalf("cache should return clones, not pointers to internal value")
	}
}

package cache

import (
	"context"
	"testing"
	"time"

	"github.com/sling/backend/internal/models"
)

func TestMemoryNameCacheRoundTrip(t *testing.T) {
	c := NewMemoryNameCache(5 * time.Minute)
	ctx := context.Background()

	err := c.SetAll(ctx, map[string]models.AccountName{
		"player1": {AccountName: "player1", GameNames: []string{"Gandalf"}},
	})
	if err != nil {
		t.Fatalf("SetAll: %v", err)
	}

	name, ok, err := c.Get(ctx, "player1")
	if err != nil || !ok {
		t.Fatalf("Get = %v, %v, %v", name, ok, err)
	}
	if name.GameNames[0] != "Gandalf" {
		t.Errorf("got %+v", name)
	}
}

func TestMemoryNameCacheKeyIsCaseInsensitive(t *testing.T) {
	c := NewMemoryNameCache(5 * time.Minute)
	ctx := context.Background()

	if err := c.SetAll(ctx, map[string]models.AccountName{"Player1": {AccountName: "Player1"}}); err != nil {
		t.Fatalf("SetAll: %v", err)
	}
	if _, ok, _ := c.Get(ctx, "player1"); !ok {
		t.Error("lookup must not depend on account name casing")
	}
}

func TestMemoryNameCacheExpiresAfterTTL(t *testing.T) {
	c := NewMemoryNameCache(5 * time.Minute)
	ctx := context.Background()

	base := time.Date(2009, 6, 1, 12, 0, 0, 0, time.UTC)
	now := base
	c.now = func() time.Time { return now }

	if err := c.SetAll(ctx, map[string]models.AccountName{"player1": {AccountName: "player1"}}); err != nil {
		t.Fatalf("SetAll: %v", err)
	}

	now = base.Add(4 * time.Minute)
	if _, ok, _ := c.Get(ctx, "player1"); !ok {
		t.Error("entry expired before the TTL")
	}

	now = base.Add(6 * time.Minute)
	if _, ok, _ := c.Get(ctx, "player1"); ok {
		t.Error("entry survived past the TTL")
	}
}

func TestMemoryNameCacheMissIsNotAnError(t *testing.T) {
	c := NewMemoryNameCache(5 * time.Minute)
	_, ok, err := c.Get(context.Background(), "nobody")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if ok {
		t.Error("empty cache reported a hit")
	}
}

package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/sling/backend/internal/cache"
	"github.com/sling/backend/internal/models"
)

// fakeResolver records every batch it is asked to resolve.
type fakeResolver struct {
	known map[string]models.AccountName
	calls [][]string
}

func (r *fakeResolver) ResolveNames(_ context.Context, accounts []string) (map[string]models.AccountName, error) {
	r.calls = append(r.calls, accounts)
	found := make(map[string]models.AccountName)
	for _, account := range accounts {
		if name, ok := r.known[account]; ok {
			found[account] = name
		}
	}
	return found, nil
}

func TestResolveBatchesMissesIntoOneCall(t *testing.T) {
	resolver := &fakeResolver{known: map[string]models.AccountName{
		"player1": {AccountName: "player1", GameNames: []string{"Gandalf"}},
		"player2": {AccountName: "player2", GameNames: []string{"Frodo"}},
	}}
	dir := NewNameDirectory(cache.NewMemoryNameCache(time.Minute), resolver)

	resolved, err := dir.Resolve(context.Background(), []string{"player1", "player2"})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if len(resolver.calls) != 1 {
		t.Fatalf("expected 1 provider call, got %d", len(resolver.calls))
	}
	if len(resolver.calls[0]) != 2 {
		t.Errorf("expected both misses in one batch, got %v", resolver.calls[0])
	}
	if resolved["player1"].GameNames[0] != "Gandalf" {
		t.Errorf("player1 resolved to %+v", resolved["player1"])
	}
}

func TestResolveServesRepeatsFromCache(t *testing.T) {
	resolver := &fakeResolver{known: map[string]models.AccountName{
		"player1": {AccountName: "player1", GameNames: []string{"Gandalf"}},
	}}
	dir := NewNameDirectory(cache.NewMemoryNameCache(time.Minute), resolver)

	if _, err := dir.Resolve(context.Background(), []string{"player1"}); err != nil {
		t.Fatalf("first Resolve: %v", err)
	}
	if _, err := dir.Resolve(context.Background(), []string{"player1"}); err != nil {
		t.Fatalf("second Resolve: %v", err)
	}
	if len(resolver.calls) != 1 {
		t.Errorf("expected the second lookup to hit the cache, got %d provider calls", len(resolver.calls))
	}
}

func TestResolveDedupesCaseInsensitively(t *testing.T) {
	resolver := &fakeResolver{known: map[string]models.AccountName{}}
	dir := NewNameDirectory(cache.NewMemoryNameCache(time.Minute), resolver)

	resolved, err := dir.Resolve(context.Background(), []string{"player1", "Player1", "", "player1"})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if len(resolver.calls) != 1 || len(resolver.calls[0]) != 1 {
		t.Fatalf("expected one resolve of one account, got %v", resolver.calls)
	}
	if _, ok := resolved["player1"]; !ok {
		t.Error("missing entry for player1")
	}
	if _, ok := resolved["Player1"]; !ok {
		t.Error("every requested spelling must be keyed in the result")
	}
}

// canonicalResolver answers under its own canonical casing, the way a
// provider that title-cases account names would.
type canonicalResolver struct{}

func (canonicalResolver) ResolveNames(_ context.Context, accounts []string) (map[string]models.AccountName, error) {
	out := make(map[string]models.AccountName, len(accounts))
	for _, account := range accounts {
		canonical := strings.ToUpper(account[:1]) + account[1:]
		out[canonical] = models.AccountName{AccountName: canonical, GameNames: []string{"Gandalf"}}
	}
	return out, nil
}

func TestResolveHonorsProviderCanonicalSpelling(t *testing.T) {
	dir := NewNameDirectory(cache.NewMemoryNameCache(time.Minute), canonicalResolver{})

	resolved, err := dir.Resolve(context.Background(), []string{"player1"})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	name := resolved["player1"]
	if name.AccountName != "Player1" {
		t.Errorf("result keyed by requested spelling must carry the canonical record, got %+v", name)
	}
	if len(name.GameNames) == 0 {
		t.Error("canonicalized result fell back to a bare account name")
	}
}

func TestResolveFallsBackToBareAccountName(t *testing.T) {
	resolver := &fakeResolver{known: map[string]models.AccountName{}}
	dir := NewNameDirectory(cache.NewMemoryNameCache(time.Minute), resolver)

	resolved, err := dir.Resolve(context.Background(), []string{"ghost"})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	name, ok := resolved["ghost"]
	if !ok {
		t.Fatal("unknown account must still resolve")
	}
	if name.AccountName != "ghost" || len(name.GameNames) != 0 {
		t.Errorf("fallback = %+v, want bare account name", name)
	}
}

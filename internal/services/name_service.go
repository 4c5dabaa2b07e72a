package services

import (
	"context"
	"strings"

	"github.com/sling/backend/internal/cache"
	"github.com/sling/backend/internal/gameinfo"
	"github.com/sling/backend/internal/logger"
	"github.com/sling/backend/internal/models"
)

// NameDirectory resolves account identifiers to display names through a
// shared TTL cache, batching provider calls so one page of results costs at
// most one resolve round trip.
type NameDirectory struct {
	cache    cache.NameCache
	resolver gameinfo.Resolver
}

func NewNameDirectory(cache cache.NameCache, resolver gameinfo.Resolver) *NameDirectory {
	return &NameDirectory{cache: cache, resolver: resolver}
}

// Resolve returns a name record for every requested account, keyed by the
// exact spelling the caller passed in. Cache misses are resolved in a single
// batch call and written back together. Accounts the provider does not know
// come back as a bare AccountName so callers always have something to
// display.
func (d *NameDirectory) Resolve(ctx context.Context, accounts []string) (map[string]models.AccountName, error) {
	byKey := make(map[string]models.AccountName, len(accounts))
	var misses []string

	for _, account := range accounts {
		key := strings.ToLower(account)
		if account == "" {
			continue
		}
		if _, done := byKey[key]; done {
			continue
		}

		name, ok, err := d.cache.Get(ctx, account)
		if err != nil {
			return nil, err
		}
		if ok {
			byKey[key] = name
			continue
		}
		// Mark the key so a second spelling does not trigger another miss.
		byKey[key] = models.AccountName{AccountName: account}
		misses = append(misses, account)
	}

	if len(misses) > 0 {
		fresh, err := d.resolver.ResolveNames(ctx, misses)
		if err != nil {
			return nil, err
		}

		if err := d.cache.SetAll(ctx, fresh); err != nil {
			// A failed cache write costs an extra provider call later,
			// nothing worse; the page itself is still served.
			logger.WithError(err, "name_directory").Warn("Failed to populate name cache")
		}

		// The provider keys results by its canonical spelling, which may
		// differ from the requested one in case.
		for account, name := range fresh {
			byKey[strings.ToLower(account)] = name
		}
	}

	resolved := make(map[string]models.AccountName, len(accounts))
	for _, account := range accounts {
		if account == "" {
			continue
		}
		resolved[account] = byKey[strings.ToLower(account)]
	}
	return resolved, nil
}

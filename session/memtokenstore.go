package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/allegro/bigcache/v3"
)

type (
	memStore struct {
		cache *bigcache.BigCache
	}
)

// InMemoryTokenStore keeps the token table in a bigcache instance whose
// life window matches ttl. Eviction is approximate, the Manager still
// checks the deadline stored in each entry; the cache only bounds memory.
func InMemoryTokenStore(ttl time.Duration) (TokenStore, error) {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	cache, err := bigcache.New(context.Background(), bigcache.DefaultConfig(ttl))
	if err != nil {
		return nil, fmt.Errorf("session: unable to create token cache, cause %w", err)
	}
	return &memStore{cache: cache}, nil
}

func (m *memStore) Save(ctx context.Context, token string, entry Entry) error {
	buf, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	return m.cache.Set(token, buf)
}

func (m *memStore) Lookup(ctx context.Context, token string) (Entry, bool, error) {
	buf, err := m.cache.Get(token)
	if errors.Is(err, bigcache.ErrEntryNotFound) {
		return Entry{}, false, nil
	} else if err != nil {
		return Entry{}, false, err
	}
	var entry Entry
	if err := json.Unmarshal(buf, &entry); err != nil {
		return Entry{}, false, err
	}
	return entry, true, nil
}

func (m *memStore) Delete(ctx context.Context, token string) error {
	err := m.cache.Delete(token)
	if errors.Is(err, bigcache.ErrEntryNotFound) {
		return nil
	}
	return err
}

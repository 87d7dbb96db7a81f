// Package clientstate はダッシュボードのクライアント単位の状態（選択銘柄・表示設定・利用回数）を保存します。
// 値はJSONで保存し、キーはクライアントIDで名前空間を分けます。
package clientstate

import (
	"context"
	"encoding/json"
	"sync"
	"time"
)

// Provider はクライアントIDごとのストアを返します。
type Provider interface {
	For(clientID string) Store
}

// Store は1クライアント分のキー・値ストアです。
type Store interface {
	// Get はkeyの値をdestへデコードします。キーが存在しない場合はfalseを返します。
	Get(ctx context.Context, key string, dest any) (bool, error)
	// Set はvをJSONにして保存します。
	Set(ctx context.Context, key string, v any) error
	// Delete はkeyを削除します。
	Delete(ctx context.Context, key string) error
}

// DefaultMaxClients はMemoryProviderが保持するクライアント数の既定の上限です。
const DefaultMaxClients = 10000

// MemoryProvider はプロセス内メモリに状態を持つProviderです。Redisがない環境とテストで使います。
// 最後のアクセスからttlを過ぎたクライアントは破棄し、上限を超えると最も古いクライアントから破棄します。
type MemoryProvider struct {
	mu         sync.Mutex
	ttl        time.Duration
	maxClients int
	now        func() time.Time
	lastSweep  time.Time
	stores     map[string]*memoryEntry
}

type memoryEntry struct {
	store    *MemoryStore
	lastSeen time.Time
}

// NewMemoryProvider はMemoryProviderを生成します。
// ttlが0以下ならDefaultTTL、maxClientsが0以下ならDefaultMaxClientsです。
func NewMemoryProvider(ttl time.Duration, maxClients int) *MemoryProvider {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if maxClients <= 0 {
		maxClients = DefaultMaxClients
	}
	return &MemoryProvider{
		ttl:        ttl,
		maxClients: maxClients,
		now:        time.Now,
		stores:     map[string]*memoryEntry{},
	}
}

// For はclientIDのストアを返します。初回呼び出しで作成します。
func (p *MemoryProvider) For(clientID string) Store {
	p.mu.Lock()
	defer p.mu.Unlock()

	now := p.now()
	p.sweep(now)
	e, ok := p.stores[clientID]
	if !ok {
		if len(p.stores) >= p.maxClients {
			p.evictOldest()
		}
		e = &memoryEntry{store: NewMemoryStore()}
		p.stores[clientID] = e
	}
	e.lastSeen = now
	return e.store
}

// Len は保持しているクライアント数を返します。
func (p *MemoryProvider) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.stores)
}

// sweep は期限切れのクライアントを削除します。全件走査は1分またはttlに1回までです。
func (p *MemoryProvider) sweep(now time.Time) {
	if now.Sub(p.lastSweep) < min(p.ttl, time.Minute) {
		return
	}
	p.lastSweep = now
	for id, e := range p.stores {
		if now.Sub(e.lastSeen) > p.ttl {
			delete(p.stores, id)
		}
	}
}

func (p *MemoryProvider) evictOldest() {
	var oldestID string
	var oldest time.Time
	for id, e := range p.stores {
		if oldestID == "" || e.lastSeen.Before(oldest) {
			oldestID, oldest = id, e.lastSeen
		}
	}
	delete(p.stores, oldestID)
}

// MemoryStore はmapによるStore実装です。
type MemoryStore struct {
	mu     sync.RWMutex
	values map[string][]byte
}

// NewMemoryStore は空のMemoryStoreを生成します。
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: map[string][]byte{}}
}

// Get はkeyの値をdestへデコードします。
func (s *MemoryStore) Get(_ context.Context, key string, dest any) (bool, error) {
	s.mu.RLock()
	raw, ok := s.values[key]
	s.mu.RUnlock()
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, dest)
}

// Set はvを保存します。
func (s *MemoryStore) Set(_ context.Context, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.values[key] = raw
	s.mu.Unlock()
	return nil
}

// Delete はkeyを削除します。
func (s *MemoryStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	delete(s.values, key)
	s.mu.Unlock()
	return nil
}

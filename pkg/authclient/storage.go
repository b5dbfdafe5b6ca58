package authclient

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Storage is the key-value store the session layer persists into. The file
// implementation is the default; tests use the in-memory one.
type Storage interface {
	Get(key string) (string, bool)
	Set(key, value string) error
	Delete(key string)
	Clear()
	Len() int
}

/* ------------------ In-memory ------------------ */

type MemoryStore struct {
	mu   sync.RWMutex
	data map[string]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string]string)}
}

func (m *MemoryStore) Get(key string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	return v, ok
}

func (m *MemoryStore) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func (m *MemoryStore) Delete(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
}

func (m *MemoryStore) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = make(map[string]string)
}

func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.data)
}

/* ------------------ File-backed ------------------ */

// FileStore persists the map as a JSON file after every mutation. Losing a
// write is acceptable; the session layer treats storage as a cache.
type FileStore struct {
	mu   sync.Mutex
	path string
	data map[string]string
}

func NewFileStore(path string) (*FileStore, error) {
	fs := &FileStore{path: path, data: make(map[string]string)}
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fs, nil
		}
		return nil, err
	}
	if err := json.Unmarshal(raw, &fs.data); err != nil {
		// Corrupt file: start fresh rather than fail every session.
		fs.data = make(map[string]string)
	}
	return fs, nil
}

func (f *FileStore) Get(key string) (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.data[key]
	return v, ok
}

func (f *FileStore) Set(key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.data[key] = value
	return f.flushLocked()
}

func (f *FileStore) Delete(key string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.data, key)
	_ = f.flushLocked()
}

func (f *FileStore) Clear() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.data = make(map[string]string)
	_ = f.flushLocked()
}

func (f *FileStore) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.data)
}

func (f *FileStore) flushLocked() error {
	raw, err := json.Marshal(f.data)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(f.path), 0o755); err != nil {
		return err
	}
	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, f.path)
}

/* ------------------ Redis-backed ------------------ */

// RedisStore keeps session state in redis under a common prefix so several
// processes can share one signed-in user. Errors degrade to a cache miss.
type RedisStore struct {
	client redis.UniversalClient
	prefix string
	ttl    time.Duration
}

func NewRedisStore(client redis.UniversalClient, prefix string, ttl time.Duration) *RedisStore {
	if prefix == "" {
		prefix = "session:"
	}
	return &RedisStore{client: client, prefix: prefix, ttl: ttl}
}

func (rs *RedisStore) Get(key string) (string, bool) {
	v, err := rs.client.Get(context.Background(), rs.prefix+key).Result()
	if err != nil {
		return "", false
	}
	return v, true
}

func (rs *RedisStore) Set(key, value string) error {
	return rs.client.Set(context.Background(), rs.prefix+key, value, rs.ttl).Err()
}

func (rs *RedisStore) Delete(key string) {
	rs.client.Del(context.Background(), rs.prefix+key)
}

func (rs *RedisStore) Clear() {
	ctx := context.Background()
	iter := rs.client.Scan(ctx, 0, rs.prefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		rs.client.Del(ctx, iter.Val())
	}
}

func (rs *RedisStore) Len() int {
	ctx := context.Background()
	n := 0
	iter := rs.client.Scan(ctx, 0, rs.prefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		n++
	}
	return n
}

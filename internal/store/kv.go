// Package store persists the interview result bundle and user preferences in a key-value backend.
package store

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/rbright/mockprep/internal/config"
)

// KV is the minimal key-value contract every backend implements.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// Backend names a KV implementation.
type Backend string

const (
	BackendFile   Backend = "file"
	BackendRedis  Backend = "redis"
	BackendMemory Backend = "memory"
)

// Options selects and configures a backend.
type Options struct {
	Backend       Backend
	Path          string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	KeyPrefix     string
}

// Open constructs the configured backend.
func Open(opts Options) (KV, error) {
	switch Backend(strings.ToLower(strings.TrimSpace(string(opts.Backend)))) {
	case "", BackendFile:
		path := opts.Path
		if strings.TrimSpace(path) == "" {
			resolved, err := DefaultPath()
			if err != nil {
				return nil, err
			}
			path = resolved
		}
		return NewFile(path), nil
	case BackendRedis:
		return NewRedis(opts.RedisAddr, opts.RedisPassword, opts.RedisDB, opts.KeyPrefix), nil
	case BackendMemory:
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("unknown store backend %q", opts.Backend)
	}
}

// Memory is a process-local KV used in tests and ephemeral runs.
type Memory struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{data: map[string][]byte{}}
}

func (m *Memory) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	value, ok := m.data[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), value...), true, nil
}

func (m *Memory) Set(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = append([]byte(nil), value...)
	return nil
}

func (m *Memory) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

// OptionsFromConfig maps the store config section onto backend options.
func OptionsFromConfig(cfg config.StoreConfig) Options {
	return Options{
		Backend:       Backend(cfg.Backend),
		Path:          cfg.Path,
		RedisAddr:     cfg.RedisAddr,
		RedisPassword: cfg.RedisPassword,
		RedisDB:       cfg.RedisDB,
		KeyPrefix:     cfg.KeyPrefix,
	}
}

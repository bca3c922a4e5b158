package kv

import (
	"context"
	"strings"

	gocache "github.com/patrickmn/go-cache"
)

// Memory keeps values in process memory. It backs tests and the "memory"
// backend where nothing should outlive the run. Entries never expire.
type Memory struct {
	c *gocache.Cache
}

func NewMemory() *Memory {
	return &Memory{c: gocache.New(gocache.NoExpiration, 0)}
}

func (m *Memory) Get(ctx context.Context, key string) (string, bool, error) {
	if strings.TrimSpace(key) == "" {
		return "", false, errEmptyKey
	}
	if err := ctx.Err(); err != nil {
		return "", false, err
	}
	v, ok := m.c.Get(key)
	if !ok {
		return "", false, nil
	}
	s, _ := v.(string)
	return s, true, nil
}

func (m *Memory) Set(ctx context.Context, key, value string) error {
	if strings.TrimSpace(key) == "" {
		return errEmptyKey
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	m.c.Set(key, value, gocache.NoExpiration)
	return nil
}

func (m *Memory) Remove(ctx context.Context, key string) error {
	if strings.TrimSpace(key) == "" {
		return errEmptyKey
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	m.c.Delete(key)
	return nil
}

var _ Store = (*Memory)(nil)

package cache

import (
	"context"
	"time"
)

type noopCache struct{}

// NewNoop returns a cache that stores nothing; every Get misses
func NewNoop() Cache {
	return noopCache{}
}

func (noopCache) Get(context.Context, string, interface{}) (bool, error) { return false, nil }

func (noopCache) Set(context.Context, string, interface{}, time.Duration) error { return nil }

func (noopCache) Delete(context.Context, string) error { return nil }

func (noopCache) DeletePrefix(context.Context, string) error { return nil }

func (noopCache) Stats(context.Context) (*Stats, error) { return &Stats{Provider: ProviderNone}, nil }

func (noopCache) Health(context.Context) error { return nil }

func (noopCache) Close() error { return nil }

package database

import (
	"context"
	"fmt"
	"sync"

	"hirehub/internal/config"

	"go.uber.org/zap"
)

// Provider is the process-wide "open or reuse" factory for the store handle.
// The first Get opens the store; later calls return the same Manager until
// Close, after which Get opens a fresh one.
type Provider struct {
	cfg    config.DatabaseConfig
	logger *zap.Logger

	mu      sync.Mutex
	manager *Manager
}

// NewProvider creates a provider; nothing is opened until Get
func NewProvider(cfg *config.DatabaseConfig, logger *zap.Logger) *Provider {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Provider{cfg: *cfg, logger: logger}
}

// Get returns the shared Manager, opening the store on first use
func (p *Provider) Get(ctx context.Context) (*Manager, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.manager != nil {
		return p.manager, nil
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	manager, err := NewManager(&p.cfg, p.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	p.manager = manager
	return manager, nil
}

// Close releases the shared Manager and resets the provider
func (p *Provider) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.manager == nil {
		return nil
	}
	err := p.manager.Close()
	p.manager = nil
	return err
}

// IsOpen reports whether a Manager is currently held
func (p *Provider) IsOpen() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.manager != nil
}

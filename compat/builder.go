package compat

import (
	"fmt"

	"github.com/lixenwraith/beacon"
)

// Builder creates gnet and fasthttp adapters sharing one beacon logger.
// It can use an existing *beacon.Logger instance or create a new one from a *beacon.Config
type Builder struct {
	logger *beacon.Logger
	cfg    *beacon.Config
	err    error
}

// NewBuilder creates a new adapter builder
func NewBuilder() *Builder {
	return &Builder{}
}

// WithLogger specifies an existing logger to use for the adapters.
// If this is set WithConfig is ignored
func (b *Builder) WithLogger(l *beacon.Logger) *Builder {
	if l == nil {
		b.err = fmt.Errorf("beacon/compat: provided logger cannot be nil")
		return b
	}
	b.logger = l
	return b
}

// WithConfig provides a configuration for a new logger instance.
// Used only if no logger was provided via WithLogger, defaults apply if neither is set
func (b *Builder) WithConfig(cfg *beacon.Config) *Builder {
	b.cfg = cfg
	return b
}

// getLogger resolves the logger to be used, creating one if necessary
func (b *Builder) getLogger() (*beacon.Logger, error) {
	if b.err != nil {
		return nil, b.err
	}
	if b.logger != nil {
		return b.logger, nil
	}

	cfg := b.cfg
	if cfg == nil {
		cfg = beacon.DefaultConfig()
	}
	l, err := beacon.New(cfg)
	if err != nil {
		return nil, err
	}

	// Cache the newly created logger for subsequent builds with this builder
	b.logger = l
	return l, nil
}

// BuildGnet creates a gnet adapter
func (b *Builder) BuildGnet(opts ...GnetOption) (*GnetAdapter, error) {
	l, err := b.getLogger()
	if err != nil {
		return nil, err
	}
	return NewGnetAdapter(l, opts...), nil
}

// BuildFastHTTP creates a fasthttp adapter
func (b *Builder) BuildFastHTTP(opts ...FastHTTPOption) (*FastHTTPAdapter, error) {
	l, err := b.getLogger()
	if err != nil {
		return nil, err
	}
	return NewFastHTTPAdapter(l, opts...), nil
}

// GetLogger returns the underlying *beacon.Logger instance, creating it if needed
func (b *Builder) GetLogger() (*beacon.Logger, error) {
	return b.getLogger()
}

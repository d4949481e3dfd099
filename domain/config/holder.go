package config

import "sync/atomic"

// Holder is a swappable reference to the active DomainConfig. The
// dynamic config watcher replaces the value; engines read it per call.
type Holder struct {
	v atomic.Pointer[DomainConfig]
}

// NewHolder creates a holder seeded with cfg (or the defaults if nil)
func NewHolder(cfg *DomainConfig) *Holder {
	if cfg == nil {
		cfg = DefaultDomainConfig()
	}
	h := &Holder{}
	h.v.Store(cfg)
	return h
}

// Get returns the active configuration
func (h *Holder) Get() *DomainConfig {
	return h.v.Load()
}

// Set replaces the active configuration
func (h *Holder) Set(cfg *DomainConfig) {
	if cfg == nil {
		return
	}
	h.v.Store(cfg)
}

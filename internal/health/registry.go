package health

import "sync"

// Summary is a point-in-time view of the registry.
type Summary struct {
	HealthyCount int             `json:"healthy_count"`
	TotalCount   int             `json:"total_count"`
	Services     map[string]bool `json:"services"`
}

// AllHealthy reports whether every known service is healthy.
// An empty summary is considered healthy.
func (s Summary) AllHealthy() bool {
	return s.HealthyCount == s.TotalCount
}

// Observer is notified after every registry update.
type Observer func(serviceKey string, healthy bool)

// Registry tracks the last-known health of each logical service.
// Writes are last-write-wins and no history is kept. Entries are created on
// first observation and live for the lifetime of the registry.
type Registry struct {
	mu       sync.RWMutex
	services map[string]bool
	observer Observer
}

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// WithObserver registers a callback invoked after each update.
// The callback must not call back into the registry.
func WithObserver(o Observer) RegistryOption {
	return func(r *Registry) {
		r.observer = o
	}
}

// NewRegistry creates an empty registry.
func NewRegistry(opts ...RegistryOption) *Registry {
	r := &Registry{services: make(map[string]bool)}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Update records the latest health of a service. The observer runs under
// the write lock, so observers see updates in registry order.
func (r *Registry) Update(serviceKey string, healthy bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.services[serviceKey] = healthy
	if r.observer != nil {
		r.observer(serviceKey, healthy)
	}
}

// Healthy returns the last-known health of a service and whether it has been observed.
func (r *Registry) Healthy(serviceKey string) (healthy bool, known bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	healthy, known = r.services[serviceKey]
	return healthy, known
}

// Summary returns counts and a copy of the per-service map.
func (r *Registry) Summary() Summary {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s := Summary{
		TotalCount: len(r.services),
		Services:   make(map[string]bool, len(r.services)),
	}
	for key, healthy := range r.services {
		s.Services[key] = healthy
		if healthy {
			s.HealthyCount++
		}
	}
	return s
}

package resilience

import (
	"sync"

	"github.com/sony/gobreaker/v2"
)

// ProviderHealth reports the breaker state of one registered provider.
type ProviderHealth struct {
	Name         string
	CircuitState gobreaker.State
	Counts       gobreaker.Counts
}

// Healthy returns true when the provider's circuit is closed.
func (h ProviderHealth) Healthy() bool {
	return h.CircuitState == gobreaker.StateClosed
}

// Registry tracks provider clients so their health can be surfaced on the
// readiness endpoint.
type Registry struct {
	mu      sync.RWMutex
	clients map[string]*Client
}

// NewRegistry creates an empty provider registry.
func NewRegistry() *Registry {
	return &Registry{clients: make(map[string]*Client)}
}

// Register adds a provider client under its name. Re-registering a name
// replaces the previous client.
func (r *Registry) Register(name string, client *Client) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.clients[name] = client
}

// Health returns the health of every registered provider.
func (r *Registry) Health() []ProviderHealth {
	r.mu.RLock()
	defer r.mu.RUnlock()

	health := make([]ProviderHealth, 0, len(r.clients))
	for name, client := range r.clients {
		health = append(health, ProviderHealth{
			Name:         name,
			CircuitState: client.BreakerState(),
			Counts:       client.BreakerCounts(),
		})
	}
	return health
}

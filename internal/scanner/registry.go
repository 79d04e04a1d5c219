package scanner

import (
	"fmt"
	"sort"

	"github.com/xelth-com/drawerscan/internal/utils"
)

// Registry maps drawer identifiers to their capacity. It is fixed at startup.
type Registry struct {
	capacities map[string]int
}

// NewRegistry normalises identifiers and rejects negative capacities
func NewRegistry(capacities map[string]int) (*Registry, error) {
	r := &Registry{capacities: make(map[string]int, len(capacities))}
	for id, capacity := range capacities {
		key := utils.NormalizeID(id)
		if key == "" {
			return nil, fmt.Errorf("drawer registry: empty drawer id")
		}
		if capacity < 0 {
			return nil, fmt.Errorf("drawer registry: %s has negative capacity %d", key, capacity)
		}
		r.capacities[key] = capacity
	}
	return r, nil
}

// Capacity returns the capacity of a drawer and whether it is registered
func (r *Registry) Capacity(drawerID string) (int, bool) {
	if r == nil {
		return 0, false
	}
	c, ok := r.capacities[utils.NormalizeID(drawerID)]
	return c, ok
}

// Has reports whether the drawer is registered
func (r *Registry) Has(drawerID string) bool {
	_, ok := r.Capacity(drawerID)
	return ok
}

// IDs returns the registered drawer ids in sorted order
func (r *Registry) IDs() []string {
	if r == nil {
		return nil
	}
	ids := make([]string, 0, len(r.capacities))
	for id := range r.capacities {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

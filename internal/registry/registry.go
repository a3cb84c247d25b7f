package registry

import (
	"errors"
	"sort"
	"strings"
)

var ErrUnknownTool = errors.New("unknown toolId")

// Registry maps logical tool identifiers to upstream base URLs. It is
// populated once at process start and read-only afterwards, so concurrent
// lookups need no locking.
type Registry struct {
	tools map[string]string
}

func New(tools map[string]string) *Registry {
	normalized := make(map[string]string, len(tools))
	for id, base := range tools {
		normalized[id] = strings.TrimSuffix(base, "/")
	}
	return &Registry{tools: normalized}
}

// Resolve returns the base URL for toolID. An unknown tool is a first-class
// condition, not an exception.
func (r *Registry) Resolve(toolID string) (string, error) {
	base, ok := r.tools[toolID]
	if !ok {
		return "", ErrUnknownTool
	}
	return base, nil
}

// Tools returns the registered tool identifiers in sorted order.
func (r *Registry) Tools() []string {
	ids := make([]string, 0, len(r.tools))
	for id := range r.tools {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

package tool

import "fmt"

// Registry holds an ordered set of tools, keyed by name. Each tool domain
// builds its own registry and agents merge the ones they need.
type Registry struct {
	tools []Tool
	index map[string]Tool
}

// NewRegistry creates a registry containing the given tools. Duplicate
// names keep the first registration.
func NewRegistry(tools ...Tool) *Registry {
	r := &Registry{index: make(map[string]Tool)}
	for _, t := range tools {
		r.Register(t)
	}
	return r
}

// Register adds a tool. The first tool registered under a name wins.
func (r *Registry) Register(t Tool) {
	if _, exists := r.index[t.Name()]; exists {
		return
	}
	r.tools = append(r.tools, t)
	r.index[t.Name()] = t
}

// Get returns the tool registered under name.
func (r *Registry) Get(name string) (Tool, error) {
	t, ok := r.index[name]
	if !ok {
		return nil, fmt.Errorf("unknown tool %q", name)
	}
	return t, nil
}

// Tools returns the registered tools in registration order.
func (r *Registry) Tools() []Tool {
	out := make([]Tool, len(r.tools))
	copy(out, r.tools)
	return out
}

// Merge returns a new registry containing the tools of all given
// registries, in order.
func Merge(registries ...*Registry) *Registry {
	merged := NewRegistry()
	for _, r := range registries {
		if r == nil {
			continue
		}
		for _, t := range r.tools {
			merged.Register(t)
		}
	}
	return merged
}

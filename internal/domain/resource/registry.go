package resource

import (
	"fmt"
	"regexp"
	"time"
)

var tableNameRegex = regexp.MustCompile(`^[a-z][a-z_]*$`)

// Registry is an ordered, immutable set of descriptors.
type Registry struct {
	order  []Name
	byName map[Name]Descriptor
}

func NewRegistry(items []Descriptor) (*Registry, error) {
	reg := &Registry{
		order:  make([]Name, 0, len(items)),
		byName: make(map[Name]Descriptor, len(items)),
	}
	for _, item := range items {
		if !tableNameRegex.MatchString(string(item.Name)) {
			return nil, fmt.Errorf("invalid resource name %q", item.Name)
		}
		if _, exists := reg.byName[item.Name]; exists {
			return nil, fmt.Errorf("duplicate resource %q", item.Name)
		}
		if item.Endpoint == "" {
			return nil, fmt.Errorf("resource %q has empty endpoint", item.Name)
		}
		if _, err := ParseRefreshPolicy(string(item.Refresh)); err != nil {
			return nil, fmt.Errorf("resource %q: %w", item.Name, err)
		}
		if item.Interval <= 0 {
			return nil, fmt.Errorf("resource %q interval must be > 0", item.Name)
		}
		reg.order = append(reg.order, item.Name)
		reg.byName[item.Name] = item
	}
	return reg, nil
}

func (r *Registry) Get(name Name) (Descriptor, bool) {
	if r == nil {
		return Descriptor{}, false
	}
	item, ok := r.byName[name]
	return item, ok
}

func (r *Registry) All() []Descriptor {
	if r == nil {
		return nil
	}
	out := make([]Descriptor, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.byName[name])
	}
	return out
}

func (r *Registry) Enabled() []Descriptor {
	all := r.All()
	out := all[:0]
	for _, item := range all {
		if item.Enabled {
			out = append(out, item)
		}
	}
	return out
}

// Override changes selected fields of a built-in descriptor.
type Override struct {
	Name     Name
	Enabled  *bool
	Interval time.Duration
	Refresh  RefreshPolicy
}

// ApplyOverrides returns a copy of items with overrides applied by name.
func ApplyOverrides(items []Descriptor, overrides []Override) ([]Descriptor, error) {
	out := append([]Descriptor(nil), items...)
	index := make(map[Name]int, len(out))
	for i, item := range out {
		index[item.Name] = i
	}

	for _, ov := range overrides {
		i, ok := index[ov.Name]
		if !ok {
			return nil, fmt.Errorf("override for unknown resource %q", ov.Name)
		}
		if ov.Enabled != nil {
			out[i].Enabled = *ov.Enabled
		}
		if ov.Interval > 0 {
			out[i].Interval = ov.Interval
		}
		if ov.Refresh != "" {
			policy, err := ParseRefreshPolicy(string(ov.Refresh))
			if err != nil {
				return nil, fmt.Errorf("override %q: %w", ov.Name, err)
			}
			out[i].Refresh = policy
		}
	}
	return out, nil
}

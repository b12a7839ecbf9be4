// Package spout describes the plugins ("spouts") that fetch sources and the
// parameter schema each of them declares. Sources are validated against
// these schemas before they are stored.
package spout

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed spouts.yaml
var builtinSpoutsYAML []byte

// Registry resolves spout names to their descriptors.
type Registry interface {
	// Resolve returns the descriptor registered under name.
	Resolve(name string) (*Descriptor, bool)
	// List returns all descriptors in registration order.
	List() []*Descriptor
}

// StaticRegistry is a Registry over a fixed set of descriptors.
type StaticRegistry struct {
	byName map[string]*Descriptor
	order  []*Descriptor
}

var _ Registry = (*StaticRegistry)(nil)

// NewStaticRegistry builds a registry from descriptors. A descriptor whose
// name was already registered replaces the earlier one in place.
func NewStaticRegistry(descriptors ...*Descriptor) (*StaticRegistry, error) {
	r := &StaticRegistry{byName: make(map[string]*Descriptor, len(descriptors))}
	for _, d := range descriptors {
		if d == nil || d.Name == "" {
			return nil, errors.New("spout name is required")
		}
		if _, exists := r.byName[d.Name]; exists {
			for i, old := range r.order {
				if old.Name == d.Name {
					r.order[i] = d
				}
			}
		} else {
			r.order = append(r.order, d)
		}
		r.byName[d.Name] = d
	}
	return r, nil
}

// Resolve returns the descriptor registered under name.
func (r *StaticRegistry) Resolve(name string) (*Descriptor, bool) {
	d, ok := r.byName[name]
	return d, ok
}

// List returns all descriptors in registration order.
func (r *StaticRegistry) List() []*Descriptor {
	out := make([]*Descriptor, len(r.order))
	copy(out, r.order)
	return out
}

type definitionFile struct {
	Spouts []*Descriptor `yaml:"spouts"`
}

// Parse decodes spout definitions from YAML.
func Parse(data []byte) ([]*Descriptor, error) {
	var file definitionFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse spout definitions: %w", err)
	}
	for i, d := range file.Spouts {
		if d == nil || d.Name == "" {
			return nil, fmt.Errorf("spout #%d: name is required", i+1)
		}
	}
	return file.Spouts, nil
}

// LoadFile reads spout definitions from a YAML file.
func LoadFile(path string) ([]*Descriptor, error) {
	// #nosec G304 -- path comes from operator configuration, not user input
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read spout definitions: %w", err)
	}
	return Parse(data)
}

// Builtin returns the spouts shipped with the application.
func Builtin() ([]*Descriptor, error) {
	return Parse(builtinSpoutsYAML)
}

// NewRegistry returns a registry of the built-in spouts, extended (or
// overridden by name) with the definitions in extraPath when it is set.
func NewRegistry(extraPath string) (*StaticRegistry, error) {
	descriptors, err := Builtin()
	if err != nil {
		return nil, err
	}
	if extraPath != "" {
		extra, err := LoadFile(extraPath)
		if err != nil {
			return nil, err
		}
		descriptors = append(descriptors, extra...)
	}
	return NewStaticRegistry(descriptors...)
}

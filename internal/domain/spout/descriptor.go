package spout

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Descriptor describes a spout: how it is presented to users and which
// parameters a source of this spout accepts.
type Descriptor struct {
	Name        string    `yaml:"name" json:"name"`
	Title       string    `yaml:"title" json:"title"`
	Description string    `yaml:"description" json:"description"`
	Params      ParamList `yaml:"params" json:"params"`
}

// HasParams reports whether the spout accepts any parameter at all.
func (d *Descriptor) HasParams() bool {
	return len(d.Params) > 0
}

// Param returns the declared parameter with the given id.
func (d *Descriptor) Param(id string) (*ParamSpec, bool) {
	for i := range d.Params {
		if d.Params[i].ID == id {
			return &d.Params[i], true
		}
	}
	return nil, false
}

// ParamSpec declares one parameter of a spout.
type ParamSpec struct {
	ID       string `yaml:"-" json:"id"`
	Title    string `yaml:"title" json:"title"`
	Type     string `yaml:"type" json:"type"` // text, password, checkbox or select
	Default  string `yaml:"default" json:"default"`
	Required bool   `yaml:"required" json:"required"`
	// Values lists the choices of a select parameter.
	Values     []string `yaml:"values,omitempty" json:"values,omitempty"`
	Validation Rules    `yaml:"validation" json:"validation"`
}

// ParamList is the ordered parameter schema of a spout. It is empty for
// spouts that take no parameters.
//
// In YAML the schema is written as a mapping from parameter id to its
// declaration, or as `false` when the spout takes no parameters. Mapping
// order is preserved.
type ParamList []ParamSpec

// UnmarshalYAML decodes the mapping form keeping declaration order.
func (pl *ParamList) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		var b bool
		if node.Tag == "!!null" {
			*pl = nil
			return nil
		}
		if err := node.Decode(&b); err != nil || b {
			return fmt.Errorf("line %d: params must be a mapping or false", node.Line)
		}
		*pl = nil
		return nil
	case yaml.MappingNode:
		list := make(ParamList, 0, len(node.Content)/2)
		seen := make(map[string]bool, len(node.Content)/2)
		for i := 0; i+1 < len(node.Content); i += 2 {
			id := node.Content[i].Value
			if seen[id] {
				return fmt.Errorf("line %d: duplicate param %q", node.Content[i].Line, id)
			}
			seen[id] = true

			var spec ParamSpec
			if err := node.Content[i+1].Decode(&spec); err != nil {
				return fmt.Errorf("param %q: %w", id, err)
			}
			spec.ID = id
			if spec.Title == "" {
				spec.Title = id
			}
			list = append(list, spec)
		}
		*pl = list
		return nil
	default:
		return fmt.Errorf("line %d: params must be a mapping or false", node.Line)
	}
}

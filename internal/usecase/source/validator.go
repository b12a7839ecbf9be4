package source

import (
	"strings"

	"github.com/Nike1016/selfoss/internal/domain/entity"
	"github.com/Nike1016/selfoss/internal/domain/spout"
)

// Field keys of validation messages that are not spout parameters.
const (
	FieldTitle = "title"
	FieldType  = "type"
)

// Validator checks submitted source configuration against the parameter
// schema of its spout.
type Validator struct {
	Spouts spout.Registry
}

// Validate returns nil when title, spout and params are acceptable and the
// collected messages keyed by field otherwise.
//
// An unknown spout stops validation: only the title and type messages are
// reported. Params not declared by the spout are ignored. When several rules
// of one param fail, the message of the last failing rule is kept. Rules see
// the textual form of each value (see entity.Param.Text).
func (v *Validator) Validate(title, spoutName string, params entity.Params) entity.FieldErrors {
	errs := entity.FieldErrors{}

	if strings.TrimSpace(title) == "" {
		errs[FieldTitle] = "no text for title given"
	}

	desc, ok := v.Spouts.Resolve(spoutName)
	if !ok {
		errs[FieldType] = "invalid spout type"
		return result(errs)
	}

	if !desc.HasParams() {
		return result(errs)
	}

	for _, p := range desc.Params {
		if !p.Required {
			continue
		}
		if !params.Has(p.ID) {
			errs[p.ID] = "param " + p.Title + " required but not given"
		}
	}

	for _, param := range params {
		p, declared := desc.Param(param.ID)
		if !declared {
			continue
		}
		value := param.Text()
		for _, rule := range p.Validation {
			if !rule.Check(value) {
				errs[param.ID] = rule.Message(p.Title)
			}
		}
	}

	return result(errs)
}

func result(errs entity.FieldErrors) entity.FieldErrors {
	if errs.Valid() {
		return nil
	}
	return errs
}

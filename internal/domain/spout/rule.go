package spout

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Rule is a validation rule a spout declares for one of its parameters.
type Rule int

const (
	RuleAlpha Rule = iota + 1
	RuleEmail
	RuleNumeric
	RuleInt
	RuleAlnum
	RuleNotEmpty
)

var ruleNames = map[Rule]string{
	RuleAlpha:    "alpha",
	RuleEmail:    "email",
	RuleNumeric:  "numeric",
	RuleInt:      "int",
	RuleAlnum:    "alnum",
	RuleNotEmpty: "notempty",
}

// alpha and alnum match the whole value: letters (and digits for alnum) plus
// '.', '_' and the backspace control character.
var (
	alphaPattern   = regexp.MustCompile(`^[A-Za-z._\x08]+$`)
	alnumPattern   = regexp.MustCompile(`^[A-Za-z0-9._\x08]+$`)
	emailPattern   = regexp.MustCompile(`^[^0-9][a-zA-Z0-9_]+([.][a-zA-Z0-9_]+)*[@][a-zA-Z0-9_]+([.][a-zA-Z0-9_]+)*[.][a-zA-Z]{2,4}$`)
	numericPattern = regexp.MustCompile(`^\s*[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?\s*$`)
)

// ParseRule maps a rule name as written in spout definitions to a Rule.
func ParseRule(name string) (Rule, error) {
	for r, n := range ruleNames {
		if n == name {
			return r, nil
		}
	}
	return 0, fmt.Errorf("unknown validation rule %q", name)
}

// String returns the rule name used in spout definitions.
func (r Rule) String() string {
	if n, ok := ruleNames[r]; ok {
		return n
	}
	return fmt.Sprintf("Rule(%d)", int(r))
}

// Check reports whether value satisfies the rule.
func (r Rule) Check(value string) bool {
	switch r {
	case RuleAlpha:
		return alphaPattern.MatchString(value)
	case RuleEmail:
		return emailPattern.MatchString(value)
	case RuleNumeric:
		return isNumeric(value)
	case RuleInt:
		return isInteger(value)
	case RuleAlnum:
		return alnumPattern.MatchString(value)
	case RuleNotEmpty:
		return strings.TrimSpace(value) != ""
	}
	return false
}

// Message returns the user-facing error for a value of the parameter titled
// title that failed the rule.
func (r Rule) Message(title string) string {
	switch r {
	case RuleAlpha:
		return "only alphabetic characters allowed for " + title
	case RuleEmail:
		return title + " is not a valid email address"
	case RuleNumeric:
		return "only numeric values allowed for " + title
	case RuleInt:
		return "only integer values allowed for " + title
	case RuleAlnum:
		return "only alphanumeric values allowed for " + title
	case RuleNotEmpty:
		return "empty value for " + title + " not allowed"
	}
	return "invalid value for " + title
}

// MarshalText writes the rule by name in JSON and YAML output.
func (r Rule) MarshalText() ([]byte, error) {
	if _, ok := ruleNames[r]; !ok {
		return nil, fmt.Errorf("unknown validation rule %d", int(r))
	}
	return []byte(r.String()), nil
}

// UnmarshalYAML reads a rule name.
func (r *Rule) UnmarshalYAML(node *yaml.Node) error {
	var name string
	if err := node.Decode(&name); err != nil {
		return err
	}
	parsed, err := ParseRule(name)
	if err != nil {
		return fmt.Errorf("line %d: %w", node.Line, err)
	}
	*r = parsed
	return nil
}

// Rules is the ordered rule list of a parameter.
// In YAML it may be written as a single rule name or as a sequence.
type Rules []Rule

// UnmarshalYAML accepts both `validation: notempty` and `validation: [alnum, notempty]`.
func (rs *Rules) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		if node.Tag == "!!null" || node.Value == "" {
			*rs = nil
			return nil
		}
		var r Rule
		if err := node.Decode(&r); err != nil {
			return err
		}
		*rs = Rules{r}
		return nil
	}
	var list []Rule
	if err := node.Decode(&list); err != nil {
		return err
	}
	*rs = list
	return nil
}

func isNumeric(value string) bool {
	return numericPattern.MatchString(value)
}

// isInteger accepts numeric values without a fractional part, so "12" and
// "1e3" pass while "12.5" does not.
func isInteger(value string) bool {
	if !isNumeric(value) {
		return false
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return false
	}
	return f == math.Trunc(f) && f >= math.MinInt64 && f <= math.MaxInt64
}

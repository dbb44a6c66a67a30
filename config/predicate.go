package config

import (
	"fmt"
	"strings"
)

// Predicate is a single string-matching rule. Exactly one field must be
// set. A list of predicates matches a name when any predicate does.
type Predicate struct {
	Contains   string `yaml:"contains,omitempty"`
	StartsWith string `yaml:"starts_with,omitempty"`
	EndsWith   string `yaml:"ends_with,omitempty"`
	Equal      string `yaml:"equal,omitempty"`
	// IEqual matches case-insensitively.
	IEqual string `yaml:"iequal,omitempty"`
}

// Evaluate reports whether the predicate matches the given name.
func (p Predicate) Evaluate(name string) bool {
	switch {
	case p.Contains != "":
		return strings.Contains(name, p.Contains)
	case p.StartsWith != "":
		return strings.HasPrefix(name, p.StartsWith)
	case p.EndsWith != "":
		return strings.HasSuffix(name, p.EndsWith)
	case p.Equal != "":
		return name == p.Equal
	case p.IEqual != "":
		return strings.EqualFold(name, p.IEqual)
	}
	return false
}

// validate ensures exactly one matching rule is set.
func (p Predicate) validate() error {
	set := 0
	for _, v := range []string{p.Contains, p.StartsWith, p.EndsWith, p.Equal, p.IEqual} {
		if v != "" {
			set++
		}
	}
	if set != 1 {
		return fmt.Errorf("config: predicate must set exactly one of contains/starts_with/ends_with/equal/iequal, got %d", set)
	}
	return nil
}

// AnyMatch reports whether any predicate in the list matches the name. An
// empty list matches nothing: an unfiltered metric is a disabled metric.
func AnyMatch(preds []Predicate, name string) bool {
	for _, p := range preds {
		if p.Evaluate(name) {
			return true
		}
	}
	return false
}

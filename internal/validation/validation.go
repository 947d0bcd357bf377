package validation

import (
	"bytes"
	"encoding/json"
	"math"

	"github.com/go-playground/validator/v10"
)

// Type is the expected JSON type of a field.
type Type int

const (
	String Type = iota
	Numeric
	Integer
	Boolean
)

// Rule describes the constraints for a single payload field.
type Rule struct {
	Field    string
	Label    string
	Type     Type
	Required bool
	Nullable bool
	// Tag is an optional validator/v10 constraint applied to the decoded
	// value, e.g. "max=255" or "gte=0".
	Tag string
}

// RuleSet validates raw request field maps against an ordered list of
// rules. Fields not covered by any rule are stripped from the result.
type RuleSet struct {
	rules    []Rule
	validate *validator.Validate
}

func NewRuleSet(rules ...Rule) *RuleSet {
	return &RuleSet{
		rules:    rules,
		validate: validator.New(),
	}
}

var nullLiteral = []byte("null")

// Validate checks the raw field map against the rule set and returns the
// validated values keyed by field name. Explicit JSON nulls come back as
// nil values. When partial is true (update semantics) absent fields are
// skipped instead of failing the required rule.
func (rs *RuleSet) Validate(input map[string]json.RawMessage, partial bool) (map[string]any, *Errors) {
	out := make(map[string]any)
	errs := NewErrors()

	for _, r := range rs.rules {
		raw, present := input[r.Field]

		if !present {
			if r.Required && !partial {
				errs.Add(r.Field, Message("required", r.Label))
			}
			continue
		}

		if bytes.Equal(bytes.TrimSpace(raw), nullLiteral) {
			if r.Nullable {
				out[r.Field] = nil
				continue
			}
			errs.Add(r.Field, Message("required", r.Label))
			continue
		}

		value, ok := rs.decode(r, raw, errs)
		if !ok {
			continue
		}
		if !rs.checkConstraint(r, value, errs) {
			continue
		}
		out[r.Field] = value
	}

	return out, errs
}

// decode unmarshals the raw value according to the rule's expected type,
// recording a localized type error on mismatch.
func (rs *RuleSet) decode(r Rule, raw json.RawMessage, errs *Errors) (any, bool) {
	switch r.Type {
	case String:
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			errs.Add(r.Field, Message("string", r.Label))
			return nil, false
		}
		if r.Required && s == "" {
			errs.Add(r.Field, Message("required", r.Label))
			return nil, false
		}
		return s, true

	case Numeric:
		var f float64
		if err := json.Unmarshal(raw, &f); err != nil {
			errs.Add(r.Field, Message("numeric", r.Label))
			return nil, false
		}
		return f, true

	case Integer:
		var f float64
		if err := json.Unmarshal(raw, &f); err != nil {
			errs.Add(r.Field, Message("integer", r.Label))
			return nil, false
		}
		if f != math.Trunc(f) || f < math.MinInt64 || f > math.MaxInt64 {
			errs.Add(r.Field, Message("integer", r.Label))
			return nil, false
		}
		return int(f), true

	case Boolean:
		var b bool
		if err := json.Unmarshal(raw, &b); err != nil {
			errs.Add(r.Field, Message("boolean", r.Label))
			return nil, false
		}
		return b, true
	}

	return nil, false
}

// checkConstraint runs the rule's validator tag (if any) against the
// decoded value and records a localized message on failure.
func (rs *RuleSet) checkConstraint(r Rule, value any, errs *Errors) bool {
	if r.Tag == "" {
		return true
	}

	err := rs.validate.Var(value, r.Tag)
	if err == nil {
		return true
	}

	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok || len(validationErrors) == 0 {
		errs.Add(r.Field, Message("", r.Label))
		return false
	}

	ve := validationErrors[0]
	switch ve.Tag() {
	case "max":
		errs.Add(r.Field, Message("max", r.Label, ve.Param()))
	case "min", "gte":
		errs.Add(r.Field, Message("min", r.Label, ve.Param()))
	default:
		errs.Add(r.Field, Message("", r.Label))
	}
	return false
}

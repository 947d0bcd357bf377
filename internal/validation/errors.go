package validation

import "encoding/json"

// Errors accumulates field validation messages, keeping the order in
// which fields first failed so First() is deterministic.
type Errors struct {
	order  []string
	fields map[string][]string
}

func NewErrors() *Errors {
	return &Errors{fields: make(map[string][]string)}
}

// Add appends a message for the given field.
func (e *Errors) Add(field, message string) {
	if _, ok := e.fields[field]; !ok {
		e.order = append(e.order, field)
	}
	e.fields[field] = append(e.fields[field], message)
}

// Has reports whether the field already failed a rule.
func (e *Errors) Has(field string) bool {
	_, ok := e.fields[field]
	return ok
}

// Empty reports whether no field failed.
func (e *Errors) Empty() bool {
	return len(e.fields) == 0
}

// First returns the first message recorded across all fields. It is the
// top-level human-readable message of a 422 response.
func (e *Errors) First() string {
	if len(e.order) == 0 {
		return ""
	}
	return e.fields[e.order[0]][0]
}

// Fields returns the field -> messages map.
func (e *Errors) Fields() map[string][]string {
	return e.fields
}

func (e *Errors) MarshalJSON() ([]byte, error) {
	return json.Marshal(e.fields)
}

// Error is the failure result of validating a request payload. It carries
// the full field-keyed message map; the boundary surfaces it as a 422.
type Error struct {
	Errors *Errors
}

func NewError(errs *Errors) *Error {
	return &Error{Errors: errs}
}

func (e *Error) Error() string {
	return e.Errors.First()
}

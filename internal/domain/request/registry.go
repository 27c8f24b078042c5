// Package request declares the request shapes accepted by the service and
// the schema machinery that validates them. A schema is an ordered registry
// of named field validators, built once per shape at startup and shared
// read-only across requests.
package request

import (
	"fmt"
	"time"

	"github.com/okian/clientscore/internal/domain/field"
)

// Registry is an ordered mapping from field name to its validator. The
// order only matters for deterministic error reporting.
type Registry struct {
	names  []string
	fields map[string]field.Field
}

// NewRegistry creates an empty schema registry.
func NewRegistry() *Registry {
	return &Registry{fields: make(map[string]field.Field)}
}

// Register adds a named validator. Registering the same name twice replaces
// the validator but keeps the original position.
func (r *Registry) Register(name string, f field.Field) *Registry {
	if _, ok := r.fields[name]; !ok {
		r.names = append(r.names, name)
	}
	r.fields[name] = f
	return r
}

// Names returns the field names in registration order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.names))
	copy(out, r.names)
	return out
}

// Lookup returns the validator registered under name.
func (r *Registry) Lookup(name string) (field.Field, bool) {
	f, ok := r.fields[name]
	return f, ok
}

// Validate runs every registered validator against raw. It never
// short-circuits: all fields are attempted so the caller receives the full
// error list in one pass.
func (r *Registry) Validate(raw map[string]any) Result {
	res := Result{clean: make(map[string]any, len(r.names))}
	for _, name := range r.names {
		v, err := r.fields[name].Clean(raw[name])
		if err != nil {
			res.errors = append(res.errors, FieldError{Field: name, Message: err.Error()})
			continue
		}
		res.clean[name] = v
	}
	return res
}

// FieldError is one validation failure attached to a named field. An empty
// Field marks a request-level failure such as a missing combination.
type FieldError struct {
	Field   string
	Message string
}

func (e FieldError) String() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("Field: %s. %s", e.Field, e.Message)
}

// Result is the outcome of one validation pass: either a map of normalized
// values or an ordered list of errors. Exactly one side is meaningful.
type Result struct {
	clean  map[string]any
	errors []FieldError
}

// Valid reports whether the pass produced no errors.
func (r Result) Valid() bool { return len(r.errors) == 0 }

// Errors returns the ordered validation failures.
func (r Result) Errors() []FieldError { return r.errors }

// Messages renders the failures as payload strings.
func (r Result) Messages() []string {
	out := make([]string, len(r.errors))
	for i, e := range r.errors {
		out[i] = e.String()
	}
	return out
}

// Has reports whether name validated to a present, non-nil value. A zero
// value such as gender code 0 still counts as present.
func (r Result) Has(name string) bool {
	v, ok := r.clean[name]
	return ok && v != nil
}

// Value returns the normalized value for name, or nil.
func (r Result) Value(name string) any { return r.clean[name] }

// Str returns the normalized string for name, or "" when absent.
func (r Result) Str(name string) string {
	s, _ := r.clean[name].(string)
	return s
}

// Int returns the normalized integer for name.
func (r Result) Int(name string) (int, bool) {
	n, ok := r.clean[name].(int)
	return n, ok
}

// Date returns the normalized date for name.
func (r Result) Date(name string) (time.Time, bool) {
	t, ok := r.clean[name].(time.Time)
	return t, ok
}

// IDs returns the normalized identifier list for name, or nil.
func (r Result) IDs(name string) []int {
	ids, _ := r.clean[name].([]int)
	return ids
}

// Args returns the normalized nested arguments for name, or nil.
func (r Result) Args(name string) map[string]any {
	m, _ := r.clean[name].(map[string]any)
	return m
}

func (r *Result) fail(name string, msg string) {
	r.errors = append(r.errors, FieldError{Field: name, Message: msg})
}

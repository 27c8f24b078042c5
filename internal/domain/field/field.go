// Package field provides self-contained value validators used to build
// declarative request schemas. Each validator checks one raw value coming
// from a decoded JSON body and normalizes it to a canonical in-memory form.
package field

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"time"
)

// DateLayout is the wire format for date fields.
const DateLayout = "02.01.2006"

// Gender codes accepted by the Gender validator.
const (
	GenderUnknown = 0
	GenderMale    = 1
	GenderFemale  = 2
)

// GenderNames maps recognized gender codes to their labels.
var GenderNames = map[int]string{
	GenderUnknown: "unknown",
	GenderMale:    "male",
	GenderFemale:  "female",
}

// maxBirthdayAge bounds how far in the past a birthday may lie.
const maxBirthdayAge = 70

var phonePattern = regexp.MustCompile(`^7[0-9]{10}$`)

// Field validates and normalizes a single raw value. Clean returns the
// canonical value on success; on failure the error wraps one of this
// package's sentinel kinds. A nil raw value means the field was absent.
type Field interface {
	Clean(raw any) (any, error)

	// Required reports whether an absent value is a validation failure.
	Required() bool

	// Nullable reports whether a canonical empty value is accepted.
	Nullable() bool
}

// Option configures the required/nullable flags shared by all validators.
// The defaults mirror the strictest mode: required and non-nullable.
type Option func(*base)

// Optional marks the field as allowed to be absent.
func Optional() Option {
	return func(b *base) { b.required = false }
}

// Nullable marks the field as accepting a canonical empty value.
func Nullable() Option {
	return func(b *base) { b.nullable = true }
}

// base carries the presence checks common to every validator.
type base struct {
	required bool
	nullable bool
}

func newBase(opts ...Option) base {
	b := base{required: true, nullable: false}
	for _, opt := range opts {
		opt(&b)
	}
	return b
}

func (b base) Required() bool { return b.required }
func (b base) Nullable() bool { return b.nullable }

// checkPresence enforces the required/nullable contract. It returns
// (done=true) when validation should stop early with the given result:
// either a failure, or success with a nil canonical value for an absent
// optional field.
func (b base) checkPresence(raw any) (done bool, err error) {
	if raw == nil {
		if b.required {
			return true, ErrRequired
		}
		return true, nil
	}
	if isEmptyValue(raw) && !b.nullable {
		return true, ErrEmptyValue
	}
	return false, nil
}

// isEmptyValue reports whether raw is one of the canonical empty forms:
// empty string, empty list, empty mapping.
func isEmptyValue(raw any) bool {
	switch v := raw.(type) {
	case string:
		return v == ""
	case []any:
		return len(v) == 0
	case map[string]any:
		return len(v) == 0
	default:
		return false
	}
}

// intValue extracts an integer from the loosely-typed forms a decoded JSON
// body can carry. Floats are accepted only when integral; bool is never an
// integer.
func intValue(raw any) (int, bool) {
	switch v := raw.(type) {
	case int:
		return v, true
	case int32:
		return int(v), true
	case int64:
		return int(v), true
	case float64:
		if v == float64(int64(v)) {
			return int(v), true
		}
		return 0, false
	case json.Number:
		n, err := v.Int64()
		if err != nil {
			return 0, false
		}
		return int(n), true
	default:
		return 0, false
	}
}

// Char validates free-text values.
type Char struct {
	base
}

// NewChar creates a text validator.
func NewChar(opts ...Option) *Char {
	return &Char{base: newBase(opts...)}
}

func (f *Char) Clean(raw any) (any, error) {
	if done, err := f.checkPresence(raw); done {
		return nil, err
	}
	s, ok := raw.(string)
	if !ok {
		return nil, fmt.Errorf("%w: must be a string", ErrType)
	}
	return s, nil
}

// Arguments validates the opaque nested argument structure of a method
// request. The content is validated later by the method's own schema.
type Arguments struct {
	base
}

// NewArguments creates an arguments validator.
func NewArguments(opts ...Option) *Arguments {
	return &Arguments{base: newBase(opts...)}
}

func (f *Arguments) Clean(raw any) (any, error) {
	if done, err := f.checkPresence(raw); done {
		return nil, err
	}
	m, ok := raw.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: must be an object", ErrType)
	}
	return m, nil
}

// Email validates text values that must contain an @ character.
type Email struct {
	base
}

// NewEmail creates an email validator.
func NewEmail(opts ...Option) *Email {
	return &Email{base: newBase(opts...)}
}

func (f *Email) Clean(raw any) (any, error) {
	if done, err := f.checkPresence(raw); done {
		return nil, err
	}
	s, ok := raw.(string)
	if !ok {
		return nil, fmt.Errorf("%w: must be a string", ErrType)
	}
	for _, r := range s {
		if r == '@' {
			return s, nil
		}
	}
	return nil, fmt.Errorf("%w: must include @", ErrFormat)
}

// Phone validates phone numbers given as text or as an integer and
// normalizes them to a string of 11 digits starting with 7.
type Phone struct {
	base
}

// NewPhone creates a phone validator.
func NewPhone(opts ...Option) *Phone {
	return &Phone{base: newBase(opts...)}
}

func (f *Phone) Clean(raw any) (any, error) {
	if done, err := f.checkPresence(raw); done {
		return nil, err
	}
	var s string
	switch v := raw.(type) {
	case string:
		s = v
	default:
		n, ok := intValue(raw)
		if !ok {
			return nil, fmt.Errorf("%w: must be a string or an integer", ErrType)
		}
		s = strconv.Itoa(n)
	}
	if !phonePattern.MatchString(s) {
		return nil, fmt.Errorf("%w: phone number %q is invalid", ErrFormat, s)
	}
	return s, nil
}

// Date validates calendar dates in DD.MM.YYYY form.
type Date struct {
	base
}

// NewDate creates a date validator.
func NewDate(opts ...Option) *Date {
	return &Date{base: newBase(opts...)}
}

func (f *Date) Clean(raw any) (any, error) {
	if done, err := f.checkPresence(raw); done {
		return nil, err
	}
	return parseDate(raw)
}

func parseDate(raw any) (any, error) {
	s, ok := raw.(string)
	if !ok {
		return nil, fmt.Errorf("%w: must be a string", ErrType)
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return nil, fmt.Errorf("%w: date must have format DD.MM.YYYY", ErrFormat)
	}
	return t, nil
}

// Birthday validates dates that must lie within the last 70 years.
// The clock is injectable so age boundaries can be pinned in tests.
type Birthday struct {
	base
	now func() time.Time
}

// BirthdayOption configures a Birthday validator beyond the shared flags.
type BirthdayOption func(*Birthday)

// WithClock replaces the wall clock used for the age bound.
func WithClock(now func() time.Time) BirthdayOption {
	return func(f *Birthday) {
		if now != nil {
			f.now = now
		}
	}
}

// NewBirthday creates a birth-date validator.
func NewBirthday(opts ...Option) *Birthday {
	return &Birthday{base: newBase(opts...), now: time.Now}
}

// NewBirthdayWith creates a birth-date validator with extra options.
func NewBirthdayWith(opts []Option, extra ...BirthdayOption) *Birthday {
	f := NewBirthday(opts...)
	for _, opt := range extra {
		opt(f)
	}
	return f
}

func (f *Birthday) Clean(raw any) (any, error) {
	if done, err := f.checkPresence(raw); done {
		return nil, err
	}
	v, err := parseDate(raw)
	if err != nil {
		return nil, err
	}
	t := v.(time.Time)
	oldest := f.now().AddDate(-maxBirthdayAge, 0, 0)
	if t.Before(oldest) {
		return nil, fmt.Errorf("%w: birthday must be within the last %d years", ErrRange, maxBirthdayAge)
	}
	return t, nil
}

// Gender validates the enumerated gender code.
type Gender struct {
	base
}

// NewGender creates a gender validator.
func NewGender(opts ...Option) *Gender {
	return &Gender{base: newBase(opts...)}
}

func (f *Gender) Clean(raw any) (any, error) {
	if done, err := f.checkPresence(raw); done {
		return nil, err
	}
	n, ok := intValue(raw)
	if !ok {
		return nil, fmt.Errorf("%w: must be an integer", ErrType)
	}
	if _, ok := GenderNames[n]; !ok {
		return nil, fmt.Errorf("%w: gender must be one of %d, %d, %d", ErrRange, GenderUnknown, GenderMale, GenderFemale)
	}
	return n, nil
}

// ClientIDs validates a list of numeric client identifiers and normalizes
// it to []int.
type ClientIDs struct {
	base
}

// NewClientIDs creates a client-identifier list validator.
func NewClientIDs(opts ...Option) *ClientIDs {
	return &ClientIDs{base: newBase(opts...)}
}

func (f *ClientIDs) Clean(raw any) (any, error) {
	if done, err := f.checkPresence(raw); done {
		return nil, err
	}
	var ids []int
	switch v := raw.(type) {
	case []any:
		ids = make([]int, 0, len(v))
		for _, item := range v {
			n, ok := intValue(item)
			if !ok {
				return nil, fmt.Errorf("%w: items must be integers", ErrElementType)
			}
			ids = append(ids, n)
		}
	case []int:
		ids = append(ids, v...)
	default:
		return nil, fmt.Errorf("%w: must be a list", ErrType)
	}
	return ids, nil
}

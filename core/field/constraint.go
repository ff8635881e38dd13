package field

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

// Validator checks a loaded value. A non-nil error's text is reported as
// the field's error message.
type Validator interface {
	Validate(value any) error
}

// ValidatorFunc adapts a function to Validator.
type ValidatorFunc func(value any) error

func (f ValidatorFunc) Validate(value any) error { return f(value) }

// Constraint is a declarative validation rule for a field.
type Constraint struct {
	// Type is the constraint type (min, max, min_length, max_length, pattern, etc.)
	Type ConstraintType `yaml:"type" json:"type"`

	// Value is the constraint parameter (number, regex pattern, etc.)
	Value any `yaml:"value" json:"value"`

	// Message is the custom error message (optional).
	Message string `yaml:"message,omitempty" json:"message,omitempty"`
}

// ConstraintType identifies the type of constraint.
type ConstraintType string

const (
	// Numeric constraints
	ConstraintMin ConstraintType = "min" // Minimum numeric value
	ConstraintMax ConstraintType = "max" // Maximum numeric value

	// String constraints
	ConstraintMinLength ConstraintType = "min_length" // Minimum string length
	ConstraintMaxLength ConstraintType = "max_length" // Maximum string length
	ConstraintPattern   ConstraintType = "pattern"    // Regex pattern match

	ConstraintNotEmpty ConstraintType = "not_empty" // String must not be empty/whitespace
	ConstraintOneOf    ConstraintType = "one_of"    // Value must be one of list
)

// IsKnownConstraint reports whether t is a supported constraint type.
func IsKnownConstraint(t ConstraintType) bool {
	switch t {
	case ConstraintMin, ConstraintMax, ConstraintMinLength, ConstraintMaxLength,
		ConstraintPattern, ConstraintNotEmpty, ConstraintOneOf:
		return true
	default:
		return false
	}
}

// ConstraintError represents a failed constraint.
type ConstraintError struct {
	Constraint ConstraintType `json:"constraint"`
	Value      any            `json:"value,omitempty"`
	Message    string         `json:"message"`
}

func (e *ConstraintError) Error() string {
	return e.Message
}

// Validate implements Validator.
func (c Constraint) Validate(value any) error {
	if err := Check(value, c); err != nil {
		return err
	}
	return nil
}

// Check validates a value against a single constraint.
// Misconfigured constraints and values of the wrong shape are skipped;
// type checking is the field's job.
func Check(value any, c Constraint) *ConstraintError {
	switch c.Type {
	case ConstraintMin:
		return checkMin(value, c)
	case ConstraintMax:
		return checkMax(value, c)
	case ConstraintMinLength:
		return checkMinLength(value, c)
	case ConstraintMaxLength:
		return checkMaxLength(value, c)
	case ConstraintPattern:
		return checkPattern(value, c)
	case ConstraintNotEmpty:
		return checkNotEmpty(value, c)
	case ConstraintOneOf:
		return checkOneOf(value, c)
	default:
		return nil
	}
}

func (c Constraint) fail(value any, format string, args ...any) *ConstraintError {
	msg := c.Message
	if msg == "" {
		msg = fmt.Sprintf(format, args...)
	}
	return &ConstraintError{Constraint: c.Type, Value: value, Message: msg}
}

func checkMin(value any, c Constraint) *ConstraintError {
	min, err := toNumber(c.Value)
	if err != nil {
		return nil
	}
	val, err := toNumber(value)
	if err != nil {
		return nil
	}
	if val < min {
		return c.fail(value, "Must be greater than or equal to %v.", min)
	}
	return nil
}

func checkMax(value any, c Constraint) *ConstraintError {
	max, err := toNumber(c.Value)
	if err != nil {
		return nil
	}
	val, err := toNumber(value)
	if err != nil {
		return nil
	}
	if val > max {
		return c.fail(value, "Must be less than or equal to %v.", max)
	}
	return nil
}

func checkMinLength(value any, c Constraint) *ConstraintError {
	minLen, err := toLength(c.Value)
	if err != nil {
		return nil
	}
	str, ok := value.(string)
	if !ok {
		return nil
	}
	if utf8.RuneCountInString(str) < minLen {
		return c.fail(len(str), "Shorter than minimum length %d.", minLen)
	}
	return nil
}

func checkMaxLength(value any, c Constraint) *ConstraintError {
	maxLen, err := toLength(c.Value)
	if err != nil {
		return nil
	}
	str, ok := value.(string)
	if !ok {
		return nil
	}
	if utf8.RuneCountInString(str) > maxLen {
		return c.fail(len(str), "Longer than maximum length %d.", maxLen)
	}
	return nil
}

func checkPattern(value any, c Constraint) *ConstraintError {
	pattern, ok := c.Value.(string)
	if !ok {
		return nil
	}
	str, ok := value.(string)
	if !ok {
		return nil
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil
	}
	if !re.MatchString(str) {
		return c.fail(value, "String does not match expected pattern.")
	}
	return nil
}

func checkNotEmpty(value any, c Constraint) *ConstraintError {
	str, ok := value.(string)
	if !ok {
		return nil
	}
	if strings.TrimSpace(str) == "" {
		return c.fail(value, "Must not be empty.")
	}
	return nil
}

func checkOneOf(value any, c Constraint) *ConstraintError {
	var allowed []string
	switch vals := c.Value.(type) {
	case []any:
		for _, v := range vals {
			allowed = append(allowed, fmt.Sprintf("%v", v))
		}
	case []string:
		allowed = vals
	default:
		return nil
	}

	strVal := fmt.Sprintf("%v", value)
	for _, a := range allowed {
		if a == strVal {
			return nil
		}
	}
	return c.fail(value, "Must be one of: %s.", strings.Join(allowed, ", "))
}

// toNumber converts numeric values and decimals to float64.
func toNumber(v any) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case int32:
		return float64(n), nil
	case decimal.Decimal:
		return n.InexactFloat64(), nil
	case string:
		return strconv.ParseFloat(n, 64)
	default:
		return 0, fmt.Errorf("cannot convert %T to a number", v)
	}
}

func toLength(v any) (int, error) {
	switch n := v.(type) {
	case int:
		return n, nil
	case int64:
		return int(n), nil
	case float64:
		return int(n), nil
	case string:
		return strconv.Atoi(n)
	default:
		return 0, fmt.Errorf("cannot convert %T to a length", v)
	}
}

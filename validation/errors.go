package validation

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidInput marks a field outside its validated domain.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUndefinedResult marks a derived value the next computation step is
	// not defined for, such as a probability outside [0,1].
	ErrUndefinedResult = errors.New("undefined result")
)

// FieldError reports one rejected field. It wraps ErrInvalidInput.
type FieldError struct {
	Field  string `json:"field"`
	Value  any    `json:"value"`
	Reason string `json:"reason"`
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s (got %v)", e.Field, e.Reason, e.Value)
}

func (e *FieldError) Unwrap() error {
	return ErrInvalidInput
}

// Errors aggregates several field errors.
type Errors []*FieldError

func (es Errors) Error() string {
	parts := make([]string, len(es))
	for i, e := range es {
		parts[i] = e.Error()
	}
	return fmt.Sprintf("%d invalid field(s): %s", len(es), strings.Join(parts, "; "))
}

func (es Errors) Unwrap() []error {
	out := make([]error, len(es))
	for i, e := range es {
		out[i] = e
	}
	return out
}

func (es *Errors) add(fe *FieldError) {
	if fe != nil {
		*es = append(*es, fe)
	}
}

// orNil returns nil for an empty list so callers can return it directly.
func (es Errors) orNil() error {
	if len(es) == 0 {
		return nil
	}
	return es
}

// Fields extracts the field errors carried by err, if any.
func Fields(err error) []*FieldError {
	var es Errors
	if errors.As(err, &es) {
		return es
	}
	var fe *FieldError
	if errors.As(err, &fe) {
		return []*FieldError{fe}
	}
	return nil
}

// Combine merges the field errors of several validation results into one
// Errors value. A non-field error among them is returned joined with the
// rest unchanged.
func Combine(errs ...error) error {
	var out Errors
	var other []error
	for _, err := range errs {
		if err == nil {
			continue
		}
		if fields := Fields(err); len(fields) > 0 {
			out = append(out, fields...)
			continue
		}
		other = append(other, err)
	}
	if len(other) > 0 {
		if len(out) > 0 {
			other = append(other, out)
		}
		return errors.Join(other...)
	}
	return out.orNil()
}

package nutriplan

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidInput indicates a non-positive or out-of-range profile measurement.
	ErrInvalidInput = errors.New("invalid input")

	// ErrParse indicates the generated text is not valid JSON.
	ErrParse = errors.New("malformed generator output")

	// ErrSchema indicates a required key is missing from the generated plan.
	ErrSchema = errors.New("meal plan schema violation")

	// ErrTypeCoercion indicates a numeric field holds a non-numeric value.
	ErrTypeCoercion = errors.New("numeric field coercion failed")

	// ErrCollaborator indicates the generation collaborator itself failed.
	ErrCollaborator = errors.New("generator call failed")
)

type InvalidInputError struct {
	Field  string
	Value  float64
	Reason string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("%s: %s %s (got %v)", ErrInvalidInput, e.Field, e.Reason, e.Value)
}

func (e *InvalidInputError) Is(target error) bool { return target == ErrInvalidInput }

type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: %v", ErrParse, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

func (e *ParseError) Is(target error) bool { return target == ErrParse }

// SchemaError carries the path of the offending object (e.g. "lunch.items[1]") and the keys it lacks.
type SchemaError struct {
	Path    string
	Missing []string
	Reason  string
}

func (e *SchemaError) Error() string {
	var b strings.Builder
	b.WriteString(ErrSchema.Error())
	b.WriteString(": ")
	if e.Path != "" {
		b.WriteString(e.Path)
		b.WriteString(": ")
	}
	switch {
	case len(e.Missing) > 0 && e.Reason != "":
		fmt.Fprintf(&b, "%s: %s", e.Reason, strings.Join(e.Missing, ", "))
	case len(e.Missing) > 0:
		fmt.Fprintf(&b, "missing %s", strings.Join(e.Missing, ", "))
	default:
		b.WriteString(e.Reason)
	}
	return b.String()
}

func (e *SchemaError) Is(target error) bool { return target == ErrSchema }

type TypeCoercionError struct {
	Path  string
	Value any
}

func (e *TypeCoercionError) Error() string {
	return fmt.Sprintf("%s: %s: cannot convert %#v to a non-negative number", ErrTypeCoercion, e.Path, e.Value)
}

func (e *TypeCoercionError) Is(target error) bool { return target == ErrTypeCoercion }

// CollaboratorError wraps a failure of the external generator. The underlying error is kept verbatim.
type CollaboratorError struct {
	Op  string
	Err error
}

func (e *CollaboratorError) Error() string {
	return fmt.Sprintf("%s: %s: %v", ErrCollaborator, e.Op, e.Err)
}

func (e *CollaboratorError) Unwrap() error { return e.Err }

func (e *CollaboratorError) Is(target error) bool { return target == ErrCollaborator }

// ErrorKind returns a short metric/log label for err.
func ErrorKind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInvalidInput):
		return "invalid_input"
	case errors.Is(err, ErrParse):
		return "parse"
	case errors.Is(err, ErrSchema):
		return "schema"
	case errors.Is(err, ErrTypeCoercion):
		return "type_coercion"
	case errors.Is(err, ErrCollaborator):
		return "collaborator"
	default:
		return "unknown"
	}
}

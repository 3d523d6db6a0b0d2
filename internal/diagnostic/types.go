// Package diagnostic provides structured failure reporting for
// derivation requests.
//
// Key capabilities:
//   - DerivationError: a single non-recoverable derivation failure with
//     a closed error-code enum and the offending type/constructor/field
//   - Diagnostics: a container aggregating the outcomes of several
//     independent derivation requests in one generator run
package diagnostic

import (
	"errors"
	"fmt"
	"strings"
)

// Code identifies the kind of derivation failure.
type Code int

const (
	// DeclarationNotFound - a type, alias, or family name is
	// unresolvable in the declaration environment.
	DeclarationNotFound Code = iota
	// UnsupportedFieldShape - an active type variable occurs in a field
	// position the algorithm cannot map.
	UnsupportedFieldShape
	// ArityMismatch - too few type parameters for the requested
	// operation, or a higher-kinded parameter used at the wrong arity.
	ArityMismatch
	// InvalidEtaReduction - a family instance's trailing arguments are
	// not distinct bare variables unused elsewhere in the head.
	InvalidEtaReduction
	// KindVariableUnresolved - a kind variable on an active parameter
	// cannot be forced to star.
	KindVariableUnresolved
)

// String returns the stable diagnostic code name.
func (c Code) String() string {
	switch c {
	case DeclarationNotFound:
		return "declaration-not-found"
	case UnsupportedFieldShape:
		return "unsupported-field-shape"
	case ArityMismatch:
		return "arity-mismatch"
	case InvalidEtaReduction:
		return "invalid-eta-reduction"
	case KindVariableUnresolved:
		return "kind-variable-unresolved"
	default:
		return "unknown"
	}
}

// DerivationError is a build-time failure of a single derivation. It
// aborts generation for that type and carries enough context for a
// human-readable report.
type DerivationError struct {
	Code Code
	// Type is the name of the type the derivation was requested for.
	Type string
	// Constructor is the constructor under inspection, if any.
	Constructor string
	// Field is the 1-based field position, or 0 when not field-specific.
	Field int
	// Message is the human-readable description.
	Message string
}

// Errorf builds a DerivationError with a formatted message.
func Errorf(code Code, typeName, format string, args ...any) *DerivationError {
	return &DerivationError{
		Code:    code,
		Type:    typeName,
		Message: fmt.Sprintf(format, args...),
	}
}

// At returns a copy of the error located at a constructor field.
func (e *DerivationError) At(constructor string, field int) *DerivationError {
	located := *e
	located.Constructor = constructor
	located.Field = field

	return &located
}

// Error implements the error interface.
func (e *DerivationError) Error() string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "[%s] %s", e.Code, e.Type)

	if e.Constructor != "" {
		fmt.Fprintf(&sb, ", constructor %s", e.Constructor)
		if e.Field > 0 {
			fmt.Fprintf(&sb, " field #%d", e.Field)
		}
	}

	sb.WriteString(": ")
	sb.WriteString(e.Message)

	return sb.String()
}

// Diagnostics aggregates the results of several derivation requests.
type Diagnostics struct {
	Errors   []*DerivationError
	Warnings []string
}

// AddError records a failed derivation.
func (d *Diagnostics) AddError(err *DerivationError) {
	d.Errors = append(d.Errors, err)
}

// AddWarning records a non-fatal observation.
func (d *Diagnostics) AddWarning(format string, args ...any) {
	d.Warnings = append(d.Warnings, fmt.Sprintf(format, args...))
}

// HasErrors reports whether any derivation failed.
func (d *Diagnostics) HasErrors() bool {
	return len(d.Errors) > 0
}

// Merge merges another Diagnostics instance into this one.
func (d *Diagnostics) Merge(other Diagnostics) {
	d.Errors = append(d.Errors, other.Errors...)
	d.Warnings = append(d.Warnings, other.Warnings...)
}

// Error returns a combined error from all failures, or nil.
func (d *Diagnostics) Error() error {
	if !d.HasErrors() {
		return nil
	}

	parts := make([]string, 0, len(d.Errors))
	for _, e := range d.Errors {
		parts = append(parts, e.Error())
	}

	return errors.New(strings.Join(parts, "; "))
}

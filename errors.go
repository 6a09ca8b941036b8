package resource

import (
	"fmt"
	"reflect"
)

type (
	// ConstructorError reports a function that cannot be
	// used as a constructor at all.
	ConstructorError struct {
		Constructor string
		Reason      error
	}

	// IllegalContextTypeError reports a Context annotation on a
	// parameter whose type cannot be provided.
	IllegalContextTypeError struct {
		Constructor string
		Index       int
		Type        reflect.Type
	}

	// NoEligibleConstructorError reports a root resource without
	// any constructor satisfying the annotation rules.
	NoEligibleConstructorError struct {
		Type reflect.Type
	}

	// ResolutionError reports a parameter value that could not
	// be produced from the request.
	ResolutionError struct {
		Constructor string
		Binding     *Binding
		Reason      error
	}

	// InstantiationError reports a failed constructor invocation.
	InstantiationError struct {
		Type        reflect.Type
		Constructor string
		Reason      error
	}
)


func (e *ConstructorError) Error() string {
	if e.Constructor == "" {
		return fmt.Sprintf("resource: invalid constructor: %v", e.Reason)
	}
	return fmt.Sprintf("resource: invalid constructor %v: %v", e.Constructor, e.Reason)
}

func (e *ConstructorError) Unwrap() error {
	return e.Reason
}


func (e *IllegalContextTypeError) Error() string {
	return fmt.Sprintf(
		"resource: parameter %v of %v annotated with Context has type %v, must be UriInfo, Request, HttpHeaders or SecurityContext",
		e.Index, e.Constructor, e.Type)
}


func (e *NoEligibleConstructorError) Error() string {
	return fmt.Sprintf("resource: %v has no eligible constructor", e.Type)
}


func (e *ResolutionError) Error() string {
	if b := e.Binding; b != nil {
		if b.source == SourceContext {
			return fmt.Sprintf("resource: unable to resolve context parameter %v (%v) of %v: %v",
				b.index, b.typ, e.Constructor, e.Reason)
		}
		return fmt.Sprintf("resource: unable to resolve %v parameter %q (%v) of %v: %v",
			b.source, b.name, b.index, e.Constructor, e.Reason)
	}
	return fmt.Sprintf("resource: unable to resolve parameter of %v: %v", e.Constructor, e.Reason)
}

func (e *ResolutionError) Unwrap() error {
	return e.Reason
}


func (e *InstantiationError) Error() string {
	return fmt.Sprintf("resource: unable to create %v using %v: %v",
		e.Type, e.Constructor, e.Reason)
}

func (e *InstantiationError) Unwrap() error {
	return e.Reason
}

package resource

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/go-playground/validator/v10"
)

// Binding describes how one constructor parameter is resolved:
// the Source, the declared name and the type to produce.
// Bindings are created once when a Constructor is parsed and
// shared by every request.
type Binding struct {
	source   Source
	name     string
	index    int
	typ      reflect.Type
	def      *string
	validate string
	encoded  bool
}

func (b *Binding) Source() Source {
	return b.source
}

// Name returns the header, path, matrix or query parameter name.
// It is empty for Context bindings.
func (b *Binding) Name() string {
	return b.name
}

// Index returns the position of the parameter in the function signature.
func (b *Binding) Index() int {
	return b.index
}

func (b *Binding) Type() reflect.Type {
	return b.typ
}

// Default returns the value used when the parameter is absent.
func (b *Binding) Default() (string, bool) {
	if b.def == nil {
		return "", false
	}
	return *b.def, true
}

// Encoded returns true if values are not percent-decoded.
func (b *Binding) Encoded() bool {
	return b.encoded
}

// Rules returns the validation rules applied to the value.
func (b *Binding) Rules() string {
	return b.validate
}

func (b *Binding) String() string {
	if b.source == SourceContext {
		return fmt.Sprintf("context %v", b.typ)
	}
	return fmt.Sprintf("%v %q %v", b.source, b.name, b.typ)
}

// Resolve produces the argument value of the parameter for a call.
// Named parameters select the raw values from the call and coerce
// them into the declared type.  Absent values use the default, if
// specified, or the zero value.
// Failures are reported as *ResolutionError.
func (b *Binding) Resolve(call *Call) (reflect.Value, error) {
	v, err := b.resolve(call)
	if err != nil {
		return v, &ResolutionError{Binding: b, Reason: err}
	}
	return v, nil
}

func (b *Binding) resolve(call *Call) (reflect.Value, error) {
	if call == nil {
		call = &Call{}
	}
	if b.source == SourceContext {
		if v, ok := call.contextOf(b.typ); ok {
			return reflect.ValueOf(v), nil
		}
		return reflect.Value{}, fmt.Errorf("no context value for %v", b.typ)
	}
	values, ok := b.rawValues(call)
	if !ok {
		if def, hasDef := b.Default(); hasDef {
			values = []string{def}
		}
	}
	v, err := coerce(values, b.typ)
	if err != nil {
		return reflect.Value{}, err
	}
	if b.validate != "" {
		if err = b.check(v); err != nil {
			return reflect.Value{}, err
		}
	}
	return v, nil
}

// check applies the validation rules to the value.
// Rules the validator does not understand are reported
// as errors instead of panics.
func (b *Binding) check(v reflect.Value) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("invalid rules %q: %v", b.validate, r)
		}
	}()
	if err = paramValidator.Var(v.Interface(), b.validate); err != nil {
		var invalid *validator.InvalidValidationError
		if errors.As(err, &invalid) {
			return fmt.Errorf("invalid rules %q: %w", b.validate, err)
		}
	}
	return err
}

// rawValues selects the raw string values for the binding.
func (b *Binding) rawValues(call *Call) ([]string, bool) {
	var values []string
	switch b.source {
	case SourcePath:
		if m := call.Match; m != nil {
			if b.encoded {
				values = m.Encoded[b.name]
			} else {
				values = m.Variables[b.name]
			}
		}
	case SourceHeader:
		values = call.params().Header.Values(b.name)
	case SourceQuery:
		p := call.params()
		if b.encoded {
			values = p.EncodedQuery[b.name]
		} else {
			values = p.Query[b.name]
		}
	case SourceMatrix:
		p := call.params()
		if b.encoded {
			values = p.EncodedMatrix[b.name]
		} else {
			values = p.Matrix[b.name]
		}
	}
	return values, len(values) > 0
}

var paramValidator = validator.New()

// Validator returns the validator applying the parameter rules.
// Custom validations and translations must be registered before
// any instance is created.
func Validator() *validator.Validate {
	return paramValidator
}

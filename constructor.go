package resource

import (
	"fmt"
	"reflect"
	"runtime"
	"strings"
	"unicode"

	"github.com/hashicorp/go-multierror"
	"github.com/miruken-go/resource/internal"
)

type (
	// Constructor is a candidate function creating a root resource.
	// Parameters are annotated with a preceding anonymous struct
	// pointer whose fields are the annotations.
	//	func NewWidget(
	//	    _*struct{resource.PathParam `path:"id"`}, id string,
	//	) *Widget
	Constructor struct {
		fun    reflect.Value
		name   string
		typ    reflect.Type
		params []*Parameter
	}

	// Parameter describes one value parameter of a Constructor.
	Parameter struct {
		index       int
		typ         reflect.Type
		annotations []any
		bindings    []*Binding
	}
)


// Constructor

// Name returns the fully qualified name of the function.
func (c *Constructor) Name() string {
	return c.name
}

// Type returns the type created by the constructor.
func (c *Constructor) Type() reflect.Type {
	return c.typ
}

// Func returns the underlying function.
func (c *Constructor) Func() reflect.Value {
	return c.fun
}

// NumParams returns the number of value parameters.
// Annotation structs are not counted.
func (c *Constructor) NumParams() int {
	return len(c.params)
}

// Parameters returns the value parameters in declaration order.
func (c *Constructor) Parameters() []*Parameter {
	return c.params
}

// Bindings returns the binding of each parameter in declaration
// order or nil if any parameter lacks a single binding.
func (c *Constructor) Bindings() []*Binding {
	bindings := make([]*Binding, len(c.params))
	for i, p := range c.params {
		if b := p.Binding(); b != nil {
			bindings[i] = b
		} else {
			return nil
		}
	}
	return bindings
}

func (c *Constructor) String() string {
	return c.name
}

// Exported returns true if the function is exported or a literal.
func (c *Constructor) Exported() bool {
	name := strings.TrimSuffix(c.name, "-fm")
	name  = strings.TrimSuffix(name, "[...]")
	if i := strings.LastIndex(name, "."); i >= 0 {
		name = name[i+1:]
	}
	if isLiteral(name) {
		return true
	}
	return name != "" && unicode.IsUpper(rune(name[0]))
}

// isLiteral matches the names of function literals
// func1, func2 and nested literals 1, 2, ...
func isLiteral(name string) bool {
	digits := strings.TrimPrefix(name, "func")
	return digits != "" && strings.Trim(digits, "0123456789") == ""
}


// Parameter

// Index returns the position of the parameter in the function signature.
func (p *Parameter) Index() int {
	return p.index
}

// Type returns the declared type of the parameter.
func (p *Parameter) Type() reflect.Type {
	return p.typ
}

// Annotations returns all annotations of the parameter.
// Unrecognized annotations are reported by their reflect.Type.
func (p *Parameter) Annotations() []any {
	return p.annotations
}

// Binding returns the single binding of the parameter, if any.
func (p *Parameter) Binding() *Binding {
	if len(p.bindings) == 1 {
		return p.bindings[0]
	}
	return nil
}


// NewConstructor parses the function fun creating resultType.
// fun must return resultType and may also return an error.
func NewConstructor(
	resultType reflect.Type,
	fun        any,
) (*Constructor, error) {
	v := reflect.ValueOf(fun)
	if v.Kind() != reflect.Func || v.IsNil() {
		return nil, &ConstructorError{Reason: fmt.Errorf("%T is not a function", fun)}
	}
	ctor := &Constructor{fun: v, name: funcName(v), typ: resultType}
	ft := v.Type()
	switch {
	case ft.IsVariadic():
		return nil, &ConstructorError{ctor.name, fmt.Errorf("variadic functions are not supported")}
	case ft.NumOut() == 0 || ft.NumOut() > 2:
		return nil, &ConstructorError{ctor.name, fmt.Errorf("must return %v or (%v, error)", resultType, resultType)}
	case !ft.Out(0).AssignableTo(resultType):
		return nil, &ConstructorError{ctor.name, fmt.Errorf("returns %v, not %v", ft.Out(0), resultType)}
	case ft.NumOut() == 2 && ft.Out(1) != internal.ErrorType:
		return nil, &ConstructorError{ctor.name, fmt.Errorf("second result must be error, found %v", ft.Out(1))}
	}
	var err error
	var pending *Parameter
	for i := 0; i < ft.NumIn(); i++ {
		in := ft.In(i)
		if internal.IsAnnotations(in) {
			if pending != nil {
				err = multierror.Append(err, fmt.Errorf(
					"annotations at index %v must be followed by a parameter", i-1))
			}
			pending = &Parameter{}
			if invalid := parseAnnotations(in.Elem(), pending); invalid != nil {
				err = multierror.Append(err, fmt.Errorf(
					"annotations at index %v: %w", i, invalid))
			}
			continue
		}
		p := pending
		if p == nil {
			p = &Parameter{}
		}
		pending = nil
		p.index = i
		p.typ   = in
		for _, b := range p.bindings {
			b.index = i
			b.typ   = in
		}
		ctor.params = append(ctor.params, p)
	}
	if pending != nil {
		err = multierror.Append(err, fmt.Errorf(
			"annotations at index %v must be followed by a parameter", ft.NumIn()-1))
	}
	if err != nil {
		return nil, &ConstructorError{ctor.name, err}
	}
	return ctor, nil
}

// parseAnnotations collects the annotations of an anonymous
// struct into the parameter p.
func parseAnnotations(
	source reflect.Type,
	p      *Parameter,
) (err error) {
	encoded := false
	for i := 0; i < source.NumField(); i++ {
		field := source.Field(i)
		typ   := field.Type
		if typ == encodedType {
			encoded = true
			p.annotations = append(p.annotations, Encoded{})
			continue
		}
		r, ok := ruleOf(typ)
		if !ok {
			p.annotations = append(p.annotations, typ)
			continue
		}
		annotation, invalid := internal.NewWithTag(reflect.PointerTo(typ), field.Tag)
		if invalid != nil {
			err = multierror.Append(err, fmt.Errorf(
				"%v on field %v (%v): %w", typ, field.Name, i, invalid))
			continue
		}
		p.annotations = append(p.annotations, annotation)
		b := &Binding{source: r.source}
		if n, ok := annotation.(named); ok {
			opts := n.options()
			b.name     = opts.name
			b.def      = opts.def
			b.validate = opts.validate
		}
		p.bindings = append(p.bindings, b)
	}
	if encoded {
		for _, b := range p.bindings {
			b.encoded = true
		}
	}
	return err
}

func funcName(fun reflect.Value) string {
	if f := runtime.FuncForPC(fun.Pointer()); f != nil {
		return f.Name()
	}
	return fun.Type().String()
}

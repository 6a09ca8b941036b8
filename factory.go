package resource

import (
	"errors"
	"fmt"
	"reflect"
)

type (
	// Factory creates instances of root resource classes.
	Factory interface {
		Create(class *Class, call *Call) (*Instance, error)
	}

	// FactoryFunc adapts a function to a Factory.
	FactoryFunc func(class *Class, call *Call) (*Instance, error)

	// DefaultFactory creates instances using the selected
	// constructor of the class.
	DefaultFactory struct{}
)

func (f FactoryFunc) Create(class *Class, call *Call) (*Instance, error) {
	return f(class, call)
}

func (DefaultFactory) Create(class *Class, call *Call) (*Instance, error) {
	if class == nil {
		panic("class cannot be nil")
	}
	return class.Create(call)
}


// Invoke calls the constructor with the parameter values
// resolved from the call.  Annotation structs receive nil.
// It returns a *ResolutionError if a parameter cannot be
// resolved and an *InstantiationError if the constructor
// returns an error or panics.
func (c *Constructor) Invoke(call *Call) (any, error) {
	ft := c.fun.Type()
	if ft.NumIn() == 0 {
		return c.call(nil)
	}
	in := make([]reflect.Value, ft.NumIn())
	for _, p := range c.params {
		b := p.Binding()
		if b == nil {
			return nil, &ResolutionError{
				Constructor: c.name,
				Reason:      fmt.Errorf("parameter %v has no binding", p.index),
			}
		}
		v, err := b.Resolve(call)
		if err != nil {
			var re *ResolutionError
			if errors.As(err, &re) {
				re.Constructor = c.name
			}
			return nil, err
		}
		in[p.index] = v
	}
	for i, v := range in {
		if !v.IsValid() {
			in[i] = reflect.Zero(ft.In(i))
		}
	}
	return c.call(in)
}

func (c *Constructor) call(in []reflect.Value) (out any, err error) {
	defer func() {
		if r := recover(); r != nil {
			reason, ok := r.(error)
			if !ok {
				reason = fmt.Errorf("panic: %v", r)
			}
			out, err = nil, &InstantiationError{c.typ, c.name, reason}
		}
	}()
	results := c.fun.Call(in)
	if len(results) == 2 && !results[1].IsNil() {
		return nil, &InstantiationError{c.typ, c.name, results[1].Interface().(error)}
	}
	return results[0].Interface(), nil
}

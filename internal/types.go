package internal

import (
	"reflect"
)

// TypeOf returns the reflect.Type of T, including interfaces.
func TypeOf[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

// IsNil returns true if val is nil or a nil value of a
// nillable kind (pointer, interface, map, slice, func, chan).
func IsNil(val any) bool {
	if val == nil {
		return true
	}
	v := reflect.ValueOf(val)
	switch v.Kind() {
	case reflect.Chan, reflect.Func, reflect.Interface,
		reflect.Map, reflect.Ptr, reflect.Slice:
		return v.IsNil()
	}
	return false
}

// IsAnnotations returns true if typ is a pointer to an
// anonymous struct, used to annotate the next parameter.
//	func(_*struct{PathParam `path:"id"`}, id string)
func IsAnnotations(typ reflect.Type) bool {
	return typ.Kind() == reflect.Ptr &&
		typ.Elem().Kind() == reflect.Struct &&
		typ.Elem().Name() == ""
}

// NewWithTag creates a new instance of typ and initializes
// it from the struct tag if it implements InitWithTag.
// A pointer typ is allocated, otherwise the value is returned.
func NewWithTag(
	typ reflect.Type,
	tag reflect.StructTag,
) (any, error) {
	var v reflect.Value
	if typ.Kind() == reflect.Ptr {
		v = reflect.New(typ.Elem())
	} else {
		v = reflect.New(typ)
	}
	if init, ok := v.Interface().(interface {
		InitWithTag(reflect.StructTag) error
	}); ok {
		if err := init.InitWithTag(tag); err != nil {
			return nil, err
		}
	}
	if typ.Kind() != reflect.Ptr {
		return v.Elem().Interface(), nil
	}
	return v.Interface(), nil
}

// DefaultValue returns def if val is the zero value.
func DefaultValue[T comparable](val, def T) T {
	var zero T
	if val == zero {
		return def
	}
	return val
}

var ErrorType = TypeOf[error]()

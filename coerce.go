package resource

import (
	"encoding"
	"fmt"
	"reflect"
	"time"

	"github.com/miruken-go/resource/internal"
	"github.com/spf13/cast"
)

// coerce converts raw request values into a value of typ.
// Slices receive one element per raw value, all other types
// use the first value.  No values produce the zero value.
func coerce(values []string, typ reflect.Type) (reflect.Value, error) {
	if typ.Kind() == reflect.Slice && typ.Elem().Kind() != reflect.Uint8 {
		out := reflect.MakeSlice(typ, 0, len(values))
		for _, s := range values {
			ev, err := coerceOne(s, typ.Elem())
			if err != nil {
				return reflect.Value{}, err
			}
			out = reflect.Append(out, ev)
		}
		return out, nil
	}
	if len(values) == 0 {
		return reflect.Zero(typ), nil
	}
	return coerceOne(values[0], typ)
}

func coerceOne(s string, typ reflect.Type) (reflect.Value, error) {
	if typ.Kind() == reflect.Ptr {
		ev, err := coerceOne(s, typ.Elem())
		if err != nil {
			return reflect.Value{}, err
		}
		ptr := reflect.New(typ.Elem())
		ptr.Elem().Set(ev)
		return ptr, nil
	}
	out := reflect.New(typ).Elem()
	if reflect.PointerTo(typ).Implements(textUnmarshalerType) {
		if s == "" {
			return out, nil
		}
		um := out.Addr().Interface().(encoding.TextUnmarshaler)
		if err := um.UnmarshalText([]byte(s)); err != nil {
			return reflect.Value{}, convertError(s, typ, err)
		}
		return out, nil
	}
	if typ.Kind() != reflect.String && s == "" {
		return out, nil
	}
	if typ == durationType {
		d, err := cast.ToDurationE(s)
		if err != nil {
			return reflect.Value{}, convertError(s, typ, err)
		}
		out.SetInt(int64(d))
		return out, nil
	}
	switch typ.Kind() {
	case reflect.String:
		out.SetString(s)
	case reflect.Bool:
		b, err := cast.ToBoolE(s)
		if err != nil {
			return reflect.Value{}, convertError(s, typ, err)
		}
		out.SetBool(b)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		i, err := cast.ToInt64E(s)
		if err != nil {
			return reflect.Value{}, convertError(s, typ, err)
		}
		if out.OverflowInt(i) {
			return reflect.Value{}, convertError(s, typ, fmt.Errorf("value out of range"))
		}
		out.SetInt(i)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		u, err := cast.ToUint64E(s)
		if err != nil {
			return reflect.Value{}, convertError(s, typ, err)
		}
		if out.OverflowUint(u) {
			return reflect.Value{}, convertError(s, typ, fmt.Errorf("value out of range"))
		}
		out.SetUint(u)
	case reflect.Float32, reflect.Float64:
		f, err := cast.ToFloat64E(s)
		if err != nil {
			return reflect.Value{}, convertError(s, typ, err)
		}
		if out.OverflowFloat(f) {
			return reflect.Value{}, convertError(s, typ, fmt.Errorf("value out of range"))
		}
		out.SetFloat(f)
	case reflect.Slice:
		if typ.Elem().Kind() != reflect.Uint8 {
			return reflect.Value{}, fmt.Errorf("unsupported parameter type %v", typ)
		}
		out.SetBytes([]byte(s))
	case reflect.Interface:
		if !stringType.AssignableTo(typ) {
			return reflect.Value{}, fmt.Errorf("unsupported parameter type %v", typ)
		}
		out.Set(reflect.ValueOf(s))
	default:
		return reflect.Value{}, fmt.Errorf("unsupported parameter type %v", typ)
	}
	return out, nil
}

func convertError(s string, typ reflect.Type, cause error) error {
	return fmt.Errorf("unable to convert %q to %v: %w", s, typ, cause)
}

var (
	stringType          = internal.TypeOf[string]()
	durationType        = internal.TypeOf[time.Duration]()
	textUnmarshalerType = internal.TypeOf[encoding.TextUnmarshaler]()
)

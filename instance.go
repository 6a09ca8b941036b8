package resource

// Instance is a root resource object paired with the Class
// that created it.  It is owned by the caller.
type Instance struct {
	value any
	class *Class
}

// Value returns the resource object.
func (i *Instance) Value() any {
	return i.value
}

// Class returns the Class that created the resource object.
func (i *Instance) Class() *Class {
	return i.class
}

// As returns the resource object of the instance as T.
func As[T any](instance *Instance) (T, bool) {
	if instance != nil {
		if t, ok := instance.value.(T); ok {
			return t, true
		}
	}
	var zero T
	return zero, false
}

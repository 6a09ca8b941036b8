package resource

import (
	"errors"
	"fmt"
	"reflect"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/go-logr/logr"
	"github.com/hashicorp/go-multierror"
	"github.com/miruken-go/resource/internal"
)

type (
	// Registry holds the root resource classes of an application.
	// Lookups are lock free, registrations are serialized.
	Registry struct {
		options Options
		logger  logr.Logger
		lock    sync.Mutex
		classes atomic.Pointer[registered]
	}

	registered struct {
		byType map[reflect.Type]*Class
		order  []*Class
	}
)

// NewRegistry creates an empty Registry.
func NewRegistry(options Options, logger logr.Logger) *Registry {
	if logger.GetSink() == nil {
		logger = logr.Discard()
	}
	return &Registry{options: options, logger: logger.WithName("resource")}
}

func (r *Registry) Options() Options {
	return r.options
}

// Root creates a Class using the registry Options and registers it.
// The Class is nil if it was rejected.
func (r *Registry) Root(
	typ   reflect.Type,
	path  string,
	ctors ...any,
) (*Class, error) {
	class, err := r.options.NewClass(typ, path, ctors...)
	if invalid := r.Register(class); invalid != nil {
		return nil, multierror.Append(err, invalid)
	}
	return class, err
}

// Register adds the classes to the registry.
// Classes already registered for the same type, or rejected by
// the Options, are reported and skipped.
func (r *Registry) Register(classes ...*Class) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	var next registered
	if current := r.classes.Load(); current != nil {
		next.byType = make(map[reflect.Type]*Class, len(current.byType)+len(classes))
		for typ, class := range current.byType {
			next.byType[typ] = class
		}
		next.order = slices.Clone(current.order)
	} else {
		next.byType = make(map[reflect.Type]*Class, len(classes))
	}

	var err error
	for _, class := range classes {
		if class == nil {
			continue
		}
		if _, ok := next.byType[class.typ]; ok {
			err = multierror.Append(err, fmt.Errorf(
				"resource: %v already registered", class.typ))
			continue
		}
		if invalid := r.accept(class); invalid != nil {
			err = multierror.Append(err, invalid)
			continue
		}
		next.byType[class.typ] = class
		next.order = append(next.order, class)
	}
	r.classes.Store(&next)
	return err
}

// accept decides if the class can be registered.
func (r *Registry) accept(class *Class) error {
	logger := r.logger.WithValues("type", class.typ.String(), "path", class.path)
	if diag := class.Diagnostics(); diag != nil {
		logger.Error(diag, "invalid constructors")
		var illegal *IllegalContextTypeError
		if r.options.RejectIllegalContext && errors.As(diag, &illegal) {
			return fmt.Errorf("resource: %v rejected: %w", class.typ, diag)
		}
	}
	ctor := class.Constructor()
	if ctor == nil {
		logger.Info("no eligible constructor")
		if r.options.RejectUnconstructible {
			return &NoEligibleConstructorError{class.typ}
		}
		return nil
	}
	logger.V(1).Info("registered",
		"constructor", ctor.Name(),
		"params", ctor.NumParams())
	return nil
}

// Lookup returns the Class registered for typ.
func (r *Registry) Lookup(typ reflect.Type) (*Class, bool) {
	if current := r.classes.Load(); current != nil {
		class, ok := current.byType[typ]
		return class, ok
	}
	return nil, false
}

// Classes returns a copy of the registered classes in
// registration order.
func (r *Registry) Classes() []*Class {
	if current := r.classes.Load(); current != nil {
		return slices.Clone(current.order)
	}
	return nil
}

// LookupOf returns the Class registered for T.
func LookupOf[T any](r *Registry) (*Class, bool) {
	return r.Lookup(internal.TypeOf[T]())
}

// RootOf creates and registers the Class of the root resource T.
func RootOf[T any](r *Registry, path string, ctors ...any) (*Class, error) {
	return r.Root(internal.TypeOf[T](), path, ctors...)
}

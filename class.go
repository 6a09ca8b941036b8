package resource

import (
	"fmt"
	"net/http"
	"reflect"

	"github.com/hashicorp/go-multierror"
	"github.com/miruken-go/resource/internal"
	"github.com/miruken-go/resource/security"
)

// Class describes a root resource type.  The constructor used to
// create instances is selected once when the Class is created and
// never changes, so a Class can be shared by concurrent requests.
type Class struct {
	typ          reflect.Type
	path         string
	constructors []*Constructor
	constructor  *Constructor
	diagnostics  error
}

// Root creates a Class for the root resource type T served at
// path from the candidate constructors in declaration order.
func Root[T any](path string, ctors ...any) (*Class, error) {
	return NewClass(internal.TypeOf[T](), path, ctors...)
}

// NewClass creates a Class for typ using the default Options.
func NewClass(
	typ   reflect.Type,
	path  string,
	ctors ...any,
) (*Class, error) {
	return Options{}.NewClass(typ, path, ctors...)
}

// NewClass creates a Class for typ served at path.
// Functions that are not valid constructors and Context annotations
// on illegal types are reported in the returned error, which is
// also available from Diagnostics.  The Class is returned even if
// an error is reported and may have no Constructor.
func (o Options) NewClass(
	typ   reflect.Type,
	path  string,
	ctors ...any,
) (*Class, error) {
	if typ == nil {
		panic("typ cannot be nil")
	}
	class := &Class{typ: typ, path: path}
	var err error
	for _, fun := range ctors {
		ctor, invalid := NewConstructor(typ, fun)
		if invalid != nil {
			err = multierror.Append(err, invalid)
			continue
		}
		if !(o.IncludeUnexported || ctor.Exported()) {
			continue
		}
		class.constructors = append(class.constructors, ctor)
	}
	ctor, invalid := SelectConstructor(class.constructors)
	if invalid != nil {
		err = multierror.Append(err, invalid)
	}
	class.constructor = ctor
	class.diagnostics = err
	return class, err
}

// Type returns the root resource type.
func (c *Class) Type() reflect.Type {
	return c.typ
}

// Path returns the path template the resource is served at.
func (c *Class) Path() string {
	return c.path
}

// Constructor returns the selected constructor or nil if the
// class has no eligible constructor.
func (c *Class) Constructor() *Constructor {
	return c.constructor
}

// Constructors returns the accessible constructors in declaration order.
func (c *Class) Constructors() []*Constructor {
	return c.constructors
}

// Diagnostics returns the problems found creating the Class.
func (c *Class) Diagnostics() error {
	return c.diagnostics
}

// Require returns a *NoEligibleConstructorError if the
// class cannot be instantiated.
func (c *Class) Require() error {
	if c.constructor == nil {
		return &NoEligibleConstructorError{c.typ}
	}
	return nil
}

// Equal returns true if other describes the same type.
func (c *Class) Equal(other *Class) bool {
	if c == other {
		return true
	}
	return c != nil && other != nil && c.typ == other.typ
}

func (c *Class) String() string {
	return fmt.Sprintf("%v at %q", c.typ, c.path)
}

// CreateInstance creates an instance of the resource for a request.
// The match result and raw parameters supply the named parameters,
// the request, response and authenticator the Context parameters.
func (c *Class) CreateInstance(
	match    *MatchResult,
	params   *Params,
	req      *http.Request,
	resp     http.ResponseWriter,
	auth     security.Authenticator,
) (*Instance, error) {
	return c.Create(&Call{
		Match:         match,
		Params:        params,
		Request:       req,
		Response:      resp,
		Authenticator: auth,
	})
}

// Create creates an instance of the resource for the call.
func (c *Class) Create(call *Call) (*Instance, error) {
	ctor := c.constructor
	if ctor == nil {
		return nil, &NoEligibleConstructorError{c.typ}
	}
	value, err := ctor.Invoke(call)
	if err != nil {
		return nil, err
	}
	return &Instance{value, c}, nil
}

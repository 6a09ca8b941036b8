package resource

import (
	"fmt"
	"reflect"
	"slices"

	"github.com/miruken-go/resource/internal"
)

type (
	// Source identifies where a parameter value is taken from.
	Source uint8

	// HeaderParam binds a request header to the next parameter.
	//	_*struct{resource.HeaderParam `header:"X-Request-Id"`}, id string
	HeaderParam struct{ param }

	// PathParam binds a path template variable to the next parameter.
	//	_*struct{resource.PathParam `path:"id"`}, id int
	PathParam struct{ param }

	// MatrixParam binds a matrix parameter to the next parameter.
	//	_*struct{resource.MatrixParam `matrix:"color"`}, color string
	MatrixParam struct{ param }

	// QueryParam binds a query parameter to the next parameter.
	//	_*struct{resource.QueryParam `query:"limit" default:"10"`}, limit int
	QueryParam struct{ param }

	// Context binds a request scoped object to the next parameter.
	// The parameter must be UriInfo, Request, HttpHeaders or
	// SecurityContext.
	Context struct{}

	// Encoded hands path, query and matrix values over without
	// percent-decoding them.
	Encoded struct{}

	// param holds the options shared by named parameter annotations.
	param struct {
		name     string
		def      *string
		validate string
	}

	// named is implemented by the named parameter annotations.
	named interface {
		options() *param
	}

	// rule states which Source an annotation requests and
	// which parameter types it may annotate (nil means any).
	rule struct {
		source  Source
		allowed []reflect.Type
	}
)

const (
	SourceHeader Source = iota + 1
	SourcePath
	SourceMatrix
	SourceQuery
	SourceContext
)

func (s Source) String() string {
	switch s {
	case SourceHeader:
		return "header"
	case SourcePath:
		return "path"
	case SourceMatrix:
		return "matrix"
	case SourceQuery:
		return "query"
	case SourceContext:
		return "context"
	}
	return fmt.Sprintf("Source(%d)", s)
}


// param

func (p *param) options() *param {
	return p
}

func (p *param) init(tag reflect.StructTag, key string) error {
	name, ok := tag.Lookup(key)
	if !ok || name == "" {
		return fmt.Errorf("missing %q tag", key)
	}
	p.name = name
	if def, ok := tag.Lookup("default"); ok {
		p.def = &def
	}
	p.validate = tag.Get("validate")
	return nil
}

func (h *HeaderParam) InitWithTag(tag reflect.StructTag) error {
	return h.init(tag, "header")
}

func (p *PathParam) InitWithTag(tag reflect.StructTag) error {
	return p.init(tag, "path")
}

func (m *MatrixParam) InitWithTag(tag reflect.StructTag) error {
	return m.init(tag, "matrix")
}

func (q *QueryParam) InitWithTag(tag reflect.StructTag) error {
	return q.init(tag, "query")
}


// rule

func (r rule) allows(typ reflect.Type) bool {
	return r.allowed == nil || slices.Contains(r.allowed, typ)
}

// ruleOf returns the rule for the annotation type, if recognized.
func ruleOf(annotation reflect.Type) (rule, bool) {
	r, ok := rules[annotation]
	return r, ok
}

// IsContextType returns true if typ may be requested with Context.
func IsContextType(typ reflect.Type) bool {
	return slices.Contains(contextTypes, typ)
}

var (
	encodedType = internal.TypeOf[Encoded]()

	contextTypes = []reflect.Type{
		internal.TypeOf[UriInfo](),
		internal.TypeOf[Request](),
		internal.TypeOf[HttpHeaders](),
		internal.TypeOf[SecurityContext](),
	}

	rules = map[reflect.Type]rule{
		internal.TypeOf[HeaderParam](): {source: SourceHeader},
		internal.TypeOf[PathParam]():   {source: SourcePath},
		internal.TypeOf[MatrixParam](): {source: SourceMatrix},
		internal.TypeOf[QueryParam]():  {source: SourceQuery},
		internal.TypeOf[Context]():     {source: SourceContext, allowed: contextTypes},
	}
)

package openapi

import (
	"fmt"
	"reflect"
	"regexp"
	"time"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/miruken-go/resource"
	"github.com/spf13/cast"
)

// Describe creates the openapi document of the root resources in
// the registry.  Each resource path declares the header, path and
// query parameters of the selected constructor.  Matrix and
// Context parameters are not described.
func Describe(registry *resource.Registry, info *openapi3.Info) *openapi3.T {
	if registry == nil {
		panic("registry cannot be nil")
	}
	if info == nil {
		info = &openapi3.Info{Title: "Resources", Version: "1.0.0"}
	}
	doc := &openapi3.T{
		OpenAPI: "3.0.3",
		Info:    info,
		Paths:   make(openapi3.Paths),
		Components: &openapi3.Components{
			Schemas: openapi3.Schemas{
				"Problem": openapi3.NewSchemaRef("", problemSchema()),
			},
		},
	}
	for _, class := range registry.Classes() {
		ctor := class.Constructor()
		if ctor == nil {
			continue
		}
		path := templateOf(class.Path())
		typ  := elemOf(class.Type())
		item := &openapi3.PathItem{
			Summary:     class.Type().String(),
			Description: fmt.Sprintf("Created by %s", ctor.Name()),
			Get: &openapi3.Operation{
				OperationID: typ.Name(),
				Tags:        []string{typ.PkgPath()},
				Responses:   responses(),
			},
		}
		for _, b := range ctor.Bindings() {
			if p := parameterOf(b); p != nil {
				item.Parameters = append(item.Parameters, &openapi3.ParameterRef{Value: p})
			}
		}
		doc.Paths[path] = item
	}
	return doc
}

// elemOf returns the named type behind pointer types.
func elemOf(typ reflect.Type) reflect.Type {
	for typ.Kind() == reflect.Ptr {
		typ = typ.Elem()
	}
	return typ
}

// templateOf removes the patterns from the variables of a path.
//	/widgets/{id:[0-9]+} => /widgets/{id}
func templateOf(path string) string {
	return variablePattern.ReplaceAllString(path, "{$1}")
}

func parameterOf(b *resource.Binding) *openapi3.Parameter {
	var p *openapi3.Parameter
	switch b.Source() {
	case resource.SourcePath:
		p = openapi3.NewPathParameter(b.Name())
	case resource.SourceQuery:
		p = openapi3.NewQueryParameter(b.Name())
	case resource.SourceHeader:
		p = openapi3.NewHeaderParameter(b.Name())
	default:
		return nil
	}
	schema := schemaOf(b.Type())
	if def, ok := b.Default(); ok {
		schema.Default = defaultOf(def, b.Type())
	}
	p.WithSchema(schema)
	if rules := b.Rules(); rules != "" {
		p.Extensions = map[string]any{"x-validate": rules}
	}
	return p
}

func schemaOf(typ reflect.Type) *openapi3.Schema {
	if typ.Kind() == reflect.Ptr {
		typ = typ.Elem()
	}
	switch typ {
	case durationType:
		return openapi3.NewStringSchema().WithFormat("duration")
	case timeType:
		return openapi3.NewDateTimeSchema()
	}
	switch typ.Kind() {
	case reflect.Bool:
		return openapi3.NewBoolSchema()
	case reflect.Int32:
		return openapi3.NewInt32Schema()
	case reflect.Int64:
		return openapi3.NewInt64Schema()
	case reflect.Int, reflect.Int8, reflect.Int16:
		return openapi3.NewIntegerSchema()
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return openapi3.NewIntegerSchema().WithMin(0)
	case reflect.Float32, reflect.Float64:
		return openapi3.NewFloat64Schema()
	case reflect.Slice:
		if typ.Elem().Kind() == reflect.Uint8 {
			return openapi3.NewBytesSchema()
		}
		return openapi3.NewArraySchema().WithItems(schemaOf(typ.Elem()))
	}
	return openapi3.NewStringSchema()
}

// defaultOf converts the default value to the json type of the schema.
// Defaults that do not convert are kept as text.
func defaultOf(def string, typ reflect.Type) any {
	if typ.Kind() == reflect.Ptr {
		typ = typ.Elem()
	}
	if typ == durationType {
		return def
	}
	var (
		v   any
		err error
	)
	switch typ.Kind() {
	case reflect.Bool:
		v, err = cast.ToBoolE(def)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		v, err = cast.ToInt64E(def)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		v, err = cast.ToUint64E(def)
	case reflect.Float32, reflect.Float64:
		v, err = cast.ToFloat64E(def)
	default:
		return def
	}
	if err != nil {
		return def
	}
	return v
}

func responses() openapi3.Responses {
	problem := openapi3.NewContentWithSchemaRef(
		openapi3.NewSchemaRef("#/components/schemas/Problem", nil),
		[]string{"application/problem+json"})
	return openapi3.Responses{
		"200": &openapi3.ResponseRef{
			Value: openapi3.NewResponse().WithDescription("Served by the resource"),
		},
		"400": &openapi3.ResponseRef{
			Value: openapi3.NewResponse().
				WithDescription("Invalid header or parameter").
				WithContent(problem),
		},
		"404": &openapi3.ResponseRef{
			Value: openapi3.NewResponse().
				WithDescription("Path, query or matrix parameter not convertible").
				WithContent(problem),
		},
		"500": &openapi3.ResponseRef{
			Value: openapi3.NewResponse().
				WithDescription("Resource could not be created").
				WithContent(problem),
		},
	}
}

func problemSchema() *openapi3.Schema {
	return openapi3.NewObjectSchema().
		WithProperty("status", openapi3.NewIntegerSchema()).
		WithProperty("message", openapi3.NewStringSchema()).
		WithProperty("parameter", openapi3.NewStringSchema()).
		WithProperty("source", openapi3.NewStringSchema()).
		WithProperty("violations", openapi3.NewArraySchema().
			WithItems(openapi3.NewObjectSchema().
				WithProperty("rule", openapi3.NewStringSchema()).
				WithProperty("value", openapi3.NewSchema()).
				WithProperty("message", openapi3.NewStringSchema())))
}

var (
	variablePattern = regexp.MustCompile(`\{([^{}:]+):[^{}]*\}`)

	durationType = reflect.TypeOf(time.Duration(0))
	timeType     = reflect.TypeOf(time.Time{})
)

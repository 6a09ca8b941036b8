package resource_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	"github.com/miruken-go/resource"
	"github.com/stretchr/testify/suite"
)

type (
	Bad struct {
		Name string
	}

	Ledger struct {
		Page    int
		Request resource.Request
	}

	ClassTestSuite struct {
		suite.Suite
	}
)

func NewBad(
	_*struct{resource.Context}, name string,
) *Bad {
	return &Bad{Name: name}
}

func NewLedger() *Ledger {
	return &Ledger{}
}

func NewLedgerPage(
	_*struct{resource.QueryParam `query:"x"`}, page int,
	_*struct{resource.Context}, request resource.Request,
) *Ledger {
	return &Ledger{Page: page, Request: request}
}

func (suite *ClassTestSuite) TestRoot() {
	suite.Run("SelectsConstructor", func() {
		class, err := resource.Root[*Widget]("/widgets/{id}",
			NewWidget, NewWidgetById, NewWidgetUnannotated)
		suite.Nil(err)
		suite.Equal(widgetType, class.Type())
		suite.Equal("/widgets/{id}", class.Path())
		suite.Len(class.Constructors(), 3)
		suite.Require().NotNil(class.Constructor())
		suite.Equal(1, class.Constructor().NumParams())
		suite.Nil(class.Require())
		suite.Nil(class.Diagnostics())
	})

	suite.Run("NoEligibleConstructor", func() {
		class, err := resource.Root[*Widget]("/widgets", NewWidgetUnannotated)
		suite.Nil(err)
		suite.Nil(class.Constructor())
		var none *resource.NoEligibleConstructorError
		suite.True(errors.As(class.Require(), &none))
		suite.Equal(widgetType, none.Type)

		_, err = class.Create(&resource.Call{})
		suite.True(errors.As(err, &none))
	})

	suite.Run("ReportsInvalidFunctions", func() {
		class, err := resource.Root[*Widget]("/widgets", "NewWidget", NewWidget)
		var invalid *resource.ConstructorError
		suite.True(errors.As(err, &invalid))
		suite.Require().NotNil(class)
		suite.Len(class.Constructors(), 1)
		suite.NotNil(class.Constructor())
		suite.Equal(err, class.Diagnostics())
	})

	suite.Run("ReportsIllegalContext", func() {
		class, err := resource.Root[*Widget]("/widgets", NewWidget, NewWidgetIllegalContext)
		var illegal *resource.IllegalContextTypeError
		suite.True(errors.As(err, &illegal))
		suite.NotNil(class.Constructor())
	})

	suite.Run("OnlyIllegalContext", func() {
		class, err := resource.Root[*Bad]("/b", NewBad)
		suite.Nil(class.Constructor())
		var illegal *resource.IllegalContextTypeError
		suite.Require().True(errors.As(err, &illegal))
		suite.Equal(reflect.TypeOf(""), illegal.Type)
	})

	suite.Run("PrefersContextOverDefault", func() {
		class, err := resource.Root[*Ledger]("/ledger", NewLedger, NewLedgerPage)
		suite.Require().NoError(err)
		suite.Require().NotNil(class.Constructor())
		suite.Equal(2, class.Constructor().NumParams())

		req := httptest.NewRequest(http.MethodGet, "/ledger?x=5", nil)
		instance, err := class.CreateInstance(
			resource.Match(nil), resource.ParamsOf(req), req, httptest.NewRecorder(), nil)
		suite.Require().NoError(err)
		ledger, _ := resource.As[*Ledger](instance)
		suite.Equal(5, ledger.Page)
		suite.NotNil(ledger.Request)
	})

	suite.Run("SkipsUnexported", func() {
		class, err := resource.Root[*Widget]("/widgets", NewWidget, newWidget)
		suite.Nil(err)
		suite.Len(class.Constructors(), 1)
		suite.Equal(0, class.Constructor().NumParams())

		class, err = resource.Options{IncludeUnexported: true}.NewClass(
			widgetType, "/widgets", NewWidget, newWidget)
		suite.Nil(err)
		suite.Len(class.Constructors(), 2)
		suite.Equal(1, class.Constructor().NumParams())
	})

	suite.Run("Equal", func() {
		a, _ := resource.Root[*Widget]("/a", NewWidget)
		b, _ := resource.NewClass(widgetType, "/b", NewWidgetById)
		c, _ := resource.Root[*Color]("/c")
		suite.True(a.Equal(b))
		suite.True(a.Equal(a))
		suite.False(a.Equal(c))
		suite.False(a.Equal(nil))
	})

	suite.Run("NilType", func() {
		suite.Panics(func() {
			_, _ = resource.NewClass(nil, "/")
		})
	})
}

func (suite *ClassTestSuite) TestCreate() {
	suite.Run("RoundTrip", func() {
		class, err := resource.Root[*Widget]("/widgets/{id}", NewWidget, NewWidgetById)
		suite.Require().NoError(err)
		instance, err := class.CreateInstance(
			resource.Match(map[string]string{"id": "42"}),
			&resource.Params{}, nil, nil, nil)
		suite.Require().NoError(err)
		suite.Same(class, instance.Class())
		widget, ok := resource.As[*Widget](instance)
		suite.True(ok)
		suite.Equal("42", widget.Id)
		suite.Equal("NewWidgetById", widget.Created)
	})

	suite.Run("ZeroParameters", func() {
		class, err := resource.Root[*Widget]("/widgets", NewWidget)
		suite.Require().NoError(err)
		instance, err := class.Create(nil)
		suite.Require().NoError(err)
		widget, ok := resource.As[*Widget](instance)
		suite.True(ok)
		suite.Equal("NewWidget", widget.Created)
	})

	suite.Run("FromRequest", func() {
		class, err := resource.Root[*Widget]("/widgets/{id}", NewWidgetByIdAndLimit)
		suite.Require().NoError(err)
		req := httptest.NewRequest(http.MethodGet, "/widgets/7?limit=3", nil)
		instance, err := class.CreateInstance(
			resource.Match(map[string]string{"id": "7"}),
			resource.ParamsOf(req), req, httptest.NewRecorder(), nil)
		suite.Require().NoError(err)
		widget, _ := resource.As[*Widget](instance)
		suite.Equal(&Widget{Id: "7", Limit: 3, Created: "NewWidgetByIdAndLimit"}, widget)
	})

	suite.Run("ConstructorError", func() {
		class, err := resource.Root[*Widget]("/widgets/{id}", NewWidgetFailing)
		suite.Require().NoError(err)
		_, err = class.Create(&resource.Call{Match: resource.Match(nil)})
		var failed *resource.InstantiationError
		suite.Require().True(errors.As(err, &failed))
		suite.Equal(widgetType, failed.Type)
		suite.EqualError(failed.Reason, "id is required")
	})

	suite.Run("ConstructorPanics", func() {
		class, err := resource.Root[*Widget]("/widgets", func() *Widget {
			panic("boom")
		})
		suite.Require().NoError(err)
		_, err = class.Create(nil)
		var failed *resource.InstantiationError
		suite.Require().True(errors.As(err, &failed))
		suite.ErrorContains(err, "boom")
	})

	suite.Run("ResolutionError", func() {
		class, err := resource.Root[*Widget]("/widgets/{id}", NewWidgetByIdAndLimit)
		suite.Require().NoError(err)
		_, err = class.Create(&resource.Call{
			Match:  resource.Match(map[string]string{"id": "7"}),
			Params: &resource.Params{Query: map[string][]string{"limit": {"many"}}},
		})
		var re *resource.ResolutionError
		suite.Require().True(errors.As(err, &re))
		suite.Equal(resource.SourceQuery, re.Binding.Source())
		suite.Equal(class.Constructor().Name(), re.Constructor)
	})

	suite.Run("Factory", func() {
		class, err := resource.Root[*Widget]("/widgets", NewWidget)
		suite.Require().NoError(err)
		instance, err := resource.DefaultFactory{}.Create(class, nil)
		suite.Require().NoError(err)
		suite.IsType(&Widget{}, instance.Value())

		custom := resource.FactoryFunc(func(c *resource.Class, call *resource.Call) (*resource.Instance, error) {
			return nil, errors.New("unavailable")
		})
		_, err = custom.Create(class, nil)
		suite.EqualError(err, "unavailable")
	})

	suite.Run("As", func() {
		_, ok := resource.As[*Widget](nil)
		suite.False(ok)
		class, _ := resource.Root[*Widget]("/widgets", NewWidget)
		instance, _ := class.Create(nil)
		_, ok = resource.As[*Color](instance)
		suite.False(ok)
		_, ok = resource.As[any](instance)
		suite.True(ok)
		suite.Equal(reflect.TypeOf(&Widget{}), reflect.TypeOf(instance.Value()))
	})
}

func TestClassTestSuite(t *testing.T) {
	suite.Run(t, new(ClassTestSuite))
}

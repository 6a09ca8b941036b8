package resource_test

import (
	"errors"
	"reflect"
	"time"

	"github.com/miruken-go/resource"
)

type (
	Widget struct {
		Id      string
		Limit   int
		Created string
	}

	Color struct {
		Name string
	}

	Marker struct{}
)

func (c *Color) UnmarshalText(text []byte) error {
	switch s := string(text); s {
	case "red", "green", "blue":
		c.Name = s
		return nil
	}
	return errors.New("unknown color")
}

func NewWidget() *Widget {
	return &Widget{Created: "NewWidget"}
}

func NewWidgetById(
	_*struct{resource.PathParam `path:"id"`}, id string,
) *Widget {
	return &Widget{Id: id, Created: "NewWidgetById"}
}

func NewWidgetByIdAndLimit(
	_*struct{resource.PathParam `path:"id"`}, id string,
	_*struct{resource.QueryParam `query:"limit" default:"10"`}, limit int,
) *Widget {
	return &Widget{Id: id, Limit: limit, Created: "NewWidgetByIdAndLimit"}
}

func NewWidgetByName(
	_*struct{resource.QueryParam `query:"name"`}, name string,
) *Widget {
	return &Widget{Id: name, Created: "NewWidgetByName"}
}

func NewWidgetUnannotated(
	_*struct{resource.PathParam `path:"id"`}, id string,
	limit int,
) *Widget {
	return &Widget{Id: id, Limit: limit, Created: "NewWidgetUnannotated"}
}

func NewWidgetIllegalContext(
	_*struct{resource.Context}, when time.Time,
) *Widget {
	return &Widget{Created: "NewWidgetIllegalContext"}
}

func NewWidgetAmbiguous(
	_*struct{
		resource.PathParam  `path:"id"`
		resource.QueryParam `query:"id"`
	  }, id string,
) *Widget {
	return &Widget{Id: id, Created: "NewWidgetAmbiguous"}
}

func NewWidgetMarked(
	_*struct{
		Marker
		resource.PathParam `path:"id"`
	  }, id string,
) *Widget {
	return &Widget{Id: id, Created: "NewWidgetMarked"}
}

func NewWidgetFailing(
	_*struct{resource.PathParam `path:"id"`}, id string,
) (*Widget, error) {
	if id == "" {
		return nil, errors.New("id is required")
	}
	return &Widget{Id: id, Created: "NewWidgetFailing"}, nil
}

func newWidget(
	_*struct{resource.PathParam `path:"id"`}, id string,
) *Widget {
	return &Widget{Id: id, Created: "newWidget"}
}


var widgetType = reflect.TypeOf((*Widget)(nil))

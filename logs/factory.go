package logs

import (
	"github.com/go-logr/logr"
	"github.com/miruken-go/resource"
)

// ClassLogger returns a logger named after the root resource class.
// Without a class the root logger is returned.
func ClassLogger(root logr.Logger, class *resource.Class) logr.Logger {
	if class == nil {
		return root
	}
	return root.WithName(class.Type().String())
}

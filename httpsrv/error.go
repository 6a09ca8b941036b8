package httpsrv

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/Rican7/conjson"
	"github.com/Rican7/conjson/transform"
	"github.com/go-playground/validator/v10"
	ut "github.com/go-playground/universal-translator"
	"github.com/miruken-go/resource"
)

type (
	// Problem is the body written for a failed request.
	Problem struct {
		Status     int
		Message    string
		Parameter  string      `json:",omitempty"`
		Source     string      `json:",omitempty"`
		Violations []Violation `json:",omitempty"`
	}

	// Violation describes a failed validation rule.
	Violation struct {
		Rule    string
		Value   any `json:",omitempty"`
		Message string
	}
)

// StatusCode maps errors creating a resource to a http status code.
// Path, query and matrix parameters that cannot be converted mean
// the resource does not exist, invalid headers are bad requests.
func StatusCode(err error) int {
	var (
		resolve *resource.ResolutionError
		invalid validator.ValidationErrors
	)
	switch {
	case err == nil:
		return http.StatusOK
	case errors.As(err, &invalid):
		return http.StatusBadRequest
	case errors.As(err, &resolve):
		if b := resolve.Binding; b != nil {
			switch b.Source() {
			case resource.SourcePath, resource.SourceQuery, resource.SourceMatrix:
				return http.StatusNotFound
			case resource.SourceHeader:
				return http.StatusBadRequest
			}
		}
	}
	return http.StatusInternalServerError
}

// ProblemOf describes err as a Problem.  Validation messages are
// translated if trans is not nil.
func ProblemOf(err error, trans ut.Translator) *Problem {
	p := &Problem{Status: StatusCode(err), Message: err.Error()}
	var resolve *resource.ResolutionError
	if errors.As(err, &resolve) {
		if b := resolve.Binding; b != nil {
			p.Parameter = b.Name()
			p.Source    = b.Source().String()
		}
	}
	var invalid validator.ValidationErrors
	if errors.As(err, &invalid) {
		for _, fe := range invalid {
			msg := fe.Error()
			if trans != nil {
				msg = fe.Translate(trans)
				if fe.Field() == "" {
					// single values are validated without a field name
					msg = strings.TrimSpace(p.Parameter + msg)
				}
			}
			p.Violations = append(p.Violations, Violation{
				Rule:    fe.Tag(),
				Value:   fe.Value(),
				Message: msg,
			})
		}
	}
	if p.Status == http.StatusInternalServerError {
		p.Message = http.StatusText(p.Status)
	}
	return p
}

// WriteProblem writes the Problem as camelcase json.
func WriteProblem(w http.ResponseWriter, p *Problem) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(p.Status)
	_ = json.NewEncoder(w).Encode(conjson.NewMarshaler(p, camelCase))
}

var camelCase = transform.OnlyForDirection(
	transform.Marshal,
	transform.CamelCaseKeys(false))

package resource

import (
	"github.com/miruken-go/resource/internal"
)

// Verdict is the outcome of validating a Constructor.
type Verdict uint8

const (
	// Rejected constructors are not valid root resource overloads.
	Rejected Verdict = iota
	// Candidate constructors may be selected.
	Candidate
)

func (v Verdict) String() string {
	if v == Candidate {
		return "candidate"
	}
	return "rejected"
}

// ValidateConstructor decides if ctor may be selected.
// Every parameter needs exactly one recognized binding annotation.
// A Context annotation on a type other than UriInfo, Request,
// HttpHeaders or SecurityContext rejects ctor and returns an
// *IllegalContextTypeError since it is a mistake by the author.
func ValidateConstructor(ctor *Constructor) (Verdict, error) {
	if ctor == nil {
		panic("ctor cannot be nil")
	}
	for _, p := range ctor.params {
		if len(p.annotations) == 0 {
			return Rejected, nil
		}
		for _, b := range p.bindings {
			if b.source != SourceContext {
				continue
			}
			if r, _ := ruleOf(contextType); !r.allows(p.typ) {
				return Rejected, &IllegalContextTypeError{
					Constructor: ctor.name,
					Index:       p.index,
					Type:        p.typ,
				}
			}
		}
		if len(p.bindings) != 1 {
			return Rejected, nil
		}
	}
	return Candidate, nil
}

var contextType = internal.TypeOf[Context]()

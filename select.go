package resource

import (
	"math"

	"github.com/hashicorp/go-multierror"
)

// SelectConstructor returns the eligible constructor with the most
// parameters. Constructors are scanned in order and only replace
// the current best if they have strictly more parameters, so the
// first of equally sized constructors wins.
// It returns nil if no constructor is eligible.
// Any *IllegalContextTypeError found while scanning is returned
// without stopping the scan.
func SelectConstructor(
	ctors []*Constructor,
) (best *Constructor, err error) {
	bestCount := math.MinInt
	for _, ctor := range ctors {
		count := ctor.NumParams()
		if count <= bestCount {
			continue
		}
		verdict, invalid := ValidateConstructor(ctor)
		if invalid != nil {
			err = multierror.Append(err, invalid)
		}
		if verdict != Candidate {
			continue
		}
		best      = ctor
		bestCount = count
	}
	return best, err
}

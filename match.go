package resource

import (
	"net/http"
	"net/url"
	"strings"
)

type (
	// MatchResult holds the path template variables matched
	// for a request, both percent-decoded and as received.
	MatchResult struct {
		Variables url.Values
		Encoded   url.Values
	}

	// Params holds the raw multi-valued request parameters
	// aggregated from headers, the query and matrix segments.
	Params struct {
		Header        http.Header
		Query         url.Values
		EncodedQuery  url.Values
		Matrix        url.Values
		EncodedMatrix url.Values
	}
)


// Match builds a MatchResult from decoded template variables.
func Match(vars map[string]string) *MatchResult {
	m := &MatchResult{
		Variables: make(url.Values, len(vars)),
		Encoded:   make(url.Values, len(vars)),
	}
	for name, value := range vars {
		m.Variables.Set(name, value)
		m.Encoded.Set(name, url.PathEscape(value))
	}
	return m
}

// MatchEncoded builds a MatchResult from template variables
// still percent-encoded.  Values that cannot be decoded are
// kept as received.
func MatchEncoded(vars map[string]string) *MatchResult {
	m := &MatchResult{
		Variables: make(url.Values, len(vars)),
		Encoded:   make(url.Values, len(vars)),
	}
	for name, value := range vars {
		m.Encoded.Set(name, value)
		if decoded, err := url.PathUnescape(value); err == nil {
			m.Variables.Set(name, decoded)
		} else {
			m.Variables.Set(name, value)
		}
	}
	return m
}


// ParamsOf aggregates the header, query and matrix parameters
// of the request.  Matrix parameters of all path segments are
// collected in order.
func ParamsOf(r *http.Request) *Params {
	p := &Params{Header: make(http.Header)}
	if r == nil {
		return p
	}
	if r.Header != nil {
		p.Header = r.Header
	}
	if u := r.URL; u != nil {
		p.Query, p.EncodedQuery = parsePairs(u.RawQuery, "&", url.QueryUnescape)
		for _, segment := range strings.Split(u.EscapedPath(), "/") {
			if _, params, ok := strings.Cut(segment, ";"); ok {
				decoded, encoded := parsePairs(params, ";", url.PathUnescape)
				p.Matrix        = merge(p.Matrix, decoded)
				p.EncodedMatrix = merge(p.EncodedMatrix, encoded)
			}
		}
	}
	return p
}

// StripMatrix removes the matrix parameters from a path segment.
func StripMatrix(segment string) string {
	name, _, _ := strings.Cut(segment, ";")
	return name
}

// parsePairs splits name=value pairs separated by sep.
// It returns the decoded and encoded values.
func parsePairs(
	raw      string,
	sep      string,
	unescape func(string) (string, error),
) (decoded, encoded url.Values) {
	decoded = make(url.Values)
	encoded = make(url.Values)
	for _, pair := range strings.Split(raw, sep) {
		if pair == "" {
			continue
		}
		name, value, _ := strings.Cut(pair, "=")
		if n, err := unescape(name); err == nil {
			name = n
		}
		encoded[name] = append(encoded[name], value)
		if v, err := unescape(value); err == nil {
			value = v
		}
		decoded[name] = append(decoded[name], value)
	}
	return
}

func merge(into, from url.Values) url.Values {
	if into == nil {
		into = make(url.Values, len(from))
	}
	for name, values := range from {
		into[name] = append(into[name], values...)
	}
	return into
}

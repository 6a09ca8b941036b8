package resource

import (
	"fmt"
	"net/http"
	"net/url"
	"reflect"
	"strings"
	"time"

	"github.com/miruken-go/resource/internal"
	"github.com/miruken-go/resource/security"
	accept "github.com/timewasted/go-accept-headers"
)

type (
	// UriInfo provides access to the request URI and its parameters.
	UriInfo interface {
		RequestUri() *url.URL
		BaseUri() *url.URL
		Path(decode bool) string
		PathSegments() []string
		PathParameters(decode bool) url.Values
		QueryParameters(decode bool) url.Values
		MatrixParameters(decode bool) url.Values
	}

	// Request exposes the current request and precondition evaluation.
	Request interface {
		Method() string
		Raw() *http.Request
		// EvaluatePreconditions checks the conditional request headers
		// against the current state of the resource.  It returns the
		// status to respond with and false if the request must not
		// proceed.
		EvaluatePreconditions(lastModified time.Time, etag string) (int, bool)
	}

	// HttpHeaders provides access to the request headers.
	HttpHeaders interface {
		RequestHeader(name string) []string
		RequestHeaders() http.Header
		AcceptableMediaTypes() []string
		MediaType() string
		Language() string
		Cookies() map[string]*http.Cookie
	}

	// SecurityContext exposes the security information of a request.
	SecurityContext interface {
		UserPrincipal() security.Principal
		IsUserInRole(role string) bool
		IsSecure() bool
		AuthenticationScheme() string
	}

	// Call carries the request scoped inputs used to resolve
	// constructor parameters.  A Call must not be shared
	// between requests.
	Call struct {
		Match         *MatchResult
		Params        *Params
		Request       *http.Request
		Response      http.ResponseWriter
		Authenticator security.Authenticator

		raw *Params
	}

	uriInfo         struct{ call *Call }
	request         struct{ call *Call }
	httpHeaders     struct{ call *Call }
	securityContext struct{ call *Call }
)


// Call

func (c *Call) params() *Params {
	if c.Params != nil {
		return c.Params
	}
	if c.raw == nil {
		c.raw = ParamsOf(c.Request)
	}
	return c.raw
}

func (c *Call) request() *http.Request {
	if r := c.Request; r != nil {
		return r
	}
	return emptyRequest
}

// contextOf returns the context object of typ for the call.
func (c *Call) contextOf(typ reflect.Type) (any, bool) {
	switch typ {
	case uriInfoType:
		return &uriInfo{c}, true
	case requestType:
		return &request{c}, true
	case httpHeadersType:
		return &httpHeaders{c}, true
	case securityContextType:
		return &securityContext{c}, true
	}
	return nil, false
}


// uriInfo

func (u *uriInfo) RequestUri() *url.URL {
	return u.call.request().URL
}

func (u *uriInfo) BaseUri() *url.URL {
	r := u.call.request()
	base := &url.URL{Scheme: "http", Host: r.Host, Path: "/"}
	if r.TLS != nil {
		base.Scheme = "https"
	}
	return base
}

func (u *uriInfo) Path(decode bool) string {
	if decode {
		return u.RequestUri().Path
	}
	return u.RequestUri().EscapedPath()
}

func (u *uriInfo) PathSegments() []string {
	var segments []string
	for _, segment := range strings.Split(u.RequestUri().EscapedPath(), "/") {
		if segment = StripMatrix(segment); segment == "" {
			continue
		}
		if decoded, err := url.PathUnescape(segment); err == nil {
			segment = decoded
		}
		segments = append(segments, segment)
	}
	return segments
}

func (u *uriInfo) PathParameters(decode bool) url.Values {
	if m := u.call.Match; m != nil {
		if decode {
			return m.Variables
		}
		return m.Encoded
	}
	return url.Values{}
}

func (u *uriInfo) QueryParameters(decode bool) url.Values {
	if p := u.call.params(); decode {
		return p.Query
	} else {
		return p.EncodedQuery
	}
}

func (u *uriInfo) MatrixParameters(decode bool) url.Values {
	if p := u.call.params(); decode {
		return p.Matrix
	} else {
		return p.EncodedMatrix
	}
}


// request

func (r *request) Method() string {
	return r.call.request().Method
}

func (r *request) Raw() *http.Request {
	return r.call.Request
}

func (r *request) EvaluatePreconditions(
	lastModified time.Time,
	etag         string,
) (int, bool) {
	req  := r.call.request()
	safe := req.Method == http.MethodGet || req.Method == http.MethodHead
	lastModified = lastModified.Truncate(time.Second)

	if match := req.Header.Get("If-Match"); match != "" {
		if etag == "" || !matchesETag(match, etag, false) {
			return http.StatusPreconditionFailed, false
		}
	} else if since := req.Header.Get("If-Unmodified-Since"); since != "" && !lastModified.IsZero() {
		if t, err := http.ParseTime(since); err == nil && lastModified.After(t) {
			return http.StatusPreconditionFailed, false
		}
	}

	if noneMatch := req.Header.Get("If-None-Match"); noneMatch != "" {
		if etag != "" && matchesETag(noneMatch, etag, true) {
			if safe {
				return http.StatusNotModified, false
			}
			return http.StatusPreconditionFailed, false
		}
	} else if since := req.Header.Get("If-Modified-Since"); since != "" && safe && !lastModified.IsZero() {
		if t, err := http.ParseTime(since); err == nil && !lastModified.After(t) {
			return http.StatusNotModified, false
		}
	}
	return 0, true
}

// matchesETag returns true if etag is in the comma separated list.
// Weak comparison ignores the W/ prefix.
func matchesETag(list, etag string, weak bool) bool {
	etag = normalizeETag(etag, weak)
	for _, candidate := range strings.Split(list, ",") {
		candidate = strings.TrimSpace(candidate)
		if candidate == "*" {
			return true
		}
		if !weak && strings.HasPrefix(candidate, "W/") {
			continue
		}
		if normalizeETag(candidate, weak) == etag {
			return true
		}
	}
	return false
}

func normalizeETag(etag string, weak bool) string {
	if weak {
		etag = strings.TrimPrefix(etag, "W/")
	}
	return strings.Trim(etag, `"`)
}


// httpHeaders

func (h *httpHeaders) RequestHeader(name string) []string {
	return h.call.params().Header.Values(name)
}

func (h *httpHeaders) RequestHeaders() http.Header {
	return h.call.params().Header
}

func (h *httpHeaders) AcceptableMediaTypes() []string {
	hdr := h.call.params().Header.Get("Accept")
	if hdr == "" {
		return []string{"*/*"}
	}
	accepted := accept.Parse(hdr)
	types := make([]string, 0, len(accepted))
	for _, a := range accepted {
		if a.Q > 0 {
			types = append(types, fmt.Sprintf("%s/%s", a.Type, a.Subtype))
		}
	}
	return types
}

func (h *httpHeaders) MediaType() string {
	ct := h.call.params().Header.Get("Content-Type")
	mediaType, _, _ := strings.Cut(ct, ";")
	return strings.TrimSpace(mediaType)
}

func (h *httpHeaders) Language() string {
	return h.call.params().Header.Get("Content-Language")
}

func (h *httpHeaders) Cookies() map[string]*http.Cookie {
	cookies := make(map[string]*http.Cookie)
	for _, c := range h.call.request().Cookies() {
		if _, ok := cookies[c.Name]; !ok {
			cookies[c.Name] = c
		}
	}
	return cookies
}


// securityContext

func (s *securityContext) subject() security.Subject {
	if sub, ok := security.SubjectFrom(s.call.request().Context()); ok {
		return sub
	}
	return nil
}

func (s *securityContext) UserPrincipal() security.Principal {
	if p, ok := security.UserOf(s.subject()); ok {
		return p
	}
	return nil
}

func (s *securityContext) IsUserInRole(role string) bool {
	auth := s.call.Authenticator
	if internal.IsNil(auth) {
		return false
	}
	sub := s.subject()
	if sub == nil || !sub.Authenticated() {
		return false
	}
	return auth.IsUserInRole(sub, role)
}

func (s *securityContext) IsSecure() bool {
	return s.call.request().TLS != nil
}

func (s *securityContext) AuthenticationScheme() string {
	auth := s.call.request().Header.Get("Authorization")
	scheme, _, _ := strings.Cut(auth, " ")
	return scheme
}


var (
	emptyRequest = &http.Request{
		Method: http.MethodGet,
		URL:    &url.URL{Path: "/"},
		Header: http.Header{},
	}

	uriInfoType         = internal.TypeOf[UriInfo]()
	requestType         = internal.TypeOf[Request]()
	httpHeadersType     = internal.TypeOf[HttpHeaders]()
	securityContextType = internal.TypeOf[SecurityContext]()
)

package resource_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/miruken-go/resource"
	"github.com/miruken-go/resource/security"
	"github.com/stretchr/testify/suite"
)

type (
	Inspector struct {
		Info     resource.UriInfo
		Request  resource.Request
		Headers  resource.HttpHeaders
		Security resource.SecurityContext
	}

	ContextTestSuite struct {
		suite.Suite
		class *resource.Class
	}
)

func NewInspector(
	_*struct{resource.Context}, info     resource.UriInfo,
	_*struct{resource.Context}, request  resource.Request,
	_*struct{resource.Context}, headers  resource.HttpHeaders,
	_*struct{resource.Context}, sec      resource.SecurityContext,
) *Inspector {
	return &Inspector{info, request, headers, sec}
}

func (suite *ContextTestSuite) SetupTest() {
	class, err := resource.Root[*Inspector]("/widgets/{id}", NewInspector)
	suite.Require().NoError(err)
	suite.class = class
}

func (suite *ContextTestSuite) inspect(
	req  *http.Request,
	vars map[string]string,
	auth security.Authenticator,
) *Inspector {
	instance, err := suite.class.CreateInstance(
		resource.MatchEncoded(vars), nil, req, httptest.NewRecorder(), auth)
	suite.Require().NoError(err)
	inspector, ok := resource.As[*Inspector](instance)
	suite.Require().True(ok)
	return inspector
}

func (suite *ContextTestSuite) TestUriInfo() {
	req := httptest.NewRequest(http.MethodGet,
		"http://example.com/widgets;color=red/4%202?limit=5&q=a%20b", nil)
	info := suite.inspect(req, map[string]string{"id": "4%202"}, nil).Info

	suite.Equal("example.com", info.RequestUri().Host)
	suite.Equal("http://example.com/", info.BaseUri().String())
	suite.Equal("/widgets;color=red/4 2", info.Path(true))
	suite.Equal("/widgets;color=red/4%202", info.Path(false))
	suite.Equal([]string{"widgets", "4 2"}, info.PathSegments())
	suite.Equal("4 2", info.PathParameters(true).Get("id"))
	suite.Equal("4%202", info.PathParameters(false).Get("id"))
	suite.Equal("5", info.QueryParameters(true).Get("limit"))
	suite.Equal("a b", info.QueryParameters(true).Get("q"))
	suite.Equal("a%20b", info.QueryParameters(false).Get("q"))
	suite.Equal("red", info.MatrixParameters(true).Get("color"))
}

func (suite *ContextTestSuite) TestRequest() {
	req := httptest.NewRequest(http.MethodPut, "/widgets/1", nil)
	request := suite.inspect(req, nil, nil).Request
	suite.Equal(http.MethodPut, request.Method())
	suite.Same(req, request.Raw())
}

func (suite *ContextTestSuite) TestNoRequest() {
	instance, err := suite.class.Create(nil)
	suite.Require().NoError(err)
	inspector, _ := resource.As[*Inspector](instance)
	suite.Equal(http.MethodGet, inspector.Request.Method())
	suite.Nil(inspector.Request.Raw())
	suite.Equal("/", inspector.Info.Path(true))
	suite.Empty(inspector.Headers.RequestHeaders())
	suite.Nil(inspector.Security.UserPrincipal())
}

func (suite *ContextTestSuite) TestPreconditions() {
	modified := time.Date(2023, 6, 1, 12, 0, 0, 0, time.UTC)
	evaluate := func(method string, header http.Header) (int, bool) {
		req := httptest.NewRequest(method, "/widgets/1", nil)
		for name, values := range header {
			req.Header[name] = values
		}
		return suite.inspect(req, nil, nil).Request.EvaluatePreconditions(modified, `"v1"`)
	}

	suite.Run("None", func() {
		status, ok := evaluate(http.MethodGet, nil)
		suite.True(ok)
		suite.Equal(0, status)
	})

	suite.Run("IfNoneMatch", func() {
		status, ok := evaluate(http.MethodGet, http.Header{"If-None-Match": {`"v1"`}})
		suite.False(ok)
		suite.Equal(http.StatusNotModified, status)

		status, ok = evaluate(http.MethodPut, http.Header{"If-None-Match": {`"v1"`}})
		suite.False(ok)
		suite.Equal(http.StatusPreconditionFailed, status)

		_, ok = evaluate(http.MethodGet, http.Header{"If-None-Match": {`"v0", "v2"`}})
		suite.True(ok)

		status, ok = evaluate(http.MethodGet, http.Header{"If-None-Match": {`W/"v1"`}})
		suite.False(ok)
		suite.Equal(http.StatusNotModified, status)
	})

	suite.Run("IfMatch", func() {
		status, ok := evaluate(http.MethodPut, http.Header{"If-Match": {`"v2"`}})
		suite.False(ok)
		suite.Equal(http.StatusPreconditionFailed, status)

		_, ok = evaluate(http.MethodPut, http.Header{"If-Match": {`"v2", "v1"`}})
		suite.True(ok)

		_, ok = evaluate(http.MethodPut, http.Header{"If-Match": {"*"}})
		suite.True(ok)

		status, ok = evaluate(http.MethodPut, http.Header{"If-Match": {`W/"v1"`}})
		suite.False(ok)
		suite.Equal(http.StatusPreconditionFailed, status)
	})

	suite.Run("IfModifiedSince", func() {
		status, ok := evaluate(http.MethodGet, http.Header{
			"If-Modified-Since": {modified.Format(http.TimeFormat)}})
		suite.False(ok)
		suite.Equal(http.StatusNotModified, status)

		_, ok = evaluate(http.MethodGet, http.Header{
			"If-Modified-Since": {modified.Add(-time.Hour).Format(http.TimeFormat)}})
		suite.True(ok)

		_, ok = evaluate(http.MethodPost, http.Header{
			"If-Modified-Since": {modified.Format(http.TimeFormat)}})
		suite.True(ok)
	})

	suite.Run("IfUnmodifiedSince", func() {
		status, ok := evaluate(http.MethodPut, http.Header{
			"If-Unmodified-Since": {modified.Add(-time.Hour).Format(http.TimeFormat)}})
		suite.False(ok)
		suite.Equal(http.StatusPreconditionFailed, status)

		_, ok = evaluate(http.MethodPut, http.Header{
			"If-Unmodified-Since": {modified.Format(http.TimeFormat)}})
		suite.True(ok)
	})
}

func (suite *ContextTestSuite) TestHttpHeaders() {
	req := httptest.NewRequest(http.MethodPost, "/widgets/1", nil)
	req.Header.Set("Accept", "text/html;q=0.5, application/json")
	req.Header.Set("Content-Type", "application/json; charset=utf-8")
	req.Header.Set("Content-Language", "en-US")
	req.Header.Add("X-Tag", "a")
	req.Header.Add("X-Tag", "b")
	req.AddCookie(&http.Cookie{Name: "session", Value: "123"})
	headers := suite.inspect(req, nil, nil).Headers

	suite.Equal([]string{"a", "b"}, headers.RequestHeader("x-tag"))
	suite.Equal("en-US", headers.RequestHeaders().Get("Content-Language"))
	suite.ElementsMatch([]string{"application/json", "text/html"}, headers.AcceptableMediaTypes())
	suite.Equal("application/json", headers.MediaType())
	suite.Equal("en-US", headers.Language())
	suite.Equal("123", headers.Cookies()["session"].Value)

	req = httptest.NewRequest(http.MethodGet, "/widgets/1", nil)
	suite.Equal([]string{"*/*"}, suite.inspect(req, nil, nil).Headers.AcceptableMediaTypes())
}

func (suite *ContextTestSuite) TestSecurityContext() {
	roles := security.RoleMap{"alice": {"admin"}}

	suite.Run("Authenticated", func() {
		req := httptest.NewRequest(http.MethodGet, "https://example.com/widgets/1", nil)
		req.SetBasicAuth("alice", "secret")
		sub := security.NewSubject(security.WithPrincipals(security.User("alice")))
		req = req.WithContext(security.WithSubject(req.Context(), sub))
		sec := suite.inspect(req, nil, roles).Security

		suite.Equal(security.User("alice"), sec.UserPrincipal())
		suite.True(sec.IsUserInRole("admin"))
		suite.False(sec.IsUserInRole("guest"))
		suite.True(sec.IsSecure())
		suite.Equal("Basic", sec.AuthenticationScheme())
	})

	suite.Run("Anonymous", func() {
		req := httptest.NewRequest(http.MethodGet, "/widgets/1", nil)
		sec := suite.inspect(req, nil, roles).Security
		suite.Nil(sec.UserPrincipal())
		suite.False(sec.IsUserInRole("admin"))
		suite.False(sec.IsSecure())
		suite.Empty(sec.AuthenticationScheme())
	})

	suite.Run("NoAuthenticator", func() {
		req := httptest.NewRequest(http.MethodGet, "/widgets/1", nil)
		sub := security.NewSubject(security.WithPrincipals(security.User("alice")))
		req = req.WithContext(security.WithSubject(req.Context(), sub))
		sec := suite.inspect(req, nil, nil).Security
		suite.NotNil(sec.UserPrincipal())
		suite.False(sec.IsUserInRole("admin"))
	})
}

func TestContextTestSuite(t *testing.T) {
	suite.Run(t, new(ContextTestSuite))
}

package httpsrv

import (
	"fmt"
	"net/http"
	"runtime"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-logr/logr"
	ut "github.com/go-playground/universal-translator"
	"github.com/miruken-go/resource"
	"github.com/miruken-go/resource/logs"
	"github.com/miruken-go/resource/security"
)

type (
	// Handler creates an instance of a root resource class for
	// every request and lets it serve the request.  The resource
	// must implement http.Handler.
	Handler struct {
		class   *resource.Class
		factory resource.Factory
		auth    security.Authenticator
		trans   ut.Translator
		logger  logr.Logger
	}

	// Option configures the Handlers created by Mount.
	Option func(*Handler)
)

// WithFactory creates instances using factory.
func WithFactory(factory resource.Factory) Option {
	return func(h *Handler) {
		h.factory = factory
	}
}

// WithAuthenticator answers role checks using auth.
func WithAuthenticator(auth security.Authenticator) Option {
	return func(h *Handler) {
		h.auth = auth
	}
}

// WithTranslator translates validation messages using trans.
func WithTranslator(trans ut.Translator) Option {
	return func(h *Handler) {
		h.trans = trans
	}
}

// WithLogger logs failures to logger.
func WithLogger(logger logr.Logger) Option {
	return func(h *Handler) {
		h.logger = logger
	}
}


// NewHandler creates a Handler for the class.
func NewHandler(class *resource.Class, opts ...Option) *Handler {
	if class == nil {
		panic("class cannot be nil")
	}
	h := &Handler{class: class, logger: logr.Discard()}
	for _, opt := range opts {
		opt(h)
	}
	if h.factory == nil {
		h.factory = resource.DefaultFactory{}
	}
	if h.logger.GetSink() == nil {
		h.logger = logr.Discard()
	}
	h.logger = logs.ClassLogger(h.logger, class)
	return h
}

func (h *Handler) ServeHTTP(
	w http.ResponseWriter,
	r *http.Request,
) {
	ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
	w   = ww
	defer h.handlePanic(ww)

	instance, err := h.factory.Create(h.class, &resource.Call{
		Match:         MatchOf(r),
		Params:        resource.ParamsOf(r),
		Request:       r,
		Response:      w,
		Authenticator: h.auth,
	})
	if err != nil {
		p := ProblemOf(err, h.trans)
		if p.Status >= http.StatusInternalServerError {
			h.logger.Error(err, "unable to create resource")
		}
		WriteProblem(w, p)
		return
	}
	if handler, ok := resource.As[http.Handler](instance); ok {
		handler.ServeHTTP(w, r)
		return
	}
	WriteProblem(w, &Problem{
		Status:  http.StatusNotImplemented,
		Message: fmt.Sprintf("%v does not serve requests", h.class.Type()),
	})
}

func (h *Handler) handlePanic(w middleware.WrapResponseWriter) {
	if r := recover(); r != nil {
		if r == http.ErrAbortHandler {
			panic(r)
		}
		err, ok := r.(error)
		if !ok {
			err = fmt.Errorf("%v", r)
		}
		buf := make([]byte, 2048)
		buf  = buf[:runtime.Stack(buf, false)]
		h.logger.Error(err, "recovering from http panic", "stack", string(buf))
		if w.Status() != 0 {
			return
		}
		WriteProblem(w, &Problem{
			Status:  http.StatusInternalServerError,
			Message: http.StatusText(http.StatusInternalServerError),
		})
	}
}


// MatchOf builds the resource.MatchResult from the chi route
// parameters of the request.  Matrix parameters are removed from
// the values.  Values are still encoded when the request path
// contains escapes that do not decode unambiguously.
func MatchOf(r *http.Request) *resource.MatchResult {
	vars := make(map[string]string)
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		params := rctx.URLParams
		for i, key := range params.Keys {
			if i < len(params.Values) {
				vars[key] = stripMatrix(params.Values[i])
			}
		}
	}
	if r.URL != nil && r.URL.RawPath != "" {
		return resource.MatchEncoded(vars)
	}
	return resource.Match(vars)
}

func stripMatrix(value string) string {
	if !strings.Contains(value, ";") {
		return value
	}
	segments := strings.Split(value, "/")
	for i, segment := range segments {
		segments[i] = resource.StripMatrix(segment)
	}
	return strings.Join(segments, "/")
}


// Mount routes every root resource class of the registry with
// a constructor to a Handler.  Creation is logged at the
// verbosity of the registry options.
func Mount(
	router   chi.Router,
	registry *resource.Registry,
	opts     ...Option,
) {
	if router == nil {
		panic("router cannot be nil")
	}
	if registry == nil {
		panic("registry cannot be nil")
	}
	base := Handler{logger: logr.Discard()}
	for _, opt := range opts {
		opt(&base)
	}
	if base.logger.GetSink() == nil {
		base.logger = logr.Discard()
	}
	emit := logs.NewEmit(base.factory, base.logger, registry.Options().Verbosity)
	opts = append(opts[:len(opts):len(opts)], WithFactory(emit))
	for _, class := range registry.Classes() {
		if class.Constructor() == nil {
			continue
		}
		router.Handle(class.Path(), NewHandler(class, opts...))
	}
}

// NewRouter creates a chi router serving the registry.
// Requests are authenticated with Basic credentials if
// verifier is not nil.
func NewRouter(
	registry *resource.Registry,
	realm    string,
	verifier Verifier,
	opts     ...Option,
) chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	if verifier != nil {
		r.Use(Basic(realm, verifier))
	}
	Mount(r, registry, opts...)
	return r
}

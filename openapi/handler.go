package openapi

import (
	"encoding/json"
	"net/http"
	"net/url"
	"sync"

	"github.com/getkin/kin-openapi/openapi3"
)

// Handler serves the document as json.  The servers of the
// document are set to the scheme and host of each request.
func Handler(doc *openapi3.T) http.HandlerFunc {
	if doc == nil {
		panic("doc cannot be nil")
	}
	var lock sync.Mutex
	byHost := map[string]*openapi3.T{}

	return func(w http.ResponseWriter, r *http.Request) {
		scheme := r.Header.Get("X-Forwarded-Proto")
		if scheme == "" {
			if r.TLS != nil {
				scheme = "https"
			} else {
				scheme = "http"
			}
		}
		key := scheme + "://" + r.Host

		lock.Lock()
		served, ok := byHost[key]
		if !ok {
			copied := *doc
			uri := url.URL{Scheme: scheme, Host: r.Host}
			copied.Servers = openapi3.Servers{&openapi3.Server{URL: uri.String()}}
			served = &copied
			byHost[key] = served
		}
		lock.Unlock()

		w.Header().Set("Content-Type", "application/json")
		enc := json.NewEncoder(w)
		enc.SetIndent("", "    ")
		_ = enc.Encode(served)
	}
}

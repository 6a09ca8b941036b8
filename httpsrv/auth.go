package httpsrv

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"net/http"

	"github.com/miruken-go/resource/security"
)

type (
	// Verifier checks the credentials of a user and
	// returns the authenticated security.Subject.
	Verifier interface {
		Verify(ctx context.Context, user, password string) (security.Subject, error)
	}

	// VerifierFunc adapts a function to a Verifier.
	VerifierFunc func(ctx context.Context, user, password string) (security.Subject, error)

	// Passwords is a Verifier of known user passwords.
	Passwords map[string]string
)

// ErrInvalidCredentials is returned when credentials are rejected.
var ErrInvalidCredentials = errors.New("invalid credentials")


func (f VerifierFunc) Verify(
	ctx      context.Context,
	user     string,
	password string,
) (security.Subject, error) {
	return f(ctx, user, password)
}

func (p Passwords) Verify(
	_        context.Context,
	user     string,
	password string,
) (security.Subject, error) {
	expected, ok := p[user]
	if !ok || subtle.ConstantTimeCompare([]byte(expected), []byte(password)) != 1 {
		return nil, ErrInvalidCredentials
	}
	return security.NewSubject(security.WithPrincipals(security.User(user))), nil
}


// Basic returns middleware authenticating requests using the
// Basic scheme.  Requests without an Authorization header are
// passed on anonymously, so resources asking the SecurityContext
// see no user.
func Basic(realm string, verifier Verifier) func(http.Handler) http.Handler {
	if verifier == nil {
		panic("verifier cannot be nil")
	}
	challenge := fmt.Sprintf("Basic realm=%q", realm)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get("Authorization") == "" {
				next.ServeHTTP(w, r)
				return
			}
			user, pass, ok := r.BasicAuth()
			if !ok {
				w.Header().Set("WWW-Authenticate", challenge)
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			sub, err := verifier.Verify(r.Context(), user, pass)
			if err != nil || sub == nil {
				w.Header().Set("WWW-Authenticate", challenge)
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r.WithContext(security.WithSubject(r.Context(), sub)))
		})
	}
}

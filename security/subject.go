package security

import (
	"context"
	"reflect"
	"slices"
)

type (
	// Subject is the entity on whose behalf a request executes.
	// e.g. User, Service or Machine
	Subject interface {
		// Authenticated returns true if this Subject is authenticated.
		Authenticated() bool

		// Principals return the identities of this Subject.
		// e.g. UserId, Username, Group or Role
		Principals() []Principal

		// Credentials return security attributes of this Subject.
		// e.g. passwords, certificates, claims
		Credentials() []any
	}

	// SubjectOption allows configuration of new Subject.
	SubjectOption func(subject *subject)

	subject struct {
		principals  []Principal
		credentials []any
	}

	subjectKey struct{}
)


// subject

func (s *subject) Authenticated() bool {
	return len(s.principals) > 0 || len(s.credentials) > 0
}

func (s *subject) Principals() []Principal {
	return s.principals
}

func (s *subject) Credentials() []any {
	return s.credentials
}


// WithPrincipals configures a Subject with distinct principals.
func WithPrincipals(ps ...Principal) SubjectOption {
	return func(sub *subject) {
		for _, p := range ps {
			if !slices.Contains(sub.principals, p) {
				sub.principals = append(sub.principals, p)
			}
		}
	}
}

// WithCredentials configures a Subject with distinct credentials.
func WithCredentials(cs ...any) SubjectOption {
	return func(sub *subject) {
		for _, c := range cs {
			if c == nil {
				continue
			}
			if !reflect.TypeOf(c).Comparable() || !slices.Contains(sub.credentials, c) {
				sub.credentials = append(sub.credentials, c)
			}
		}
	}
}

// NewSubject creates a new Subject with optional principals and credentials.
func NewSubject(opts ...SubjectOption) Subject {
	sub := &subject{}
	for _, opt := range opts {
		if opt != nil {
			opt(sub)
		}
	}
	return sub
}

// HasAll return true if the subject possess all principals.
func HasAll(sub Subject, ps ...Principal) bool {
	if sub == nil {
		return false
	}
	sp := sub.Principals()
	for _, p := range ps {
		if !slices.Contains(sp, p) {
			return false
		}
	}
	return true
}

// HasAny return true if the subject possess any principals.
func HasAny(sub Subject, ps ...Principal) bool {
	if sub == nil {
		return false
	}
	sp := sub.Principals()
	for _, p := range ps {
		if slices.Contains(sp, p) {
			return true
		}
	}
	return false
}

// UserOf returns the first User or Id principal of the subject.
func UserOf(sub Subject) (Principal, bool) {
	if sub == nil {
		return nil, false
	}
	for _, p := range sub.Principals() {
		switch p.(type) {
		case User, Id:
			return p, true
		}
	}
	return nil, false
}

// WithSubject returns a copy of ctx carrying the subject.
func WithSubject(ctx context.Context, sub Subject) context.Context {
	return context.WithValue(ctx, subjectKey{}, sub)
}

// SubjectFrom returns the subject carried by ctx, if any.
func SubjectFrom(ctx context.Context) (Subject, bool) {
	sub, ok := ctx.Value(subjectKey{}).(Subject)
	return sub, ok && sub != nil
}

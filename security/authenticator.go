package security

import "slices"

type (
	// Authenticator answers role membership questions for a Subject.
	Authenticator interface {
		IsUserInRole(sub Subject, role string) bool
	}

	// AuthenticatorFunc adapts a function to an Authenticator.
	AuthenticatorFunc func(sub Subject, role string) bool

	// RolePrincipals authorizes roles carried as Role principals.
	RolePrincipals struct{}

	// RoleMap authorizes roles assigned to users by name.
	RoleMap map[string][]string
)

func (f AuthenticatorFunc) IsUserInRole(sub Subject, role string) bool {
	return f(sub, role)
}

func (RolePrincipals) IsUserInRole(sub Subject, role string) bool {
	return HasAny(sub, Role(role))
}

func (m RoleMap) IsUserInRole(sub Subject, role string) bool {
	if user, ok := UserOf(sub); ok {
		return slices.Contains(m[user.Name()], role)
	}
	return false
}

// Deny rejects every role request.
var Deny Authenticator = AuthenticatorFunc(func(Subject, string) bool {
	return false
})

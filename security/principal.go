package security

type (
	// Principal identifies a Subject.
	Principal interface {
		Name() string
	}

	// Id represents the identity of a subject. i.e. user id
	Id string

	// User identifies a username or account name. i.e. test1
	User string

	// Role represents a certain level of authorization. i.e. operator
	Role string

	// Group organizes users having common capabilities. i.e. admin
	Group string
)

func (i Id) Name() string    { return string(i) }
func (u User) Name() string  { return string(u) }
func (r Role) Name() string  { return string(r) }
func (g Group) Name() string { return string(g) }

// Roles converts role names into Role principals.
func Roles(names ...string) []Principal {
	ps := make([]Principal, len(names))
	for i, name := range names {
		ps[i] = Role(name)
	}
	return ps
}

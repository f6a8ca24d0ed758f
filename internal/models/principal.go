package models

// PrincipalKind tags a Principal as anonymous or authenticated.
type PrincipalKind int

const (
	KindAnonymous PrincipalKind = iota
	KindAuthenticated
)

// Principal is the identity resolved for the current request. User is
// non-nil iff Kind is KindAuthenticated.
type Principal struct {
	Kind PrincipalKind
	User *User
}

// Anonymous is the principal of an unauthenticated request.
func Anonymous() Principal {
	return Principal{Kind: KindAnonymous}
}

// Authenticated wraps a user row in a principal.
func Authenticated(u *User) Principal {
	return Principal{Kind: KindAuthenticated, User: u}
}

// IsAuthenticated reports whether the principal is bound to a user.
func (p Principal) IsAuthenticated() bool {
	return p.Kind == KindAuthenticated && p.User != nil
}

// Role returns the bound user's role, or "" for anonymous principals.
func (p Principal) Role() string {
	if !p.IsAuthenticated() {
		return ""
	}
	return p.User.Role
}

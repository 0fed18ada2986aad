package truthordare

import "github.com/mcoot/partygames/internal/model"

// Identity reports the authenticated user driving a request, if any
type Identity interface {
	CurrentUser() (*model.User, bool)
}

// IdentityFunc adapts a function to Identity
type IdentityFunc func() (*model.User, bool)

func (f IdentityFunc) CurrentUser() (*model.User, bool) {
	return f()
}

// Anonymous is the identity of an unauthenticated caller
var Anonymous Identity = IdentityFunc(func() (*model.User, bool) { return nil, false })

// UserIdentity returns an Identity that always reports user
func UserIdentity(user *model.User) Identity {
	return IdentityFunc(func() (*model.User, bool) { return user, user != nil })
}

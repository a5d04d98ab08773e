package auth

import (
	domainUser "bootcamp-directory/internal/domain/user"
	appErrors "bootcamp-directory/pkg/errors"
)

// Owned is implemented by every resource that has a single owning user.
type Owned interface {
	OwnerID() string
}

// Actor is the authenticated identity performing a request.
type Actor struct {
	ID   string
	Role string
}

func ActorOf(u *domainUser.User) Actor {
	return Actor{ID: u.ID, Role: u.Role}
}

func (a Actor) IsAdmin() bool {
	return a.Role == domainUser.RoleAdmin
}

// AuthorizeOwnership permits a mutation when the actor owns the resource or
// is an admin.
func AuthorizeOwnership(actor Actor, resource Owned, action string) error {
	if actor.IsAdmin() || (actor.ID != "" && actor.ID == resource.OwnerID()) {
		return nil
	}
	return appErrors.NotAuthorized(actor.ID, action)
}

package auth

import (
	"testing"

	appErrors "bootcamp-directory/pkg/errors"

	"github.com/stretchr/testify/assert"
)

type resource string

func (r resource) OwnerID() string { return string(r) }

func TestAuthorizeOwnership(t *testing.T) {
	owned := resource("u1")

	assert.NoError(t, AuthorizeOwnership(Actor{ID: "u1", Role: "standard"}, owned, "update this bootcamp"))
	assert.NoError(t, AuthorizeOwnership(Actor{ID: "u9", Role: "admin"}, owned, "update this bootcamp"))

	err := AuthorizeOwnership(Actor{ID: "u2", Role: "standard"}, owned, "update this bootcamp")
	assert.Equal(t, appErrors.KindNotAuthorized, appErrors.KindOf(err))
	assert.EqualError(t, err, "User u2 is not authorized to update this bootcamp")

	// a resource with no recorded owner is admin-only
	assert.Error(t, AuthorizeOwnership(Actor{Role: "standard"}, resource(""), "delete"))
}

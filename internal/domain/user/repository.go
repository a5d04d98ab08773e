package user

import (
	"context"
	"time"

	"bootcamp-directory/pkg/query"
)

// Repository is the credential store. Reads leave PasswordHashed empty unless
// the method name says otherwise.
type Repository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, userID string) (*User, error)
	GetByIDWithPassword(ctx context.Context, userID string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByEmailWithPassword(ctx context.Context, email string) (*User, error)
	List(ctx context.Context, q *query.Descriptor) ([]*User, int64, error)
	Update(ctx context.Context, user *User) error
	UpdatePassword(ctx context.Context, userID string, passwordHash string) error
	Delete(ctx context.Context, userID string) error

	// SetResetToken and ClearResetToken touch only the reset fields.
	SetResetToken(ctx context.Context, userID, tokenHash string, expiresAt time.Time) error
	ClearResetToken(ctx context.Context, userID string) error
	// ConsumeResetToken atomically swaps the password of the user holding an
	// unexpired token and clears the token, so a token works once.
	ConsumeResetToken(ctx context.Context, tokenHash, passwordHash string, now time.Time) (*User, error)
}

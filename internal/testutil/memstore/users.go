package memstore

import (
	"context"
	"time"

	domainUser "bootcamp-directory/internal/domain/user"
	"bootcamp-directory/pkg/query"
)

type Users struct {
	store[domainUser.User]
}

var _ domainUser.Repository = (*Users)(nil)

func NewUsers() *Users {
	return &Users{}
}

func cloneUser(u *domainUser.User) *domainUser.User {
	cp := *u
	return &cp
}

func withoutPassword(u *domainUser.User) *domainUser.User {
	cp := cloneUser(u)
	cp.PasswordHashed = ""
	cp.ResetPasswordToken = ""
	cp.ResetPasswordExpire = nil
	return cp
}

func (r *Users) Create(_ context.Context, u *domainUser.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.find(func(x *domainUser.User) bool { return x.Email == u.Email }) != nil {
		return domainUser.ErrUserAlreadyExists
	}
	u.ID = NewID()
	u.CreatedAt = time.Now().UTC()
	r.items = append(r.items, cloneUser(u))
	return nil
}

func (r *Users) get(match func(*domainUser.User) bool, withPassword bool) (*domainUser.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u := r.find(match)
	if u == nil {
		return nil, domainUser.ErrUserNotFound
	}
	if withPassword {
		return cloneUser(u), nil
	}
	return withoutPassword(u), nil
}

func byID(id string) func(*domainUser.User) bool {
	return func(u *domainUser.User) bool { return u.ID == id }
}

func byEmail(email string) func(*domainUser.User) bool {
	return func(u *domainUser.User) bool { return u.Email == email }
}

func (r *Users) GetByID(_ context.Context, id string) (*domainUser.User, error) {
	return r.get(byID(id), false)
}

func (r *Users) GetByIDWithPassword(_ context.Context, id string) (*domainUser.User, error) {
	return r.get(byID(id), true)
}

func (r *Users) GetByEmail(_ context.Context, email string) (*domainUser.User, error) {
	return r.get(byEmail(email), false)
}

func (r *Users) GetByEmailWithPassword(_ context.Context, email string) (*domainUser.User, error) {
	return r.get(byEmail(email), true)
}

func (r *Users) List(_ context.Context, q *query.Descriptor) ([]*domainUser.User, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out, total := page(r.items, q, func(u *domainUser.User) map[string]interface{} {
		return map[string]interface{}{"id": u.ID, "name": u.Name, "email": u.Email, "role": u.Role}
	}, withoutPassword)
	return out, total, nil
}

func (r *Users) mutate(id string, fn func(*domainUser.User)) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u := r.find(byID(id))
	if u == nil {
		return domainUser.ErrUserNotFound
	}
	fn(u)
	return nil
}

func (r *Users) Update(_ context.Context, u *domainUser.User) error {
	r.mu.Lock()
	clash := r.find(func(x *domainUser.User) bool { return x.Email == u.Email && x.ID != u.ID })
	r.mu.Unlock()
	if clash != nil {
		return domainUser.ErrUserAlreadyExists
	}

	return r.mutate(u.ID, func(x *domainUser.User) {
		x.Name, x.Email, x.Role = u.Name, u.Email, u.Role
	})
}

func (r *Users) UpdatePassword(_ context.Context, id, hash string) error {
	return r.mutate(id, func(x *domainUser.User) { x.PasswordHashed = hash })
}

func (r *Users) SetResetToken(_ context.Context, id, tokenHash string, expiresAt time.Time) error {
	return r.mutate(id, func(x *domainUser.User) {
		x.ResetPasswordToken = tokenHash
		x.ResetPasswordExpire = &expiresAt
	})
}

func (r *Users) ClearResetToken(_ context.Context, id string) error {
	return r.mutate(id, func(x *domainUser.User) {
		x.ResetPasswordToken = ""
		x.ResetPasswordExpire = nil
	})
}

func (r *Users) ConsumeResetToken(_ context.Context, tokenHash, passwordHash string, now time.Time) (*domainUser.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u := r.find(func(x *domainUser.User) bool {
		return x.ResetPasswordToken != "" && x.ResetPasswordToken == tokenHash &&
			x.ResetPasswordExpire != nil && x.ResetPasswordExpire.After(now)
	})
	if u == nil {
		return nil, domainUser.ErrResetTokenInvalid
	}
	u.PasswordHashed = passwordHash
	u.ResetPasswordToken = ""
	u.ResetPasswordExpire = nil
	return withoutPassword(u), nil
}

func (r *Users) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.remove(byID(id)) == 0 {
		return domainUser.ErrUserNotFound
	}
	return nil
}

// Raw returns the stored record including secrets.
func (r *Users) Raw(id string) *domainUser.User {
	r.mu.Lock()
	defer r.mu.Unlock()

	if u := r.find(byID(id)); u != nil {
		return cloneUser(u)
	}
	return nil
}

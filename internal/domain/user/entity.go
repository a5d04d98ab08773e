package user

import "time"

const (
	RoleStandard = "standard"
	RoleAdmin    = "admin"
)

// User is an account. PasswordHashed is only populated by the
// *WithPassword repository reads.
type User struct {
	ID                  string
	Name                string
	Email               string
	PasswordHashed      string
	Role                string
	ResetPasswordToken  string
	ResetPasswordExpire *time.Time
	CreatedAt           time.Time
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

package review

import "time"

type Review struct {
	ID         string
	Title      string
	Text       string
	Rating     int
	BootcampID string
	UserID     string
	CreatedAt  time.Time
}

func (r *Review) OwnerID() string {
	return r.UserID
}

package course

import "time"

type Course struct {
	ID                   string
	Title                string
	Description          string
	Weeks                string
	Tuition              float64
	MinimumSkill         string
	ScholarshipAvailable bool
	BootcampID           string
	UserID               string
	CreatedAt            time.Time
}

func (c *Course) OwnerID() string {
	return c.UserID
}

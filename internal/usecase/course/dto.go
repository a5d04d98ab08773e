package course

import (
	"time"

	domainCourse "bootcamp-directory/internal/domain/course"
	bootcampUC "bootcamp-directory/internal/usecase/bootcamp"
)

type CreateCourseRequest struct {
	Title                string  `json:"title" validate:"required,max=100"`
	Description          string  `json:"description" validate:"required"`
	Weeks                string  `json:"weeks" validate:"required"`
	Tuition              float64 `json:"tuition" validate:"required,gt=0"`
	MinimumSkill         string  `json:"minimumSkill" validate:"required,skill_level"`
	ScholarshipAvailable bool    `json:"scholarshipAvailable"`
}

type UpdateCourseRequest struct {
	Title                *string  `json:"title" validate:"omitempty,max=100"`
	Description          *string  `json:"description"`
	Weeks                *string  `json:"weeks"`
	Tuition              *float64 `json:"tuition" validate:"omitempty,gt=0"`
	MinimumSkill         *string  `json:"minimumSkill" validate:"omitempty,skill_level"`
	ScholarshipAvailable *bool    `json:"scholarshipAvailable"`
}

// CourseResponse carries the bootcamp either as an id or, on single reads,
// as a summary.
type CourseResponse struct {
	ID                   string      `json:"id"`
	Title                string      `json:"title,omitempty"`
	Description          string      `json:"description,omitempty"`
	Weeks                string      `json:"weeks,omitempty"`
	Tuition              float64     `json:"tuition,omitempty"`
	MinimumSkill         string      `json:"minimumSkill,omitempty"`
	ScholarshipAvailable bool        `json:"scholarshipAvailable"`
	Bootcamp             interface{} `json:"bootcamp,omitempty"`
	User                 string      `json:"user,omitempty"`
	CreatedAt            time.Time   `json:"createdAt"`
}

func ToCourseResponse(c *domainCourse.Course, bootcamp *bootcampUC.BootcampSummary) *CourseResponse {
	if c == nil {
		return nil
	}
	resp := &CourseResponse{
		ID:                   c.ID,
		Title:                c.Title,
		Description:          c.Description,
		Weeks:                c.Weeks,
		Tuition:              c.Tuition,
		MinimumSkill:         c.MinimumSkill,
		ScholarshipAvailable: c.ScholarshipAvailable,
		User:                 c.UserID,
		CreatedAt:            c.CreatedAt,
	}
	if bootcamp != nil {
		resp.Bootcamp = bootcamp
	} else if c.BootcampID != "" {
		resp.Bootcamp = c.BootcampID
	}
	return resp
}

func ToCourseResponses(courses []*domainCourse.Course) []*CourseResponse {
	out := make([]*CourseResponse, 0, len(courses))
	for _, c := range courses {
		out = append(out, ToCourseResponse(c, nil))
	}
	return out
}

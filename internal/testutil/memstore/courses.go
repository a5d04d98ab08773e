package memstore

import (
	"context"
	"time"

	domainCourse "bootcamp-directory/internal/domain/course"
	"bootcamp-directory/pkg/query"
)

type Courses struct {
	store[domainCourse.Course]
}

var _ domainCourse.Repository = (*Courses)(nil)

func NewCourses() *Courses {
	return &Courses{}
}

func cloneCourse(c *domainCourse.Course) *domainCourse.Course {
	cp := *c
	return &cp
}

func courseByID(id string) func(*domainCourse.Course) bool {
	return func(c *domainCourse.Course) bool { return c.ID == id }
}

func (r *Courses) Create(_ context.Context, c *domainCourse.Course) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	c.ID = NewID()
	c.CreatedAt = time.Now().UTC()
	r.items = append(r.items, cloneCourse(c))
	return nil
}

func (r *Courses) GetByID(_ context.Context, id string) (*domainCourse.Course, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c := r.find(courseByID(id))
	if c == nil {
		return nil, domainCourse.ErrCourseNotFound
	}
	return cloneCourse(c), nil
}

func (r *Courses) List(_ context.Context, q *query.Descriptor) ([]*domainCourse.Course, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out, total := page(r.items, q, func(c *domainCourse.Course) map[string]interface{} {
		return map[string]interface{}{"id": c.ID, "title": c.Title, "bootcamp": c.BootcampID, "user": c.UserID}
	}, cloneCourse)
	return out, total, nil
}

func (r *Courses) Update(_ context.Context, c *domainCourse.Course) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	x := r.find(courseByID(c.ID))
	if x == nil {
		return domainCourse.ErrCourseNotFound
	}
	x.Title, x.Description, x.Weeks = c.Title, c.Description, c.Weeks
	x.Tuition, x.MinimumSkill, x.ScholarshipAvailable = c.Tuition, c.MinimumSkill, c.ScholarshipAvailable
	return nil
}

func (r *Courses) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.remove(courseByID(id)) == 0 {
		return domainCourse.ErrCourseNotFound
	}
	return nil
}

func (r *Courses) DeleteByBootcamp(_ context.Context, bootcampID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.remove(func(c *domainCourse.Course) bool { return c.BootcampID == bootcampID })
	return nil
}

func (r *Courses) AverageTuition(_ context.Context, bootcampID string) (*float64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var sum float64
	var n int
	for _, c := range r.items {
		if c.BootcampID == bootcampID {
			sum += c.Tuition
			n++
		}
	}
	if n == 0 {
		return nil, nil
	}
	avg := sum / float64(n)
	return &avg, nil
}

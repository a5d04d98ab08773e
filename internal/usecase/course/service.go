package course

import (
	"context"
	"errors"
	"math"

	domainBootcamp "bootcamp-directory/internal/domain/bootcamp"
	domainCourse "bootcamp-directory/internal/domain/course"
	"bootcamp-directory/internal/domain/events"
	"bootcamp-directory/internal/logger"
	"bootcamp-directory/internal/usecase/auth"
	bootcampUC "bootcamp-directory/internal/usecase/bootcamp"
	appErrors "bootcamp-directory/pkg/errors"
	"bootcamp-directory/pkg/query"
	"bootcamp-directory/pkg/utils"

	"go.uber.org/zap"
)

type Service struct {
	courseRepo   domainCourse.Repository
	bootcampRepo domainBootcamp.Repository
	publisher    events.Publisher
}

func NewService(courseRepo domainCourse.Repository, bootcampRepo domainBootcamp.Repository, publisher events.Publisher) *Service {
	return &Service{
		courseRepo:   courseRepo,
		bootcampRepo: bootcampRepo,
		publisher:    publisher,
	}
}

type ListResult struct {
	Courses []*CourseResponse
	Total   int64
}

func (s *Service) List(ctx context.Context, q *query.Descriptor) (*ListResult, error) {
	courses, total, err := s.courseRepo.List(ctx, q)
	if err != nil {
		return nil, err
	}
	return &ListResult{Courses: ToCourseResponses(courses), Total: total}, nil
}

// ListForBootcamp runs q restricted to one bootcamp's courses.
func (s *Service) ListForBootcamp(ctx context.Context, bootcampID string, q *query.Descriptor) (*ListResult, error) {
	if _, err := s.bootcampRepo.GetByID(ctx, bootcampID); err != nil {
		return nil, bootcampUC.MapError(err, bootcampID)
	}
	return s.List(ctx, q.With(query.Clause{Field: "bootcamp", Op: query.OpEq, Value: bootcampID}))
}

func (s *Service) Get(ctx context.Context, courseID string) (*CourseResponse, error) {
	c, err := s.courseRepo.GetByID(ctx, courseID)
	if err != nil {
		return nil, MapError(err, courseID)
	}

	b, err := s.bootcampRepo.GetByID(ctx, c.BootcampID)
	if err != nil && !errors.Is(err, domainBootcamp.ErrBootcampNotFound) {
		return nil, err
	}
	return ToCourseResponse(c, bootcampUC.ToBootcampSummary(b)), nil
}

func (s *Service) Create(ctx context.Context, actor auth.Actor, bootcampID string, req *CreateCourseRequest) (*CourseResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, appErrors.Validation(err.Error(), nil)
	}

	b, err := s.bootcampRepo.GetByID(ctx, bootcampID)
	if err != nil {
		return nil, bootcampUC.MapError(err, bootcampID)
	}
	if err := auth.AuthorizeOwnership(actor, b, "add a course to bootcamp "+b.ID); err != nil {
		return nil, err
	}

	c := &domainCourse.Course{
		Title:                utils.SanitizeString(req.Title),
		Description:          utils.SanitizeText(req.Description),
		Weeks:                utils.SanitizeString(req.Weeks),
		Tuition:              req.Tuition,
		MinimumSkill:         req.MinimumSkill,
		ScholarshipAvailable: req.ScholarshipAvailable,
		BootcampID:           b.ID,
		UserID:               actor.ID,
	}
	if err := s.courseRepo.Create(ctx, c); err != nil {
		return nil, err
	}

	s.refreshAverageCost(ctx, b.ID)
	s.publish(ctx, events.New(events.CourseCreated, c.ID, actor.ID))

	return ToCourseResponse(c, nil), nil
}

func (s *Service) Update(ctx context.Context, actor auth.Actor, courseID string, req *UpdateCourseRequest) (*CourseResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, appErrors.Validation(err.Error(), nil)
	}

	c, err := s.courseRepo.GetByID(ctx, courseID)
	if err != nil {
		return nil, MapError(err, courseID)
	}
	if err := auth.AuthorizeOwnership(actor, c, "update course "+c.ID); err != nil {
		return nil, err
	}

	if req.Title != nil {
		c.Title = utils.SanitizeString(*req.Title)
	}
	if req.Description != nil {
		c.Description = utils.SanitizeText(*req.Description)
	}
	if req.Weeks != nil {
		c.Weeks = utils.SanitizeString(*req.Weeks)
	}
	if req.Tuition != nil {
		c.Tuition = *req.Tuition
	}
	if req.MinimumSkill != nil {
		c.MinimumSkill = *req.MinimumSkill
	}
	if req.ScholarshipAvailable != nil {
		c.ScholarshipAvailable = *req.ScholarshipAvailable
	}

	if err := s.courseRepo.Update(ctx, c); err != nil {
		return nil, MapError(err, courseID)
	}

	s.refreshAverageCost(ctx, c.BootcampID)
	s.publish(ctx, events.New(events.CourseUpdated, c.ID, actor.ID))
	return ToCourseResponse(c, nil), nil
}

func (s *Service) Delete(ctx context.Context, actor auth.Actor, courseID string) error {
	c, err := s.courseRepo.GetByID(ctx, courseID)
	if err != nil {
		return MapError(err, courseID)
	}
	if err := auth.AuthorizeOwnership(actor, c, "delete course "+c.ID); err != nil {
		return err
	}

	if err := s.courseRepo.Delete(ctx, courseID); err != nil {
		return MapError(err, courseID)
	}

	s.refreshAverageCost(ctx, c.BootcampID)
	s.publish(ctx, events.New(events.CourseDeleted, c.ID, actor.ID))
	return nil
}

// refreshAverageCost stores the mean tuition rounded up to the next ten.
// Failures are logged; the course change itself already succeeded.
func (s *Service) refreshAverageCost(ctx context.Context, bootcampID string) {
	avg, err := s.courseRepo.AverageTuition(ctx, bootcampID)
	if err == nil {
		err = s.bootcampRepo.SetAverageCost(ctx, bootcampID, RoundCost(avg))
	}
	if err != nil && !errors.Is(err, domainBootcamp.ErrBootcampNotFound) {
		logger.Error("Failed to update bootcamp average cost",
			zap.String("bootcamp_id", bootcampID),
			zap.Error(err),
		)
	}
}

// RoundCost rounds an average up to a multiple of ten.
func RoundCost(avg *float64) *float64 {
	if avg == nil {
		return nil
	}
	v := math.Ceil(*avg/10) * 10
	return &v
}

func (s *Service) publish(ctx context.Context, event events.Event) {
	if err := s.publisher.Publish(ctx, event); err != nil {
		logger.Warn("Failed to publish event",
			zap.String("type", string(event.Type)),
			zap.String("resource_id", event.ResourceID),
			zap.Error(err),
		)
	}
}

func MapError(err error, courseID string) error {
	if errors.Is(err, domainCourse.ErrCourseNotFound) {
		return appErrors.NotFound("Course", courseID)
	}
	return err
}

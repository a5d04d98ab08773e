package review

import (
	"context"
	"errors"

	domainBootcamp "bootcamp-directory/internal/domain/bootcamp"
	"bootcamp-directory/internal/domain/events"
	domainReview "bootcamp-directory/internal/domain/review"
	"bootcamp-directory/internal/logger"
	"bootcamp-directory/internal/usecase/auth"
	bootcampUC "bootcamp-directory/internal/usecase/bootcamp"
	appErrors "bootcamp-directory/pkg/errors"
	"bootcamp-directory/pkg/query"
	"bootcamp-directory/pkg/utils"

	"go.uber.org/zap"
)

type Service struct {
	reviewRepo   domainReview.Repository
	bootcampRepo domainBootcamp.Repository
	publisher    events.Publisher
}

func NewService(reviewRepo domainReview.Repository, bootcampRepo domainBootcamp.Repository, publisher events.Publisher) *Service {
	return &Service{
		reviewRepo:   reviewRepo,
		bootcampRepo: bootcampRepo,
		publisher:    publisher,
	}
}

type ListResult struct {
	Reviews []*ReviewResponse
	Total   int64
}

func (s *Service) List(ctx context.Context, q *query.Descriptor) (*ListResult, error) {
	reviews, total, err := s.reviewRepo.List(ctx, q)
	if err != nil {
		return nil, err
	}
	return &ListResult{Reviews: ToReviewResponses(reviews), Total: total}, nil
}

func (s *Service) ListForBootcamp(ctx context.Context, bootcampID string, q *query.Descriptor) (*ListResult, error) {
	if _, err := s.bootcampRepo.GetByID(ctx, bootcampID); err != nil {
		return nil, bootcampUC.MapError(err, bootcampID)
	}
	return s.List(ctx, q.With(query.Clause{Field: "bootcamp", Op: query.OpEq, Value: bootcampID}))
}

func (s *Service) Get(ctx context.Context, reviewID string) (*ReviewResponse, error) {
	r, err := s.reviewRepo.GetByID(ctx, reviewID)
	if err != nil {
		return nil, MapError(err, reviewID)
	}

	b, err := s.bootcampRepo.GetByID(ctx, r.BootcampID)
	if err != nil && !errors.Is(err, domainBootcamp.ErrBootcampNotFound) {
		return nil, err
	}
	return ToReviewResponse(r, bootcampUC.ToBootcampSummary(b)), nil
}

// Create adds the actor's review of a bootcamp. Each user may review a
// bootcamp once.
func (s *Service) Create(ctx context.Context, actor auth.Actor, bootcampID string, req *CreateReviewRequest) (*ReviewResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, appErrors.Validation(err.Error(), nil)
	}

	b, err := s.bootcampRepo.GetByID(ctx, bootcampID)
	if err != nil {
		return nil, bootcampUC.MapError(err, bootcampID)
	}

	r := &domainReview.Review{
		Title:      utils.SanitizeString(req.Title),
		Text:       utils.SanitizeText(req.Text),
		Rating:     req.Rating,
		BootcampID: b.ID,
		UserID:     actor.ID,
	}
	if err := s.reviewRepo.Create(ctx, r); err != nil {
		return nil, MapError(err, "")
	}

	s.refreshAverageRating(ctx, b.ID)
	s.publish(ctx, events.New(events.ReviewCreated, r.ID, actor.ID))

	return ToReviewResponse(r, nil), nil
}

func (s *Service) Update(ctx context.Context, actor auth.Actor, reviewID string, req *UpdateReviewRequest) (*ReviewResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, appErrors.Validation(err.Error(), nil)
	}

	r, err := s.reviewRepo.GetByID(ctx, reviewID)
	if err != nil {
		return nil, MapError(err, reviewID)
	}
	if err := auth.AuthorizeOwnership(actor, r, "update review "+r.ID); err != nil {
		return nil, err
	}

	if req.Title != nil {
		r.Title = utils.SanitizeString(*req.Title)
	}
	if req.Text != nil {
		r.Text = utils.SanitizeText(*req.Text)
	}
	if req.Rating != nil {
		r.Rating = *req.Rating
	}

	if err := s.reviewRepo.Update(ctx, r); err != nil {
		return nil, MapError(err, reviewID)
	}

	s.refreshAverageRating(ctx, r.BootcampID)
	s.publish(ctx, events.New(events.ReviewUpdated, r.ID, actor.ID))
	return ToReviewResponse(r, nil), nil
}

func (s *Service) Delete(ctx context.Context, actor auth.Actor, reviewID string) error {
	r, err := s.reviewRepo.GetByID(ctx, reviewID)
	if err != nil {
		return MapError(err, reviewID)
	}
	if err := auth.AuthorizeOwnership(actor, r, "delete review "+r.ID); err != nil {
		return err
	}

	if err := s.reviewRepo.Delete(ctx, reviewID); err != nil {
		return MapError(err, reviewID)
	}

	s.refreshAverageRating(ctx, r.BootcampID)
	s.publish(ctx, events.New(events.ReviewDeleted, r.ID, actor.ID))
	return nil
}

func (s *Service) refreshAverageRating(ctx context.Context, bootcampID string) {
	avg, err := s.reviewRepo.AverageRating(ctx, bootcampID)
	if err == nil {
		err = s.bootcampRepo.SetAverageRating(ctx, bootcampID, avg)
	}
	if err != nil && !errors.Is(err, domainBootcamp.ErrBootcampNotFound) {
		logger.Error("Failed to update bootcamp average rating",
			zap.String("bootcamp_id", bootcampID),
			zap.Error(err),
		)
	}
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

func MapError(err error, reviewID string) error {
	switch {
	case errors.Is(err, domainReview.ErrReviewNotFound):
		return appErrors.NotFound("Review", reviewID)
	case errors.Is(err, domainReview.ErrAlreadyReviewed):
		return appErrors.NewAppError(appErrors.KindDuplicateKey, appErrors.ErrDuplicateField.Message, err)
	default:
		return err
	}
}

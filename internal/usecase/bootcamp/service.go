package bootcamp

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"bootcamp-directory/internal/config"
	domainBootcamp "bootcamp-directory/internal/domain/bootcamp"
	domainCourse "bootcamp-directory/internal/domain/course"
	"bootcamp-directory/internal/domain/events"
	domainReview "bootcamp-directory/internal/domain/review"
	"bootcamp-directory/internal/logger"
	"bootcamp-directory/internal/usecase/auth"
	appErrors "bootcamp-directory/pkg/errors"
	"bootcamp-directory/pkg/query"
	"bootcamp-directory/pkg/utils"

	"github.com/dustin/go-humanize"
	"github.com/gosimple/slug"
	"go.uber.org/zap"
)

type Service struct {
	bootcampRepo domainBootcamp.Repository
	courseRepo   domainCourse.Repository
	reviewRepo   domainReview.Repository
	geocoder     Geocoder
	files        FileStore
	publisher    events.Publisher
	config       *config.Config
}

func NewService(
	bootcampRepo domainBootcamp.Repository,
	courseRepo domainCourse.Repository,
	reviewRepo domainReview.Repository,
	geocoder Geocoder,
	files FileStore,
	publisher events.Publisher,
	cfg *config.Config,
) *Service {
	return &Service{
		bootcampRepo: bootcampRepo,
		courseRepo:   courseRepo,
		reviewRepo:   reviewRepo,
		geocoder:     geocoder,
		files:        files,
		publisher:    publisher,
		config:       cfg,
	}
}

type ListResult struct {
	Bootcamps []*BootcampResponse
	Total     int64
}

func (s *Service) List(ctx context.Context, q *query.Descriptor) (*ListResult, error) {
	bootcamps, total, err := s.bootcampRepo.List(ctx, q)
	if err != nil {
		return nil, err
	}
	return &ListResult{Bootcamps: ToBootcampResponses(bootcamps), Total: total}, nil
}

func (s *Service) Get(ctx context.Context, bootcampID string) (*BootcampResponse, error) {
	b, err := s.bootcampRepo.GetByID(ctx, bootcampID)
	if err != nil {
		return nil, MapError(err, bootcampID)
	}
	return ToBootcampResponse(b), nil
}

func (s *Service) Create(ctx context.Context, actor auth.Actor, req *CreateBootcampRequest) (*BootcampResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, appErrors.Validation(err.Error(), nil)
	}

	// a publisher may own only one bootcamp; admins are exempt
	if !actor.IsAdmin() {
		owned, err := s.bootcampRepo.CountByOwner(ctx, actor.ID)
		if err != nil {
			return nil, err
		}
		if owned > 0 {
			return nil, appErrors.Validation(fmt.Sprintf("The user with ID %s has already published a bootcamp", actor.ID), nil)
		}
	}

	location, err := s.locate(ctx, req.Address)
	if err != nil {
		return nil, err
	}

	name := utils.SanitizeString(req.Name)
	b := &domainBootcamp.Bootcamp{
		Name:          name,
		Slug:          slug.Make(name),
		Description:   utils.SanitizeText(req.Description),
		Website:       strings.TrimSpace(req.Website),
		Phone:         utils.SanitizePhone(req.Phone),
		Email:         utils.SanitizeEmail(req.Email),
		Address:       utils.SanitizeString(req.Address),
		Location:      location,
		Careers:       req.Careers,
		Housing:       req.Housing,
		JobAssistance: req.JobAssistance,
		JobGuarantee:  req.JobGuarantee,
		AcceptGi:      req.AcceptGi,
		UserID:        actor.ID,
	}

	if err := s.bootcampRepo.Create(ctx, b); err != nil {
		return nil, MapError(err, "")
	}

	logger.Info("Bootcamp created",
		zap.String("bootcamp_id", b.ID),
		zap.String("user_id", actor.ID),
		zap.String("event", "bootcamp_created"),
	)
	s.publish(ctx, events.New(events.BootcampCreated, b.ID, actor.ID))

	return ToBootcampResponse(b), nil
}

func (s *Service) Update(ctx context.Context, actor auth.Actor, bootcampID string, req *UpdateBootcampRequest) (*BootcampResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, appErrors.Validation(err.Error(), nil)
	}

	b, err := s.bootcampRepo.GetByID(ctx, bootcampID)
	if err != nil {
		return nil, MapError(err, bootcampID)
	}
	if err := auth.AuthorizeOwnership(actor, b, "update this bootcamp"); err != nil {
		return nil, err
	}

	if req.Name != nil {
		b.Name = utils.SanitizeString(*req.Name)
		b.Slug = slug.Make(b.Name)
	}
	if req.Description != nil {
		b.Description = utils.SanitizeText(*req.Description)
	}
	if req.Website != nil {
		b.Website = strings.TrimSpace(*req.Website)
	}
	if req.Phone != nil {
		b.Phone = utils.SanitizePhone(*req.Phone)
	}
	if req.Email != nil {
		b.Email = utils.SanitizeEmail(*req.Email)
	}
	if req.Address != nil && *req.Address != b.Address {
		location, err := s.locate(ctx, *req.Address)
		if err != nil {
			return nil, err
		}
		b.Address = utils.SanitizeString(*req.Address)
		b.Location = location
	}
	if req.Careers != nil {
		b.Careers = req.Careers
	}
	if req.Housing != nil {
		b.Housing = *req.Housing
	}
	if req.JobAssistance != nil {
		b.JobAssistance = *req.JobAssistance
	}
	if req.JobGuarantee != nil {
		b.JobGuarantee = *req.JobGuarantee
	}
	if req.AcceptGi != nil {
		b.AcceptGi = *req.AcceptGi
	}

	if err := s.bootcampRepo.Update(ctx, b); err != nil {
		return nil, MapError(err, bootcampID)
	}

	s.publish(ctx, events.New(events.BootcampUpdated, b.ID, actor.ID))
	return ToBootcampResponse(b), nil
}

// Delete removes a bootcamp together with its courses and reviews.
func (s *Service) Delete(ctx context.Context, actor auth.Actor, bootcampID string) error {
	b, err := s.bootcampRepo.GetByID(ctx, bootcampID)
	if err != nil {
		return MapError(err, bootcampID)
	}
	if err := auth.AuthorizeOwnership(actor, b, "delete this bootcamp"); err != nil {
		return err
	}

	if err := s.courseRepo.DeleteByBootcamp(ctx, bootcampID); err != nil {
		return err
	}
	if err := s.reviewRepo.DeleteByBootcamp(ctx, bootcampID); err != nil {
		return err
	}
	if err := s.bootcampRepo.Delete(ctx, bootcampID); err != nil {
		return MapError(err, bootcampID)
	}

	logger.Info("Bootcamp deleted",
		zap.String("bootcamp_id", bootcampID),
		zap.String("user_id", actor.ID),
		zap.String("event", "bootcamp_deleted"),
	)
	s.publish(ctx, events.New(events.BootcampDeleted, bootcampID, actor.ID))

	return nil
}

// WithinRadius lists bootcamps within distance miles of a postal code.
func (s *Service) WithinRadius(ctx context.Context, zipcode, distance string) ([]*BootcampResponse, error) {
	miles, err := strconv.ParseFloat(distance, 64)
	if err != nil || miles <= 0 {
		return nil, appErrors.Validation("Please provide a positive distance in miles", nil)
	}

	loc, err := s.locate(ctx, zipcode)
	if err != nil {
		return nil, err
	}

	lng, lat := loc.Coordinates[0], loc.Coordinates[1]
	bootcamps, err := s.bootcampRepo.WithinRadius(ctx, lng, lat, miles/domainBootcamp.EarthRadiusMiles)
	if err != nil {
		return nil, err
	}
	return ToBootcampResponses(bootcamps), nil
}

// UploadPhoto stores an image as photo_<id><ext> and records it on the
// bootcamp.
func (s *Service) UploadPhoto(ctx context.Context, actor auth.Actor, bootcampID string, upload *PhotoUpload) (string, error) {
	b, err := s.bootcampRepo.GetByID(ctx, bootcampID)
	if err != nil {
		return "", MapError(err, bootcampID)
	}
	if err := auth.AuthorizeOwnership(actor, b, "update this bootcamp"); err != nil {
		return "", err
	}

	if upload == nil || upload.Body == nil {
		return "", appErrors.Validation("Please upload a file", nil)
	}
	if !strings.HasPrefix(upload.ContentType, "image") {
		return "", appErrors.Validation("Please upload an image file", nil)
	}
	if limit := s.config.Upload.MaxBytes; upload.Size > limit {
		return "", appErrors.Validation(fmt.Sprintf("Please upload an image less than %s", humanize.Bytes(uint64(limit))), nil)
	}

	name := fmt.Sprintf("photo_%s%s", b.ID, strings.ToLower(filepath.Ext(upload.Filename)))
	if err := s.files.Save(ctx, name, upload.ContentType, upload.Body, upload.Size); err != nil {
		return "", appErrors.Upstream("Problem with file upload", err)
	}

	if err := s.bootcampRepo.UpdatePhoto(ctx, b.ID, name); err != nil {
		return "", MapError(err, bootcampID)
	}

	s.publish(ctx, events.New(events.BootcampUpdated, b.ID, actor.ID))
	return name, nil
}

func (s *Service) locate(ctx context.Context, address string) (*domainBootcamp.Location, error) {
	loc, err := s.geocoder.Geocode(ctx, address)
	if err != nil {
		if errors.Is(err, domainBootcamp.ErrAddressNotFound) {
			return nil, appErrors.Validation(fmt.Sprintf("Could not locate address %q", address), nil)
		}
		return nil, appErrors.Upstream("Server Error", fmt.Errorf("geocoding failed: %w", err))
	}
	if len(loc.Coordinates) != 2 {
		return nil, appErrors.Upstream("Server Error", fmt.Errorf("geocoder returned %d coordinates", len(loc.Coordinates)))
	}
	return loc, nil
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

func MapError(err error, bootcampID string) error {
	switch {
	case errors.Is(err, domainBootcamp.ErrBootcampNotFound):
		return appErrors.NotFound("Bootcamp", bootcampID)
	case errors.Is(err, domainBootcamp.ErrBootcampAlreadyExists):
		return appErrors.ErrDuplicateField
	default:
		return err
	}
}

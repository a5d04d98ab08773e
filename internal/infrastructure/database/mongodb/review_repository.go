package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	domainReview "bootcamp-directory/internal/domain/review"
	"bootcamp-directory/internal/infrastructure/database/mongodb/models"
	"bootcamp-directory/pkg/query"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type ReviewRepository struct {
	coll *mongo.Collection
}

func NewReviewRepository(db *DB) domainReview.Repository {
	return &ReviewRepository{coll: db.Collection(ReviewsCollection)}
}

func (r *ReviewRepository) Create(ctx context.Context, rv *domainReview.Review) error {
	doc := toReviewModel(rv)
	doc.ID = primitive.NewObjectID()
	doc.CreatedAt = time.Now().UTC()

	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domainReview.ErrAlreadyReviewed
		}
		return fmt.Errorf("failed to create review: %w", err)
	}

	rv.ID = doc.ID.Hex()
	rv.CreatedAt = doc.CreatedAt
	return nil
}

func (r *ReviewRepository) GetByID(ctx context.Context, reviewID string) (*domainReview.Review, error) {
	oid, ok := objectID(reviewID)
	if !ok {
		return nil, domainReview.ErrReviewNotFound
	}

	var doc models.ReviewModel
	err := r.coll.FindOne(ctx, bson.D{{Key: "_id", Value: oid}}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, domainReview.ErrReviewNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get review: %w", err)
	}

	return toReviewEntity(&doc), nil
}

func (r *ReviewRepository) List(ctx context.Context, q *query.Descriptor) ([]*domainReview.Review, int64, error) {
	return list(ctx, r.coll, q, nil, toReviewEntity)
}

func (r *ReviewRepository) Update(ctx context.Context, rv *domainReview.Review) error {
	oid, ok := objectID(rv.ID)
	if !ok {
		return domainReview.ErrReviewNotFound
	}

	result, err := r.coll.UpdateByID(ctx, oid, bson.D{{Key: "$set", Value: bson.D{
		{Key: "title", Value: rv.Title},
		{Key: "text", Value: rv.Text},
		{Key: "rating", Value: rv.Rating},
	}}})
	if err != nil {
		return fmt.Errorf("failed to update review: %w", err)
	}
	if result.MatchedCount == 0 {
		return domainReview.ErrReviewNotFound
	}
	return nil
}

func (r *ReviewRepository) Delete(ctx context.Context, reviewID string) error {
	oid, ok := objectID(reviewID)
	if !ok {
		return domainReview.ErrReviewNotFound
	}

	result, err := r.coll.DeleteOne(ctx, bson.D{{Key: "_id", Value: oid}})
	if err != nil {
		return fmt.Errorf("failed to delete review: %w", err)
	}
	if result.DeletedCount == 0 {
		return domainReview.ErrReviewNotFound
	}
	return nil
}

func (r *ReviewRepository) DeleteByBootcamp(ctx context.Context, bootcampID string) error {
	oid, ok := objectID(bootcampID)
	if !ok {
		return nil
	}

	if _, err := r.coll.DeleteMany(ctx, bson.D{{Key: "bootcamp", Value: oid}}); err != nil {
		return fmt.Errorf("failed to delete reviews: %w", err)
	}
	return nil
}

func (r *ReviewRepository) AverageRating(ctx context.Context, bootcampID string) (*float64, error) {
	oid, ok := objectID(bootcampID)
	if !ok {
		return nil, nil
	}
	return average(ctx, r.coll, oid, "$rating")
}

func toReviewModel(rv *domainReview.Review) *models.ReviewModel {
	m := &models.ReviewModel{
		Title:     rv.Title,
		Text:      rv.Text,
		Rating:    rv.Rating,
		CreatedAt: rv.CreatedAt,
	}
	if oid, ok := objectID(rv.ID); ok {
		m.ID = oid
	}
	if oid, ok := objectID(rv.BootcampID); ok {
		m.Bootcamp = oid
	}
	if oid, ok := objectID(rv.UserID); ok {
		m.User = oid
	}
	return m
}

func toReviewEntity(m *models.ReviewModel) *domainReview.Review {
	return &domainReview.Review{
		ID:         hexOrEmpty(m.ID),
		Title:      m.Title,
		Text:       m.Text,
		Rating:     m.Rating,
		BootcampID: hexOrEmpty(m.Bootcamp),
		UserID:     hexOrEmpty(m.User),
		CreatedAt:  m.CreatedAt,
	}
}

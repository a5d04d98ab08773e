package review

import (
	"context"

	"bootcamp-directory/pkg/query"
)

type Repository interface {
	Create(ctx context.Context, review *Review) error
	GetByID(ctx context.Context, reviewID string) (*Review, error)
	List(ctx context.Context, q *query.Descriptor) ([]*Review, int64, error)
	Update(ctx context.Context, review *Review) error
	Delete(ctx context.Context, reviewID string) error
	DeleteByBootcamp(ctx context.Context, bootcampID string) error
	AverageRating(ctx context.Context, bootcampID string) (*float64, error)
}

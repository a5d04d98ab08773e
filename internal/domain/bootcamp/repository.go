package bootcamp

import (
	"context"

	"bootcamp-directory/pkg/query"
)

type Repository interface {
	Create(ctx context.Context, bootcamp *Bootcamp) error
	GetByID(ctx context.Context, bootcampID string) (*Bootcamp, error)
	List(ctx context.Context, q *query.Descriptor) ([]*Bootcamp, int64, error)
	CountByOwner(ctx context.Context, userID string) (int64, error)
	Update(ctx context.Context, bootcamp *Bootcamp) error
	UpdatePhoto(ctx context.Context, bootcampID, photo string) error
	Delete(ctx context.Context, bootcampID string) error
	// WithinRadius finds bootcamps whose location lies within radius
	// (radians) of the given point.
	WithinRadius(ctx context.Context, lng, lat, radius float64) ([]*Bootcamp, error)
	SetAverageCost(ctx context.Context, bootcampID string, cost *float64) error
	SetAverageRating(ctx context.Context, bootcampID string, rating *float64) error
}

package course

import (
	"context"

	"bootcamp-directory/pkg/query"
)

type Repository interface {
	Create(ctx context.Context, course *Course) error
	GetByID(ctx context.Context, courseID string) (*Course, error)
	List(ctx context.Context, q *query.Descriptor) ([]*Course, int64, error)
	Update(ctx context.Context, course *Course) error
	Delete(ctx context.Context, courseID string) error
	DeleteByBootcamp(ctx context.Context, bootcampID string) error
	// AverageTuition is nil when the bootcamp has no courses.
	AverageTuition(ctx context.Context, bootcampID string) (*float64, error)
}

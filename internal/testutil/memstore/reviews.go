package memstore

import (
	"context"
	"time"

	domainReview "bootcamp-directory/internal/domain/review"
	"bootcamp-directory/pkg/query"
)

type Reviews struct {
	store[domainReview.Review]
}

var _ domainReview.Repository = (*Reviews)(nil)

func NewReviews() *Reviews {
	return &Reviews{}
}

func cloneReview(r *domainReview.Review) *domainReview.Review {
	cp := *r
	return &cp
}

func reviewByID(id string) func(*domainReview.Review) bool {
	return func(r *domainReview.Review) bool { return r.ID == id }
}

func (r *Reviews) Create(_ context.Context, rv *domainReview.Review) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	dup := r.find(func(x *domainReview.Review) bool {
		return x.BootcampID == rv.BootcampID && x.UserID == rv.UserID
	})
	if dup != nil {
		return domainReview.ErrAlreadyReviewed
	}
	rv.ID = NewID()
	rv.CreatedAt = time.Now().UTC()
	r.items = append(r.items, cloneReview(rv))
	return nil
}

func (r *Reviews) GetByID(_ context.Context, id string) (*domainReview.Review, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rv := r.find(reviewByID(id))
	if rv == nil {
		return nil, domainReview.ErrReviewNotFound
	}
	return cloneReview(rv), nil
}

func (r *Reviews) List(_ context.Context, q *query.Descriptor) ([]*domainReview.Review, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out, total := page(r.items, q, func(rv *domainReview.Review) map[string]interface{} {
		return map[string]interface{}{"id": rv.ID, "rating": rv.Rating, "bootcamp": rv.BootcampID, "user": rv.UserID}
	}, cloneReview)
	return out, total, nil
}

func (r *Reviews) Update(_ context.Context, rv *domainReview.Review) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	x := r.find(reviewByID(rv.ID))
	if x == nil {
		return domainReview.ErrReviewNotFound
	}
	x.Title, x.Text, x.Rating = rv.Title, rv.Text, rv.Rating
	return nil
}

func (r *Reviews) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.remove(reviewByID(id)) == 0 {
		return domainReview.ErrReviewNotFound
	}
	return nil
}

func (r *Reviews) DeleteByBootcamp(_ context.Context, bootcampID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.remove(func(x *domainReview.Review) bool { return x.BootcampID == bootcampID })
	return nil
}

func (r *Reviews) AverageRating(_ context.Context, bootcampID string) (*float64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var sum, n int
	for _, x := range r.items {
		if x.BootcampID == bootcampID {
			sum += x.Rating
			n++
		}
	}
	if n == 0 {
		return nil, nil
	}
	avg := float64(sum) / float64(n)
	return &avg, nil
}

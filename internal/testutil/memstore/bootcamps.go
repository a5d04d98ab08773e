package memstore

import (
	"context"
	"time"

	domainBootcamp "bootcamp-directory/internal/domain/bootcamp"
	"bootcamp-directory/pkg/query"
)

type Bootcamps struct {
	store[domainBootcamp.Bootcamp]
	// Nearby is returned by WithinRadius regardless of the arguments.
	Nearby []*domainBootcamp.Bootcamp
}

var _ domainBootcamp.Repository = (*Bootcamps)(nil)

func NewBootcamps() *Bootcamps {
	return &Bootcamps{}
}

func cloneBootcamp(b *domainBootcamp.Bootcamp) *domainBootcamp.Bootcamp {
	cp := *b
	return &cp
}

func bootcampByID(id string) func(*domainBootcamp.Bootcamp) bool {
	return func(b *domainBootcamp.Bootcamp) bool { return b.ID == id }
}

func (r *Bootcamps) Create(_ context.Context, b *domainBootcamp.Bootcamp) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.find(func(x *domainBootcamp.Bootcamp) bool { return x.Name == b.Name }) != nil {
		return domainBootcamp.ErrBootcampAlreadyExists
	}
	b.ID = NewID()
	b.CreatedAt = time.Now().UTC()
	if b.Photo == "" {
		b.Photo = domainBootcamp.DefaultPhoto
	}
	r.items = append(r.items, cloneBootcamp(b))
	return nil
}

func (r *Bootcamps) GetByID(_ context.Context, id string) (*domainBootcamp.Bootcamp, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	b := r.find(bootcampByID(id))
	if b == nil {
		return nil, domainBootcamp.ErrBootcampNotFound
	}
	return cloneBootcamp(b), nil
}

func (r *Bootcamps) List(_ context.Context, q *query.Descriptor) ([]*domainBootcamp.Bootcamp, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out, total := page(r.items, q, func(b *domainBootcamp.Bootcamp) map[string]interface{} {
		return map[string]interface{}{"id": b.ID, "name": b.Name, "user": b.UserID, "housing": b.Housing}
	}, cloneBootcamp)
	return out, total, nil
}

func (r *Bootcamps) CountByOwner(_ context.Context, userID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var n int64
	for _, b := range r.items {
		if b.UserID == userID {
			n++
		}
	}
	return n, nil
}

func (r *Bootcamps) mutate(id string, fn func(*domainBootcamp.Bootcamp)) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	b := r.find(bootcampByID(id))
	if b == nil {
		return domainBootcamp.ErrBootcampNotFound
	}
	fn(b)
	return nil
}

func (r *Bootcamps) Update(_ context.Context, b *domainBootcamp.Bootcamp) error {
	return r.mutate(b.ID, func(x *domainBootcamp.Bootcamp) {
		createdAt, owner, photo := x.CreatedAt, x.UserID, x.Photo
		avgCost, avgRating := x.AverageCost, x.AverageRating
		*x = *b
		x.CreatedAt, x.UserID, x.Photo = createdAt, owner, photo
		x.AverageCost, x.AverageRating = avgCost, avgRating
	})
}

func (r *Bootcamps) UpdatePhoto(_ context.Context, id, photo string) error {
	return r.mutate(id, func(x *domainBootcamp.Bootcamp) { x.Photo = photo })
}

func (r *Bootcamps) SetAverageCost(_ context.Context, id string, cost *float64) error {
	return r.mutate(id, func(x *domainBootcamp.Bootcamp) { x.AverageCost = cost })
}

func (r *Bootcamps) SetAverageRating(_ context.Context, id string, rating *float64) error {
	return r.mutate(id, func(x *domainBootcamp.Bootcamp) { x.AverageRating = rating })
}

func (r *Bootcamps) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.remove(bootcampByID(id)) == 0 {
		return domainBootcamp.ErrBootcampNotFound
	}
	return nil
}

func (r *Bootcamps) WithinRadius(context.Context, float64, float64, float64) ([]*domainBootcamp.Bootcamp, error) {
	return r.Nearby, nil
}

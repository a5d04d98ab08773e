package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	domainBootcamp "bootcamp-directory/internal/domain/bootcamp"
	"bootcamp-directory/internal/infrastructure/database/mongodb/models"
	"bootcamp-directory/pkg/query"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type BootcampRepository struct {
	coll *mongo.Collection
}

func NewBootcampRepository(db *DB) domainBootcamp.Repository {
	return &BootcampRepository{coll: db.Collection(BootcampsCollection)}
}

func (r *BootcampRepository) Create(ctx context.Context, b *domainBootcamp.Bootcamp) error {
	doc := toBootcampModel(b)
	doc.ID = primitive.NewObjectID()
	doc.CreatedAt = time.Now().UTC()
	if doc.Photo == "" {
		doc.Photo = domainBootcamp.DefaultPhoto
	}

	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domainBootcamp.ErrBootcampAlreadyExists
		}
		return fmt.Errorf("failed to create bootcamp: %w", err)
	}

	b.ID = doc.ID.Hex()
	b.CreatedAt = doc.CreatedAt
	b.Photo = doc.Photo
	return nil
}

func (r *BootcampRepository) GetByID(ctx context.Context, bootcampID string) (*domainBootcamp.Bootcamp, error) {
	oid, ok := objectID(bootcampID)
	if !ok {
		return nil, domainBootcamp.ErrBootcampNotFound
	}

	var doc models.BootcampModel
	err := r.coll.FindOne(ctx, bson.D{{Key: "_id", Value: oid}}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, domainBootcamp.ErrBootcampNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get bootcamp: %w", err)
	}

	return toBootcampEntity(&doc), nil
}

func (r *BootcampRepository) List(ctx context.Context, q *query.Descriptor) ([]*domainBootcamp.Bootcamp, int64, error) {
	return list(ctx, r.coll, q, nil, toBootcampEntity)
}

func (r *BootcampRepository) CountByOwner(ctx context.Context, userID string) (int64, error) {
	oid, ok := objectID(userID)
	if !ok {
		return 0, nil
	}

	n, err := r.coll.CountDocuments(ctx, bson.D{{Key: "user", Value: oid}})
	if err != nil {
		return 0, fmt.Errorf("failed to count bootcamps: %w", err)
	}
	return n, nil
}

func (r *BootcampRepository) Update(ctx context.Context, b *domainBootcamp.Bootcamp) error {
	doc := toBootcampModel(b)
	set := bson.D{
		{Key: "name", Value: doc.Name},
		{Key: "slug", Value: doc.Slug},
		{Key: "description", Value: doc.Description},
		{Key: "website", Value: doc.Website},
		{Key: "phone", Value: doc.Phone},
		{Key: "email", Value: doc.Email},
		{Key: "address", Value: doc.Address},
		{Key: "careers", Value: doc.Careers},
		{Key: "housing", Value: doc.Housing},
		{Key: "jobAssistance", Value: doc.JobAssistance},
		{Key: "jobGuarantee", Value: doc.JobGuarantee},
		{Key: "acceptGi", Value: doc.AcceptGi},
	}
	if doc.Location != nil {
		set = append(set, bson.E{Key: "location", Value: doc.Location})
	}

	return r.updateOne(ctx, b.ID, bson.D{{Key: "$set", Value: set}})
}

func (r *BootcampRepository) UpdatePhoto(ctx context.Context, bootcampID, photo string) error {
	return r.updateOne(ctx, bootcampID, bson.D{{Key: "$set", Value: bson.D{{Key: "photo", Value: photo}}}})
}

func (r *BootcampRepository) SetAverageCost(ctx context.Context, bootcampID string, cost *float64) error {
	return r.updateOne(ctx, bootcampID, setOrUnset("averageCost", cost))
}

func (r *BootcampRepository) SetAverageRating(ctx context.Context, bootcampID string, rating *float64) error {
	return r.updateOne(ctx, bootcampID, setOrUnset("averageRating", rating))
}

func (r *BootcampRepository) Delete(ctx context.Context, bootcampID string) error {
	oid, ok := objectID(bootcampID)
	if !ok {
		return domainBootcamp.ErrBootcampNotFound
	}

	result, err := r.coll.DeleteOne(ctx, bson.D{{Key: "_id", Value: oid}})
	if err != nil {
		return fmt.Errorf("failed to delete bootcamp: %w", err)
	}
	if result.DeletedCount == 0 {
		return domainBootcamp.ErrBootcampNotFound
	}
	return nil
}

func (r *BootcampRepository) WithinRadius(ctx context.Context, lng, lat, radius float64) ([]*domainBootcamp.Bootcamp, error) {
	cursor, err := r.coll.Find(ctx, withinRadius(lng, lat, radius))
	if err != nil {
		return nil, fmt.Errorf("failed to search bootcamps: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []models.BootcampModel
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode bootcamps: %w", err)
	}

	out := make([]*domainBootcamp.Bootcamp, len(docs))
	for i := range docs {
		out[i] = toBootcampEntity(&docs[i])
	}
	return out, nil
}

// withinRadius matches points inside a spherical cap; radius is in radians.
func withinRadius(lng, lat, radius float64) bson.D {
	return bson.D{{Key: "location", Value: bson.D{{Key: "$geoWithin", Value: bson.D{
		{Key: "$centerSphere", Value: bson.A{bson.A{lng, lat}, radius}},
	}}}}}
}

func (r *BootcampRepository) updateOne(ctx context.Context, bootcampID string, update bson.D) error {
	oid, ok := objectID(bootcampID)
	if !ok {
		return domainBootcamp.ErrBootcampNotFound
	}

	result, err := r.coll.UpdateByID(ctx, oid, update)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domainBootcamp.ErrBootcampAlreadyExists
		}
		return fmt.Errorf("failed to update bootcamp: %w", err)
	}
	if result.MatchedCount == 0 {
		return domainBootcamp.ErrBootcampNotFound
	}
	return nil
}

func setOrUnset(field string, value *float64) bson.D {
	if value == nil {
		return bson.D{{Key: "$unset", Value: bson.D{{Key: field, Value: ""}}}}
	}
	return bson.D{{Key: "$set", Value: bson.D{{Key: field, Value: *value}}}}
}

func toBootcampModel(b *domainBootcamp.Bootcamp) *models.BootcampModel {
	m := &models.BootcampModel{
		Name:          b.Name,
		Slug:          b.Slug,
		Description:   b.Description,
		Website:       b.Website,
		Phone:         b.Phone,
		Email:         b.Email,
		Address:       b.Address,
		Careers:       b.Careers,
		AverageRating: b.AverageRating,
		AverageCost:   b.AverageCost,
		Photo:         b.Photo,
		Housing:       b.Housing,
		JobAssistance: b.JobAssistance,
		JobGuarantee:  b.JobGuarantee,
		AcceptGi:      b.AcceptGi,
		CreatedAt:     b.CreatedAt,
	}
	if oid, ok := objectID(b.ID); ok {
		m.ID = oid
	}
	if oid, ok := objectID(b.UserID); ok {
		m.User = oid
	}
	if loc := b.Location; loc != nil {
		m.Location = &models.LocationModel{
			Type:             loc.Type,
			Coordinates:      loc.Coordinates,
			FormattedAddress: loc.FormattedAddress,
			Street:           loc.Street,
			City:             loc.City,
			State:            loc.State,
			Zipcode:          loc.Zipcode,
			Country:          loc.Country,
		}
	}
	return m
}

func toBootcampEntity(m *models.BootcampModel) *domainBootcamp.Bootcamp {
	b := &domainBootcamp.Bootcamp{
		ID:            hexOrEmpty(m.ID),
		Name:          m.Name,
		Slug:          m.Slug,
		Description:   m.Description,
		Website:       m.Website,
		Phone:         m.Phone,
		Email:         m.Email,
		Address:       m.Address,
		Careers:       m.Careers,
		AverageRating: m.AverageRating,
		AverageCost:   m.AverageCost,
		Photo:         m.Photo,
		Housing:       m.Housing,
		JobAssistance: m.JobAssistance,
		JobGuarantee:  m.JobGuarantee,
		AcceptGi:      m.AcceptGi,
		UserID:        hexOrEmpty(m.User),
		CreatedAt:     m.CreatedAt,
	}
	if loc := m.Location; loc != nil {
		b.Location = &domainBootcamp.Location{
			Type:             loc.Type,
			Coordinates:      loc.Coordinates,
			FormattedAddress: loc.FormattedAddress,
			Street:           loc.Street,
			City:             loc.City,
			State:            loc.State,
			Zipcode:          loc.Zipcode,
			Country:          loc.Country,
		}
	}
	return b
}

package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	domainCourse "bootcamp-directory/internal/domain/course"
	"bootcamp-directory/internal/infrastructure/database/mongodb/models"
	"bootcamp-directory/pkg/query"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type CourseRepository struct {
	coll *mongo.Collection
}

func NewCourseRepository(db *DB) domainCourse.Repository {
	return &CourseRepository{coll: db.Collection(CoursesCollection)}
}

func (r *CourseRepository) Create(ctx context.Context, c *domainCourse.Course) error {
	doc := toCourseModel(c)
	doc.ID = primitive.NewObjectID()
	doc.CreatedAt = time.Now().UTC()

	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("failed to create course: %w", err)
	}

	c.ID = doc.ID.Hex()
	c.CreatedAt = doc.CreatedAt
	return nil
}

func (r *CourseRepository) GetByID(ctx context.Context, courseID string) (*domainCourse.Course, error) {
	oid, ok := objectID(courseID)
	if !ok {
		return nil, domainCourse.ErrCourseNotFound
	}

	var doc models.CourseModel
	err := r.coll.FindOne(ctx, bson.D{{Key: "_id", Value: oid}}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, domainCourse.ErrCourseNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get course: %w", err)
	}

	return toCourseEntity(&doc), nil
}

func (r *CourseRepository) List(ctx context.Context, q *query.Descriptor) ([]*domainCourse.Course, int64, error) {
	return list(ctx, r.coll, q, nil, toCourseEntity)
}

func (r *CourseRepository) Update(ctx context.Context, c *domainCourse.Course) error {
	oid, ok := objectID(c.ID)
	if !ok {
		return domainCourse.ErrCourseNotFound
	}

	result, err := r.coll.UpdateByID(ctx, oid, bson.D{{Key: "$set", Value: bson.D{
		{Key: "title", Value: c.Title},
		{Key: "description", Value: c.Description},
		{Key: "weeks", Value: c.Weeks},
		{Key: "tuition", Value: c.Tuition},
		{Key: "minimumSkill", Value: c.MinimumSkill},
		{Key: "scholarshipAvailable", Value: c.ScholarshipAvailable},
	}}})
	if err != nil {
		return fmt.Errorf("failed to update course: %w", err)
	}
	if result.MatchedCount == 0 {
		return domainCourse.ErrCourseNotFound
	}
	return nil
}

func (r *CourseRepository) Delete(ctx context.Context, courseID string) error {
	oid, ok := objectID(courseID)
	if !ok {
		return domainCourse.ErrCourseNotFound
	}

	result, err := r.coll.DeleteOne(ctx, bson.D{{Key: "_id", Value: oid}})
	if err != nil {
		return fmt.Errorf("failed to delete course: %w", err)
	}
	if result.DeletedCount == 0 {
		return domainCourse.ErrCourseNotFound
	}
	return nil
}

func (r *CourseRepository) DeleteByBootcamp(ctx context.Context, bootcampID string) error {
	oid, ok := objectID(bootcampID)
	if !ok {
		return nil
	}

	if _, err := r.coll.DeleteMany(ctx, bson.D{{Key: "bootcamp", Value: oid}}); err != nil {
		return fmt.Errorf("failed to delete courses: %w", err)
	}
	return nil
}

func (r *CourseRepository) AverageTuition(ctx context.Context, bootcampID string) (*float64, error) {
	oid, ok := objectID(bootcampID)
	if !ok {
		return nil, nil
	}
	return average(ctx, r.coll, oid, "$tuition")
}

// average runs a $group over one bootcamp's documents. It returns nil when
// there is nothing to average.
func average(ctx context.Context, coll *mongo.Collection, bootcamp primitive.ObjectID, field string) (*float64, error) {
	cursor, err := coll.Aggregate(ctx, averagePipeline(bootcamp, field))
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate %s: %w", coll.Name(), err)
	}
	defer cursor.Close(ctx)

	var rows []struct {
		Value *float64 `bson:"value"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("failed to decode aggregate: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0].Value, nil
}

func averagePipeline(bootcamp primitive.ObjectID, field string) mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$match", Value: bson.D{{Key: "bootcamp", Value: bootcamp}}}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$bootcamp"},
			{Key: "value", Value: bson.D{{Key: "$avg", Value: field}}},
		}}},
	}
}

func toCourseModel(c *domainCourse.Course) *models.CourseModel {
	m := &models.CourseModel{
		Title:                c.Title,
		Description:          c.Description,
		Weeks:                c.Weeks,
		Tuition:              c.Tuition,
		MinimumSkill:         c.MinimumSkill,
		ScholarshipAvailable: c.ScholarshipAvailable,
		CreatedAt:            c.CreatedAt,
	}
	if oid, ok := objectID(c.ID); ok {
		m.ID = oid
	}
	if oid, ok := objectID(c.BootcampID); ok {
		m.Bootcamp = oid
	}
	if oid, ok := objectID(c.UserID); ok {
		m.User = oid
	}
	return m
}

func toCourseEntity(m *models.CourseModel) *domainCourse.Course {
	return &domainCourse.Course{
		ID:                   hexOrEmpty(m.ID),
		Title:                m.Title,
		Description:          m.Description,
		Weeks:                m.Weeks,
		Tuition:              m.Tuition,
		MinimumSkill:         m.MinimumSkill,
		ScholarshipAvailable: m.ScholarshipAvailable,
		BootcampID:           hexOrEmpty(m.Bootcamp),
		UserID:               hexOrEmpty(m.User),
		CreatedAt:            m.CreatedAt,
	}
}

package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type CourseModel struct {
	ID                   primitive.ObjectID `bson:"_id,omitempty"`
	Title                string             `bson:"title"`
	Description          string             `bson:"description"`
	Weeks                string             `bson:"weeks"`
	Tuition              float64            `bson:"tuition"`
	MinimumSkill         string             `bson:"minimumSkill"`
	ScholarshipAvailable bool               `bson:"scholarshipAvailable"`
	Bootcamp             primitive.ObjectID `bson:"bootcamp"`
	User                 primitive.ObjectID `bson:"user"`
	CreatedAt            time.Time          `bson:"createdAt"`
}

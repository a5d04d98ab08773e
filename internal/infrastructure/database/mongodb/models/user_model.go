package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserModel is the users collection document.
type UserModel struct {
	ID                  primitive.ObjectID `bson:"_id,omitempty"`
	Name                string             `bson:"name"`
	Email               string             `bson:"email"`
	Role                string             `bson:"role"`
	Password            string             `bson:"password,omitempty"`
	ResetPasswordToken  string             `bson:"resetPasswordToken,omitempty"`
	ResetPasswordExpire *time.Time         `bson:"resetPasswordExpire,omitempty"`
	CreatedAt           time.Time          `bson:"createdAt"`
}

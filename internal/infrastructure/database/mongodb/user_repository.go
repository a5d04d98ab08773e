package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	domainUser "bootcamp-directory/internal/domain/user"
	"bootcamp-directory/internal/infrastructure/database/mongodb/models"
	"bootcamp-directory/pkg/query"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var userSecrets = hiddenFields{
	"password":            true,
	"resetPasswordToken":  true,
	"resetPasswordExpire": true,
}

var withoutSecrets = bson.D{
	{Key: "password", Value: 0},
	{Key: "resetPasswordToken", Value: 0},
	{Key: "resetPasswordExpire", Value: 0},
}

type UserRepository struct {
	coll *mongo.Collection
}

func NewUserRepository(db *DB) domainUser.Repository {
	return &UserRepository{coll: db.Collection(UsersCollection)}
}

func (r *UserRepository) Create(ctx context.Context, u *domainUser.User) error {
	doc := toUserModel(u)
	doc.ID = primitive.NewObjectID()
	doc.CreatedAt = time.Now().UTC()

	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domainUser.ErrUserAlreadyExists
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	u.ID = doc.ID.Hex()
	u.CreatedAt = doc.CreatedAt
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, userID string) (*domainUser.User, error) {
	return r.getByID(ctx, userID, false)
}

func (r *UserRepository) GetByIDWithPassword(ctx context.Context, userID string) (*domainUser.User, error) {
	return r.getByID(ctx, userID, true)
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domainUser.User, error) {
	return r.findOne(ctx, bson.D{{Key: "email", Value: email}}, false)
}

func (r *UserRepository) GetByEmailWithPassword(ctx context.Context, email string) (*domainUser.User, error) {
	return r.findOne(ctx, bson.D{{Key: "email", Value: email}}, true)
}

func (r *UserRepository) getByID(ctx context.Context, userID string, withPassword bool) (*domainUser.User, error) {
	oid, ok := objectID(userID)
	if !ok {
		return nil, domainUser.ErrUserNotFound
	}
	return r.findOne(ctx, bson.D{{Key: "_id", Value: oid}}, withPassword)
}

func (r *UserRepository) findOne(ctx context.Context, filter bson.D, withPassword bool) (*domainUser.User, error) {
	opts := options.FindOne()
	if withPassword {
		opts.SetProjection(bson.D{{Key: "resetPasswordToken", Value: 0}, {Key: "resetPasswordExpire", Value: 0}})
	} else {
		opts.SetProjection(withoutSecrets)
	}

	var doc models.UserModel
	err := r.coll.FindOne(ctx, filter, opts).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, domainUser.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return toUserEntity(&doc), nil
}

func (r *UserRepository) List(ctx context.Context, q *query.Descriptor) ([]*domainUser.User, int64, error) {
	return list(ctx, r.coll, q, userSecrets, toUserEntity)
}

func (r *UserRepository) Update(ctx context.Context, u *domainUser.User) error {
	return r.updateOne(ctx, u.ID, bson.D{{Key: "$set", Value: bson.D{
		{Key: "name", Value: u.Name},
		{Key: "email", Value: u.Email},
		{Key: "role", Value: u.Role},
	}}})
}

func (r *UserRepository) UpdatePassword(ctx context.Context, userID string, passwordHash string) error {
	return r.updateOne(ctx, userID, bson.D{{Key: "$set", Value: bson.D{
		{Key: "password", Value: passwordHash},
	}}})
}

func (r *UserRepository) SetResetToken(ctx context.Context, userID, tokenHash string, expiresAt time.Time) error {
	return r.updateOne(ctx, userID, bson.D{{Key: "$set", Value: bson.D{
		{Key: "resetPasswordToken", Value: tokenHash},
		{Key: "resetPasswordExpire", Value: expiresAt.UTC()},
	}}})
}

func (r *UserRepository) ClearResetToken(ctx context.Context, userID string) error {
	return r.updateOne(ctx, userID, unsetResetToken())
}

func (r *UserRepository) ConsumeResetToken(ctx context.Context, tokenHash, passwordHash string, now time.Time) (*domainUser.User, error) {
	filter, update := consumeResetToken(tokenHash, passwordHash, now)
	opts := options.FindOneAndUpdate().
		SetReturnDocument(options.After).
		SetProjection(withoutSecrets)

	var doc models.UserModel
	err := r.coll.FindOneAndUpdate(ctx, filter, update, opts).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, domainUser.ErrResetTokenInvalid
	}
	if err != nil {
		return nil, fmt.Errorf("failed to reset password: %w", err)
	}

	return toUserEntity(&doc), nil
}

func (r *UserRepository) Delete(ctx context.Context, userID string) error {
	oid, ok := objectID(userID)
	if !ok {
		return domainUser.ErrUserNotFound
	}

	result, err := r.coll.DeleteOne(ctx, bson.D{{Key: "_id", Value: oid}})
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	if result.DeletedCount == 0 {
		return domainUser.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) updateOne(ctx context.Context, userID string, update bson.D) error {
	oid, ok := objectID(userID)
	if !ok {
		return domainUser.ErrUserNotFound
	}

	result, err := r.coll.UpdateByID(ctx, oid, update)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domainUser.ErrUserAlreadyExists
		}
		return fmt.Errorf("failed to update user: %w", err)
	}
	if result.MatchedCount == 0 {
		return domainUser.ErrUserNotFound
	}
	return nil
}

// consumeResetToken matches only an unexpired token and clears it in the same
// update that sets the new password, so a token works once.
func consumeResetToken(tokenHash, passwordHash string, now time.Time) (filter, update bson.D) {
	filter = bson.D{
		{Key: "resetPasswordToken", Value: tokenHash},
		{Key: "resetPasswordExpire", Value: bson.D{{Key: "$gt", Value: now.UTC()}}},
	}
	update = append(unsetResetToken(), bson.E{Key: "$set", Value: bson.D{{Key: "password", Value: passwordHash}}})
	return filter, update
}

func unsetResetToken() bson.D {
	return bson.D{{Key: "$unset", Value: bson.D{
		{Key: "resetPasswordToken", Value: ""},
		{Key: "resetPasswordExpire", Value: ""},
	}}}
}

func toUserModel(u *domainUser.User) *models.UserModel {
	m := &models.UserModel{
		Name:                u.Name,
		Email:               u.Email,
		Role:                u.Role,
		Password:            u.PasswordHashed,
		ResetPasswordToken:  u.ResetPasswordToken,
		ResetPasswordExpire: u.ResetPasswordExpire,
		CreatedAt:           u.CreatedAt,
	}
	if oid, ok := objectID(u.ID); ok {
		m.ID = oid
	}
	return m
}

func toUserEntity(m *models.UserModel) *domainUser.User {
	return &domainUser.User{
		ID:                  hexOrEmpty(m.ID),
		Name:                m.Name,
		Email:               m.Email,
		Role:                m.Role,
		PasswordHashed:      m.Password,
		ResetPasswordToken:  m.ResetPasswordToken,
		ResetPasswordExpire: m.ResetPasswordExpire,
		CreatedAt:           m.CreatedAt,
	}
}

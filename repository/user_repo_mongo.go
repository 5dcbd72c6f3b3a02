package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"kpslogistics/models"
)

const userCollection = "app_user"

type MongoUserRepo struct {
	DB *mongo.Database
}

func NewMongoUserRepo(db *mongo.Database) *MongoUserRepo {
	return &MongoUserRepo{DB: db}
}

func (r *MongoUserRepo) CreateUser(ctx context.Context, user *models.AppUser) error {
	if err := hashPassword(user); err != nil {
		return err
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}
	id, err := nextSequence(ctx, r.DB, userCollection)
	if err != nil {
		return err
	}
	user.ID = id

	_, err = r.DB.Collection(userCollection).InsertOne(ctx, user)
	if mongo.IsDuplicateKeyError(err) {
		return fmt.Errorf("%w: %s", models.ErrDuplicateUser, user.Username)
	}
	if err != nil {
		return fmt.Errorf("MongoUserRepo.CreateUser: %w", err)
	}
	return nil
}

func (r *MongoUserRepo) GetUserByUsername(ctx context.Context, username string) (*models.AppUser, error) {
	user := &models.AppUser{}
	err := r.DB.Collection(userCollection).FindOne(ctx, bson.M{"username": username}).Decode(user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("MongoUserRepo.GetUserByUsername: %w", err)
	}
	return user, nil
}

func (r *MongoUserRepo) CountUsers(ctx context.Context) (int64, error) {
	n, err := r.DB.Collection(userCollection).CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("MongoUserRepo.CountUsers: %w", err)
	}
	return n, nil
}

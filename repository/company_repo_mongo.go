package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"kpslogistics/models"
)

const (
	companyCollection = "company_profile"
	companyProfileID  = int64(1)
)

type MongoCompanyRepo struct {
	DB *mongo.Database
}

func NewMongoCompanyRepo(db *mongo.Database) *MongoCompanyRepo {
	return &MongoCompanyRepo{DB: db}
}

// SaveCompany keeps a single profile document and replaces it on save.
func (r *MongoCompanyRepo) SaveCompany(ctx context.Context, c *models.CompanyProfile) error {
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}
	c.ID = companyProfileID
	_, err := r.DB.Collection(companyCollection).ReplaceOne(ctx,
		bson.M{"_id": c.ID}, c, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("MongoCompanyRepo.SaveCompany: %w", err)
	}
	return nil
}

func (r *MongoCompanyRepo) GetCompany(ctx context.Context) (*models.CompanyProfile, error) {
	var c models.CompanyProfile
	err := r.DB.Collection(companyCollection).FindOne(ctx, bson.M{"_id": companyProfileID}).Decode(&c)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("MongoCompanyRepo.GetCompany: %w", err)
	}
	return &c, nil
}

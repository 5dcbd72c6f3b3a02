package repository

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"kpslogistics/models"
)

const auditCollection = "audit_log"

type MongoAuditRepo struct {
	DB *mongo.Database
}

func NewMongoAuditRepo(db *mongo.Database) *MongoAuditRepo {
	return &MongoAuditRepo{DB: db}
}

func (r *MongoAuditRepo) RecordAudit(ctx context.Context, log *models.AuditLog) error {
	if log.Timestamp.IsZero() {
		log.Timestamp = time.Now().UTC()
	}
	id, err := nextSequence(ctx, r.DB, auditCollection)
	if err != nil {
		return err
	}
	log.ID = id
	if _, err := r.DB.Collection(auditCollection).InsertOne(ctx, log); err != nil {
		return fmt.Errorf("MongoAuditRepo.RecordAudit: %w", err)
	}
	return nil
}

func (r *MongoAuditRepo) ListAudit(ctx context.Context, limit int) ([]*models.AuditLog, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "timestamp", Value: -1}, {Key: "_id", Value: -1}}).
		SetLimit(int64(limit))
	cur, err := r.DB.Collection(auditCollection).Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("MongoAuditRepo.ListAudit: %w", err)
	}
	defer cur.Close(ctx)

	logs := []*models.AuditLog{}
	if err := cur.All(ctx, &logs); err != nil {
		return nil, fmt.Errorf("MongoAuditRepo.ListAudit: %w", err)
	}
	return logs, nil
}

func (r *MongoAuditRepo) DeleteAuditBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.DB.Collection(auditCollection).DeleteMany(ctx, bson.M{"timestamp": bson.M{"$lt": cutoff}})
	if err != nil {
		return 0, fmt.Errorf("MongoAuditRepo.DeleteAuditBefore: %w", err)
	}
	return res.DeletedCount, nil
}

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

const entryCollection = "entry"

type MongoEntryRepo struct {
	DB *mongo.Database
}

func NewMongoEntryRepo(db *mongo.Database) *MongoEntryRepo {
	return &MongoEntryRepo{DB: db}
}

func (r *MongoEntryRepo) coll() *mongo.Collection {
	return r.DB.Collection(entryCollection)
}

func (r *MongoEntryRepo) CreateEntry(ctx context.Context, e *models.Entry) error {
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	id, err := nextSequence(ctx, r.DB, entryCollection)
	if err != nil {
		return err
	}
	e.ID = id
	if _, err := r.coll().InsertOne(ctx, e); err != nil {
		return fmt.Errorf("MongoEntryRepo.CreateEntry: %w", err)
	}
	return nil
}

func (r *MongoEntryRepo) UpdateEntry(ctx context.Context, e *models.Entry) error {
	res, err := r.coll().ReplaceOne(ctx, bson.M{"_id": e.ID}, e)
	if err != nil {
		return fmt.Errorf("MongoEntryRepo.UpdateEntry: %w", err)
	}
	if res.MatchedCount == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (r *MongoEntryRepo) GetEntry(ctx context.Context, id int64) (*models.Entry, error) {
	var e models.Entry
	err := r.coll().FindOne(ctx, bson.M{"_id": id}).Decode(&e)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("MongoEntryRepo.GetEntry: %w", err)
	}
	return &e, nil
}

func (r *MongoEntryRepo) ListEntries(ctx context.Context, filter models.EntryFilter) ([]*models.Entry, error) {
	q := bson.M{}
	if filter.VendorID != nil {
		q["vendor_id"] = *filter.VendorID
	}
	dateRange := bson.M{}
	if filter.From != nil {
		dateRange["$gte"] = *filter.From
	}
	if filter.To != nil {
		dateRange["$lt"] = *filter.To
	}
	if len(dateRange) > 0 {
		q["date"] = dateRange
	}

	dir := -1
	if filter.Ascending {
		dir = 1
	}
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: dir}, {Key: "_id", Value: dir}})

	cur, err := r.coll().Find(ctx, q, opts)
	if err != nil {
		return nil, fmt.Errorf("MongoEntryRepo.ListEntries: %w", err)
	}
	defer cur.Close(ctx)

	entries := []*models.Entry{}
	for cur.Next(ctx) {
		var e models.Entry
		if err := cur.Decode(&e); err != nil {
			return nil, fmt.Errorf("MongoEntryRepo.ListEntries: %w", err)
		}
		entries = append(entries, &e)
	}
	return entries, cur.Err()
}

func (r *MongoEntryRepo) CountEntriesForVendor(ctx context.Context, vendorID int64) (int64, error) {
	n, err := r.coll().CountDocuments(ctx, bson.M{"vendor_id": vendorID})
	if err != nil {
		return 0, fmt.Errorf("MongoEntryRepo.CountEntriesForVendor: %w", err)
	}
	return n, nil
}

func (r *MongoEntryRepo) DeleteEntry(ctx context.Context, id int64) error {
	res, err := r.coll().DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("MongoEntryRepo.DeleteEntry: %w", err)
	}
	if res.DeletedCount == 0 {
		return models.ErrNotFound
	}
	return nil
}

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

const vendorCollection = "vendor"

type MongoVendorRepo struct {
	DB *mongo.Database
}

func NewMongoVendorRepo(db *mongo.Database) *MongoVendorRepo {
	return &MongoVendorRepo{DB: db}
}

func (r *MongoVendorRepo) coll() *mongo.Collection {
	return r.DB.Collection(vendorCollection)
}

func (r *MongoVendorRepo) CreateVendor(ctx context.Context, v *models.Vendor) error {
	if v.CreatedAt.IsZero() {
		v.CreatedAt = time.Now().UTC()
	}
	v.PricingMode = v.Mode()
	id, err := nextSequence(ctx, r.DB, vendorCollection)
	if err != nil {
		return err
	}
	v.ID = id

	_, err = r.coll().InsertOne(ctx, v)
	if mongo.IsDuplicateKeyError(err) {
		return fmt.Errorf("%w: %s", models.ErrDuplicateVendor, v.Name)
	}
	if err != nil {
		return fmt.Errorf("MongoVendorRepo.CreateVendor: %w", err)
	}
	return nil
}

func (r *MongoVendorRepo) UpdateVendor(ctx context.Context, v *models.Vendor) error {
	res, err := r.coll().UpdateOne(ctx, bson.M{"_id": v.ID}, bson.M{"$set": bson.M{
		"name":            v.Name,
		"billing_name":    v.BillingName,
		"billing_address": v.BillingAddress,
		"rate_per_parcel": v.RatePerParcel,
		"transport_rate":  v.TransportRate,
		"pricing_mode":    v.Mode(),
		"show_rr":         v.ShowRR,
		"show_handling":   v.ShowHandling,
		"show_railway":    v.ShowRailway,
		"show_transport":  v.ShowTransport,
		"updated_at":      v.UpdatedAt,
	}})
	if mongo.IsDuplicateKeyError(err) {
		return fmt.Errorf("%w: %s", models.ErrDuplicateVendor, v.Name)
	}
	if err != nil {
		return fmt.Errorf("MongoVendorRepo.UpdateVendor: %w", err)
	}
	if res.MatchedCount == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (r *MongoVendorRepo) findOne(ctx context.Context, filter bson.M, op string) (*models.Vendor, error) {
	var v models.Vendor
	err := r.coll().FindOne(ctx, filter).Decode(&v)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("MongoVendorRepo.%s: %w", op, err)
	}
	return &v, nil
}

func (r *MongoVendorRepo) GetVendor(ctx context.Context, id int64) (*models.Vendor, error) {
	return r.findOne(ctx, bson.M{"_id": id}, "GetVendor")
}

func (r *MongoVendorRepo) GetVendorByName(ctx context.Context, name string) (*models.Vendor, error) {
	return r.findOne(ctx, bson.M{"name": name}, "GetVendorByName")
}

func (r *MongoVendorRepo) ListVendors(ctx context.Context) ([]*models.Vendor, error) {
	cur, err := r.coll().Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("MongoVendorRepo.ListVendors: %w", err)
	}
	defer cur.Close(ctx)

	vendors := []*models.Vendor{}
	for cur.Next(ctx) {
		var v models.Vendor
		if err := cur.Decode(&v); err != nil {
			return nil, fmt.Errorf("MongoVendorRepo.ListVendors: %w", err)
		}
		vendors = append(vendors, &v)
	}
	return vendors, cur.Err()
}

// DeleteVendor refuses vendors still referenced by entries; Mongo has no
// foreign keys to do it for us.
func (r *MongoVendorRepo) DeleteVendor(ctx context.Context, id int64) error {
	n, err := r.DB.Collection(entryCollection).CountDocuments(ctx, bson.M{"vendor_id": id})
	if err != nil {
		return fmt.Errorf("MongoVendorRepo.DeleteVendor: %w", err)
	}
	if n > 0 {
		return fmt.Errorf("%w: vendor %d", models.ErrVendorInUse, id)
	}
	res, err := r.coll().DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("MongoVendorRepo.DeleteVendor: %w", err)
	}
	if res.DeletedCount == 0 {
		return models.ErrNotFound
	}
	return nil
}

// SetDefaultVendor rewrites is_default on the current default and the target
// with one update command whose pipeline computes is_default = (_id == id).
func (r *MongoVendorRepo) SetDefaultVendor(ctx context.Context, id int64) error {
	n, err := r.coll().CountDocuments(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("MongoVendorRepo.SetDefaultVendor: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("vendor %d: %w", id, models.ErrNotFound)
	}

	filter := bson.M{"$or": bson.A{bson.M{"is_default": true}, bson.M{"_id": id}}}
	pipeline := mongo.Pipeline{
		{{Key: "$set", Value: bson.D{
			{Key: "is_default", Value: bson.D{{Key: "$eq", Value: bson.A{"$_id", id}}}},
		}}},
	}
	if _, err := r.coll().UpdateMany(ctx, filter, pipeline); err != nil {
		return fmt.Errorf("MongoVendorRepo.SetDefaultVendor: %w", err)
	}
	return nil
}

func (r *MongoVendorRepo) AdjustPendingBalance(ctx context.Context, id int64, delta float64) (float64, float64, error) {
	var v models.Vendor
	err := r.coll().FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{
			"$inc": bson.M{"pending_balance": delta},
			"$set": bson.M{"updated_at": time.Now().UTC()},
		},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&v)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return 0, 0, fmt.Errorf("vendor %d: %w", id, models.ErrNotFound)
	}
	if err != nil {
		return 0, 0, fmt.Errorf("MongoVendorRepo.AdjustPendingBalance: %w", err)
	}
	return v.PendingBalance - delta, v.PendingBalance, nil
}

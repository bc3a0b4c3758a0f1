package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/shashiranjanraj/catalog/app/models"
	"github.com/shashiranjanraj/catalog/pkg/clock"
	"github.com/shashiranjanraj/catalog/pkg/metrics"
)

// ProductCollection is the collection products are stored in.
const ProductCollection = "products"

// ProductRepository stores products in a MongoDB collection. Store errors
// are returned unchanged; nothing is retried.
type ProductRepository struct {
	coll  *mongo.Collection
	clock clock.Clock
}

// NewProductRepository wraps coll. A nil clk uses the system clock.
func NewProductRepository(coll *mongo.Collection, clk clock.Clock) *ProductRepository {
	if clk == nil {
		clk = clock.Real()
	}
	return &ProductRepository{coll: coll, clock: clk}
}

// EnsureIndexes creates the unique index on code.
func (r *ProductRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "code", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("code_unique"),
	})
	if err != nil {
		return fmt.Errorf("products: ensure indexes: %w", err)
	}
	return nil
}

// FindAll returns every product in natural order.
func (r *ProductRepository) FindAll(ctx context.Context) (_ []*models.Product, err error) {
	defer func(start time.Time) { metrics.ObserveStore("find_all", start, err) }(time.Now())

	cur, err := r.coll.Find(ctx, bson.D{})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	docs := make([]productDocument, 0)
	for cur.Next(ctx) {
		var d productDocument
		if err := cur.Decode(&d); err != nil {
			return nil, &CastError{Err: err}
		}
		docs = append(docs, d)
	}
	if err := cur.Err(); err != nil {
		return nil, err
	}

	return toEntities(docs), nil
}

// FindByCode returns the product with code, or nil when none exists.
func (r *ProductRepository) FindByCode(ctx context.Context, code string) (_ *models.Product, err error) {
	defer func(start time.Time) { metrics.ObserveStore("find_by_code", start, err) }(time.Now())

	res := r.coll.FindOne(ctx, bson.D{{Key: "code", Value: code}})
	if err := res.Err(); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}

	var d productDocument
	if err := res.Decode(&d); err != nil {
		return nil, &CastError{Field: "code", Value: code, Err: err}
	}
	return toEntity(d), nil
}

// Create validates and inserts p, returning the stored product with its
// assigned id and timestamps. A taken code surfaces as the driver's
// duplicate-key error.
func (r *ProductRepository) Create(ctx context.Context, p *models.Product) (_ *models.Product, err error) {
	defer func(start time.Time) { metrics.ObserveStore("create", start, err) }(time.Now())

	doc := toDocument(p)
	if err := doc.validate(); err != nil {
		return nil, err
	}

	// BSON dates hold milliseconds.
	now := r.clock.Now().UTC().Truncate(time.Millisecond)
	doc.ID = primitive.NewObjectID()
	doc.CreatedAt = &now
	doc.UpdatedAt = &now

	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return nil, err
	}
	return toEntity(doc), nil
}

// Count returns the number of stored products.
func (r *ProductRepository) Count(ctx context.Context) (int64, error) {
	return r.coll.CountDocuments(ctx, bson.D{})
}

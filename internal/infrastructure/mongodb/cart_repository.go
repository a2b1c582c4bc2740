package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/subhashana00/E-Commerce-Clothing--WEB-VTON-Reasearch/internal/domain/cart"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const cartsCollection = "carts"

// cartDocument is the stored form of a cart, one document per user
type cartDocument struct {
	UserID    string     `bson:"user_id"`
	Items     cart.Items `bson:"items"`
	Version   int64      `bson:"version"`
	UpdatedAt time.Time  `bson:"updated_at"`
}

// CartRepository implements cart.Repository on a MongoDB collection
type CartRepository struct {
	collection *mongo.Collection
}

// NewCartRepository creates a repository on db's carts collection
func NewCartRepository(db *mongo.Database) *CartRepository {
	return &CartRepository{collection: db.Collection(cartsCollection)}
}

// CreateIndexes creates the unique user index
func (r *CartRepository) CreateIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "user_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}

// Get returns the stored cart, or an empty cart at version 0
func (r *CartRepository) Get(ctx context.Context, userID uuid.UUID) (*cart.Cart, error) {
	var doc cartDocument
	err := r.collection.FindOne(ctx, bson.M{"user_id": userID.String()}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return cart.New(userID), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get cart: %w", err)
	}
	return cart.FromItems(userID, doc.Items, doc.Version, doc.UpdatedAt), nil
}

// Save writes the cart when the stored version equals expectedVersion
func (r *CartRepository) Save(ctx context.Context, c *cart.Cart, expectedVersion int64) error {
	now := time.Now().UTC().Truncate(time.Millisecond)
	items := c.Snapshot()
	if items == nil {
		items = cart.Items{}
	}
	next := expectedVersion + 1

	if expectedVersion == 0 {
		_, err := r.collection.InsertOne(ctx, cartDocument{
			UserID:    c.UserID.String(),
			Items:     items,
			Version:   next,
			UpdatedAt: now,
		})
		if mongo.IsDuplicateKeyError(err) {
			return cart.ErrConflict
		}
		if err != nil {
			return fmt.Errorf("failed to insert cart: %w", err)
		}
	} else {
		filter := bson.M{"user_id": c.UserID.String(), "version": expectedVersion}
		update := bson.M{"$set": bson.M{
			"items":      items,
			"version":    next,
			"updated_at": now,
		}}
		result, err := r.collection.UpdateOne(ctx, filter, update)
		if err != nil {
			return fmt.Errorf("failed to update cart: %w", err)
		}
		if result.MatchedCount == 0 {
			return cart.ErrConflict
		}
	}

	c.Version = next
	c.UpdatedAt = now
	return nil
}

// Ensure CartRepository implements cart.Repository
var _ cart.Repository = (*CartRepository)(nil)

package catalog

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type ProductRepository interface {
	EnsureIndexes(ctx context.Context) error
	ListProducts(ctx context.Context, query ProductQuery) ([]Product, int64, error)
	GetProductByID(ctx context.Context, productID string) (*Product, error)
	GetProductsByIDs(ctx context.Context, productIDs []string) ([]Product, error)
	ListByCategory(ctx context.Context, categoryID string, limit int64) ([]Product, error)
	SeedProduct(ctx context.Context, product Product) error
}

type productRepository struct {
	collection *mongo.Collection
}

func NewProductRepository(db *mongo.Database) ProductRepository {
	return &productRepository{
		collection: db.Collection(productsCollection),
	}
}

// EnsureIndexes creates the text index used by search and the listing sort index.
func (r *productRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "name", Value: "text"}, {Key: "description", Value: "text"}}},
		{Keys: bson.D{{Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "category", Value: 1}}},
	})
	return err
}

func (r *productRepository) ListProducts(ctx context.Context, query ProductQuery) ([]Product, int64, error) {
	filter := SearchFilter(query.Search)
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(query.Skip()).
		SetLimit(int64(query.Limit))

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	products, err := decodeProducts(ctx, cursor)
	if err != nil {
		return nil, 0, err
	}

	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

func (r *productRepository) GetProductByID(ctx context.Context, productID string) (*Product, error) {
	var product Product
	err := r.collection.FindOne(ctx, bson.M{"_id": productID}).Decode(&product)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return &product, nil
}

// GetProductsByIDs returns the products that exist among productIDs, in no
// particular order.
func (r *productRepository) GetProductsByIDs(ctx context.Context, productIDs []string) ([]Product, error) {
	if len(productIDs) == 0 {
		return []Product{}, nil
	}
	cursor, err := r.collection.Find(ctx, IDsFilter(productIDs))
	if err != nil {
		return nil, err
	}
	return decodeProducts(ctx, cursor)
}

func (r *productRepository) ListByCategory(ctx context.Context, categoryID string, limit int64) ([]Product, error) {
	cursor, err := r.collection.Find(ctx, CategoryFilter(categoryID), options.Find().SetLimit(limit))
	if err != nil {
		return nil, err
	}
	return decodeProducts(ctx, cursor)
}

// SeedProduct inserts product unless a product with the same id exists.
func (r *productRepository) SeedProduct(ctx context.Context, product Product) error {
	filter := bson.M{"_id": product.ID}
	update := bson.M{"$setOnInsert": product}
	opts := options.Update().SetUpsert(true)
	_, err := r.collection.UpdateOne(ctx, filter, update, opts)
	return err
}

// SearchFilter matches every product when search is empty.
func SearchFilter(search string) bson.M {
	if search == "" {
		return bson.M{}
	}
	return bson.M{"$text": bson.M{"$search": search}}
}

func IDsFilter(productIDs []string) bson.M {
	return bson.M{"_id": bson.M{"$in": productIDs}}
}

// CategoryFilter matches products tagged with categoryID.
func CategoryFilter(categoryID string) bson.M {
	return bson.M{"category": categoryID}
}

func decodeProducts(ctx context.Context, cursor *mongo.Cursor) ([]Product, error) {
	defer cursor.Close(ctx)

	products := []Product{}
	for cursor.Next(ctx) {
		var product Product
		if err := cursor.Decode(&product); err != nil {
			return nil, err
		}
		products = append(products, product)
	}
	return products, cursor.Err()
}

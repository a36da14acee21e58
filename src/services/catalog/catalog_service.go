package catalog

import (
	"context"
	"time"

	"go-storefront-payments/src/infrastructure/log"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type CatalogService interface {
	ListProducts(ctx context.Context, query ProductQuery) (*ProductPage, error)
	GetProduct(ctx context.Context, productID string) (*Product, error)
	ListByCategory(ctx context.Context, categoryID string) ([]Product, error)
	SeedProduct(ctx context.Context, product Product) error
}

type catalogService struct {
	logger            log.Logger
	productRepository ProductRepository
	now               func() time.Time
}

func NewCatalogService(logger log.Logger, productRepo ProductRepository) CatalogService {
	return &catalogService{
		logger:            logger,
		productRepository: productRepo,
		now:               time.Now,
	}
}

func (s *catalogService) ListProducts(ctx context.Context, query ProductQuery) (*ProductPage, error) {
	query = NewProductQuery(query.Page, query.Limit, query.Search)

	products, total, err := s.productRepository.ListProducts(ctx, query)
	if err != nil {
		return nil, err
	}
	return &ProductPage{
		Data:        products,
		TotalCount:  total,
		TotalNoPage: TotalPages(total, query.Limit),
		Page:        query.Page,
		Limit:       query.Limit,
	}, nil
}

func (s *catalogService) GetProduct(ctx context.Context, productID string) (*Product, error) {
	if productID == "" {
		return nil, ErrProductNotFound
	}
	return s.productRepository.GetProductByID(ctx, productID)
}

func (s *catalogService) ListByCategory(ctx context.Context, categoryID string) ([]Product, error) {
	if categoryID == "" {
		return nil, ErrMissingCategory
	}
	return s.productRepository.ListByCategory(ctx, categoryID, CategoryLimit)
}

// SeedProduct fills in a missing id and creation time before upserting.
func (s *catalogService) SeedProduct(ctx context.Context, product Product) error {
	if product.ID == "" {
		product.ID = primitive.NewObjectID().Hex()
	}
	if product.CreatedAt.IsZero() {
		product.CreatedAt = s.now().UTC()
	}
	if err := s.productRepository.SeedProduct(ctx, product); err != nil {
		s.logger.Exception(ctx, "Failed to seed product "+product.ID, err)
		return err
	}
	return nil
}

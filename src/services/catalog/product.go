package catalog

import (
	"errors"
	"time"
)

const (
	DefaultPage        = 1
	DefaultLimit       = 10
	MaxLimit           = 100
	CategoryLimit      = 15
	productsCollection = "products"
)

var (
	ErrProductNotFound = errors.New("product not found")
	ErrMissingCategory = errors.New("category id is required")
)

type Image struct {
	PublicID string `bson:"public_id" json:"public_id"`
	URL      string `bson:"url" json:"url"`
}

type Product struct {
	ID          string            `bson:"_id" json:"_id"`
	Name        string            `bson:"name" json:"name"`
	Description string            `bson:"description" json:"description"`
	Price       float64           `bson:"price" json:"price"`
	Discount    float64           `bson:"discount" json:"discount"`
	Stock       int               `bson:"stock" json:"stock"`
	Category    []string          `bson:"category" json:"category"`
	Images      []Image           `bson:"images" json:"images"`
	Gender      string            `bson:"gender,omitempty" json:"gender,omitempty"`
	MoreDetails map[string]string `bson:"more_details,omitempty" json:"more_details,omitempty"`
	CreatedAt   time.Time         `bson:"createdAt" json:"createdAt"`
}

// ProductQuery is a normalized page request over the catalog.
type ProductQuery struct {
	Page   int
	Limit  int
	Search string
}

// NewProductQuery applies the listing defaults to raw page and limit values.
func NewProductQuery(page, limit int, search string) ProductQuery {
	if page < 1 {
		page = DefaultPage
	}
	if limit < 1 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return ProductQuery{Page: page, Limit: limit, Search: search}
}

func (q ProductQuery) Skip() int64 {
	return int64((q.Page - 1) * q.Limit)
}

type ProductPage struct {
	Data        []Product `json:"data"`
	TotalCount  int64     `json:"totalCount"`
	TotalNoPage int64     `json:"totalNoPage"`
	Page        int       `json:"page"`
	Limit       int       `json:"limit"`
}

// TotalPages rounds total/limit up.
func TotalPages(total int64, limit int) int64 {
	if limit <= 0 || total <= 0 {
		return 0
	}
	l := int64(limit)
	return (total + l - 1) / l
}

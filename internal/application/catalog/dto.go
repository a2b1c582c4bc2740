package catalog

import (
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/subhashana00/E-Commerce-Clothing--WEB-VTON-Reasearch/internal/domain/catalog"
)

// ImageFile is one uploaded product image
type ImageFile struct {
	FileName    string
	ContentType string
	Size        int64
	Open        func() (io.ReadCloser, error)
}

// AddProductInput holds an admin product submission
type AddProductInput struct {
	Name        string
	Description string
	Price       decimal.Decimal
	Category    string
	SubCategory string
	Bestseller  bool
	Sizes       []string
	Images      []ImageFile
}

// ProductResponse is the storefront view of a product
type ProductResponse struct {
	ID          uuid.UUID `json:"_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	Images      []string  `json:"image"`
	Category    string    `json:"category"`
	SubCategory string    `json:"subCategory"`
	Sizes       []string  `json:"sizes"`
	Bestseller  bool      `json:"bestseller"`
	Date        int64     `json:"date"`
	CreatedAt   time.Time `json:"createdAt"`
}

// ToProductResponse converts a domain product to its response shape
func ToProductResponse(p *catalog.Product) ProductResponse {
	images := p.Images
	if images == nil {
		images = []string{}
	}
	sizes := p.Sizes
	if sizes == nil {
		sizes = []string{}
	}
	return ProductResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price.InexactFloat64(),
		Images:      images,
		Category:    p.Category,
		SubCategory: p.SubCategory,
		Sizes:       sizes,
		Bestseller:  p.Bestseller,
		Date:        p.CreatedAt.UnixMilli(),
		CreatedAt:   p.CreatedAt,
	}
}

// ToProductResponses converts a slice of domain products
func ToProductResponses(products []catalog.Product) []ProductResponse {
	out := make([]ProductResponse, len(products))
	for i := range products {
		out[i] = ToProductResponse(&products[i])
	}
	return out
}

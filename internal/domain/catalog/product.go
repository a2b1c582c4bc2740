package catalog

import (
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/subhashana00/E-Commerce-Clothing--WEB-VTON-Reasearch/internal/domain/shared"
)

// MaxImages is the number of image slots on the admin upload form
const MaxImages = 4

// Product is a clothing item listed in the storefront.
// Except for removal it is immutable after creation.
type Product struct {
	shared.BaseAggregateRoot
	Name        string
	Description string
	Price       decimal.Decimal
	Images      []string // ordered, first is the primary image
	Category    string
	SubCategory string
	Bestseller  bool
	Sizes       []string
}

// NewProductInput holds the fields of a product submission
type NewProductInput struct {
	Name        string
	Description string
	Price       decimal.Decimal
	Images      []string
	Category    string
	SubCategory string
	Bestseller  bool
	Sizes       []string
}

// NewProduct validates the submission and creates a product
func NewProduct(in NewProductInput) (*Product, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	product := &Product{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              strings.TrimSpace(in.Name),
		Description:       strings.TrimSpace(in.Description),
		Price:             in.Price.Round(2),
		Images:            nonBlank(in.Images),
		Category:          strings.TrimSpace(in.Category),
		SubCategory:       strings.TrimSpace(in.SubCategory),
		Bestseller:        in.Bestseller,
		Sizes:             NormalizeSizes(in.Sizes),
	}
	product.Record(NewProductAddedEvent(product))
	return product, nil
}

// Validate checks a submission without creating a product.
// Used before images are uploaded so that invalid forms cost no storage calls.
func (in NewProductInput) Validate() error {
	if err := in.ValidateFields(); err != nil {
		return err
	}
	images := nonBlank(in.Images)
	if len(images) == 0 {
		return shared.NewDomainError("INVALID_INPUT", "Product must have at least one image")
	}
	if len(images) > MaxImages {
		return shared.NewDomainError("INVALID_INPUT", "Product cannot have more than 4 images")
	}
	return nil
}

// ValidateFields checks everything except the image list
func (in NewProductInput) ValidateFields() error {
	if err := validateProductName(strings.TrimSpace(in.Name)); err != nil {
		return err
	}
	if strings.TrimSpace(in.Description) == "" {
		return shared.NewDomainError("INVALID_INPUT", "Product description cannot be empty")
	}
	if !in.Price.Round(2).IsPositive() {
		return shared.NewDomainError("INVALID_INPUT", "Product price must be greater than zero")
	}
	if len(NormalizeSizes(in.Sizes)) == 0 {
		return shared.NewDomainError("INVALID_INPUT", "Product must offer at least one size")
	}
	return nil
}

// PrimaryImage returns the first image URL or an empty string
func (p *Product) PrimaryImage() string {
	if len(p.Images) == 0 {
		return ""
	}
	return p.Images[0]
}

// HasSize reports whether the product is offered in size
func (p *Product) HasSize(size string) bool {
	for _, s := range p.Sizes {
		if s == size {
			return true
		}
	}
	return false
}

// MarkRemoved records the removal event before the product is deleted
func (p *Product) MarkRemoved() {
	p.Record(NewProductRemovedEvent(p))
}

func validateProductName(name string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_INPUT", "Product name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_INPUT", "Product name cannot exceed 200 characters")
	}
	return nil
}

// NormalizeSizes trims labels and drops blanks and duplicates, keeping first appearance order
func NormalizeSizes(sizes []string) []string {
	seen := make(map[string]struct{}, len(sizes))
	out := make([]string, 0, len(sizes))
	for _, s := range sizes {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}

func nonBlank(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// ProductID parses a string identifier
func ProductID(raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil {
		return uuid.Nil, shared.NewDomainError("INVALID_INPUT", "Invalid product ID")
	}
	return id, nil
}

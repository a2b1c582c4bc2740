package models

import (
	"github.com/shopspring/decimal"
	"github.com/subhashana00/E-Commerce-Clothing--WEB-VTON-Reasearch/internal/domain/catalog"
)

// ProductModel is the persistence model for the Product domain entity
type ProductModel struct {
	AggregateModel
	Name        string          `gorm:"type:varchar(200);not null"`
	Description string          `gorm:"type:text;not null"`
	Price       decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Images      StringList      `gorm:"type:jsonb;not null"`
	Category    string          `gorm:"type:varchar(100);not null;index"`
	SubCategory string          `gorm:"type:varchar(100);not null"`
	Bestseller  bool            `gorm:"not null;default:false"`
	Sizes       StringList      `gorm:"type:jsonb;not null"`
}

// TableName returns the table name for GORM
func (ProductModel) TableName() string {
	return "products"
}

// ToDomain converts the persistence model to a domain Product
func (m *ProductModel) ToDomain() *catalog.Product {
	return &catalog.Product{
		BaseAggregateRoot: m.root(),
		Name:              m.Name,
		Description:       m.Description,
		Price:             m.Price,
		Images:            append([]string(nil), m.Images...),
		Category:          m.Category,
		SubCategory:       m.SubCategory,
		Bestseller:        m.Bestseller,
		Sizes:             append([]string(nil), m.Sizes...),
	}
}

// FromDomain populates the persistence model from a domain Product
func (m *ProductModel) FromDomain(p *catalog.Product) {
	m.AggregateModel = aggregateColumns(p.BaseAggregateRoot)
	m.Name = p.Name
	m.Description = p.Description
	m.Price = p.Price
	m.Images = StringList(p.Images)
	m.Category = p.Category
	m.SubCategory = p.SubCategory
	m.Bestseller = p.Bestseller
	m.Sizes = StringList(p.Sizes)
}

// ProductModelFromDomain creates a new persistence model from a domain Product
func ProductModelFromDomain(p *catalog.Product) *ProductModel {
	m := &ProductModel{}
	m.FromDomain(p)
	return m
}

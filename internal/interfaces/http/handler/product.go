package handler

import (
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/subhashana00/E-Commerce-Clothing--WEB-VTON-Reasearch/internal/application/catalog"
)

// imageFields are the multipart parts read by Add, in display order
var imageFields = []string{"image1", "image2", "image3", "image4"}

// CatalogService is the catalog use case surface used by ProductHandler
type CatalogService interface {
	List(ctx context.Context) ([]catalog.ProductResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*catalog.ProductResponse, error)
	Add(ctx context.Context, input catalog.AddProductInput) (*catalog.ProductResponse, error)
	Remove(ctx context.Context, id uuid.UUID) error
}

// ProductHandler serves the storefront catalog and the admin product forms
type ProductHandler struct {
	BaseHandler
	catalog CatalogService
}

// NewProductHandler creates a new product handler
func NewProductHandler(svc CatalogService) *ProductHandler {
	return &ProductHandler{catalog: svc}
}

// ProductIDRequest selects one product
type ProductIDRequest struct {
	ProductID string `json:"productId" binding:"required"`
}

// RemoveProductRequest is the admin delete form
type RemoveProductRequest struct {
	ID string `json:"id" binding:"required"`
}

// AddProductForm is the multipart admin form. Images arrive as image1..image4.
type AddProductForm struct {
	Name        string `form:"name" binding:"required"`
	Description string `form:"description" binding:"required"`
	Price       string `form:"price" binding:"required"`
	Category    string `form:"category" binding:"required"`
	SubCategory string `form:"subCategory" binding:"required"`
	Sizes       string `form:"sizes"`
	Bestseller  string `form:"bestseller"`
}

// ProductList is the list payload
type ProductList struct {
	Products []catalog.ProductResponse `json:"products"`
}

// List handles GET /api/product/list
func (h *ProductHandler) List(c *gin.Context) {
	products, err := h.catalog.List(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if products == nil {
		products = []catalog.ProductResponse{}
	}
	h.Success(c, ProductList{Products: products})
}

// Single handles POST /api/product/single
func (h *ProductHandler) Single(c *gin.Context) {
	var req ProductIDRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	id, err := uuid.Parse(strings.TrimSpace(req.ProductID))
	if err != nil {
		h.BadRequest(c, "Invalid product id")
		return
	}

	product, err := h.catalog.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, product)
}

// Add handles POST /api/product/add
func (h *ProductHandler) Add(c *gin.Context) {
	var form AddProductForm
	if err := c.ShouldBind(&form); err != nil {
		h.BindError(c, err)
		return
	}
	price, err := decimal.NewFromString(strings.TrimSpace(form.Price))
	if err != nil {
		h.BadRequest(c, "Price must be a number")
		return
	}
	sizes, err := parseSizes(form.Sizes)
	if err != nil {
		h.BadRequest(c, "Sizes must be a JSON array or a comma separated list")
		return
	}
	bestseller, _ := strconv.ParseBool(strings.TrimSpace(form.Bestseller))

	var images []catalog.ImageFile
	for _, field := range imageFields {
		fh, err := c.FormFile(field)
		if err != nil {
			continue
		}
		images = append(images, imageFromHeader(fh))
	}

	product, err := h.catalog.Add(c.Request.Context(), catalog.AddProductInput{
		Name:        form.Name,
		Description: form.Description,
		Price:       price,
		Category:    form.Category,
		SubCategory: form.SubCategory,
		Bestseller:  bestseller,
		Sizes:       sizes,
		Images:      images,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, product)
}

// Remove handles POST /api/product/remove
func (h *ProductHandler) Remove(c *gin.Context) {
	var req RemoveProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	id, err := uuid.Parse(strings.TrimSpace(req.ID))
	if err != nil {
		h.BadRequest(c, "Invalid product id")
		return
	}

	if err := h.catalog.Remove(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{"message": "Product removed"})
}

func imageFromHeader(fh *multipart.FileHeader) catalog.ImageFile {
	return catalog.ImageFile{
		FileName:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Size:        fh.Size,
		Open: func() (io.ReadCloser, error) {
			return fh.Open()
		},
	}
}

// parseSizes accepts the admin panel's JSON array or a plain "S,M,L" list
func parseSizes(raw string) ([]string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	if strings.HasPrefix(raw, "[") {
		var sizes []string
		if err := json.Unmarshal([]byte(raw), &sizes); err != nil {
			return nil, err
		}
		return sizes, nil
	}
	var sizes []string
	for _, s := range strings.Split(raw, ",") {
		if s = strings.TrimSpace(s); s != "" {
			sizes = append(sizes, s)
		}
	}
	return sizes, nil
}

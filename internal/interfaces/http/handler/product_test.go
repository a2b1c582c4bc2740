package handler

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/subhashana00/E-Commerce-Clothing--WEB-VTON-Reasearch/internal/application/catalog"
	"github.com/subhashana00/E-Commerce-Clothing--WEB-VTON-Reasearch/internal/domain/shared"
)

type MockCatalogService struct {
	mock.Mock
}

func (m *MockCatalogService) List(ctx context.Context) ([]catalog.ProductResponse, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.ProductResponse), args.Error(1)
}

func (m *MockCatalogService) Get(ctx context.Context, id uuid.UUID) (*catalog.ProductResponse, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.ProductResponse), args.Error(1)
}

func (m *MockCatalogService) Add(ctx context.Context, input catalog.AddProductInput) (*catalog.ProductResponse, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.ProductResponse), args.Error(1)
}

func (m *MockCatalogService) Remove(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func setupProductRouter(svc *MockCatalogService) *gin.Engine {
	h := NewProductHandler(svc)
	router := gin.New()
	router.GET("/api/product/list", h.List)
	router.POST("/api/product/single", h.Single)
	router.POST("/api/product/add", asAdmin(), h.Add)
	router.POST("/api/product/remove", asAdmin(), h.Remove)
	return router
}

func productForm(t *testing.T, fields map[string]string, images map[string][]byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	for field, content := range images {
		hdr := make(textproto.MIMEHeader)
		hdr.Set("Content-Disposition", `form-data; name="`+field+`"; filename="`+field+`.png"`)
		hdr.Set("Content-Type", "image/png")
		part, err := w.CreatePart(hdr)
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/product/add", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func TestProductHandler_List(t *testing.T) {
	svc := new(MockCatalogService)
	router := setupProductRouter(svc)

	svc.On("List", mock.Anything).Return(nil, nil).Once()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/product/list", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":true,"data":{"products":[]}}`, rec.Body.String())
	svc.AssertExpectations(t)
}

func TestProductHandler_Single(t *testing.T) {
	svc := new(MockCatalogService)
	router := setupProductRouter(svc)
	id := uuid.New()

	svc.On("Get", mock.Anything, id).Return(&catalog.ProductResponse{ID: id, Name: "Linen Shirt"}, nil).Once()
	missing := uuid.New()
	svc.On("Get", mock.Anything, missing).Return(nil, shared.NewDomainError("PRODUCT_NOT_FOUND", "Product not found")).Once()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, jsonRequest(http.MethodPost, "/api/product/single", map[string]string{"productId": id.String()}))
	assert.Equal(t, http.StatusOK, rec.Code)
	var got catalog.ProductResponse
	decodeData(t, rec, &got)
	assert.Equal(t, "Linen Shirt", got.Name)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, jsonRequest(http.MethodPost, "/api/product/single", map[string]string{"productId": missing.String()}))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, jsonRequest(http.MethodPost, "/api/product/single", map[string]string{"productId": "42"}))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "INVALID_INPUT", errorCode(t, rec))

	svc.AssertExpectations(t)
}

func TestProductHandler_Add(t *testing.T) {
	svc := new(MockCatalogService)
	router := setupProductRouter(svc)

	var captured catalog.AddProductInput
	svc.On("Add", mock.Anything, mock.AnythingOfType("catalog.AddProductInput")).
		Run(func(args mock.Arguments) { captured = args.Get(1).(catalog.AddProductInput) }).
		Return(&catalog.ProductResponse{ID: uuid.New(), Name: "Linen Shirt"}, nil).Once()

	req := productForm(t, map[string]string{
		"name":        "Linen Shirt",
		"description": "Breathable summer shirt",
		"price":       "49.90",
		"category":    "Men",
		"subCategory": "Topwear",
		"sizes":       `["S","M","L"]`,
		"bestseller":  "true",
	}, map[string][]byte{"image1": []byte("png-one"), "image3": []byte("png-three")})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.True(t, captured.Price.Equal(decimal.RequireFromString("49.90")))
	assert.Equal(t, []string{"S", "M", "L"}, captured.Sizes)
	assert.True(t, captured.Bestseller)
	require.Len(t, captured.Images, 2)
	assert.Equal(t, "image1.png", captured.Images[0].FileName)
	assert.Equal(t, "image/png", captured.Images[0].ContentType)

	f, err := captured.Images[1].Open()
	require.NoError(t, err)
	content, err := io.ReadAll(f)
	require.NoError(t, err)
	_ = f.Close()
	assert.Equal(t, "png-three", string(content))
	svc.AssertExpectations(t)
}

func TestProductHandler_AddRejectsBadPrice(t *testing.T) {
	svc := new(MockCatalogService)
	router := setupProductRouter(svc)

	req := productForm(t, map[string]string{
		"name": "Linen Shirt", "description": "d", "price": "cheap", "category": "Men", "subCategory": "Topwear",
	}, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	svc.AssertNotCalled(t, "Add", mock.Anything, mock.Anything)
}

func TestProductHandler_Remove(t *testing.T) {
	svc := new(MockCatalogService)
	router := setupProductRouter(svc)
	id := uuid.New()

	svc.On("Remove", mock.Anything, id).Return(nil).Once()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, jsonRequest(http.MethodPost, "/api/product/remove", map[string]string{"id": id.String()}))

	assert.Equal(t, http.StatusOK, rec.Code)
	svc.AssertExpectations(t)
}

func TestParseSizes(t *testing.T) {
	tests := []struct {
		raw     string
		want    []string
		wantErr bool
	}{
		{`["S","M"]`, []string{"S", "M"}, false},
		{"S, M ,,L", []string{"S", "M", "L"}, false},
		{"", nil, false},
		{`["S",`, nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := parseSizes(tt.raw)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

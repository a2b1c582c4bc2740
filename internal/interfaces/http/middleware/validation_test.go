package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/subhashana00/E-Commerce-Clothing--WEB-VTON-Reasearch/internal/interfaces/http/dto"
)

type signupBody struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Quantity int    `json:"quantity" binding:"gte=0"`
}

func newValidationRouter() *gin.Engine {
	SetupValidator()
	router := gin.New()
	router.Use(RequestID())
	router.POST("/test", func(c *gin.Context) {
		var body signupBody
		if err := c.ShouldBindJSON(&body); err != nil {
			HandleValidationError(c, err)
			return
		}
		c.Status(http.StatusOK)
	})
	return router
}

func postJSON(router *gin.Engine, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/test", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestHandleValidationError(t *testing.T) {
	router := newValidationRouter()

	t.Run("field errors use json names", func(t *testing.T) {
		rec := postJSON(router, `{"email":"nope","password":"short","quantity":-1}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		var resp dto.Response
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.NotNil(t, resp.Error)
		assert.Equal(t, dto.ErrCodeValidation, resp.Error.Code)
		assert.NotEmpty(t, resp.Error.RequestID)

		messages := map[string]string{}
		for _, d := range resp.Error.Details {
			messages[d.Field] = d.Message
		}
		assert.Equal(t, map[string]string{
			"email":    "must be a valid email address",
			"password": "must be at least 8 characters",
			"quantity": "must be 0 or more",
		}, messages)
	})

	t.Run("missing fields", func(t *testing.T) {
		rec := postJSON(router, `{}`)

		fields := map[string]string{}
		for _, d := range decodeError(t, rec).Details {
			fields[d.Field] = d.Message
		}
		assert.Equal(t, "is required", fields["email"])
		assert.Equal(t, "is required", fields["password"])
	})

	t.Run("malformed json", func(t *testing.T) {
		rec := postJSON(router, `{"email":`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, dto.ErrCodeInvalidInput, decodeError(t, rec).Code)
	})

	t.Run("valid body passes", func(t *testing.T) {
		rec := postJSON(router, `{"email":"asha@example.com","password":"longenough"}`)
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

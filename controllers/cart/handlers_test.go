package cartControllers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestRouter(db *gorm.DB, userID uint) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("user_id", userID)
	})
	r.GET("/cart", GetCart(db))
	r.POST("/cart", AddToCart(db))
	r.PUT("/cart/:id", UpdateCartItem(db))
	r.DELETE("/cart/:id", RemoveFromCart(db))
	r.DELETE("/cart", ClearCart(db))
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

func TestAddToCart_StatusCodes(t *testing.T) {
	db := setupTestDB(t)
	product := createProduct(t, db, "Mug", "9.99", 10)
	r := newTestRouter(db, 1)

	// First add creates the line.
	w := doJSON(t, r, http.MethodPost, "/cart", gin.H{"product_id": product.ID, "quantity": 2})
	assert.Equal(t, http.StatusCreated, w.Code)

	// Second add merges into it.
	w = doJSON(t, r, http.MethodPost, "/cart", gin.H{"product_id": product.ID, "quantity": 1})
	assert.Equal(t, http.StatusOK, w.Code)

	var line struct {
		Quantity int `json:"quantity"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &line))
	assert.Equal(t, 3, line.Quantity)
}

func TestAddToCart_Errors(t *testing.T) {
	db := setupTestDB(t)
	product := createProduct(t, db, "Mug", "9.99", 2)
	r := newTestRouter(db, 1)

	w := doJSON(t, r, http.MethodPost, "/cart", gin.H{"product_id": 999, "quantity": 1})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(t, r, http.MethodPost, "/cart", gin.H{"product_id": product.ID, "quantity": 3})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, r, http.MethodPost, "/cart", gin.H{"product_id": product.ID, "quantity": 0})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdateCartItem_QuantityFloorHTTP(t *testing.T) {
	db := setupTestDB(t)
	product := createProduct(t, db, "Mug", "9.99", 10)
	r := newTestRouter(db, 1)

	item, _, err := AddItem(db, 1, product.ID, 2)
	require.NoError(t, err)

	w := doJSON(t, r, http.MethodPut, "/cart/"+itoa(item.ID), gin.H{"quantity": 0})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, r, http.MethodPut, "/cart/"+itoa(item.ID), gin.H{"quantity": -3})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, r, http.MethodPut, "/cart/"+itoa(item.ID), gin.H{"quantity": 5})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCartEndpoints_Flow(t *testing.T) {
	db := setupTestDB(t)
	product := createProduct(t, db, "Mug", "9.99", 10)
	r := newTestRouter(db, 1)

	w := doJSON(t, r, http.MethodPost, "/cart", gin.H{"product_id": product.ID, "quantity": 2})
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, r, http.MethodGet, "/cart", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var items []map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &items))
	require.Len(t, items, 1)

	w = doJSON(t, r, http.MethodDelete, "/cart", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodGet, "/cart", nil)
	require.Equal(t, http.StatusOK, w.Code)
	items = nil
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &items))
	assert.Empty(t, items)
}

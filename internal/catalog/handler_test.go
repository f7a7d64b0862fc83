package catalog

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupCatalogRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	h := NewHandler(newTestService())
	h.Register(r.Group("/food-items"), r.Group("/food-items"))
	return r
}

func TestHandler_CreateAndSearch(t *testing.T) {
	r := setupCatalogRouter()

	body := []byte(`{"name":"Rice","category":"GRAINS","unit":"KG","cost_per_unit":"40.00"}`)
	req := httptest.NewRequest(http.MethodPost, "/food-items", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/food-items/search?query=ri", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var items []FoodItem
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &items))
	require.Len(t, items, 1)
	assert.Equal(t, "Rice", items[0].Name)
}

func TestHandler_BlankNameIsBadRequest(t *testing.T) {
	r := setupCatalogRouter()

	body := []byte(`{"name":"","category":"GRAINS","unit":"KG"}`)
	req := httptest.NewRequest(http.MethodPost, "/food-items", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandler_GetUnknownIsNotFound(t *testing.T) {
	r := setupCatalogRouter()

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/food-items/7", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

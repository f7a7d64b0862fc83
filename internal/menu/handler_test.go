package menu

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

func setupMenuRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	h := NewHandler(newTestService("2024-03-04"))
	g := r.Group("/menus")
	h.Register(g, g)
	return r
}

func do(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHandler_CreateTwiceIsBadRequestWithCode(t *testing.T) {
	r := setupMenuRouter()

	w := do(r, http.MethodPost, "/menus", `{"date":"2024-03-04","meal_type":"lunch"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = do(r, http.MethodPost, "/menus", `{"date":"2024-03-04","meal_type":"LUNCH"}`)
	require.Equal(t, http.StatusBadRequest, w.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "DUPLICATE_MENU", body["code"])
	assert.Equal(t, true, body["retryable"])
}

func TestHandler_CompositionFlow(t *testing.T) {
	r := setupMenuRouter()

	w := do(r, http.MethodPost, "/menus", `{"date":"2024-03-04","meal_type":"LUNCH"}`)
	require.Equal(t, http.StatusCreated, w.Code)

	w = do(r, http.MethodPost, "/menus/1/food-items", `{"food_item_id":1,"quantity_per_student":"0.15"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = do(r, http.MethodGet, "/menus/date/2024-03-04/meal-type/LUNCH", "")
	require.Equal(t, http.StatusOK, w.Code)

	var m Menu
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &m))
	require.Len(t, m.FoodItems, 1)
	assert.Equal(t, "Rice", m.FoodItems[0].FoodItemName)

	w = do(r, http.MethodDelete, "/menus/1/food-items/2", "")
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestHandler_BadInput(t *testing.T) {
	r := setupMenuRouter()

	assert.Equal(t, http.StatusBadRequest,
		do(r, http.MethodPost, "/menus", `{"date":"04/03/2024","meal_type":"LUNCH"}`).Code)
	assert.Equal(t, http.StatusBadRequest,
		do(r, http.MethodPost, "/menus", `{"date":"2024-03-04","meal_type":"BRUNCH"}`).Code)
	assert.Equal(t, http.StatusBadRequest,
		do(r, http.MethodGet, "/menus/period?startDate=2024-03-01", "").Code)
	assert.Equal(t, http.StatusNotFound,
		do(r, http.MethodGet, "/menus/9", "").Code)
}

func TestHandler_QuantityIsRequired(t *testing.T) {
	r := setupMenuRouter()

	w := do(r, http.MethodPost, "/menus", `{"date":"2024-03-04","meal_type":"LUNCH"}`)
	require.Equal(t, http.StatusCreated, w.Code)

	w = do(r, http.MethodPost, "/menus/1/food-items", `{"food_item_id":1}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(r, http.MethodPost, "/menus/1/food-items", `{"food_item_id":1,"quantity_per_student":"0.15"}`)
	require.Equal(t, http.StatusCreated, w.Code)

	w = do(r, http.MethodPut, "/menus/1/food-items/1", `{"notes":"extra"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(r, http.MethodPut, "/menus/1/food-items/1", `{"quantity_per_student":"0.2"}`)
	assert.Equal(t, http.StatusOK, w.Code)

	w = do(r, http.MethodGet, "/menus/1/food-items", "")
	require.Equal(t, http.StatusOK, w.Code)
	var lines []MenuFoodItem
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &lines))
	require.Len(t, lines, 1)
	assert.True(t, lines[0].QuantityPerStudent.Equal(qty("0.2")))
}

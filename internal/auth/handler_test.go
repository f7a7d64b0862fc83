package auth

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

func setupTestRouter(t *testing.T) *gin.Engine {
	gin.SetMode(gin.TestMode)
	service, _, _ := newTestService(t)
	h := NewHandler(service)

	r := gin.New()
	r.POST("/auth/login", h.Login)
	r.POST("/users", h.CreateUser)
	return r
}

func post(r *gin.Engine, path string, payload any) *httptest.ResponseRecorder {
	body, _ := json.Marshal(payload)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCreateUserThenLogin(t *testing.T) {
	r := setupTestRouter(t)

	w := post(r, "/users", cook())
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.NotContains(t, w.Body.String(), "Password@123")

	w = post(r, "/auth/login", map[string]string{"username": "asha", "password": "Password@123"})
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Token)
}

func TestLoginMissingFields(t *testing.T) {
	r := setupTestRouter(t)

	w := post(r, "/auth/login", map[string]string{"username": "asha"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLoginWrongPassword(t *testing.T) {
	r := setupTestRouter(t)
	require.Equal(t, http.StatusCreated, post(r, "/users", cook()).Code)

	w := post(r, "/auth/login", map[string]string{"username": "asha", "password": "nope-nope"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCreateUserDuplicate(t *testing.T) {
	r := setupTestRouter(t)
	require.Equal(t, http.StatusCreated, post(r, "/users", cook()).Code)

	w := post(r, "/users", cook())
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "DUPLICATE_USER")
}

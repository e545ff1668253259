package Controllers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"github.com/yeremiapane/restaurant-reserve/controllers"
	"github.com/yeremiapane/restaurant-reserve/middlewares"
)

func setupAuthRouter(db *gorm.DB) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.Default()
	userCtrl := controllers.NewUserController(db, testConfig())
	router.POST("/auth/register", userCtrl.Register)
	router.POST("/auth/login", userCtrl.Login)
	router.POST("/auth/login/oauth", userCtrl.LoginForm)
	router.GET("/auth/me", middlewares.AuthMiddleware(), userCtrl.Me)
	return router
}

func TestRegisterLoginMe(t *testing.T) {
	db := openTestDB(t)
	router := setupAuthRouter(db)

	payload := map[string]interface{}{
		"email":      "guest@example.com",
		"password":   "secret123",
		"first_name": "Ivan",
		"last_name":  "Petrov",
		"phone":      "+70000000000",
	}
	payloadBytes, err := json.Marshal(payload)
	assert.NoError(t, err)

	req, _ := http.NewRequest("POST", "/auth/register", bytes.NewBuffer(payloadBytes))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusCreated, w.Code)

	var registerResp map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &registerResp))
	data, ok := registerResp["data"].(map[string]interface{})
	assert.True(t, ok)
	assert.Equal(t, "bearer", data["token_type"])
	assert.NotEmpty(t, data["access_token"])

	// The same email cannot register twice.
	req, _ = http.NewRequest("POST", "/auth/register", bytes.NewBuffer(payloadBytes))
	req.Header.Set("Content-Type", "application/json")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusConflict, w.Code)

	loginBytes, _ := json.Marshal(map[string]string{
		"email":    "guest@example.com",
		"password": "secret123",
	})
	req, _ = http.NewRequest("POST", "/auth/login", bytes.NewBuffer(loginBytes))
	req.Header.Set("Content-Type", "application/json")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	var loginResp map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &loginResp))
	token := loginResp["data"].(map[string]interface{})["access_token"].(string)

	req, _ = http.NewRequest("GET", "/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	var meResp map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &meResp))
	me := meResp["data"].(map[string]interface{})
	assert.Equal(t, "guest@example.com", me["email"])
	// The hash never leaves the server.
	_, leaked := me["password_hash"]
	assert.False(t, leaked)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	db := openTestDB(t)
	router := setupAuthRouter(db)
	createTestUser(t, db, "guest@example.com", "user")

	loginBytes, _ := json.Marshal(map[string]string{
		"email":    "guest@example.com",
		"password": "wrong-password",
	})
	req, _ := http.NewRequest("POST", "/auth/login", bytes.NewBuffer(loginBytes))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	loginBytes, _ = json.Marshal(map[string]string{
		"email":    "nobody@example.com",
		"password": "secret123",
	})
	req, _ = http.NewRequest("POST", "/auth/login", bytes.NewBuffer(loginBytes))
	req.Header.Set("Content-Type", "application/json")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLoginFormUsesUsernameField(t *testing.T) {
	db := openTestDB(t)
	router := setupAuthRouter(db)
	createTestUser(t, db, "guest@example.com", "user")

	form := url.Values{}
	form.Set("username", "guest@example.com")
	form.Set("password", testPassword)
	req, _ := http.NewRequest("POST", "/auth/login/oauth", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	var resp map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp["data"].(map[string]interface{})["access_token"])
}

func TestMeRequiresToken(t *testing.T) {
	db := openTestDB(t)
	router := setupAuthRouter(db)

	req, _ := http.NewRequest("GET", "/auth/me", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	req, _ = http.NewRequest("GET", "/auth/me", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

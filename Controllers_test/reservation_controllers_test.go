package Controllers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"github.com/yeremiapane/restaurant-reserve/controllers"
	"github.com/yeremiapane/restaurant-reserve/middlewares"
	"github.com/yeremiapane/restaurant-reserve/services"
)

func setupReservationRouter(db *gorm.DB) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.Default()
	reservationSvc := services.NewReservationService(db, testConfig())
	reservationCtrl := controllers.NewReservationController(db, reservationSvc)
	orderCtrl := controllers.NewOrderController(db)

	router.GET("/reserve/availability", reservationCtrl.Availability)

	admin := router.Group("/", middlewares.AuthMiddleware(), middlewares.AdminOnly())
	admin.GET("/reserve", reservationCtrl.ListByDate)
	admin.GET("/reserve/stats", reservationCtrl.Stats)

	user := router.Group("/", middlewares.AuthMiddleware())
	user.POST("/reserve", reservationCtrl.Create)
	user.GET("/reserve/my", reservationCtrl.My)
	user.GET("/reserve/:reservation_id", reservationCtrl.Get)
	user.PUT("/reserve/:reservation_id", reservationCtrl.Update)
	user.DELETE("/reserve/:reservation_id", reservationCtrl.Cancel)
	user.PATCH("/reserve/:reservation_id/status", reservationCtrl.UpdateStatus)
	user.POST("/reserve/:reservation_id/order", orderCtrl.AddOrderItem)
	return router
}

func authedJSON(router *gin.Engine, method, path, token string, payload interface{}) *httptest.ResponseRecorder {
	var body *bytes.Buffer
	if payload != nil {
		payloadBytes, _ := json.Marshal(payload)
		body = bytes.NewBuffer(payloadBytes)
	} else {
		body = bytes.NewBuffer(nil)
	}
	req, _ := http.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func reservePayload(tableID string) map[string]interface{} {
	return map[string]interface{}{
		"table_id":         tableID,
		"reservation_date": tomorrow(),
		"reservation_time": "14:00",
		"duration":         2,
		"guests_count":     2,
		"first_name":       "Ivan",
		"last_name":        "Petrov",
		"phone":            "+70000000000",
	}
}

func TestReserveRequiresAuth(t *testing.T) {
	db := openTestDB(t)
	router := setupReservationRouter(db)

	w := authedJSON(router, "POST", "/reserve", "", reservePayload("x"))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAvailabilityEndpoint(t *testing.T) {
	db := openTestDB(t)
	seedTestTableTypes(t, db)
	seedTestTable(t, db, 1, 4)
	router := setupReservationRouter(db)

	// date is mandatory
	w := authedJSON(router, "GET", "/reserve/availability", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = authedJSON(router, "GET", "/reserve/availability?date="+tomorrow(), "", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var resp map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	rows, ok := resp["data"].([]interface{})
	assert.True(t, ok)
	assert.Len(t, rows, 1)
	row := rows[0].(map[string]interface{})
	assert.Equal(t, true, row["available"])

	w = authedJSON(router, "GET", "/reserve/availability?date=2020-01-01", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestReserveLifecycle(t *testing.T) {
	db := openTestDB(t)
	seedTestTableTypes(t, db)
	table := seedTestTable(t, db, 1, 4)
	router := setupReservationRouter(db)

	owner := createTestUser(t, db, "owner@example.com", "user")
	ownerToken := tokenFor(t, owner)

	w := authedJSON(router, "POST", "/reserve", ownerToken, reservePayload(table.ID))
	assert.Equal(t, http.StatusCreated, w.Code)
	created := dataOf(t, w)
	reservationID := created["id"].(string)
	assert.Equal(t, "pending", created["status"])

	// Double booking the same slot conflicts.
	w = authedJSON(router, "POST", "/reserve", ownerToken, reservePayload(table.ID))
	assert.Equal(t, http.StatusConflict, w.Code)

	w = authedJSON(router, "GET", "/reserve/"+reservationID, ownerToken, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = authedJSON(router, "GET", "/reserve/my", ownerToken, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	var listResp map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &listResp))
	assert.Len(t, listResp["data"], 1)

	w = authedJSON(router, "PATCH", "/reserve/"+reservationID+"/status", ownerToken, map[string]string{"status": "confirmed"})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "confirmed", dataOf(t, w)["status"])

	w = authedJSON(router, "PATCH", "/reserve/"+reservationID+"/status", ownerToken, map[string]string{"status": "pending"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = authedJSON(router, "DELETE", "/reserve/"+reservationID, ownerToken, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = authedJSON(router, "GET", "/reserve/"+reservationID, ownerToken, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestReserveOwnershipIsolation(t *testing.T) {
	db := openTestDB(t)
	seedTestTableTypes(t, db)
	table := seedTestTable(t, db, 1, 4)
	router := setupReservationRouter(db)

	owner := createTestUser(t, db, "owner@example.com", "user")
	intruder := createTestUser(t, db, "intruder@example.com", "user")
	admin := createTestUser(t, db, "admin@example.com", "admin")

	w := authedJSON(router, "POST", "/reserve", tokenFor(t, owner), reservePayload(table.ID))
	assert.Equal(t, http.StatusCreated, w.Code)
	reservationID := dataOf(t, w)["id"].(string)

	intruderToken := tokenFor(t, intruder)
	w = authedJSON(router, "GET", "/reserve/"+reservationID, intruderToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	w = authedJSON(router, "DELETE", "/reserve/"+reservationID, intruderToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	w = authedJSON(router, "PATCH", "/reserve/"+reservationID+"/status", intruderToken, map[string]string{"status": "cancelled"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	// Admins see everything.
	w = authedJSON(router, "GET", "/reserve/"+reservationID, tokenFor(t, admin), nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAdminRosterAndStats(t *testing.T) {
	db := openTestDB(t)
	seedTestTableTypes(t, db)
	table := seedTestTable(t, db, 1, 4)
	router := setupReservationRouter(db)

	user := createTestUser(t, db, "guest@example.com", "user")
	admin := createTestUser(t, db, "admin@example.com", "admin")
	adminToken := tokenFor(t, admin)

	w := authedJSON(router, "POST", "/reserve", tokenFor(t, user), reservePayload(table.ID))
	assert.Equal(t, http.StatusCreated, w.Code)

	// Plain users have no roster access.
	w = authedJSON(router, "GET", "/reserve?date="+tomorrow(), tokenFor(t, user), nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = authedJSON(router, "GET", "/reserve?date="+tomorrow(), adminToken, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	var rosterResp map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &rosterResp))
	assert.Len(t, rosterResp["data"], 1)

	w = authedJSON(router, "GET", "/reserve/stats?period=week", adminToken, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	stats := dataOf(t, w)
	assert.EqualValues(t, 1, stats["total_reservations"])
}

func TestOrderItemOnReservation(t *testing.T) {
	db := openTestDB(t)
	seedTestTableTypes(t, db)
	table := seedTestTable(t, db, 1, 4)
	router := setupReservationRouter(db)

	owner := createTestUser(t, db, "owner@example.com", "user")
	ownerToken := tokenFor(t, owner)
	intruder := createTestUser(t, db, "intruder@example.com", "user")

	menuRouter := setupMenuRouter(db)
	w := postJSON(menuRouter, "POST", "/menu/categories", map[string]string{"name": "Напитки"})
	catID := dataOf(t, w)["id"].(string)
	w = postJSON(menuRouter, "POST", "/menu/items", map[string]interface{}{
		"name":        "Морс",
		"price":       150.0,
		"category_id": catID,
	})
	itemID := dataOf(t, w)["id"].(string)

	w = authedJSON(router, "POST", "/reserve", ownerToken, reservePayload(table.ID))
	assert.Equal(t, http.StatusCreated, w.Code)
	reservationID := dataOf(t, w)["id"].(string)

	w = authedJSON(router, "POST", "/reserve/"+reservationID+"/order", ownerToken,
		map[string]interface{}{"menu_item_id": itemID, "quantity": 2})
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.EqualValues(t, 2, dataOf(t, w)["quantity"])

	w = authedJSON(router, "POST", "/reserve/"+reservationID+"/order", tokenFor(t, intruder),
		map[string]interface{}{"menu_item_id": itemID, "quantity": 1})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = authedJSON(router, "POST", "/reserve/"+reservationID+"/order", ownerToken,
		map[string]interface{}{"menu_item_id": "missing-item", "quantity": 1})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

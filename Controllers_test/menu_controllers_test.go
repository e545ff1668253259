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
	"github.com/yeremiapane/restaurant-reserve/models"
)

func setupMenuRouter(db *gorm.DB) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.Default()
	menuCtrl := controllers.NewMenuController(db)
	router.GET("/menu", menuCtrl.GetMenu)
	router.POST("/menu/categories", menuCtrl.CreateCategory)
	router.PUT("/menu/categories/:cat_id", menuCtrl.UpdateCategory)
	router.DELETE("/menu/categories/:cat_id", menuCtrl.DeleteCategory)
	router.POST("/menu/items", menuCtrl.CreateMenuItem)
	router.PUT("/menu/items/:item_id", menuCtrl.UpdateMenuItem)
	router.DELETE("/menu/items/:item_id", menuCtrl.DeleteMenuItem)
	return router
}

func postJSON(router *gin.Engine, method, path string, payload interface{}) *httptest.ResponseRecorder {
	payloadBytes, _ := json.Marshal(payload)
	req, _ := http.NewRequest(method, path, bytes.NewBuffer(payloadBytes))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func dataOf(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	var resp map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data, ok := resp["data"].(map[string]interface{})
	assert.True(t, ok, "expected an object in data")
	return data
}

func TestMenuCatalogCRUD(t *testing.T) {
	db := openTestDB(t)
	router := setupMenuRouter(db)

	w := postJSON(router, "POST", "/menu/categories", map[string]string{"name": "Закуски"})
	assert.Equal(t, http.StatusCreated, w.Code)
	catID := dataOf(t, w)["id"].(string)
	assert.NotEmpty(t, catID)

	w = postJSON(router, "POST", "/menu/items", map[string]interface{}{
		"name":        "Оливье",
		"description": "Classic salad",
		"price":       450.0,
		"category_id": catID,
	})
	assert.Equal(t, http.StatusCreated, w.Code)
	itemID := dataOf(t, w)["id"].(string)

	// The category cannot go while an item references it.
	req, _ := http.NewRequest("DELETE", "/menu/categories/"+catID, nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = postJSON(router, "PUT", "/menu/items/"+itemID, map[string]interface{}{
		"name":        "Оливье с курицей",
		"price":       500.0,
		"category_id": catID,
	})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Оливье с курицей", dataOf(t, w)["name"])

	req, _ = http.NewRequest("GET", "/menu", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	menu := dataOf(t, w)
	assert.Len(t, menu["categories"], 1)
	assert.Len(t, menu["items"], 1)

	req, _ = http.NewRequest("DELETE", "/menu/items/"+itemID, nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	// With the item gone the category delete goes through.
	req, _ = http.NewRequest("DELETE", "/menu/categories/"+catID, nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestMenuItemRequiresExistingCategory(t *testing.T) {
	db := openTestDB(t)
	router := setupMenuRouter(db)

	w := postJSON(router, "POST", "/menu/items", map[string]interface{}{
		"name":        "Борщ",
		"price":       300.0,
		"category_id": "00000000-0000-0000-0000-000000000000",
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestMenuItemDeleteBlockedByOrders(t *testing.T) {
	db := openTestDB(t)
	router := setupMenuRouter(db)
	seedTestTableTypes(t, db)
	table := seedTestTable(t, db, 1, 4)
	user := createTestUser(t, db, "guest@example.com", "user")

	w := postJSON(router, "POST", "/menu/categories", map[string]string{"name": "Горячее"})
	assert.Equal(t, http.StatusCreated, w.Code)
	catID := dataOf(t, w)["id"].(string)

	w = postJSON(router, "POST", "/menu/items", map[string]interface{}{
		"name":        "Стейк",
		"price":       1200.0,
		"category_id": catID,
	})
	assert.Equal(t, http.StatusCreated, w.Code)
	itemID := dataOf(t, w)["id"].(string)

	reservation := models.Reservation{
		UserID: user.ID, TableID: table.ID,
		ReservationDate: tomorrow(), ReservationTime: "18:00", Duration: 2,
		GuestsCount: 2, FirstName: "Ivan", LastName: "Petrov", Phone: "+70000000000",
	}
	assert.NoError(t, db.Create(&reservation).Error)
	order := models.OrderItem{ReservationID: reservation.ID, MenuItemID: itemID, Quantity: 1}
	assert.NoError(t, db.Create(&order).Error)

	req, _ := http.NewRequest("DELETE", "/menu/items/"+itemID, nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/yeremiapane/restaurant-reserve/models"
	"github.com/yeremiapane/restaurant-reserve/utils"
)

type OrderController struct {
	DB *gorm.DB
}

func NewOrderController(db *gorm.DB) *OrderController {
	return &OrderController{DB: db}
}

// AddOrderItem attaches a menu line item to a reservation. The caller
// must own the reservation or be an admin.
func (oc *OrderController) AddOrderItem(c *gin.Context) {
	var body struct {
		MenuItemID string `json:"menu_item_id" binding:"required"`
		Quantity   int    `json:"quantity" binding:"required,min=1"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var reservation models.Reservation
	if err := oc.DB.First(&reservation, "id = ?", c.Param("reservation_id")).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("reservation not found"))
		return
	}
	if !isAdmin(c) && reservation.UserID != c.GetString("user_id") {
		utils.RespondError(c, http.StatusForbidden, errors.New("you do not have access to this reservation"))
		return
	}

	var menuItem models.MenuItem
	if err := oc.DB.First(&menuItem, "id = ?", body.MenuItemID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("menu item not found"))
		return
	}

	orderItem := models.OrderItem{
		ReservationID: reservation.ID,
		MenuItemID:    menuItem.ID,
		Quantity:      body.Quantity,
	}
	if err := oc.DB.Create(&orderItem).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Order item added", orderItem)
}

// OrderStats aggregates all order items: distinct ordering reservations,
// quantities per item name and per category name, total revenue.
func (oc *OrderController) OrderStats(c *gin.Context) {
	var orderItems []models.OrderItem
	if err := oc.DB.Preload("MenuItem").Preload("MenuItem.Category").Find(&orderItems).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	reservationsSeen := make(map[string]bool)
	itemsSold := make(map[string]int)
	itemsByCategory := make(map[string]int)
	totalRevenue := 0.0

	for _, oi := range orderItems {
		reservationsSeen[oi.ReservationID] = true
		if oi.MenuItem == nil {
			continue
		}
		itemsSold[oi.MenuItem.Name] += oi.Quantity

		categoryName := "Без категории"
		if oi.MenuItem.Category != nil {
			categoryName = oi.MenuItem.Category.Name
		}
		itemsByCategory[categoryName] += oi.Quantity

		totalRevenue += oi.MenuItem.Price * float64(oi.Quantity)
	}

	utils.RespondJSON(c, http.StatusOK, "Order statistics", gin.H{
		"total_orders":      len(reservationsSeen),
		"items_sold":        itemsSold,
		"items_by_category": itemsByCategory,
		"total_revenue":     totalRevenue,
	})
}

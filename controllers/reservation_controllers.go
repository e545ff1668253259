package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/yeremiapane/restaurant-reserve/models"
	"github.com/yeremiapane/restaurant-reserve/services"
	"github.com/yeremiapane/restaurant-reserve/utils"
)

type ReservationController struct {
	DB           *gorm.DB
	Reservations *services.ReservationService
}

func NewReservationController(db *gorm.DB, reservations *services.ReservationService) *ReservationController {
	return &ReservationController{DB: db, Reservations: reservations}
}

func isAdmin(c *gin.Context) bool {
	return c.GetString("role") == "admin"
}

// loadOwned fetches the reservation and enforces the ownership rule:
// a non-admin caller may only touch their own reservations.
func (rc *ReservationController) loadOwned(c *gin.Context) (*models.Reservation, bool) {
	var reservation models.Reservation
	if err := rc.DB.First(&reservation, "id = ?", c.Param("reservation_id")).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("reservation not found"))
		return nil, false
	}
	if !isAdmin(c) && reservation.UserID != c.GetString("user_id") {
		utils.RespondError(c, http.StatusForbidden, errors.New("you do not have access to this reservation"))
		return nil, false
	}
	return &reservation, true
}

// Availability handles GET /reserve/availability?date=&time=&duration=.
func (rc *ReservationController) Availability(c *gin.Context) {
	dateStr := c.Query("date")
	if dateStr == "" {
		utils.RespondError(c, http.StatusBadRequest, errors.New("date query parameter is required"))
		return
	}

	duration := 0
	if raw := c.Query("duration"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			utils.RespondError(c, http.StatusBadRequest, errors.New("invalid duration"))
			return
		}
		duration = parsed
	}

	availability, err := rc.Reservations.Availability(dateStr, c.Query("time"), duration)
	if err != nil {
		utils.RespondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Table availability", availability)
}

// Create books a table for the authenticated user.
func (rc *ReservationController) Create(c *gin.Context) {
	var input services.ReservationInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	reservation, err := rc.Reservations.Create(input, c.GetString("user_id"))
	if err != nil {
		utils.RespondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Reservation created", reservation)
}

// ListByDate returns the admin day roster.
func (rc *ReservationController) ListByDate(c *gin.Context) {
	dateStr := c.Query("date")
	if dateStr == "" {
		utils.RespondError(c, http.StatusBadRequest, errors.New("date query parameter is required"))
		return
	}

	reservations, err := rc.Reservations.ListByDate(dateStr)
	if err != nil {
		utils.RespondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Reservations", reservations)
}

// My returns the caller's reservations with embedded table info.
func (rc *ReservationController) My(c *gin.Context) {
	reservations, err := rc.Reservations.ListByUser(c.GetString("user_id"))
	if err != nil {
		utils.RespondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "My reservations", reservations)
}

// Stats returns aggregate numbers for week/month/year (admin only).
func (rc *ReservationController) Stats(c *gin.Context) {
	stats, err := rc.Reservations.Stats(c.DefaultQuery("period", "week"))
	if err != nil {
		utils.RespondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Reservation statistics", stats)
}

// Get returns reservation details (owner or admin).
func (rc *ReservationController) Get(c *gin.Context) {
	reservation, ok := rc.loadOwned(c)
	if !ok {
		return
	}

	detailed, err := rc.Reservations.Get(reservation.ID)
	if err != nil {
		utils.RespondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Reservation detail", detailed)
}

// Update rebooks a reservation (owner or admin).
func (rc *ReservationController) Update(c *gin.Context) {
	reservation, ok := rc.loadOwned(c)
	if !ok {
		return
	}

	var input services.ReservationInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	updated, err := rc.Reservations.Update(reservation.ID, input)
	if err != nil {
		utils.RespondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Reservation updated", updated)
}

// Cancel deletes the reservation (owner or admin).
func (rc *ReservationController) Cancel(c *gin.Context) {
	reservation, ok := rc.loadOwned(c)
	if !ok {
		return
	}

	if err := rc.Reservations.Delete(reservation.ID); err != nil {
		utils.RespondServiceError(c, err)
		return
	}
	utils.InfoLogger.Printf("Reservation %s cancelled", reservation.ID)
	utils.RespondJSON(c, http.StatusOK, "Reservation cancelled", gin.H{"reservation_id": reservation.ID})
}

// UpdateStatus applies a status transition (owner or admin).
func (rc *ReservationController) UpdateStatus(c *gin.Context) {
	reservation, ok := rc.loadOwned(c)
	if !ok {
		return
	}

	var body struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	updated, err := rc.Reservations.UpdateStatus(reservation.ID, body.Status)
	if err != nil {
		utils.RespondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Reservation status updated", updated)
}

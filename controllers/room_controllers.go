package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/yeremiapane/restaurant-reserve/models"
	"github.com/yeremiapane/restaurant-reserve/utils"
)

type RoomController struct {
	DB *gorm.DB
}

func NewRoomController(db *gorm.DB) *RoomController {
	return &RoomController{DB: db}
}

type roomRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

// GetAllRooms
func (rc *RoomController) GetAllRooms(c *gin.Context) {
	var rooms []models.Room
	if err := rc.DB.Find(&rooms).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "All rooms", rooms)
}

// GetRoomByID
func (rc *RoomController) GetRoomByID(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("room_id"))

	var room models.Room
	if err := rc.DB.First(&room, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("room not found"))
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Room detail", room)
}

// CreateRoom enforces the unique room name.
func (rc *RoomController) CreateRoom(c *gin.Context) {
	var body roomRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var count int64
	if err := rc.DB.Model(&models.Room{}).Where("name = ?", body.Name).Count(&count).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	if count > 0 {
		utils.RespondError(c, http.StatusConflict, errors.New("a room with this name already exists"))
		return
	}

	room := models.Room{Name: body.Name, Description: body.Description}
	if err := rc.DB.Create(&room).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Room created", room)
}

// UpdateRoom
func (rc *RoomController) UpdateRoom(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("room_id"))

	var body roomRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var room models.Room
	if err := rc.DB.First(&room, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("room not found"))
		return
	}

	if body.Name != room.Name {
		var count int64
		if err := rc.DB.Model(&models.Room{}).Where("name = ?", body.Name).Count(&count).Error; err != nil {
			utils.RespondError(c, http.StatusInternalServerError, err)
			return
		}
		if count > 0 {
			utils.RespondError(c, http.StatusConflict, errors.New("a room with this name already exists"))
			return
		}
	}

	room.Name = body.Name
	room.Description = body.Description
	if err := rc.DB.Save(&room).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Room updated", room)
}

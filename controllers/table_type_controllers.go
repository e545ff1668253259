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

type TableTypeController struct {
	DB *gorm.DB
}

func NewTableTypeController(db *gorm.DB) *TableTypeController {
	return &TableTypeController{DB: db}
}

type tableTypeRequest struct {
	Name             string  `json:"name" binding:"required"`
	DisplayName      string  `json:"display_name" binding:"required"`
	DefaultWidth     int     `json:"default_width" binding:"required"`
	DefaultHeight    int     `json:"default_height" binding:"required"`
	DefaultMaxGuests int     `json:"default_max_guests" binding:"required"`
	ColorCode        *string `json:"color_code"`
}

// GetAllTableTypes
func (tc *TableTypeController) GetAllTableTypes(c *gin.Context) {
	var types []models.TableType
	if err := tc.DB.Order("id").Find(&types).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "All table types", types)
}

// GetTableTypeByID
func (tc *TableTypeController) GetTableTypeByID(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("type_id"))

	var tableType models.TableType
	if err := tc.DB.First(&tableType, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("table type not found"))
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Table type detail", tableType)
}

// CreateTableType enforces the unique name.
func (tc *TableTypeController) CreateTableType(c *gin.Context) {
	var body tableTypeRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var count int64
	if err := tc.DB.Model(&models.TableType{}).Where("name = ?", body.Name).Count(&count).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	if count > 0 {
		utils.RespondError(c, http.StatusConflict, errors.New("a table type with this name already exists"))
		return
	}

	tableType := models.TableType{
		Name:             body.Name,
		DisplayName:      body.DisplayName,
		DefaultWidth:     body.DefaultWidth,
		DefaultHeight:    body.DefaultHeight,
		DefaultMaxGuests: body.DefaultMaxGuests,
		ColorCode:        body.ColorCode,
	}
	if err := tc.DB.Create(&tableType).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Table type created", tableType)
}

// UpdateTableType
func (tc *TableTypeController) UpdateTableType(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("type_id"))

	var body tableTypeRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var tableType models.TableType
	if err := tc.DB.First(&tableType, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("table type not found"))
		return
	}

	if body.Name != tableType.Name {
		var count int64
		if err := tc.DB.Model(&models.TableType{}).Where("name = ?", body.Name).Count(&count).Error; err != nil {
			utils.RespondError(c, http.StatusInternalServerError, err)
			return
		}
		if count > 0 {
			utils.RespondError(c, http.StatusConflict, errors.New("a table type with this name already exists"))
			return
		}
	}

	tableType.Name = body.Name
	tableType.DisplayName = body.DisplayName
	tableType.DefaultWidth = body.DefaultWidth
	tableType.DefaultHeight = body.DefaultHeight
	tableType.DefaultMaxGuests = body.DefaultMaxGuests
	tableType.ColorCode = body.ColorCode
	if err := tc.DB.Save(&tableType).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Table type updated", tableType)
}

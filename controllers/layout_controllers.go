package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yeremiapane/restaurant-reserve/services"
	"github.com/yeremiapane/restaurant-reserve/utils"
)

type LayoutController struct {
	Layouts *services.LayoutService
}

func NewLayoutController(layouts *services.LayoutService) *LayoutController {
	return &LayoutController{Layouts: layouts}
}

func roomIDParam(c *gin.Context) uint {
	id, _ := strconv.Atoi(c.Query("room_id"))
	if id < 0 {
		return 0
	}
	return uint(id)
}

// GetLayout
func (lc *LayoutController) GetLayout(c *gin.Context) {
	layout, err := lc.Layouts.Get(roomIDParam(c), false)
	if err != nil {
		utils.RespondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Layout", layout)
}

// GetEnhancedLayout embeds table type info on each table.
func (lc *LayoutController) GetEnhancedLayout(c *gin.Context) {
	layout, err := lc.Layouts.Get(roomIDParam(c), true)
	if err != nil {
		utils.RespondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Layout", layout)
}

// SaveLayout replaces the room's layout, reconciling reservations.
func (lc *LayoutController) SaveLayout(c *gin.Context) {
	var input services.LayoutInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	layout, err := lc.Layouts.Save(input, roomIDParam(c))
	if err != nil {
		utils.RespondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Layout saved", layout)
}

// ClearLayout
func (lc *LayoutController) ClearLayout(c *gin.Context) {
	layout, err := lc.Layouts.Clear(roomIDParam(c))
	if err != nil {
		utils.RespondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Layout cleared", layout)
}

// AddTable
func (lc *LayoutController) AddTable(c *gin.Context) {
	var input services.TableInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	table, err := lc.Layouts.AddTable(input, roomIDParam(c))
	if err != nil {
		utils.RespondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Table added", table)
}

// AddStaticItem
func (lc *LayoutController) AddStaticItem(c *gin.Context) {
	var input services.StaticItemInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	item, err := lc.Layouts.AddStaticItem(input, roomIDParam(c))
	if err != nil {
		utils.RespondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Static item added", item)
}

// AddWall
func (lc *LayoutController) AddWall(c *gin.Context) {
	var input services.WallInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	wall, err := lc.Layouts.AddWall(input, roomIDParam(c))
	if err != nil {
		utils.RespondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Wall added", wall)
}

package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yeremiapane/restaurant-reserve/config"
	"github.com/yeremiapane/restaurant-reserve/utils"
)

type UploadController struct {
	Cfg *config.Config
}

func NewUploadController(cfg *config.Config) *UploadController {
	return &UploadController{Cfg: cfg}
}

// UploadImage accepts one multipart image (field "file"), stores it
// under a generated name and returns the retrieval URL.
func (up *UploadController) UploadImage(c *gin.Context) {
	// 10MB cap
	c.Request.ParseMultipartForm(10 << 20)

	file, err := c.FormFile("file")
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("file is required"))
		return
	}

	contentType := file.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		utils.RespondError(c, http.StatusBadRequest, errors.New("only image files are allowed"))
		return
	}

	if err := os.MkdirAll(up.Cfg.UploadDir, 0755); err != nil {
		utils.RespondError(c, http.StatusInternalServerError, errors.New("error creating upload directory"))
		return
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	filename := uuid.NewString() + ext
	dest := filepath.Join(up.Cfg.UploadDir, filename)

	if err := c.SaveUploadedFile(file, dest); err != nil {
		utils.ErrorLogger.Printf("Failed to store upload %s: %v", filename, err)
		utils.RespondError(c, http.StatusInternalServerError, errors.New("error saving image"))
		return
	}

	utils.RespondJSON(c, http.StatusCreated, "Image uploaded", gin.H{
		"url":      fmt.Sprintf("%s/uploads/%s", up.Cfg.BaseURL, filename),
		"filename": filename,
	})
}

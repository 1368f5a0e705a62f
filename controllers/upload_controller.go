package controllers

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/fashionmart/storefront-api/utils"
	"github.com/gin-gonic/gin"
)

// GetUploadedImage handles GET /api/v1/uploads/:filename - serves product images
// stored by the local image backend
func GetUploadedImage(c *gin.Context) {
	filename := c.Param("filename")

	if filename == "" || strings.Contains(filename, "..") || strings.ContainsAny(filename, `/\`) {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_FILENAME",
				"message": "Invalid filename",
			},
		})
		return
	}

	contentType := utils.ImageContentType(filename)
	if contentType == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_FILE_TYPE",
				"message": "Only image files are served",
			},
		})
		return
	}

	filePath := filepath.Join(utils.UploadDir, filename)
	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "FILE_NOT_FOUND",
				"message": "Image not found",
			},
		})
		return
	}

	c.Header("Content-Type", contentType)
	c.Header("Cache-Control", "public, max-age=86400")
	c.File(filePath)
}

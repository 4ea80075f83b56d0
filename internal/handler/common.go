package handler

import (
	"net/http"

	apperrors "wedding-site-api/pkg/app_errors"

	"github.com/gin-gonic/gin"
)

const MsgInvalidRequest = "Invalid request format"

func BindJson(c *gin.Context, obj interface{}) error {
	if err := c.ShouldBindJSON(obj); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"message": MsgInvalidRequest,
		})
		return err
	}
	return nil
}

func BindQuery(c *gin.Context, obj interface{}) error {
	if err := c.ShouldBindQuery(obj); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"message": MsgInvalidRequest,
		})
		return err
	}
	return nil
}

// validationFailed 回傳 400 與所有欄位錯誤
func validationFailed(c *gin.Context, verr *apperrors.ValidationError) {
	c.JSON(http.StatusBadRequest, gin.H{
		"errors": verr.Errors,
	})
}

// RegisterSystemRoutes 健康檢查與未知路由
func RegisterSystemRoutes(r *gin.Engine) {
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})
	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"message": "Route not found"})
	})
}

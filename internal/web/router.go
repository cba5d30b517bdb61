package web

import (
	"time"

	"github.com/gin-gonic/gin"

	"artify-me/common"
)

// NewRouter 注册浏览器使用的 JSON API
func NewRouter(h *Handler) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger())

	r.GET("/healthz", h.Health)

	api := r.Group("/api")
	api.GET("/i18n/:key", h.Translate)
	api.GET("/guidelines", h.Guidelines)

	api.POST("/sessions", h.CreateSession)
	sessions := api.Group("/sessions/:id")
	{
		sessions.GET("", h.GetSession)
		sessions.DELETE("", h.DeleteSession)
		sessions.PUT("/mode", h.SetMode)
		sessions.POST("/guidelines", h.ShowGuidelines)
		sessions.POST("/guidelines/back", h.BackFromGuidelines)
		sessions.PUT("/language", h.SetLanguage)
		sessions.POST("/upload", h.Upload)
		sessions.DELETE("/upload", h.ClearUpload)
		sessions.POST("/submit", h.Submit)
		sessions.GET("/image", h.DownloadImage)
	}

	return r
}

// requestLogger 用 logrus 记录每个请求
func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		entry := common.WithFields(map[string]interface{}{
			"method":   c.Request.Method,
			"path":     c.FullPath(),
			"status":   c.Writer.Status(),
			"duration": time.Since(start).String(),
		})
		if c.Writer.Status() >= 500 {
			entry.Error("HTTP request failed")
			return
		}
		entry.Debug("HTTP request")
	}
}

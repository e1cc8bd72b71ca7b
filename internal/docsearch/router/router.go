// Package router provides docsearch service routing.
package router

import (
	"github.com/gin-gonic/gin"
	"github.com/kart-io/logger"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	// swagger docs registration
	_ "github.com/Shreeshail-sp/docsearch/internal/docsearch/docs"
	"github.com/Shreeshail-sp/docsearch/internal/docsearch/handler"
)

// Register registers the docsearch routes on the engine.
func Register(r *gin.Engine, h *handler.DocSearchHandler) {
	logger.Info("Registering docsearch routes...")

	r.GET("/", h.Index)

	// 文档
	r.POST("/upload", h.Upload)
	r.GET("/documents", h.Documents)
	r.GET("/documents/:filename", h.Document)

	// 检索与问答
	r.POST("/search", h.Search)
	r.POST("/answer", h.Answer)

	// 运维
	r.GET("/health", h.Health)
	r.GET("/stats", h.Stats)
	r.GET("/metrics", h.Metrics)

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	logger.Info("HTTP routes registered")
}

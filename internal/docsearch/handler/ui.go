package handler

import (
	"embed"
	"net/http"

	"github.com/gin-gonic/gin"
)

//go:embed web/index.html
var webFS embed.FS

// Index serves the single-page upload and search UI.
func (h *DocSearchHandler) Index(c *gin.Context) {
	page, err := webFS.ReadFile("web/index.html")
	if err != nil {
		c.String(http.StatusInternalServerError, err.Error())
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", page)
}

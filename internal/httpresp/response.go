package httpresp

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Every payload is wrapped under a single named key, e.g.
// {"appointment": {...}} or {"services": [...]}.

func OK(c *gin.Context, key string, data any) {
	c.JSON(http.StatusOK, gin.H{key: data})
}

func Created(c *gin.Context, key string, data any) {
	c.JSON(http.StatusCreated, gin.H{key: data})
}

// List never renders a nil slice as null.
func List[T any](c *gin.Context, key string, data []T) {
	if data == nil {
		data = []T{}
	}
	c.JSON(http.StatusOK, gin.H{key: data})
}

func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

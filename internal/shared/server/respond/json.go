package respond

import "github.com/gin-gonic/gin"

// JSON writes payload with the given status.
func JSON(c *gin.Context, status int, payload any) {
	c.JSON(status, payload)
}

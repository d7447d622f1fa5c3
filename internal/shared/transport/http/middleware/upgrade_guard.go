package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// UpgradeGuard 只放行 wsPath 上的 websocket 升级，其余路径的升级请求在传输层直接拒绝。
func UpgradeGuard(wsPath string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if websocket.IsWebSocketUpgrade(c.Request) && c.Request.URL.Path != wsPath {
			c.AbortWithStatus(http.StatusBadRequest)
			return
		}
		c.Next()
	}
}

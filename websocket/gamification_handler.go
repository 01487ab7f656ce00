package websocket

import (
	"log"
	"net/http"
	"strings"

	"lumi/utils"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// GamificationWebSocketHandler upgrades the connection and registers the
// client for gamification event broadcasts. The token comes from the
// Authorization header or the token query parameter.
func GamificationWebSocketHandler(c *gin.Context) {
	var tokenString string
	authz := c.GetHeader("Authorization")
	if authz != "" {
		tokenParts := strings.Split(authz, " ")
		if len(tokenParts) == 2 && tokenParts[0] == "Bearer" {
			tokenString = tokenParts[1]
		}
	}

	// Fall back to query parameter when the header is absent
	if tokenString == "" {
		tokenString = c.Query("token")
	}

	if tokenString == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization token required"})
		return
	}

	userID, err := utils.GetUserIDFromToken(tokenString)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("Failed to upgrade gamification websocket: %v", err)
		return
	}

	client := &GamificationClient{Conn: conn, UserID: userID}
	RegisterGamificationClient(client)

	// Drain the connection; it is broadcast-only
	go func() {
		defer UnregisterGamificationClient(client)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/civicresolve/backend/pkg/helpers"
	"github.com/civicresolve/backend/pkg/response"
)

// Auth validates the access-token cookie and, when Redis is configured,
// requires a live session whose sid matches the token's. It sets userID,
// userName and userType in the Gin context on success.
func Auth(rdb *redis.Client, jwt *helpers.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie("access_token")
		if err != nil || token == "" {
			response.Error[any](c, http.StatusUnauthorized, "missing access token", nil)
			c.Abort()
			return
		}
		claims, err := jwt.ParseAccessToken(token)
		if err != nil {
			response.Error[any](c, http.StatusUnauthorized, "invalid access token", err.Error())
			c.Abort()
			return
		}

		if rdb != nil {
			key := "user:session:" + claims.UserID
			data, err := rdb.HGetAll(c.Request.Context(), key).Result()
			if err != nil || len(data) == 0 {
				response.Error[any](c, http.StatusUnauthorized, "session not found", nil)
				c.Abort()
				return
			}
			// A refresh rotates the sid; tokens minted before it stop working.
			if sid := data["sid"]; sid != "" && sid != claims.SessionID {
				response.Error[any](c, http.StatusUnauthorized, "session superseded", nil)
				c.Abort()
				return
			}
			c.Set("userName", data["username"])
			c.Set("userType", data["user_type"])
		}

		c.Set("userID", claims.UserID)
		c.Next()
	}
}

package middlewares

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jahongirdev1/med333-sub000/models"
	"github.com/jahongirdev1/med333-sub000/utils"
)

// SessionMiddleware gates every authenticated route on the session clock.
// A valid request re-stamps the session (sliding expiration); an expired
// one is torn down and answered with 401 so the UI can redirect to the
// unauthenticated entry point.
func SessionMiddleware(store *models.SessionStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.Request.Header.Get("token")
		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			c.Abort()
			return
		}

		record, ok := store.Get(token)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			c.Abort()
			return
		}

		now := time.Now()
		if !record.IsValid(now) {
			_ = store.Delete(token)
			c.JSON(http.StatusUnauthorized, gin.H{"error": "session expired"})
			c.Abort()
			return
		}
		record, _ = store.Touch(token, now)

		ctx := utils.SetTokenInContext(c.Request.Context(), token)
		ctx = utils.SetLoginInContext(ctx, record.Login)
		ctx = utils.SetUserIdInContext(ctx, record.UserId)
		ctx = utils.SetUserNameInContext(ctx, record.Name)
		ctx = utils.SetRoleInContext(ctx, record.Role)
		ctx = utils.SetBranchIdInContext(ctx, record.BranchId)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

package middleware

import (
	"net/http"
	"strconv"
	"strings"

	"lagoon-hotel-backend/models"
	"lagoon-hotel-backend/services"
	"lagoon-hotel-backend/utils"

	"github.com/gin-gonic/gin"
)

// ActorContextKey is where the resolved actor is stored in the gin context.
const ActorContextKey = "actor"

// Actor resolves who is calling: staff via Bearer token, guests via the
// X-Client-ID header set by the public site after client creation. Absent
// both, the request proceeds as an anonymous guest; role-gated endpoints
// reject it downstream.
func Actor() gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := services.Actor{Role: models.RoleGuest}

		if authHeader := c.GetHeader("Authorization"); authHeader != "" {
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
				claims, err := utils.ValidateStaffToken(strings.TrimSpace(parts[1]))
				if err != nil {
					c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
						"error": gin.H{"code": "error.invalidToken", "message": "invalid or expired token"},
					})
					return
				}
				actor = services.Actor{Role: claims.Role, StaffID: claims.StaffID}
			}
		} else if idStr := c.GetHeader("X-Client-ID"); idStr != "" {
			if id, err := strconv.ParseUint(idStr, 10, 64); err == nil {
				actor = services.GuestActor(uint(id))
			}
		}

		c.Set(ActorContextKey, actor)
		c.Next()
	}
}

// RequireStaff aborts unless the resolved actor holds a staff role.
func RequireStaff() gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := ActorFrom(c)
		if !actor.IsStaff() {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error": gin.H{"code": "error.notPermitted", "message": "staff access required"},
			})
			return
		}
		c.Next()
	}
}

// ActorFrom returns the actor resolved by Actor(), or an anonymous guest.
func ActorFrom(c *gin.Context) services.Actor {
	if v, ok := c.Get(ActorContextKey); ok {
		if actor, ok2 := v.(services.Actor); ok2 {
			return actor
		}
	}
	return services.Actor{Role: models.RoleGuest}
}

package handlers

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/soa-tours/platform/internal/http/response"
)

// Health reports liveness plus a database ping when a handle is given.
func Health(serviceName string, db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		body := gin.H{"status": "ok", "service": serviceName}
		if db != nil {
			sqlDB, err := db.DB()
			if err == nil {
				err = sqlDB.PingContext(c.Request.Context())
			}
			if err != nil {
				body["status"] = "degraded"
				body["database"] = "unreachable"
				c.JSON(503, body)
				return
			}
			body["database"] = "ok"
		}
		response.RespondOK(c, body)
	}
}

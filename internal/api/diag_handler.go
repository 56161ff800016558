package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"corpsite/internal/database"
)

// DBTest 验证数据库连通性并列出当前可见的表。
func DBTest(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		tables, err := database.ListTables(db.WithContext(c.Request.Context()))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"ok": true, "tables": tables})
	}
}

package routes

import (
	"lumi/controllers"

	"github.com/gin-gonic/gin"
)

// SetupRecordsRoutes registers the personal-record endpoints
func SetupRecordsRoutes(rg *gin.RouterGroup, rc *controllers.RecordsController) {
	rg.POST("/records/check", rc.CheckRecord)
	rg.GET("/records", rc.ListRecords)
	rg.DELETE("/records/:id", rc.DeleteRecord)
}

package routes

import (
	"lumi/controllers"

	"github.com/gin-gonic/gin"
)

// SetupAccountabilityRoutes registers the accountability ledger endpoints
func SetupAccountabilityRoutes(rg *gin.RouterGroup, ac *controllers.AccountabilityController) {
	rg.GET("/accountability/summary", ac.GetSummary)
	rg.GET("/accountability/penalties", ac.ListPenalties)
	rg.POST("/accountability/penalties", ac.CreatePenalty)
	rg.PUT("/accountability/penalties/:id/resolve", ac.ResolvePenalty)
	rg.GET("/accountability/weekly-stats", ac.GetWeeklyStats)

	// Administrative/scheduled trigger
	rg.POST("/admin/detect-missed-workouts", ac.TriggerDetection)
}

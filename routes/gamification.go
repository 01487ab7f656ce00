package routes

import (
	"lumi/controllers"

	"github.com/gin-gonic/gin"
)

// SetupGamificationRoutes registers the gamification endpoints
func SetupGamificationRoutes(rg *gin.RouterGroup, gc *controllers.GamificationController) {
	rg.GET("/gamification/stats", gc.GetStats)
	rg.POST("/gamification/award-xp", gc.AwardXP)
	rg.GET("/gamification/achievements", gc.GetAchievements)
	rg.GET("/gamification/leaderboard", gc.GetLeaderboard)
	rg.GET("/gamification/shop", gc.GetShop)
	rg.POST("/gamification/shop/purchase", gc.PurchaseItem)
	rg.POST("/gamification/milestones/claim", gc.ClaimMilestones)
}

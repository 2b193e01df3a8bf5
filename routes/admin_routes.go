package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/synergyx/agency-api/controllers"
	"github.com/synergyx/agency-api/middleware"
)

// initAdminRoutes wires the back-office surface.
func initAdminRoutes(api *gin.RouterGroup) {
	admin := api.Group("/admin")
	admin.Use(middleware.AuthMiddleware(), middleware.AdminMiddleware())
	{
		admin.GET("/orders", controllers.AdminListOrders)
		admin.GET("/orders/:id", controllers.AdminGetOrder)
		admin.PATCH("/orders/:id/status", controllers.AdminUpdateOrderStatus)

		admin.GET("/projects", controllers.AdminListProjects)
		admin.PATCH("/projects/:id", controllers.AdminUpdateProject)
		admin.POST("/projects/:id/updates", controllers.AdminCreateProjectUpdate)

		admin.GET("/users", controllers.AdminListUsers)
		admin.POST("/users/:id/block", controllers.AdminBlockUser)
		admin.POST("/users/:id/unblock", controllers.AdminUnblockUser)

		admin.GET("/reports/revenue", controllers.DownloadRevenueReport)
	}
}

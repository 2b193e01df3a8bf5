package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/synergyx/agency-api/controllers"
	"github.com/synergyx/agency-api/middleware"
	"github.com/synergyx/agency-api/utils"
)

// initUserRoutes wires the public surface and the authenticated client area.
func initUserRoutes(api *gin.RouterGroup, authLimiter utils.RateLimiter) {
	// Public auth, rate limited per client IP
	auth := api.Group("")
	auth.Use(utils.RateLimitMiddleware(authLimiter))
	{
		auth.POST("/signup", controllers.Register)
		auth.POST("/signup/verify", controllers.VerifyOTP)
		auth.POST("/signup/resend-otp", controllers.ResendOTP)
		auth.POST("/login", controllers.Login)
		auth.POST("/forgot-password", controllers.ForgotPassword)
		auth.POST("/reset-password", controllers.ResetPassword)
	}

	// Public catalog and contact
	api.GET("/products", controllers.ListProducts)
	api.GET("/products/:slug", controllers.GetProduct)
	api.POST("/contact", controllers.SubmitContactForm)

	// Provider callbacks; authenticated by signature, not by token
	api.POST("/webhooks/paypal", controllers.PayPalWebhook)

	// Checkout allows guests carrying a valid email
	api.POST("/checkout/orders", middleware.OptionalAuthMiddleware(), controllers.CreateOrder)

	user := api.Group("/user")
	user.Use(middleware.AuthMiddleware())
	{
		user.POST("/logout", controllers.Logout)
		user.GET("/me", controllers.GetMe)
		user.PATCH("/me", controllers.UpdateMe)

		user.GET("/orders", controllers.ListOrders)
		user.GET("/orders/:id", controllers.GetOrderDetails)
		user.POST("/orders/:id/capture", controllers.CapturePayment)
		user.POST("/orders/:id/cancel", controllers.CancelOrder)
		user.GET("/orders/:id/receipt", controllers.DownloadReceipt)

		user.GET("/orders/:id/intake", controllers.GetIntakeForm)
		user.PATCH("/orders/:id/intake", controllers.UpdateIntakeForm)
		user.POST("/orders/:id/intake/complete", controllers.CompleteIntakeForm)

		user.GET("/projects", controllers.ListProjects)
		user.GET("/projects/:id", controllers.GetProject)
	}
}

package router

import "github.com/gin-gonic/gin"

func (r *Router) userRoutes(version *gin.RouterGroup) {
	users := version.Group("/users")
	{
		// Public routes
		users.POST("/register", r.authHandler.Register)
		users.POST("/login", r.authHandler.Login)
		users.POST("/refresh-token", r.authHandler.RefreshToken)

		// Protected routes (valid access token required)
		protected := users.Group("")
		protected.Use(r.sessionMw.RequireAuth())
		{
			protected.POST("/logout", r.authHandler.Logout)
			protected.POST("/change-password", r.userHandler.ChangePassword)
			protected.GET("/current-user", r.userHandler.CurrentUser)
			protected.PATCH("/update-account", r.userHandler.UpdateAccount)
			protected.PATCH("/update-avatar", r.userHandler.UpdateAvatar)
			protected.PATCH("/update-cover-image", r.userHandler.UpdateCoverImage)

			protected.GET("/channel/:username", r.channelHandler.GetChannelProfile)
			protected.POST("/channel/:username/subscribe", r.channelHandler.ToggleSubscription)
			protected.GET("/watch-history", r.channelHandler.GetWatchHistory)
		}
	}
}

func (r *Router) videoRoutes(version *gin.RouterGroup) {
	videos := version.Group("/videos")
	{
		videos.Use(r.sessionMw.RequireAuth())
		{
			videos.POST("", r.channelHandler.PublishVideo)
			// Fetching a video records it in the viewer's watch history
			videos.GET("/:id", r.channelHandler.WatchVideo)
		}
	}
}

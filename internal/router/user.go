package router

import "github.com/gin-gonic/gin"

func (r *Router) userRoutes(version *gin.RouterGroup) {
	users := version.Group("/users")
	{
		// Reads are open; statistics before the :id wildcard so the
		// literal segment wins
		users.GET("", r.userHandler.GetAll)
		users.GET("/statistics", r.userHandler.Statistics)
		users.GET("/email/:email", r.userHandler.GetByEmail)
		users.GET("/role/:roleId", r.userHandler.GetByRole)
		users.GET("/:id", r.userHandler.GetByID)

		// Mutations require a valid token
		protected := users.Group("")
		protected.Use(r.jwtMw.RequireAuth())
		{
			protected.POST("", r.userHandler.Create)
			protected.PUT("/:id", r.userHandler.Update)
			protected.DELETE("/:id", r.userHandler.Delete)
		}
	}
}

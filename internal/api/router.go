package api

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/spendwise/spendwise/internal/api/controller"
	"github.com/spendwise/spendwise/internal/api/middleware"

	_ "github.com/spendwise/spendwise/docs"
)

// Controllers bundles everything the router mounts.
type Controllers struct {
	Auth     *controller.AuthController
	Category *controller.CategoryController
	Expense  *controller.ExpenseController
	Query    *controller.QueryController
}

// RegisterRoutes wires the HTTP surface. Everything under /api/v1 except
// register, login and token refresh requires a valid access token.
func RegisterRoutes(r *gin.Engine, jwtSecret string, ctrls Controllers) {
	r.Use(middleware.Cors())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	public := r.Group("/api/v1/auth")
	{
		public.POST("/register", ctrls.Auth.Register)
		public.POST("/login", ctrls.Auth.Login)
		public.POST("/token/refresh", ctrls.Auth.Refresh)
	}

	protected := r.Group("/api/v1")
	protected.Use(middleware.JWTAuth(jwtSecret))
	{
		protected.POST("/auth/logout", ctrls.Auth.Logout)
		protected.GET("/auth/profile", ctrls.Auth.Profile)
		protected.PUT("/auth/profile", ctrls.Auth.UpdateProfile)
		protected.POST("/auth/change-password", ctrls.Auth.ChangePassword)

		protected.GET("/categories", ctrls.Category.List)
		protected.POST("/categories", ctrls.Category.Create)
		protected.GET("/categories/:id", ctrls.Category.Get)
		protected.PUT("/categories/:id", ctrls.Category.Update)
		protected.PATCH("/categories/:id", ctrls.Category.Update)
		protected.DELETE("/categories/:id", ctrls.Category.Delete)

		protected.GET("/expenses", ctrls.Expense.List)
		protected.POST("/expenses", ctrls.Expense.Create)
		protected.GET("/expenses/:id", ctrls.Expense.Get)
		protected.PUT("/expenses/:id", ctrls.Expense.Update)
		protected.PATCH("/expenses/:id", ctrls.Expense.Update)
		protected.DELETE("/expenses/:id", ctrls.Expense.Delete)

		protected.POST("/query", ctrls.Query.Query)
	}
}

package routes

import (
	"backend/controllers"
	"backend/middlewares"
	"backend/services"

	"github.com/gin-gonic/gin"
)

func SetupRouter() *gin.Engine {
	r := gin.Default()

	hub := services.NewRealtimeHub()
	services.InitEventDeps(hub)
	rt := controllers.NewRealtimeController(hub)

	// Public auth routes
	auth := r.Group("/auth")
	{
		auth.POST("/register", controllers.Register)
		auth.POST("/login", controllers.Login)
		auth.POST("/verify-mfa", controllers.VerifyMFA)
		auth.POST("/forgot-password", controllers.ForgotPassword)
		auth.POST("/reset-password", controllers.ResetPassword)
	}

	// Protected user routes
	user := r.Group("/user")
	user.Use(middlewares.AuthMiddleware())
	{
		user.GET("/profile", controllers.GetProfile)
		user.PUT("/profile", controllers.UpdateProfile)
	}

	dishes := r.Group("/dishes")
	dishes.Use(middlewares.AuthMiddleware())
	{
		dishes.GET("", controllers.ListDishes)
		dishes.GET("/suggested", controllers.SuggestedDishes)
		dishes.GET("/:id", controllers.GetDish)
		dishes.POST("/:id/rescale", controllers.RescaleDish)
	}

	mealplan := r.Group("/mealplan")
	mealplan.Use(middlewares.AuthMiddleware())
	{
		mealplan.GET("", controllers.GetMealPlan)
		mealplan.POST("/regenerate", controllers.RegenerateMealPlan)
	}

	meals := r.Group("/meals")
	meals.Use(middlewares.AuthMiddleware())
	{
		meals.POST("", controllers.LogMeal)
		meals.GET("", controllers.ListMeals)
		meals.DELETE("/:id", controllers.DeleteMeal)
	}

	analyze := r.Group("/analyze")
	analyze.Use(middlewares.AuthMiddleware())
	{
		analyze.POST("/dish", controllers.AnalyzeDish)
		analyze.POST("/backfill", controllers.BackfillEmbeddings)
	}

	ws := r.Group("/ws")
	ws.Use(middlewares.AuthMiddleware())
	{
		ws.GET("", rt.EventsWS)
	}

	return r
}

package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/MaxMischner/Quizly/controllers"
	"github.com/MaxMischner/Quizly/middleware"
)

func SetupRouter(r *gin.Engine, db *gorm.DB, quiz *controllers.QuizController) *gin.Engine {
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})
	r.GET("/health", controllers.HealthCheck)

	api := r.Group("/api")

	users := api.Group("/users")
	{
		users.POST("/register", controllers.Register)
		users.POST("/login", controllers.Login)
		users.POST("/logout", middleware.AuthMiddleware(), controllers.Logout)
		users.GET("/me", middleware.AuthMiddleware(), controllers.Me)
	}

	quizzes := api.Group("/quizzes")
	{
		quizzes.Use(middleware.AuthMiddleware(), middleware.DBMiddleware(db))

		// Quản lý quiz
		quizzes.POST("", quiz.CreateQuiz)
		quizzes.GET("", quiz.GetQuizzes)
		quizzes.GET("/today", quiz.GetQuizzesToday)
		quizzes.GET("/last_seven_days", quiz.GetQuizzesLastSevenDays)
		quizzes.GET("/:id", quiz.GetQuizDetail)
		quizzes.PATCH("/:id", quiz.UpdateQuiz)
		quizzes.DELETE("/:id", quiz.DeleteQuiz)

		// Chơi quiz
		quizzes.POST("/:id/start_quiz", quiz.StartQuiz)
		quizzes.POST("/:id/submit_answer", quiz.SubmitAnswer)
		quizzes.POST("/:id/complete_quiz", quiz.CompleteQuiz)
	}

	return r
}

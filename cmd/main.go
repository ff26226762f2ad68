package main

import (
	"log"
	"os"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/MaxMischner/Quizly/config"
	"github.com/MaxMischner/Quizly/controllers"
	"github.com/MaxMischner/Quizly/routes"
	"github.com/MaxMischner/Quizly/services"
	"github.com/MaxMischner/Quizly/utils"
)

func main() {
	// Load .env
	if err := godotenv.Load(); err != nil {
		log.Println("Không tìm thấy file .env")
	}

	config.InitDB()

	// Cấu hình model/service truyền qua constructor, không dùng biến toàn cục
	youtube := services.NewYouTubeService(os.Getenv("AUDIO_OUTPUT_DIR"))
	whisper := services.NewWhisperService(os.Getenv("WHISPER_API_URL"), os.Getenv("WHISPER_LANGUAGE"))
	gemini := services.NewGeminiService(os.Getenv("GEMINI_API_KEY"), os.Getenv("GEMINI_MODEL"))

	pipeline := services.NewPipelineService(youtube, whisper, gemini)
	sessions := services.NewSessionService(config.DB)
	quizController := controllers.NewQuizController(pipeline, sessions)

	r := gin.Default()

	//Bật CORS
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:5173"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	// Gọi SetupRouter để đăng ký route
	r = routes.SetupRouter(r, config.DB, quizController)

	// Route test server
	r.GET("/", func(c *gin.Context) {
		c.String(200, "Quizly server is running")
	})

	// Dọn token hết hạn và file audio bị bỏ lại
	utils.StartCleanupJob(youtube.OutputDir())

	// Lấy PORT từ env
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080" // mặc định nếu không có PORT
	}

	log.Println("Server running at Port:" + port)
	r.Run(":" + port)
}

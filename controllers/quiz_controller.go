package controllers

import (
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/MaxMischner/Quizly/models"
	"github.com/MaxMischner/Quizly/services"
)

type QuizController struct {
	Pipeline services.QuizPipeline
	Sessions *services.SessionService
}

func NewQuizController(pipeline services.QuizPipeline, sessions *services.SessionService) *QuizController {
	return &QuizController{
		Pipeline: pipeline,
		Sessions: sessions,
	}
}

type CreateQuizInput struct {
	URL string `json:"url" binding:"required,url"`
}

// CreateQuiz chạy pipeline từ URL YouTube và lưu quiz cho user hiện tại.
// POST /api/quizzes
func (qc *QuizController) CreateQuiz(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)
	userIDStr := c.GetString("user_id")

	userUUID, err := uuid.Parse(userIDStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user_id không hợp lệ"})
		return
	}

	var input CreateQuizInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	draft, err := qc.Pipeline.Run(c.Request.Context(), input.URL)
	if err != nil {
		// Giữ loại lỗi cho log, trả về thông báo chung cho client
		log.Printf("Pipeline lỗi cho %s: %v", input.URL, err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "Không thể tạo quiz từ video này"})
		return
	}

	if len(draft.Questions) == 0 {
		log.Printf("Pipeline trả về quiz rỗng cho %s", input.URL)
		c.JSON(http.StatusBadGateway, gin.H{"error": "Không thể tạo quiz từ video này"})
		return
	}

	// Lệch schema không chặn việc lưu, chỉ ghi log để theo dõi model
	if err := services.ValidateDraft(draft); err != nil {
		log.Printf("Quiz từ %s lệch schema: %v", input.URL, err)
	}

	quiz := models.Quiz{
		ID:          uuid.New(),
		UserID:      userUUID,
		Title:       draft.Title,
		Description: draft.Description,
		VideoURL:    input.URL,
		Transcript:  draft.Transcript,
		DurationSec: draft.DurationSec,
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&quiz).Error; err != nil {
			return err
		}
		for _, q := range draft.Questions {
			question := models.Question{
				ID:           uuid.New(),
				QuizID:       quiz.ID,
				QuestionText: q.Question,
				Order:        q.Order,
			}
			if err := tx.Create(&question).Error; err != nil {
				return err
			}
			for _, a := range q.Answers {
				answer := models.Answer{
					ID:         uuid.New(),
					QuestionID: question.ID,
					AnswerText: a.Text,
					IsCorrect:  a.IsCorrect,
					Order:      a.Order,
				}
				if err := tx.Create(&answer).Error; err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Không thể lưu quiz"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Tạo quiz thành công",
		"quiz": gin.H{
			"id":             quiz.ID,
			"title":          quiz.Title,
			"description":    quiz.Description,
			"video_url":      quiz.VideoURL,
			"duration_sec":   quiz.DurationSec,
			"question_count": len(draft.Questions),
			"created_at":     quiz.CreatedAt,
		},
	})
}

// GetQuizzes trả về danh sách quiz của user hiện tại, mới nhất trước.
// GET /api/quizzes
func (qc *QuizController) GetQuizzes(c *gin.Context) {
	qc.listQuizzes(c, nil)
}

// GetQuizzesToday lọc các quiz tạo trong ngày hôm nay.
// GET /api/quizzes/today
func (qc *QuizController) GetQuizzesToday(c *gin.Context) {
	now := time.Now()
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	qc.listQuizzes(c, func(db *gorm.DB) *gorm.DB {
		return db.Where("created_at >= ?", startOfDay)
	})
}

// GetQuizzesLastSevenDays lọc các quiz tạo trong 7 ngày gần nhất.
// GET /api/quizzes/last_seven_days
func (qc *QuizController) GetQuizzesLastSevenDays(c *gin.Context) {
	qc.listQuizzes(c, func(db *gorm.DB) *gorm.DB {
		return db.Where("created_at >= ?", time.Now().AddDate(0, 0, -7))
	})
}

func (qc *QuizController) listQuizzes(c *gin.Context, scope func(*gorm.DB) *gorm.DB) {
	db := c.MustGet("db").(*gorm.DB)
	userIDStr := c.GetString("user_id")

	userUUID, err := uuid.Parse(userIDStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user_id không hợp lệ"})
		return
	}

	query := db.Preload("Questions").
		Where("user_id = ?", userUUID).
		Order("created_at DESC")
	if scope != nil {
		query = scope(query)
	}

	var quizzes []models.Quiz
	if err := query.Find(&quizzes).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Không thể lấy danh sách quiz"})
		return
	}

	items := make([]gin.H, 0, len(quizzes))
	for _, quiz := range quizzes {
		items = append(items, gin.H{
			"id":             quiz.ID,
			"title":          quiz.Title,
			"description":    quiz.Description,
			"video_url":      quiz.VideoURL,
			"duration_sec":   quiz.DurationSec,
			"question_count": len(quiz.Questions),
			"created_at":     quiz.CreatedAt,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"quizzes": items,
		"total":   len(items),
	})
}

// GetQuizDetail trả về quiz kèm câu hỏi và đáp án theo thứ tự.
// GET /api/quizzes/:id
func (qc *QuizController) GetQuizDetail(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)
	userIDStr := c.GetString("user_id")

	userUUID, err := uuid.Parse(userIDStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user_id không hợp lệ"})
		return
	}

	quizUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "quiz_id không hợp lệ"})
		return
	}

	var quiz models.Quiz
	err = db.
		Preload("Questions", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("\"order\" ASC")
		}).
		Preload("Questions.Answers", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("\"order\" ASC")
		}).
		Where("id = ? AND user_id = ?", quizUUID, userUUID).
		First(&quiz).Error
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Không tìm thấy quiz"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"quiz": quiz})
}

type UpdateQuizInput struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
}

// UpdateQuiz sửa title/description của quiz. Các trường khác (video_url,
// transcript, câu hỏi) là read-only, gửi lên cũng bị bỏ qua.
// PATCH /api/quizzes/:id
func (qc *QuizController) UpdateQuiz(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)
	userIDStr := c.GetString("user_id")

	userUUID, err := uuid.Parse(userIDStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user_id không hợp lệ"})
		return
	}

	quizUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "quiz_id không hợp lệ"})
		return
	}

	var input UpdateQuizInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Dữ liệu gửi lên không hợp lệ"})
		return
	}

	// Title gửi lên thì không được rỗng; không gửi thì giữ nguyên
	if input.Title != nil && strings.TrimSpace(*input.Title) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Tiêu đề không được để trống"})
		return
	}

	var quiz models.Quiz
	err = db.
		Preload("Questions", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("\"order\" ASC")
		}).
		Preload("Questions.Answers", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("\"order\" ASC")
		}).
		Where("id = ? AND user_id = ?", quizUUID, userUUID).
		First(&quiz).Error
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Không tìm thấy quiz"})
		return
	}

	updates := map[string]interface{}{}
	if input.Title != nil {
		updates["title"] = *input.Title
	}
	if input.Description != nil {
		updates["description"] = *input.Description
	}

	if len(updates) > 0 {
		if err := db.Model(&quiz).Updates(updates).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Không thể cập nhật quiz"})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"quiz": quiz})
}

// DeleteQuiz xoá quiz của chính user; câu hỏi, đáp án và phiên chơi xoá theo cascade.
// DELETE /api/quizzes/:id
func (qc *QuizController) DeleteQuiz(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)
	userIDStr := c.GetString("user_id")

	userUUID, err := uuid.Parse(userIDStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user_id không hợp lệ"})
		return
	}

	quizUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "quiz_id không hợp lệ"})
		return
	}

	var quiz models.Quiz
	if err := db.Where("id = ? AND user_id = ?", quizUUID, userUUID).First(&quiz).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Không tìm thấy quiz"})
		return
	}

	if err := db.Delete(&quiz).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Không thể xoá quiz"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Đã xoá quiz"})
}

// StartQuiz tạo một phiên chơi mới cho quiz của user hiện tại.
// POST /api/quizzes/:id/start_quiz
func (qc *QuizController) StartQuiz(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)
	userIDStr := c.GetString("user_id")

	userUUID, err := uuid.Parse(userIDStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user_id không hợp lệ"})
		return
	}

	quizUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "quiz_id không hợp lệ"})
		return
	}

	// Chỉ chủ quiz được chơi
	var quiz models.Quiz
	if err := db.First(&quiz, "id = ?", quizUUID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Không tìm thấy quiz"})
		return
	}
	if quiz.UserID != userUUID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Bạn không có quyền chơi quiz này"})
		return
	}

	response, err := qc.Sessions.Start(userUUID, quizUUID)
	if err != nil {
		status, msg := sessionErrorStatus(err)
		c.JSON(status, gin.H{"error": msg})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"response": response})
}

type SubmitAnswerInput struct {
	ResponseID string `json:"response_id"`
	QuestionID string `json:"question_id"`
	AnswerID   string `json:"answer_id"`
}

// SubmitAnswer ghi lại đáp án người chơi chọn.
// POST /api/quizzes/:id/submit_answer
func (qc *QuizController) SubmitAnswer(c *gin.Context) {
	var input SubmitAnswerInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Dữ liệu gửi lên không hợp lệ"})
		return
	}

	responseID, err := parseOptionalUUID(input.ResponseID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "response_id không hợp lệ"})
		return
	}
	questionID, err := parseOptionalUUID(input.QuestionID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "question_id không hợp lệ"})
		return
	}
	answerID, err := parseOptionalUUID(input.AnswerID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "answer_id không hợp lệ"})
		return
	}

	userAnswer, err := qc.Sessions.SubmitAnswer(responseID, questionID, answerID)
	if err != nil {
		status, msg := sessionErrorStatus(err)
		c.JSON(status, gin.H{"error": msg})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"answer": userAnswer})
}

type CompleteQuizInput struct {
	ResponseID string `json:"response_id"`
}

// CompleteQuiz chốt phiên chơi và trả về điểm.
// POST /api/quizzes/:id/complete_quiz
func (qc *QuizController) CompleteQuiz(c *gin.Context) {
	var input CompleteQuizInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Dữ liệu gửi lên không hợp lệ"})
		return
	}

	responseID, err := parseOptionalUUID(input.ResponseID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "response_id không hợp lệ"})
		return
	}

	response, err := qc.Sessions.Complete(responseID)
	if err != nil {
		status, msg := sessionErrorStatus(err)
		c.JSON(status, gin.H{"error": msg})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"response_id":  response.ID,
		"score":        response.Score,
		"completed_at": response.CompletedAt,
	})
}

// parseOptionalUUID: chuỗi rỗng thành uuid.Nil để service báo ValidationError,
// chuỗi khác rỗng phải là UUID hợp lệ.
func parseOptionalUUID(s string) (uuid.UUID, error) {
	if s == "" {
		return uuid.Nil, nil
	}
	return uuid.Parse(s)
}

func sessionErrorStatus(err error) (int, string) {
	var validationErr *services.ValidationError
	if errors.As(err, &validationErr) {
		return http.StatusBadRequest, validationErr.Error()
	}

	var notFoundErr *services.NotFoundError
	if errors.As(err, &notFoundErr) {
		return http.StatusNotFound, notFoundErr.Error()
	}

	if errors.Is(err, services.ErrQuizWithoutQuestions) {
		log.Printf("Complete được gọi trên quiz không có câu hỏi: %v", err)
		return http.StatusInternalServerError, "Quiz không hợp lệ"
	}

	log.Printf("Lỗi phiên chơi: %v", err)
	return http.StatusInternalServerError, "Đã xảy ra lỗi, vui lòng thử lại"
}

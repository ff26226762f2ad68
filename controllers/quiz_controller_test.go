package controllers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/MaxMischner/Quizly/models"
)

func newControllerDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("không mở được sqlite in-memory: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("không lấy được sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	err = db.AutoMigrate(
		&models.User{},
		&models.Quiz{},
		&models.Question{},
		&models.Answer{},
		&models.QuizResponse{},
		&models.UserAnswer{},
	)
	if err != nil {
		t.Fatalf("autoMigrate lỗi: %v", err)
	}

	return db
}

func createQuizOwner(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	user := models.User{
		ID:       uuid.New(),
		Username: "owner-" + uuid.NewString()[:8],
		Email:    uuid.NewString()[:8] + "@example.com",
		Password: "hashed",
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("không tạo được user: %v", err)
	}
	return &user
}

func createOwnedQuiz(t *testing.T, db *gorm.DB, user *models.User) *models.Quiz {
	t.Helper()
	quiz := models.Quiz{
		ID:          uuid.New(),
		UserID:      user.ID,
		Title:       "Original Title",
		Description: "Original Description",
		VideoURL:    "https://www.youtube.com/watch?v=example",
	}
	if err := db.Create(&quiz).Error; err != nil {
		t.Fatalf("không tạo được quiz: %v", err)
	}
	return &quiz
}

func patchQuiz(t *testing.T, db *gorm.DB, userID uuid.UUID, quizID string, body string) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Set("db", db)
	c.Set("user_id", userID.String())
	c.Params = gin.Params{{Key: "id", Value: quizID}}

	req := httptest.NewRequest(http.MethodPatch, "/api/quizzes/"+quizID, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	qc := NewQuizController(nil, nil)
	qc.UpdateQuiz(c)
	return w
}

func TestUpdateQuiz(t *testing.T) {
	db := newControllerDB(t)
	user := createQuizOwner(t, db)
	quiz := createOwnedQuiz(t, db, user)

	w := patchQuiz(t, db, user.ID, quiz.ID.String(),
		`{"title": "Updated Title", "description": "Updated Description"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, muốn 200: %s", w.Code, w.Body.String())
	}

	var payload struct {
		Quiz models.Quiz `json:"quiz"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &payload); err != nil {
		t.Fatalf("response không phải JSON: %v", err)
	}
	if payload.Quiz.Title != "Updated Title" {
		t.Errorf("title trong response = %q", payload.Quiz.Title)
	}

	var stored models.Quiz
	if err := db.First(&stored, "id = ?", quiz.ID).Error; err != nil {
		t.Fatalf("không đọc lại được quiz: %v", err)
	}
	if stored.Title != "Updated Title" || stored.Description != "Updated Description" {
		t.Errorf("DB lưu title=%q description=%q", stored.Title, stored.Description)
	}
}

func TestUpdateQuizPartial(t *testing.T) {
	db := newControllerDB(t)
	user := createQuizOwner(t, db)
	quiz := createOwnedQuiz(t, db, user)

	// Chỉ gửi description, title phải giữ nguyên
	w := patchQuiz(t, db, user.ID, quiz.ID.String(), `{"description": "Only Description"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, muốn 200", w.Code)
	}

	var stored models.Quiz
	if err := db.First(&stored, "id = ?", quiz.ID).Error; err != nil {
		t.Fatalf("không đọc lại được quiz: %v", err)
	}
	if stored.Title != "Original Title" {
		t.Errorf("title = %q, phải giữ nguyên", stored.Title)
	}
	if stored.Description != "Only Description" {
		t.Errorf("description = %q", stored.Description)
	}
}

func TestUpdateQuizEmptyTitleRejected(t *testing.T) {
	db := newControllerDB(t)
	user := createQuizOwner(t, db)
	quiz := createOwnedQuiz(t, db, user)

	w := patchQuiz(t, db, user.ID, quiz.ID.String(), `{"title": ""}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, muốn 400", w.Code)
	}

	var stored models.Quiz
	if err := db.First(&stored, "id = ?", quiz.ID).Error; err != nil {
		t.Fatalf("không đọc lại được quiz: %v", err)
	}
	if stored.Title != "Original Title" {
		t.Errorf("title = %q, không được thay đổi", stored.Title)
	}
}

func TestUpdateQuizIgnoresReadOnlyFields(t *testing.T) {
	db := newControllerDB(t)
	user := createQuizOwner(t, db)
	quiz := createOwnedQuiz(t, db, user)

	w := patchQuiz(t, db, user.ID, quiz.ID.String(),
		`{"title": "New Title", "video_url": "https://evil.example.com", "user_id": "`+uuid.NewString()+`"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, muốn 200", w.Code)
	}

	var stored models.Quiz
	if err := db.First(&stored, "id = ?", quiz.ID).Error; err != nil {
		t.Fatalf("không đọc lại được quiz: %v", err)
	}
	if stored.VideoURL != "https://www.youtube.com/watch?v=example" {
		t.Errorf("video_url = %q, phải là read-only", stored.VideoURL)
	}
	if stored.UserID != user.ID {
		t.Errorf("user_id bị thay đổi thành %s", stored.UserID)
	}
}

func TestUpdateQuizOfOtherUserNotFound(t *testing.T) {
	db := newControllerDB(t)
	owner := createQuizOwner(t, db)
	intruder := createQuizOwner(t, db)
	quiz := createOwnedQuiz(t, db, owner)

	w := patchQuiz(t, db, intruder.ID, quiz.ID.String(), `{"title": "Hijacked"}`)
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, muốn 404", w.Code)
	}

	var stored models.Quiz
	if err := db.First(&stored, "id = ?", quiz.ID).Error; err != nil {
		t.Fatalf("không đọc lại được quiz: %v", err)
	}
	if stored.Title != "Original Title" {
		t.Errorf("title = %q, không được thay đổi", stored.Title)
	}
}

func TestUpdateQuizMissingQuiz(t *testing.T) {
	db := newControllerDB(t)
	user := createQuizOwner(t, db)

	w := patchQuiz(t, db, user.ID, uuid.NewString(), `{"title": "New Title"}`)
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, muốn 404", w.Code)
	}

	w = patchQuiz(t, db, user.ID, "không-phải-uuid", `{"title": "New Title"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, muốn 400", w.Code)
	}
}

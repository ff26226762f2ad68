package services

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/MaxMischner/Quizly/models"
)

// SessionService quản lý vòng đời một phiên chơi quiz:
// Start → SubmitAnswer (lặp lại được) → Complete (tính điểm).
type SessionService struct {
	db *gorm.DB
}

func NewSessionService(db *gorm.DB) *SessionService {
	return &SessionService{db: db}
}

// Start tạo phiên chơi mới cho quiz. Mỗi lần gọi là một phiên độc lập,
// chơi lại được mô hình hoá bằng phiên mới chứ không reset phiên cũ.
func (s *SessionService) Start(userID uuid.UUID, quizID uuid.UUID) (*models.QuizResponse, error) {
	if quizID == uuid.Nil {
		return nil, &ValidationError{Field: "quiz_id"}
	}
	if userID == uuid.Nil {
		return nil, &ValidationError{Field: "user_id"}
	}

	var quiz models.Quiz
	if err := s.db.First(&quiz, "id = ?", quizID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Entity: "quiz"}
		}
		return nil, err
	}

	response := models.QuizResponse{
		ID:     uuid.New(),
		UserID: userID,
		QuizID: quizID,
	}
	if err := s.db.Create(&response).Error; err != nil {
		return nil, err
	}

	return &response, nil
}

// SubmitAnswer ghi lại một lần chọn đáp án. Câu hỏi phải thuộc quiz của phiên,
// đáp án phải thuộc câu hỏi. Nộp lại cùng câu hỏi sẽ thêm bản ghi mới
// (không ghi đè); nộp sau khi Complete vẫn được phép.
func (s *SessionService) SubmitAnswer(responseID, questionID, answerID uuid.UUID) (*models.UserAnswer, error) {
	if responseID == uuid.Nil {
		return nil, &ValidationError{Field: "response_id"}
	}
	if questionID == uuid.Nil {
		return nil, &ValidationError{Field: "question_id"}
	}
	if answerID == uuid.Nil {
		return nil, &ValidationError{Field: "answer_id"}
	}

	var response models.QuizResponse
	if err := s.db.First(&response, "id = ?", responseID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Entity: "phiên chơi"}
		}
		return nil, err
	}

	var question models.Question
	if err := s.db.First(&question, "id = ? AND quiz_id = ?", questionID, response.QuizID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Entity: "câu hỏi"}
		}
		return nil, err
	}

	var answer models.Answer
	if err := s.db.First(&answer, "id = ? AND question_id = ?", answerID, questionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Entity: "đáp án"}
		}
		return nil, err
	}

	userAnswer := models.UserAnswer{
		ID:               uuid.New(),
		QuizResponseID:   response.ID,
		QuestionID:       question.ID,
		SelectedAnswerID: &answer.ID,
	}
	if err := s.db.Create(&userAnswer).Error; err != nil {
		return nil, err
	}

	return &userAnswer, nil
}

// Complete chốt phiên và tính điểm: số câu trả lời đúng chia tổng số câu hỏi
// của quiz (câu chưa trả lời vẫn tính vào mẫu số), nhân 100, cắt phần thập phân.
// Gọi lại trên phiên đã hoàn tất sẽ tính lại từ các đáp án hiện có và ghi đè.
func (s *SessionService) Complete(responseID uuid.UUID) (*models.QuizResponse, error) {
	if responseID == uuid.Nil {
		return nil, &ValidationError{Field: "response_id"}
	}

	var response models.QuizResponse
	if err := s.db.First(&response, "id = ?", responseID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Entity: "phiên chơi"}
		}
		return nil, err
	}

	var totalQuestions int64
	if err := s.db.Model(&models.Question{}).
		Where("quiz_id = ?", response.QuizID).
		Count(&totalQuestions).Error; err != nil {
		return nil, err
	}
	if totalQuestions == 0 {
		return nil, ErrQuizWithoutQuestions
	}

	// Đếm theo câu hỏi (distinct) để bản ghi trùng không đẩy điểm vượt 100
	var correctCount int64
	if err := s.db.Model(&models.UserAnswer{}).
		Joins("JOIN answers ON answers.id = user_answers.selected_answer_id").
		Where("user_answers.quiz_response_id = ? AND answers.is_correct = ?", responseID, true).
		Distinct("user_answers.question_id").
		Count(&correctCount).Error; err != nil {
		return nil, err
	}

	score := ComputeScore(int(correctCount), int(totalQuestions))
	now := time.Now()

	if err := s.db.Model(&response).Updates(map[string]interface{}{
		"score":        score,
		"completed_at": now,
	}).Error; err != nil {
		return nil, err
	}

	response.Score = &score
	response.CompletedAt = &now
	return &response, nil
}

// ComputeScore = floor(correct / total * 100), cắt về 0.
// Ví dụ 1/3 đúng → 33.
func ComputeScore(correctCount, totalQuestions int) int {
	if totalQuestions <= 0 {
		return 0
	}
	return correctCount * 100 / totalQuestions
}

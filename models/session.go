package models

import (
	"time"

	"github.com/google/uuid"
)

// QuizResponse là một phiên chơi quiz của người dùng.
// Mỗi lần start tạo một phiên mới, độc lập với các phiên trước.
type QuizResponse struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID uuid.UUID `gorm:"type:uuid;not null" json:"user_id"`
	User   User      `gorm:"constraint:OnDelete:CASCADE;" json:"-"`
	QuizID uuid.UUID `gorm:"type:uuid;not null" json:"quiz_id"`
	Quiz   Quiz      `gorm:"constraint:OnDelete:CASCADE;" json:"-"`

	StartedAt   time.Time  `gorm:"autoCreateTime" json:"started_at"`
	CompletedAt *time.Time `json:"completed_at"`
	Score       *int       `json:"score"`

	Answers []UserAnswer `gorm:"foreignKey:QuizResponseID" json:"answers,omitempty"`
}

// UserAnswer ghi lại một lần chọn đáp án trong phiên chơi.
// Không có ràng buộc duy nhất theo (phiên, câu hỏi): nộp lại sẽ thêm bản ghi mới.
type UserAnswer struct {
	ID             uuid.UUID    `gorm:"type:uuid;primaryKey" json:"id"`
	QuizResponseID uuid.UUID    `gorm:"type:uuid;not null" json:"quiz_response_id"`
	QuizResponse   QuizResponse `gorm:"constraint:OnDelete:CASCADE;" json:"-"`
	QuestionID     uuid.UUID    `gorm:"type:uuid;not null" json:"question_id"`
	Question       Question     `gorm:"constraint:OnDelete:CASCADE;" json:"-"`

	SelectedAnswerID *uuid.UUID `gorm:"type:uuid" json:"selected_answer_id"`
	SelectedAnswer   *Answer    `gorm:"foreignKey:SelectedAnswerID;constraint:OnDelete:SET NULL;" json:"selected_answer,omitempty"`

	AnsweredAt time.Time `gorm:"autoCreateTime" json:"answered_at"`
}

package models

import (
	"time"

	"github.com/google/uuid"
)

type Quiz struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID uuid.UUID `gorm:"type:uuid;not null" json:"user_id"`
	User   User      `gorm:"constraint:OnDelete:CASCADE;" json:"-"`

	Title       string `gorm:"size:255;not null" json:"title"`
	Description string `gorm:"type:text" json:"description"`
	VideoURL    string `gorm:"type:text;not null" json:"video_url"`
	Transcript  string `gorm:"type:text" json:"transcript,omitempty"`
	DurationSec int    `json:"duration_sec"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	Questions []Question `gorm:"foreignKey:QuizID" json:"questions,omitempty"`
}

type Question struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	QuizID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_question_quiz_order" json:"quiz_id"`
	Quiz   Quiz      `gorm:"constraint:OnDelete:CASCADE;" json:"-"`

	QuestionText string    `gorm:"type:text;not null" json:"question_text"`
	Order        int       `gorm:"not null;uniqueIndex:idx_question_quiz_order" json:"order"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`

	Answers []Answer `gorm:"foreignKey:QuestionID" json:"answers,omitempty"`
}

type Answer struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	QuestionID uuid.UUID `gorm:"type:uuid;not null" json:"question_id"`
	Question   Question  `gorm:"constraint:OnDelete:CASCADE;" json:"-"`

	AnswerText string `gorm:"size:255;not null" json:"answer_text"`
	IsCorrect  bool   `gorm:"default:false" json:"is_correct"`
	Order      int    `gorm:"not null" json:"order"`
}

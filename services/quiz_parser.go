package services

import (
	"encoding/json"
	"fmt"
	"strings"
)

// QuizDraft là quiz đã chuẩn hoá trong bộ nhớ, trước khi lưu DB.
type QuizDraft struct {
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Questions   []QuestionDraft `json:"questions"`
	Transcript  string          `json:"transcript"`
	DurationSec int             `json:"duration_sec"`
}

type QuestionDraft struct {
	Order    int           `json:"order"`
	Question string        `json:"question"`
	Answers  []AnswerDraft `json:"answers"`
}

type AnswerDraft struct {
	Text      string `json:"text"`
	IsCorrect bool   `json:"is_correct"`
	Order     int    `json:"order"`
}

// Schema thô mà Gemini được yêu cầu trả về.
// Dùng con trỏ để phân biệt "thiếu key" với "chuỗi rỗng".
type rawQuiz struct {
	Title       *string       `json:"title"`
	Description *string       `json:"description"`
	Questions   []rawQuestion `json:"questions"`
}

type rawQuestion struct {
	QuestionTitle   *string  `json:"question_title"`
	QuestionOptions []string `json:"question_options"`
	Answer          string   `json:"answer"`
}

// ParseQuizResponse chuẩn hoá text thô của model thành QuizDraft.
// Chịu được rào markdown và chữ thừa quanh JSON; parse là bước khoan dung,
// không bác bỏ câu hỏi lệch hợp đồng (xem ValidateDraft).
func ParseQuizResponse(rawText string) (*QuizDraft, error) {
	cleaned := strings.TrimSpace(rawText)

	// Bỏ rào ```json / ``` nếu model vẫn bọc vào
	if strings.HasPrefix(cleaned, "```json") {
		cleaned = cleaned[len("```json"):]
	} else if strings.HasPrefix(cleaned, "```") {
		cleaned = cleaned[len("```"):]
	}
	if strings.HasSuffix(cleaned, "```") {
		cleaned = cleaned[:len(cleaned)-len("```")]
	}
	cleaned = strings.TrimSpace(cleaned)

	// Cắt từ { đầu tiên đến } cuối cùng, bỏ chữ thừa hai đầu
	start := strings.Index(cleaned, "{")
	end := strings.LastIndex(cleaned, "}")
	if start == -1 || end == -1 || end < start {
		return nil, &MalformedQuizError{Reason: "không tìm thấy JSON trong phản hồi"}
	}

	var raw rawQuiz
	if err := json.Unmarshal([]byte(cleaned[start:end+1]), &raw); err != nil {
		return nil, &MalformedQuizError{Reason: "JSON parse lỗi", Err: err}
	}

	draft := &QuizDraft{
		Title:       "Quiz Title",
		Description: "Quiz Description",
		Questions:   []QuestionDraft{},
	}
	if raw.Title != nil {
		draft.Title = *raw.Title
	}
	if raw.Description != nil {
		draft.Description = *raw.Description
	}

	// Order gán theo vị trí trong mảng, không tin giá trị từ input
	for idx, q := range raw.Questions {
		question := QuestionDraft{
			Order:   idx + 1,
			Answers: []AnswerDraft{},
		}
		if q.QuestionTitle != nil {
			question.Question = *q.QuestionTitle
		}

		for optIdx, opt := range q.QuestionOptions {
			question.Answers = append(question.Answers, AnswerDraft{
				Text:      opt,
				IsCorrect: opt == q.Answer,
				Order:     optIdx + 1,
			})
		}

		draft.Questions = append(draft.Questions, question)
	}

	return draft, nil
}

// ValidateDraft là cổng kiểm tra nghiêm tách riêng khỏi bước parse:
// báo mọi câu lệch hợp đồng (khác 4 lựa chọn, khác đúng 1 đáp án đúng)
// qua SchemaViolationError, không sửa draft.
func ValidateDraft(draft *QuizDraft) error {
	var violations []string

	for _, q := range draft.Questions {
		if len(q.Answers) != 4 {
			violations = append(violations,
				fmt.Sprintf("câu %d có %d lựa chọn thay vì 4", q.Order, len(q.Answers)))
		}

		correct := 0
		for _, a := range q.Answers {
			if a.IsCorrect {
				correct++
			}
		}
		if correct != 1 {
			violations = append(violations,
				fmt.Sprintf("câu %d có %d đáp án đúng thay vì 1", q.Order, correct))
		}
	}

	if len(violations) > 0 {
		return &SchemaViolationError{Violations: violations}
	}
	return nil
}

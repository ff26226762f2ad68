package services

import (
	"errors"
	"fmt"
	"strings"
)

// ErrQuizWithoutQuestions: quiz đã lưu luôn phải có ít nhất 1 câu hỏi,
// gọi Complete trên quiz rỗng là lỗi lập trình chứ không phải lỗi nghiệp vụ.
var ErrQuizWithoutQuestions = errors.New("quiz không có câu hỏi nào")

// AcquisitionError: tải audio từ video thất bại (mạng, video bị chặn, định dạng).
type AcquisitionError struct {
	URL string
	Err error
}

func (e *AcquisitionError) Error() string {
	return fmt.Sprintf("không thể tải audio từ %s: %v", e.URL, e.Err)
}

func (e *AcquisitionError) Unwrap() error { return e.Err }

// TranscriptionError: chuyển audio thành văn bản thất bại.
type TranscriptionError struct {
	Path string
	Err  error
}

func (e *TranscriptionError) Error() string {
	return fmt.Sprintf("không thể phiên âm %s: %v", e.Path, e.Err)
}

func (e *TranscriptionError) Unwrap() error { return e.Err }

// GenerationError: gọi model sinh nội dung thất bại (quota, mạng, timeout).
type GenerationError struct {
	Err error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("model sinh quiz thất bại: %v", e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }

// MalformedQuizError: không khôi phục được JSON quiz từ phản hồi của model.
type MalformedQuizError struct {
	Reason string
	Err    error
}

func (e *MalformedQuizError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("phản hồi quiz không hợp lệ: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("phản hồi quiz không hợp lệ: %s", e.Reason)
}

func (e *MalformedQuizError) Unwrap() error { return e.Err }

// SchemaViolationError: draft parse được nhưng lệch hợp đồng
// (khác 4 lựa chọn, khác đúng 1 đáp án đúng). Parser không tự sửa.
type SchemaViolationError struct {
	Violations []string
}

func (e *SchemaViolationError) Error() string {
	return "quiz lệch schema: " + strings.Join(e.Violations, "; ")
}

// ValidationError: request thiếu trường bắt buộc.
type ValidationError struct {
	Field string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("thiếu trường bắt buộc: %s", e.Field)
}

// NotFoundError: entity được tham chiếu không tồn tại.
type NotFoundError struct {
	Entity string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("không tìm thấy %s", e.Entity)
}

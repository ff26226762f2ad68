package services

import (
	"context"
	"fmt"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// GeminiService sinh nội dung quiz từ transcript bằng Gemini.
// API key và tên model được truyền qua constructor để test thay được fake.
type GeminiService struct {
	apiKey string
	model  string
}

func NewGeminiService(apiKey string, model string) *GeminiService {
	if model == "" {
		model = "gemini-2.0-flash"
	}
	return &GeminiService{apiKey: apiKey, model: model}
}

// Generate gọi Gemini với prompt cố định và trả về text thô,
// không kiểm tra nội dung trả về (việc đó thuộc về parser).
func (s *GeminiService) Generate(ctx context.Context, transcript string) (string, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(s.apiKey))
	if err != nil {
		return "", &GenerationError{Err: fmt.Errorf("không thể tạo Gemini client: %v", err)}
	}
	defer client.Close()

	model := client.GenerativeModel(s.model)
	resp, err := model.GenerateContent(ctx, genai.Text(buildQuizPrompt(transcript)))
	if err != nil {
		return "", &GenerationError{Err: err}
	}
	return extractText(resp)
}

// extractText lấy text từ candidate đầu tiên. Candidate bị safety filter chặn
// có Content nil nên phải kiểm tra trước khi đọc Parts.
func extractText(resp *genai.GenerateContentResponse) (string, error) {
	if len(resp.Candidates) == 0 ||
		resp.Candidates[0].Content == nil ||
		len(resp.Candidates[0].Content.Parts) == 0 {
		return "", &GenerationError{Err: fmt.Errorf("gemini không trả kết quả hợp lệ")}
	}
	return fmt.Sprintf("%v", resp.Candidates[0].Content.Parts[0]), nil
}

// buildQuizPrompt nhúng nguyên văn transcript vào hợp đồng JSON cố định.
func buildQuizPrompt(transcript string) string {
	return fmt.Sprintf(`Based on the following transcript, generate a quiz in valid JSON format.

The quiz must follow this exact structure:

{
  "title": "Create a concise quiz title based on the topic of the transcript.",
  "description": "Summarize the transcript in no more than 150 characters. Do not include any quiz questions or answers.",
  "questions": [
    {
      "question_title": "The question goes here.",
      "question_options": ["Option A", "Option B", "Option C", "Option D"],
      "answer": "The correct answer from the above options"
    }
  ]
}

Requirements:
- Generate exactly 10 questions.
- Each question must have exactly 4 distinct answer options.
- Only one correct answer is allowed per question, and it must be present in 'question_options'.
- The output must be valid JSON and parsable as-is.
- Do not include explanations, comments, or any text outside the JSON.
- Do not wrap the JSON in markdown code blocks (no `+"```json or ```"+`).

Transcript:
%s
`, transcript)
}

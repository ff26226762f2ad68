package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"time"
)

// WhisperService gọi Whisper server nội bộ để chuyển audio thành văn bản.
type WhisperService struct {
	baseURL  string
	language string
	client   *http.Client
}

func NewWhisperService(baseURL string, language string) *WhisperService {
	if baseURL == "" {
		baseURL = "http://localhost:9000"
	}
	if language == "" {
		language = "de"
	}
	return &WhisperService{
		baseURL:  baseURL,
		language: language,
		// Phiên âm video dài có thể mất nhiều phút
		client: &http.Client{Timeout: 10 * time.Minute},
	}
}

// Transcribe upload file audio lên Whisper server và trả về transcript.
// Transcript rỗng là kết quả hợp lệ (video không có lời nói).
func (s *WhisperService) Transcribe(ctx context.Context, artifact *AudioArtifact) (string, error) {
	if artifact == nil || artifact.Path == "" {
		return "", &TranscriptionError{Err: fmt.Errorf("artifact audio trống")}
	}

	f, err := os.Open(artifact.Path)
	if err != nil {
		return "", &TranscriptionError{Path: artifact.Path, Err: err}
	}
	defer f.Close()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	fw, err := writer.CreateFormFile("file", filepath.Base(artifact.Path))
	if err != nil {
		return "", &TranscriptionError{Path: artifact.Path, Err: err}
	}
	if _, err := io.Copy(fw, f); err != nil {
		return "", &TranscriptionError{Path: artifact.Path, Err: err}
	}
	if err := writer.WriteField("language", s.language); err != nil {
		return "", &TranscriptionError{Path: artifact.Path, Err: err}
	}
	writer.Close()

	reqURL := s.baseURL + "/transcribe"
	req, err := http.NewRequestWithContext(ctx, "POST", reqURL, body)
	if err != nil {
		return "", &TranscriptionError{Path: artifact.Path, Err: err}
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := s.client.Do(req)
	if err != nil {
		return "", &TranscriptionError{Path: artifact.Path, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return "", &TranscriptionError{
			Path: artifact.Path,
			Err:  fmt.Errorf("whisper lỗi %d: %s", resp.StatusCode, string(respBody)),
		}
	}

	var data struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return "", &TranscriptionError{Path: artifact.Path, Err: fmt.Errorf("lỗi đọc JSON từ whisper: %v", err)}
	}

	return data.Text, nil
}

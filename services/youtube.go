package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	tcmp3 "github.com/tcolgate/mp3"
)

// AudioArtifact là file audio tạm do Acquire tạo ra.
// Caller giữ quyền sở hữu cho đến khi gọi Release.
type AudioArtifact struct {
	Path        string
	DurationSec int
}

// YouTubeService tải audio từ video YouTube bằng yt-dlp.
type YouTubeService struct {
	outputDir string
}

func NewYouTubeService(outputDir string) *YouTubeService {
	if outputDir == "" {
		outputDir = "temp_downloads"
	}
	return &YouTubeService{outputDir: outputDir}
}

// OutputDir trả về thư mục scratch chứa các artifact.
func (s *YouTubeService) OutputDir() string {
	return s.outputDir
}

// Acquire tải audio MP3 của video về thư mục scratch.
// Tên file luôn chứa UUID nên hai lần tải song song không ghi đè nhau.
func (s *YouTubeService) Acquire(ctx context.Context, videoURL string) (*AudioArtifact, error) {
	u, err := url.ParseRequestURI(videoURL)
	if err != nil || u.Host == "" {
		return nil, &AcquisitionError{URL: videoURL, Err: fmt.Errorf("URL video không hợp lệ")}
	}

	if err := os.MkdirAll(s.outputDir, 0o755); err != nil {
		return nil, &AcquisitionError{URL: videoURL, Err: err}
	}

	audioPath := filepath.Join(s.outputDir, artifactName(u))

	// yt-dlp tự thay phần mở rộng, nên template không được kèm ".mp3"
	outTmpl := strings.TrimSuffix(audioPath, ".mp3") + ".%(ext)s"

	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, "yt-dlp",
		"--no-playlist",
		"--extract-audio",
		"--audio-format", "mp3",
		"--audio-quality", "192K",
		"-o", outTmpl,
		videoURL,
	)
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		// Dọn file dở dang nếu có rồi mới báo lỗi
		os.Remove(audioPath)
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			return nil, &AcquisitionError{URL: videoURL, Err: err}
		}
		return nil, &AcquisitionError{URL: videoURL, Err: fmt.Errorf("yt-dlp: %s", lastLine(msg))}
	}

	if _, err := os.Stat(audioPath); err != nil {
		return nil, &AcquisitionError{URL: videoURL, Err: fmt.Errorf("yt-dlp không tạo ra file audio")}
	}

	return &AudioArtifact{
		Path:        audioPath,
		DurationSec: probeDuration(audioPath),
	}, nil
}

// Release xoá file artifact. File đã mất sẵn thì coi như xong, không phải lỗi.
func (s *YouTubeService) Release(artifact *AudioArtifact) error {
	if artifact == nil || artifact.Path == "" {
		return nil
	}
	if err := os.Remove(artifact.Path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// artifactName sinh tên file dạng <slug>-<uuid>.mp3 từ URL video.
func artifactName(u *url.URL) string {
	base := slug.Make(u.Query().Get("v"))
	if base == "" {
		base = slug.Make(strings.Trim(u.Path, "/"))
	}
	if base == "" {
		base = "audio"
	}
	return fmt.Sprintf("%s-%s.mp3", base, uuid.NewString())
}

// probeDuration tính thời lượng MP3 theo giây, lỗi thì trả 0
func probeDuration(path string) int {
	f, err := os.Open(path)
	if err != nil {
		return 0
	}
	defer f.Close()

	var (
		dur     float64
		dec     = tcmp3.NewDecoder(f)
		frame   tcmp3.Frame
		skipped int
	)

	for {
		if err := dec.Decode(&frame, &skipped); err != nil {
			if err != io.EOF {
				return 0
			}
			break
		}
		dur += frame.Duration().Seconds()
	}

	return int(dur)
}

func lastLine(s string) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	return lines[len(lines)-1]
}

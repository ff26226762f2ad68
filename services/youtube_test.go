package services

import (
	"context"
	"errors"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestAcquireRejectsInvalidURL(t *testing.T) {
	svc := NewYouTubeService(t.TempDir())

	for _, raw := range []string{"", "not a url", "ftp-nohost", "/relative/path"} {
		_, err := svc.Acquire(context.Background(), raw)
		var acquisition *AcquisitionError
		if !errors.As(err, &acquisition) {
			t.Errorf("Acquire(%q): muốn AcquisitionError, got %v", raw, err)
		}
	}
}

func TestNewYouTubeServiceDefaultDir(t *testing.T) {
	svc := NewYouTubeService("")
	if svc.OutputDir() != "temp_downloads" {
		t.Errorf("outputDir = %q, muốn temp_downloads", svc.OutputDir())
	}
}

func TestReleaseMissingFileIsNoop(t *testing.T) {
	svc := NewYouTubeService(t.TempDir())

	if err := svc.Release(nil); err != nil {
		t.Errorf("Release(nil) = %v, muốn nil", err)
	}
	if err := svc.Release(&AudioArtifact{}); err != nil {
		t.Errorf("Release(artifact rỗng) = %v, muốn nil", err)
	}

	// File đã bị xoá trước đó không phải lỗi
	gone := &AudioArtifact{Path: filepath.Join(t.TempDir(), "khong-ton-tai.mp3")}
	if err := svc.Release(gone); err != nil {
		t.Errorf("Release file không tồn tại = %v, muốn nil", err)
	}
}

func TestReleaseRemovesFile(t *testing.T) {
	dir := t.TempDir()
	svc := NewYouTubeService(dir)

	path := filepath.Join(dir, "video-abc.mp3")
	if err := os.WriteFile(path, []byte("mp3"), 0o644); err != nil {
		t.Fatalf("không tạo được file: %v", err)
	}

	if err := svc.Release(&AudioArtifact{Path: path}); err != nil {
		t.Fatalf("Release lỗi: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("file vẫn còn sau Release")
	}
}

func TestArtifactName(t *testing.T) {
	u, _ := url.Parse("https://www.youtube.com/watch?v=dQw4w9WgXcQ")

	name := artifactName(u)
	if !strings.HasPrefix(name, "dqw4w9wgxcq-") {
		t.Errorf("tên = %q, muốn prefix từ tham số v", name)
	}
	if !strings.HasSuffix(name, ".mp3") {
		t.Errorf("tên = %q, muốn đuôi .mp3", name)
	}

	// UUID trong tên nên hai lần gọi không trùng nhau
	if artifactName(u) == artifactName(u) {
		t.Error("hai lần gọi sinh ra cùng tên file")
	}

	// Không có tham số v thì lấy path
	short, _ := url.Parse("https://youtu.be/dQw4w9WgXcQ")
	if !strings.HasPrefix(artifactName(short), "dqw4w9wgxcq-") {
		t.Errorf("tên từ youtu.be = %q, muốn prefix từ path", artifactName(short))
	}

	// Không có gì để đặt tên thì fallback "audio"
	bare, _ := url.Parse("https://example.com/")
	if !strings.HasPrefix(artifactName(bare), "audio-") {
		t.Errorf("tên fallback = %q, muốn prefix audio-", artifactName(bare))
	}
}

func TestProbeDurationBadFile(t *testing.T) {
	dir := t.TempDir()

	empty := filepath.Join(dir, "rong.mp3")
	if err := os.WriteFile(empty, nil, 0o644); err != nil {
		t.Fatalf("không tạo được file: %v", err)
	}
	if got := probeDuration(empty); got != 0 {
		t.Errorf("probeDuration(file rỗng) = %d, muốn 0", got)
	}

	if got := probeDuration(filepath.Join(dir, "khong-co.mp3")); got != 0 {
		t.Errorf("probeDuration(file không tồn tại) = %d, muốn 0", got)
	}
}

func TestLastLine(t *testing.T) {
	if got := lastLine("dòng 1\ndòng 2\ndòng 3\n"); got != "dòng 3" {
		t.Errorf("lastLine = %q, muốn %q", got, "dòng 3")
	}
	if got := lastLine("một dòng"); got != "một dòng" {
		t.Errorf("lastLine = %q, muốn %q", got, "một dòng")
	}
}

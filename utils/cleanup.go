package utils

import (
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/MaxMischner/Quizly/config"
	"github.com/MaxMischner/Quizly/models"
)

// CleanupExpiredTokens xóa các token blacklist đã quá hạn
func CleanupExpiredTokens() {
	db := config.DB

	result := db.Where("expires_at < ?", time.Now()).
		Delete(&models.TokenBlacklist{})

	if result.Error != nil {
		log.Printf("Lỗi khi xóa blacklist tokens: %v", result.Error)
		return
	}

	if result.RowsAffected > 0 {
		log.Printf("Đã xóa %d blacklist tokens hết hạn", result.RowsAffected)
	}
}

// CleanupStaleArtifacts xóa file audio bị bỏ lại trong thư mục scratch
// (pipeline chết giữa chừng, server restart). File mới hơn maxAge được giữ lại
// vì có thể đang thuộc một pipeline còn chạy.
func CleanupStaleArtifacts(dir string, maxAge time.Duration) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Printf("Lỗi khi đọc thư mục scratch %s: %v", dir, err)
		}
		return
	}

	removed := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if time.Since(info.ModTime()) < maxAge {
			continue
		}
		if err := os.Remove(filepath.Join(dir, entry.Name())); err == nil {
			removed++
		}
	}

	if removed > 0 {
		log.Printf("Đã xóa %d file audio cũ trong %s", removed, dir)
	}
}

// StartCleanupJob chạy cleanup job định kỳ
func StartCleanupJob(artifactDir string) {
	// Chạy cleanup ngay lần đầu khi khởi động
	log.Println("Đang chạy cleanup lần đầu...")
	CleanupExpiredTokens()
	CleanupStaleArtifacts(artifactDir, 24*time.Hour)

	// Thiết lập ticker để chạy mỗi 6 giờ
	ticker := time.NewTicker(6 * time.Hour)

	go func() {
		defer ticker.Stop()
		for range ticker.C {
			log.Println("Cleanup job được kích hoạt...")
			CleanupExpiredTokens()
			CleanupStaleArtifacts(artifactDir, 24*time.Hour)
		}
	}()

	log.Println("Cleanup job đã được khởi động (chạy mỗi 6 giờ)")
}

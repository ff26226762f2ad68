package models

import (
	"time"
)

// TokenBlacklist chứa các token đã logout, từ chối cho đến khi tự hết hạn.
type TokenBlacklist struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	Token         string    `gorm:"type:text;uniqueIndex" json:"token"`
	ExpiresAt     time.Time `gorm:"index" json:"expires_at"`
	BlacklistedAt time.Time `gorm:"autoCreateTime" json:"blacklisted_at"`
}

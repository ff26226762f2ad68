package utils

import (
	"testing"

	"github.com/google/uuid"
)

func TestGenerateAndVerifyToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	userID := uuid.NewString()
	token, err := GenerateToken(userID, "quizuser")
	if err != nil {
		t.Fatalf("GenerateToken lỗi: %v", err)
	}

	claims, err := VerifyToken(token)
	if err != nil {
		t.Fatalf("VerifyToken lỗi: %v", err)
	}
	if claims.UserID != userID {
		t.Errorf("user_id = %q, muốn %q", claims.UserID, userID)
	}
	if claims.Username != "quizuser" {
		t.Errorf("username = %q, muốn quizuser", claims.Username)
	}
	if claims.ExpiresAt == nil || claims.IssuedAt == nil {
		t.Error("token thiếu exp hoặc iat")
	}
}

func TestVerifyTokenWrongSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret-a")
	token, err := GenerateToken(uuid.NewString(), "quizuser")
	if err != nil {
		t.Fatalf("GenerateToken lỗi: %v", err)
	}

	t.Setenv("JWT_SECRET", "secret-b")
	if _, err := VerifyToken(token); err == nil {
		t.Error("token ký bằng secret khác phải bị từ chối")
	}
}

func TestVerifyTokenTampered(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	token, err := GenerateToken(uuid.NewString(), "quizuser")
	if err != nil {
		t.Fatalf("GenerateToken lỗi: %v", err)
	}

	tampered := token[:len(token)-2] + "xx"
	if _, err := VerifyToken(tampered); err == nil {
		t.Error("token bị sửa phải bị từ chối")
	}

	if _, err := VerifyToken("không-phải-jwt"); err == nil {
		t.Error("chuỗi không phải JWT phải bị từ chối")
	}
}

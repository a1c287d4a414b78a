package auth

import (
	"context"
	"errors"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/oauth2"

	"github.com/desertthunder/medspa/internal/models"
	"github.com/desertthunder/medspa/internal/shared"
)

func TestSessionContext(t *testing.T) {
	if _, ok := SessionFrom(context.Background()); ok {
		t.Error("expected no session in empty context")
	}

	ctx := WithSession(context.Background(), &models.Session{ID: "s1", UserID: "u1"})
	s, ok := SessionFrom(ctx)
	if !ok || s.UserID != "u1" {
		t.Errorf("expected session for u1, got %+v", s)
	}
}

func TestUserID(t *testing.T) {
	t.Run("Extra User ID", func(t *testing.T) {
		token := (&oauth2.Token{AccessToken: "a"}).WithExtra(map[string]any{"user_id": "u1"})
		if id, err := UserID(token); err != nil || id != "u1" {
			t.Errorf("expected u1, got %q %v", id, err)
		}
	})

	t.Run("Extra User Object", func(t *testing.T) {
		token := (&oauth2.Token{AccessToken: "a"}).WithExtra(map[string]any{
			"user": map[string]any{"id": "u2", "email": "a@b.c"},
		})
		if id, err := UserID(token); err != nil || id != "u2" {
			t.Errorf("expected u2, got %q %v", id, err)
		}
	})

	t.Run("Access Token Subject", func(t *testing.T) {
		access, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "u3"}).SignedString([]byte("k"))
		if err != nil {
			t.Fatalf("failed to sign: %v", err)
		}
		if id, err := UserID(&oauth2.Token{AccessToken: access}); err != nil || id != "u3" {
			t.Errorf("expected u3, got %q %v", id, err)
		}
	})

	t.Run("No User", func(t *testing.T) {
		if _, err := UserID(&oauth2.Token{AccessToken: "opaque"}); !errors.Is(err, shared.ErrAuthFailed) {
			t.Errorf("expected ErrAuthFailed, got %v", err)
		}
		if _, err := UserID(nil); !errors.Is(err, shared.ErrAuthFailed) {
			t.Errorf("expected ErrAuthFailed for nil token, got %v", err)
		}
	})
}

package auth

import (
	"context"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/oauth2"

	"github.com/desertthunder/medspa/internal/models"
	"github.com/desertthunder/medspa/internal/shared"
)

type sessionKey struct{}

// WithSession returns a copy of ctx carrying session.
func WithSession(ctx context.Context, session *models.Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, session)
}

// SessionFrom returns the session stored by [WithSession], if any.
func SessionFrom(ctx context.Context) (*models.Session, bool) {
	s, ok := ctx.Value(sessionKey{}).(*models.Session)
	return s, ok && s != nil
}

// UserID finds the user identifier in a token response.
//
// It checks a "user_id" extra field, then the "id" of a "user" object, and finally the "sub"
// claim of the access token. The access token is not verified here; it was just received
// from the token endpoint over TLS.
func UserID(token *oauth2.Token) (string, error) {
	if token == nil {
		return "", fmt.Errorf("%w: no token", shared.ErrAuthFailed)
	}

	if id, ok := token.Extra("user_id").(string); ok && id != "" {
		return id, nil
	}
	if user, ok := token.Extra("user").(map[string]any); ok {
		if id, ok := user["id"].(string); ok && id != "" {
			return id, nil
		}
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token.AccessToken, claims); err == nil {
		if sub, err := claims.GetSubject(); err == nil && sub != "" {
			return sub, nil
		}
	}

	return "", fmt.Errorf("%w: token response names no user", shared.ErrAuthFailed)
}

package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	pkgAuth "github.com/skycasthq/skycast-backend/pkg/auth"
	"github.com/skycasthq/skycast-backend/pkg/auth/session"
	"github.com/skycasthq/skycast-backend/pkg/config"
)

type stubRotator struct {
	newAccessID string
	newRefresh  string
	err         error

	revokedAccessID string
}

func (s *stubRotator) Rotate(ctx context.Context, oldAccessID, provided string) (string, string, error) {
	if s.err != nil {
		return "", "", s.err
	}
	return s.newAccessID, s.newRefresh, nil
}

func (s *stubRotator) Revoke(ctx context.Context, accessID string) error {
	s.revokedAccessID = accessID
	return s.err
}

func sessionTestConfig() config.JWTConfig {
	return config.JWTConfig{Secret: "secret", Issuer: "skycast", ExpirationMinutes: 30}
}

func mintSessionToken(t *testing.T, cfg config.JWTConfig, accessID string) string {
	t.Helper()
	token, err := pkgAuth.MintAccessToken(cfg, time.Now(), pkgAuth.AccessTokenPayload{
		UserID: uuid.New(),
		Email:  "tester@example.com",
		JTI:    accessID,
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return token
}

func TestAuthRefreshRotatesSession(t *testing.T) {
	cfg := sessionTestConfig()
	rotator := &stubRotator{newAccessID: session.NewAccessID(), newRefresh: "next-refresh"}
	handler := AuthRefresh(rotator, cfg, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/refresh", bytes.NewReader([]byte(`{"refresh_token":"current-refresh"}`)))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+mintSessionToken(t, cfg, session.NewAccessID()))
	resp := httptest.NewRecorder()

	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}

	var envelope struct {
		Data refreshResponse `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.RefreshToken != "next-refresh" {
		t.Fatalf("unexpected refresh token %s", envelope.Data.RefreshToken)
	}
	if envelope.Data.AccessToken == "" {
		t.Fatal("expected new access token")
	}

	claims, err := pkgAuth.ParseAccessToken(cfg, envelope.Data.AccessToken)
	if err != nil {
		t.Fatalf("parse minted token: %v", err)
	}
	if claims.ID != rotator.newAccessID {
		t.Fatalf("expected jti %s got %s", rotator.newAccessID, claims.ID)
	}
}

func TestAuthRefreshRejectsInvalidRefreshToken(t *testing.T) {
	cfg := sessionTestConfig()
	rotator := &stubRotator{err: session.ErrInvalidRefreshToken}
	handler := AuthRefresh(rotator, cfg, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/refresh", bytes.NewReader([]byte(`{"refresh_token":"stale"}`)))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+mintSessionToken(t, cfg, session.NewAccessID()))
	resp := httptest.NewRecorder()

	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestAuthRefreshRequiresBearerToken(t *testing.T) {
	handler := AuthRefresh(&stubRotator{}, sessionTestConfig(), nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/refresh", bytes.NewReader([]byte(`{"refresh_token":"current-refresh"}`)))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()

	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestAuthLogoutRevokesSession(t *testing.T) {
	cfg := sessionTestConfig()
	accessID := session.NewAccessID()
	rotator := &stubRotator{}
	handler := AuthLogout(rotator, cfg, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/logout", nil)
	req.Header.Set("Authorization", "Bearer "+mintSessionToken(t, cfg, accessID))
	resp := httptest.NewRecorder()

	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if rotator.revokedAccessID != accessID {
		t.Fatalf("expected revoked access id %s got %s", accessID, rotator.revokedAccessID)
	}
}

package middleware

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func captureLog(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, nil)))
	t.Cleanup(func() { slog.SetDefault(prev) })
	return &buf
}

func mintToken(t *testing.T, secret []byte, userID int) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": userID,
		"exp":     time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString(secret)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func TestRequestLog_IncludesAuthenticatedUser(t *testing.T) {
	buf := captureLog(t)
	secret := []byte("test-secret")

	h := RequestLog(JWT(secret)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})))

	req := httptest.NewRequest("GET", "/shoes", nil)
	req.Header.Set("Authorization", "Bearer "+mintToken(t, secret, 7))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if rr.Code != http.StatusNoContent {
		t.Fatalf("status: got %d, want 204", rr.Code)
	}
	out := buf.String()
	if !strings.Contains(out, "user_id=7") {
		t.Errorf("log line missing user_id: %q", out)
	}
	if !strings.Contains(out, "status=204") {
		t.Errorf("log line missing status: %q", out)
	}
}

func TestRequestLog_AnonymousRequestHasNoUserID(t *testing.T) {
	buf := captureLog(t)

	h := RequestLog(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest("GET", "/healthz", nil))

	if out := buf.String(); strings.Contains(out, "user_id") {
		t.Errorf("anonymous request logged a user_id: %q", out)
	}
}

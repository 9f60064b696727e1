package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/yungbote/braincell-backend/internal/logger"
)

func newAuthRouter(t *testing.T, secret string) *gin.Engine {
	t.Helper()
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("init logger: %v", err)
	}
	gin.SetMode(gin.TestMode)

	m := NewTeacherAuthMiddleware(log, secret)
	r := gin.New()
	r.GET("/guarded", m.RequireTeacher(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"teacher_id": c.GetString("teacher_id")})
	})
	return r
}

func signToken(t *testing.T, secret, subject string, method jwt.SigningMethod) string {
	t.Helper()
	claims := jwt.MapClaims{"exp": time.Now().Add(time.Hour).Unix()}
	if subject != "" {
		claims["sub"] = subject
	}
	token, err := jwt.NewWithClaims(method, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return token
}

func TestRequireTeacher_DisabledWithoutSecret(t *testing.T) {
	r := newAuthRouter(t, "")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/guarded", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected passthrough without secret, got %d", w.Code)
	}
}

func TestRequireTeacher_MissingToken(t *testing.T) {
	r := newAuthRouter(t, "s3cret")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/guarded", nil))
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", w.Code)
	}
}

func TestRequireTeacher_ValidBearerToken(t *testing.T) {
	r := newAuthRouter(t, "s3cret")
	token := signToken(t, "s3cret", "t1", jwt.SigningMethodHS256)

	req := httptest.NewRequest(http.MethodGet, "/guarded", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 with valid token, got %d: %s", w.Code, w.Body.String())
	}
	if body := w.Body.String(); body != `{"teacher_id":"t1"}` {
		t.Fatalf("unexpected body %s", body)
	}
}

func TestRequireTeacher_QueryTokenAccepted(t *testing.T) {
	r := newAuthRouter(t, "s3cret")
	token := signToken(t, "s3cret", "t1", jwt.SigningMethodHS256)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/guarded?token="+token, nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 with query token, got %d", w.Code)
	}
}

func TestRequireTeacher_WrongSecretRejected(t *testing.T) {
	r := newAuthRouter(t, "s3cret")
	token := signToken(t, "other-secret", "t1", jwt.SigningMethodHS256)

	req := httptest.NewRequest(http.MethodGet, "/guarded", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for wrong secret, got %d", w.Code)
	}
}

func TestRequireTeacher_MissingSubjectForbidden(t *testing.T) {
	r := newAuthRouter(t, "s3cret")
	token := signToken(t, "s3cret", "", jwt.SigningMethodHS256)

	req := httptest.NewRequest(http.MethodGet, "/guarded", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403 without subject, got %d", w.Code)
	}
}

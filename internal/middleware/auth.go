package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/yungbote/braincell-backend/internal/logger"
)

// TeacherAuthMiddleware guards the teacher dashboard routes with an HMAC
// JWT. When no secret is configured the guard is disabled; classroom data
// access then relies on unguessable classroom IDs alone.
type TeacherAuthMiddleware struct {
	log    *logger.Logger
	secret []byte
}

func NewTeacherAuthMiddleware(log *logger.Logger, secret string) *TeacherAuthMiddleware {
	return &TeacherAuthMiddleware{
		log:    log.With("middleware", "TeacherAuthMiddleware"),
		secret: []byte(secret),
	}
}

func (m *TeacherAuthMiddleware) RequireTeacher() gin.HandlerFunc {
	return func(c *gin.Context) {
		if len(m.secret) == 0 {
			c.Next()
			return
		}

		tokenString := extractBearerToken(c)
		if tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing or invalid token"})
			return
		}

		token, err := jwt.Parse(tokenString, func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
			}
			return m.secret, nil
		})
		if err != nil || !token.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing or invalid token"})
			return
		}

		teacherID, err := token.Claims.GetSubject()
		if err != nil || teacherID == "" {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden"})
			return
		}

		c.Set("teacher_id", teacherID)
		c.Next()
	}
}

func extractBearerToken(c *gin.Context) string {
	if qToken := c.Query("token"); qToken != "" {
		return qToken
	}
	authHeader := c.GetHeader("Authorization")
	if len(authHeader) > 7 && strings.EqualFold(authHeader[:7], "Bearer ") {
		return authHeader[7:]
	}
	return ""
}

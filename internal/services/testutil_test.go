package services

import (
	"os"
	"testing"

	"github.com/yungbote/braincell-backend/internal/logger"
)

func newTestLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("init test logger: %v", err)
	}
	return log
}

func writeFile(path, content string) error {
	return os.WriteFile(path, []byte(content), 0o644)
}

package handlers

import (
	"net/http"
	"os"
	"strings"

	"github.com/gin-gonic/gin"
)

func HealthCheck(c *gin.Context) {
	c.String(http.StatusOK, "ok")
}

// ProviderHealth reports whether the generation provider is configured. The
// fallback path is always available, so the turn endpoint stays up either
// way.
func ProviderHealth(c *gin.Context) {
	configured := strings.TrimSpace(os.Getenv("GENERATION_API_KEY")) != ""
	model := strings.TrimSpace(os.Getenv("GENERATION_MODEL"))
	if model == "" {
		model = "gpt-4o-mini"
	}

	status := "degraded"
	if configured {
		status = "ok"
	}
	c.JSON(http.StatusOK, gin.H{
		"status":         status,
		"provider":       "openai",
		"model":          model,
		"configured":     configured,
		"fallback_ready": true,
	})
}

package app

import (
	"strings"

	"github.com/yungbote/braincell-backend/internal/logger"
	"github.com/yungbote/braincell-backend/internal/utils"
)

type Config struct {
	Port         string
	JWTSecretKey string
	Environment  string
	Version      string
	AllowOrigins []string
}

func LoadConfig(log *logger.Logger) Config {
	port := utils.GetEnv("PORT", "8080", log)
	jwtSecretKey := utils.GetEnv("JWT_SECRET_KEY", "", log)
	environment := utils.GetEnv("APP_ENV", "development", log)
	version := utils.GetEnv("APP_VERSION", "dev", log)

	var origins []string
	rawOrigins := utils.GetEnv("CORS_ALLOW_ORIGINS", "", log)
	for _, o := range strings.Split(rawOrigins, ",") {
		if trimmed := strings.TrimSpace(o); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}

	return Config{
		Port:         port,
		JWTSecretKey: jwtSecretKey,
		Environment:  environment,
		Version:      version,
		AllowOrigins: origins,
	}
}

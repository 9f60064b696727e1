package app

import (
	"os"
	"strings"

	"github.com/yungbote/braincell-backend/internal/clients/gcp"
	"github.com/yungbote/braincell-backend/internal/clients/neo4jdb"
	redisclient "github.com/yungbote/braincell-backend/internal/clients/redis"
	"github.com/yungbote/braincell-backend/internal/logger"
)

// Clients are outbound integrations. Each is optional: a nil client means
// the backing service is not configured and its concern degrades gracefully.
type Clients struct {
	SessionCache *redisclient.SessionCache
	Neo4j        *neo4jdb.Client
	FacialAffect *gcp.FacialAffect
	VocalAffect  *gcp.VocalAffect
}

func wireClients(log *logger.Logger) (Clients, error) {
	log.Info("Wiring clients...")

	cache, err := redisclient.NewSessionCache(log)
	if err != nil {
		return Clients{}, err
	}
	if cache == nil {
		log.Warn("REDIS_ADDR not set; session cache disabled")
	}

	neo4j, err := neo4jdb.NewFromEnv(log)
	if err != nil {
		return Clients{}, err
	}
	if neo4j == nil {
		log.Warn("NEO4J_URI not set; concept graph mirroring disabled")
	}

	clients := Clients{
		SessionCache: cache,
		Neo4j:        neo4j,
	}

	if gcpConfigured() {
		facial, err := gcp.NewFacialAffect(log)
		if err != nil {
			return Clients{}, err
		}
		vocal, err := gcp.NewVocalAffect(log)
		if err != nil {
			_ = facial.Close()
			return Clients{}, err
		}
		clients.FacialAffect = facial
		clients.VocalAffect = vocal
	} else {
		log.Warn("Google credentials not set; affect inference from raw media disabled")
	}

	return clients, nil
}

func gcpConfigured() bool {
	return strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS_JSON")) != "" ||
		strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS")) != ""
}

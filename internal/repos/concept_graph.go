package repos

import (
	"context"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/yungbote/braincell-backend/internal/clients/neo4jdb"
	"github.com/yungbote/braincell-backend/internal/logger"
	"github.com/yungbote/braincell-backend/internal/types"
)

// ConceptGraphRepo mirrors knowledge graph deltas into the per-student
// concept graph. Merges are idempotent on (student_id, node id).
type ConceptGraphRepo interface {
	MergeDelta(ctx context.Context, studentID string, delta types.KnowledgeGraphDelta) error
}

type conceptGraphRepo struct {
	client *neo4jdb.Client
	log    *logger.Logger
}

func NewConceptGraphRepo(client *neo4jdb.Client, baseLog *logger.Logger) ConceptGraphRepo {
	return &conceptGraphRepo{client: client, log: baseLog.With("repo", "ConceptGraphRepo")}
}

const mergeNodeCypher = `
MERGE (c:Concept {id: $id, student_id: $student_id})
SET c.label = $label,
    c.type = $type,
    c.mastered = $mastered,
    c.updated_at = $updated_at
`

const mergeEdgeCypher = `
MATCH (a:Concept {id: $source, student_id: $student_id})
MATCH (b:Concept {id: $target, student_id: $student_id})
MERGE (a)-[r:RELATES_TO {id: $id}]->(b)
SET r.label = $label,
    r.updated_at = $updated_at
`

func (r *conceptGraphRepo) MergeDelta(ctx context.Context, studentID string, delta types.KnowledgeGraphDelta) error {
	if len(delta.Nodes) == 0 && len(delta.Edges) == 0 {
		return nil
	}

	session := r.client.Driver.NewSession(ctx, neo4j.SessionConfig{
		DatabaseName: r.client.Database,
		AccessMode:   neo4j.AccessModeWrite,
	})
	defer session.Close(ctx)

	now := time.Now().UTC().Format(time.RFC3339)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		for _, node := range delta.Nodes {
			params := map[string]any{
				"id":         node.ID,
				"student_id": studentID,
				"label":      node.Label,
				"type":       node.Type,
				"mastered":   node.Mastered,
				"updated_at": now,
			}
			if _, err := tx.Run(ctx, mergeNodeCypher, params); err != nil {
				return nil, err
			}
		}
		for _, edge := range delta.Edges {
			params := map[string]any{
				"id":         edge.ID,
				"student_id": studentID,
				"source":     edge.Source,
				"target":     edge.Target,
				"label":      edge.Label,
				"updated_at": now,
			}
			if _, err := tx.Run(ctx, mergeEdgeCypher, params); err != nil {
				return nil, err
			}
		}
		return nil, nil
	})
	if err != nil {
		return err
	}

	r.log.Debug("Merged graph delta",
		"student_id", studentID,
		"nodes", len(delta.Nodes),
		"edges", len(delta.Edges),
	)
	return nil
}

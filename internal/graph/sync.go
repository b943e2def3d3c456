package graph

import (
	"context"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/maraichr/joingraph/pkg/models"
)

const batchSize = 500

// SyncRows upserts the join pairs of extracted lineage rows into Neo4j.
// Pairs whose left side could not be attributed are skipped; a half-known
// edge pollutes the graph more than it informs it.
func (c *Client) SyncRows(ctx context.Context, rows []models.LineageRow) error {
	var edges []map[string]any
	for _, row := range rows {
		for _, pair := range models.JoinPairs(row) {
			if pair.Left == models.UnknownRelation || pair.Left == pair.Right {
				continue
			}
			edges = append(edges, map[string]any{
				"left":      pair.Left,
				"right":     pair.Right,
				"joinType":  string(pair.JoinType),
				"source":    pair.Source,
				"condition": pair.Condition,
			})
		}
	}
	if len(edges) == 0 {
		return nil
	}

	session := c.writeSession(ctx)
	defer session.Close(ctx)

	for i := 0; i < len(edges); i += batchSize {
		end := min(i+batchSize, len(edges))
		batch := edges[i:end]

		_, err := neo4j.ExecuteWrite(ctx, session, func(tx neo4j.ManagedTransaction) (any, error) {
			_, err := tx.Run(ctx, UpsertJoinEdge, map[string]any{"edges": batch})
			return struct{}{}, err
		})
		if err != nil {
			return fmt.Errorf("sync join edges batch %d: %w", i/batchSize, err)
		}
	}
	return nil
}

// Neighbor is one table adjacent to the queried table in the join graph.
type Neighbor struct {
	Name     string `json:"name"`
	JoinType string `json:"join_type"`
}

// Neighbors returns the tables a given table joins with, either direction.
func (c *Client) Neighbors(ctx context.Context, table string) ([]Neighbor, error) {
	session := c.readSession(ctx)
	defer session.Close(ctx)

	result, err := neo4j.ExecuteRead(ctx, session, func(tx neo4j.ManagedTransaction) ([]Neighbor, error) {
		res, err := tx.Run(ctx, TableNeighbors, map[string]any{"name": table})
		if err != nil {
			return nil, err
		}
		var neighbors []Neighbor
		for res.Next(ctx) {
			record := res.Record()
			name, _ := record.Get("name")
			joinType, _ := record.Get("joinType")
			n := Neighbor{}
			if s, ok := name.(string); ok {
				n.Name = s
			}
			if s, ok := joinType.(string); ok {
				n.JoinType = s
			}
			neighbors = append(neighbors, n)
		}
		return neighbors, res.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("query table neighbors: %w", err)
	}
	return result, nil
}

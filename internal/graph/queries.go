package graph

// Cypher query constants for Neo4j operations.
const (
	// CreateConstraintTableName ensures Table(name) is unique and indexed
	// (required for fast MERGE/MATCH).
	CreateConstraintTableName = `CREATE CONSTRAINT table_name IF NOT EXISTS FOR (t:Table) REQUIRE t.name IS UNIQUE`

	// UpsertJoinEdge merges both table nodes and the JOINS_WITH relationship
	// between them.
	UpsertJoinEdge = `
UNWIND $edges AS edge
MERGE (l:Table {name: edge.left})
MERGE (r:Table {name: edge.right})
MERGE (l)-[j:JOINS_WITH {joinType: edge.joinType}]->(r)
SET j.source = edge.source,
    j.condition = edge.condition
`

	// TableNeighbors returns every table a given table joins with, in either
	// direction, with the join type.
	TableNeighbors = `
MATCH (t:Table {name: $name})-[j:JOINS_WITH]-(other:Table)
RETURN DISTINCT other.name AS name, j.joinType AS joinType
ORDER BY name
`
)

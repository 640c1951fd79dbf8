package postgres

import "context"

const schemaSQL = `
CREATE TABLE IF NOT EXISTS pipeline_evaluations (
    id           TEXT PRIMARY KEY,
    num_nodes    INTEGER NOT NULL,
    num_edges    INTEGER NOT NULL,
    is_dag       BOOLEAN NOT NULL,
    has_cycles   BOOLEAN NOT NULL,
    is_connected BOOLEAN NOT NULL,
    node_types   TEXT[] NOT NULL DEFAULT '{}',
    status       TEXT NOT NULL,
    created_at   TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_pipeline_evaluations_created_at ON pipeline_evaluations(created_at);
`

// CreateSchema creates the pipeline_evaluations table if it doesn't exist.
func (s *PGStore) CreateSchema(ctx context.Context) error {
	_, err := s.db.Exec(ctx, schemaSQL)
	return err
}

// DropSchema drops the pipeline_evaluations table.
func (s *PGStore) DropSchema(ctx context.Context) error {
	_, err := s.db.Exec(ctx, `DROP TABLE IF EXISTS pipeline_evaluations CASCADE;`)
	return err
}

package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/meikuraledutech/pipeline"
)

const evaluationColumns = `id, num_nodes, num_edges, is_dag, has_cycles, is_connected, node_types, status, created_at`

// RecordEvaluation inserts report under a new UUID.
// Returns the stored evaluation with its ID and creation time filled in.
func (s *PGStore) RecordEvaluation(ctx context.Context, report pipeline.Report) (*pipeline.Evaluation, error) {
	ev := &pipeline.Evaluation{ID: uuid.NewString(), Report: report}
	if ev.Report.NodeTypes == nil {
		ev.Report.NodeTypes = []string{}
	}

	err := s.db.QueryRow(ctx,
		`INSERT INTO pipeline_evaluations (id, num_nodes, num_edges, is_dag, has_cycles, is_connected, node_types, status)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING created_at`,
		ev.ID, report.NumNodes, report.NumEdges, report.IsDAG, report.HasCycles,
		report.IsConnected, ev.Report.NodeTypes, report.Status,
	).Scan(&ev.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("pipeline: insert evaluation: %w", err)
	}

	return ev, nil
}

// GetEvaluation fetches a single evaluation by its ID.
// Returns nil, nil if not found.
func (s *PGStore) GetEvaluation(ctx context.Context, id string) (*pipeline.Evaluation, error) {
	row := s.db.QueryRow(ctx,
		`SELECT `+evaluationColumns+` FROM pipeline_evaluations WHERE id = $1`, id)

	ev, err := scanEvaluation(row)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("pipeline: get evaluation: %w", err)
	}

	return &ev, nil
}

// ListEvaluations returns up to limit evaluations, newest first.
// A non-positive limit returns all of them. Returns an empty slice (not nil) if none found.
func (s *PGStore) ListEvaluations(ctx context.Context, limit int) ([]pipeline.Evaluation, error) {
	query := `SELECT ` + evaluationColumns + ` FROM pipeline_evaluations ORDER BY created_at DESC, id DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT $1`
		args = append(args, limit)
	}

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("pipeline: list evaluations: %w", err)
	}
	defer rows.Close()

	evaluations := []pipeline.Evaluation{}
	for rows.Next() {
		ev, err := scanEvaluation(rows)
		if err != nil {
			return nil, fmt.Errorf("pipeline: scan evaluation: %w", err)
		}
		evaluations = append(evaluations, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("pipeline: rows evaluations: %w", err)
	}

	return evaluations, nil
}

// DeleteEvaluation deletes an evaluation by its ID.
// Returns ErrEvaluationNotFound if the evaluation doesn't exist.
func (s *PGStore) DeleteEvaluation(ctx context.Context, id string) error {
	ct, err := s.db.Exec(ctx, `DELETE FROM pipeline_evaluations WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("pipeline: delete evaluation: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return pipeline.ErrEvaluationNotFound
	}
	return nil
}

func scanEvaluation(row pgx.Row) (pipeline.Evaluation, error) {
	var ev pipeline.Evaluation
	err := row.Scan(
		&ev.ID,
		&ev.Report.NumNodes,
		&ev.Report.NumEdges,
		&ev.Report.IsDAG,
		&ev.Report.HasCycles,
		&ev.Report.IsConnected,
		&ev.Report.NodeTypes,
		&ev.Report.Status,
		&ev.CreatedAt,
	)
	return ev, err
}

// isNoRows checks if the error is a "no rows" error from pgx.
func isNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}

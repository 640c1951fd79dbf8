package pipeline

import (
	"context"
	"errors"
	"time"
)

var ErrEvaluationNotFound = errors.New("pipeline: evaluation not found")

// Evaluation is a recorded Report. The evaluated graph itself is never stored.
type Evaluation struct {
	ID        string    `json:"id"`
	Report    Report    `json:"report"`
	CreatedAt time.Time `json:"created_at"`
}

// Store defines the contract for keeping a history of evaluation reports.
type Store interface {
	// Schema
	CreateSchema(ctx context.Context) error
	DropSchema(ctx context.Context) error
	Ping(ctx context.Context) error

	// Evaluations
	RecordEvaluation(ctx context.Context, report Report) (*Evaluation, error)
	GetEvaluation(ctx context.Context, id string) (*Evaluation, error)
	ListEvaluations(ctx context.Context, limit int) ([]Evaluation, error)
	DeleteEvaluation(ctx context.Context, id string) error
}

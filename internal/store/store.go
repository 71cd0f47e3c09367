package store

import (
	"context"
	"time"
)

// Store defines the persistence layer interface for local run history.
type Store interface {
	CreateRun(ctx context.Context, run Run) error
	GetRun(ctx context.Context, runID string) (Run, error)
	ListRuns(ctx context.Context, limit int) ([]Run, error)
	Close() error
}

// Run represents a single local review or describe execution.
type Run struct {
	RunID        string
	Timestamp    time.Time
	Command      string // "review" or "describe"
	Repository   string
	Branch       string
	Title        string
	FilesChanged int
	OutputPath   string
}

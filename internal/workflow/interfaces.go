// Package workflow provides the commit workflow orchestration logic.
package workflow

import "context"

// RepositoryBackend abstracts git operations for testability.
type RepositoryBackend interface {
	IsRepository(ctx context.Context) bool
	HasHistory(ctx context.Context) bool
	StagedDiff(ctx context.Context) (string, error)
	UntrackedSummary(ctx context.Context) (string, error)
	StageAll(ctx context.Context) error
	Commit(ctx context.Context, message string) error
	Push(ctx context.Context) error
}

// LLMClient abstracts LLM operations for testability.
type LLMClient interface {
	GenerateCommitMessage(ctx context.Context, prompt string) (string, error)
}

package workflow

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"

	"github.com/samzong/aicommit/internal/credstore"
	"github.com/samzong/aicommit/internal/formatter"
	"github.com/samzong/aicommit/internal/i18n"
	"github.com/samzong/aicommit/internal/ui"
)

var ErrNotARepository = errors.New("this is not a git repository")

type CommitOptions struct {
	Push           bool
	DryRun         bool
	Language       formatter.Language
	APIKeyOverride string
	// CredentialPath is only used in the confirmation printed after an override is saved.
	CredentialPath string
	ErrWriter      io.Writer
	OutWriter      io.Writer
	Logger         zerolog.Logger
}

type CommitFlow struct {
	repo     RepositoryBackend
	llm      LLMClient
	creds    credstore.Store
	opts     CommitOptions
	messages *i18n.Translations
}

func NewCommitFlow(repo RepositoryBackend, llm LLMClient, creds credstore.Store, opts CommitOptions) *CommitFlow {
	if opts.OutWriter == nil {
		opts.OutWriter = io.Discard
	}
	if opts.ErrWriter == nil {
		opts.ErrWriter = io.Discard
	}
	return &CommitFlow{
		repo:     repo,
		llm:      llm,
		creds:    creds,
		opts:     opts,
		messages: i18n.NewTranslations(opts.Language.String()),
	}
}

// Run executes the pipeline once. Every error is terminal; nothing is retried.
func (f *CommitFlow) Run(ctx context.Context) error {
	if err := f.applyCredentialOverride(); err != nil {
		return err
	}

	if !f.repo.IsRepository(ctx) {
		return ErrNotARepository
	}

	changes, err := f.gatherChanges(ctx)
	if err != nil {
		return err
	}

	if strings.TrimSpace(changes) == "" {
		fmt.Fprintln(f.opts.OutWriter, f.messages.GetMessage(i18n.MsgNoChanges, nil))
		return nil
	}

	message, err := f.generateCommitMessage(ctx, changes)
	if err != nil {
		return err
	}

	fmt.Fprintln(f.opts.ErrWriter, f.messages.GetMessage(i18n.MsgCommitMessage, nil))
	fmt.Fprintln(f.opts.OutWriter, message)

	if f.opts.DryRun {
		fmt.Fprintln(f.opts.ErrWriter, f.messages.GetMessage(i18n.MsgDryRun, nil))
		return nil
	}

	return f.performCommit(ctx, message)
}

func (f *CommitFlow) applyCredentialOverride() error {
	if f.opts.APIKeyOverride == "" {
		return nil
	}

	if err := f.creds.Set(credstore.APIKeyName, f.opts.APIKeyOverride); err != nil {
		return fmt.Errorf("failed to save API key: %w", err)
	}
	if f.opts.CredentialPath != "" {
		fmt.Fprintln(f.opts.ErrWriter,
			f.messages.GetMessage(i18n.MsgCredentialSaved, map[string]any{"Path": f.opts.CredentialPath}))
	}
	return nil
}

// gatherChanges describes the pending changes. A repository without commits
// has no HEAD to diff against, so its untracked files are listed instead.
func (f *CommitFlow) gatherChanges(ctx context.Context) (string, error) {
	if !f.repo.HasHistory(ctx) {
		f.opts.Logger.Debug().Msg("no commits yet, summarizing untracked files")
		summary, err := f.repo.UntrackedSummary(ctx)
		if err != nil {
			return "", fmt.Errorf("failed to list untracked files: %w", err)
		}
		return summary, nil
	}

	diff, err := f.repo.StagedDiff(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to get git diff: %w", err)
	}
	return diff, nil
}

func (f *CommitFlow) generateCommitMessage(ctx context.Context, changes string) (string, error) {
	prompt := formatter.BuildPrompt(changes, f.opts.Language)
	f.opts.Logger.Debug().
		Str("lang", f.opts.Language.String()).
		Int("prompt_bytes", len(prompt)).
		Msg("requesting commit message")

	sp := ui.NewSpinner(f.opts.ErrWriter, f.messages.GetMessage(i18n.MsgGenerating, nil))
	sp.Start()
	message, err := f.llm.GenerateCommitMessage(ctx, prompt)
	sp.Stop()

	if err != nil {
		return "", fmt.Errorf("failed to generate commit message: %w", err)
	}
	return message, nil
}

func (f *CommitFlow) performCommit(ctx context.Context, message string) error {
	if err := f.repo.StageAll(ctx); err != nil {
		return fmt.Errorf("failed to stage changes: %w", err)
	}

	if err := f.repo.Commit(ctx, message); err != nil {
		return fmt.Errorf("failed to commit changes: %w", err)
	}
	fmt.Fprintln(f.opts.ErrWriter, f.messages.GetMessage(i18n.MsgCommitted, nil))

	if !f.opts.Push {
		f.opts.Logger.Debug().Msg("push disabled")
		return nil
	}

	if err := f.repo.Push(ctx); err != nil {
		return fmt.Errorf("failed to push changes: %w", err)
	}
	fmt.Fprintln(f.opts.ErrWriter, f.messages.GetMessage(i18n.MsgPushed, nil))
	return nil
}

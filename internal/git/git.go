// Package git inspects and mutates the repository in the working directory by
// shelling out to the git binary.
package git

import (
	"context"
	"io"
	"strings"

	"github.com/rs/zerolog"

	"github.com/samzong/aicommit/internal/gitcmd"
	"github.com/samzong/aicommit/internal/gitutil"
	"github.com/samzong/aicommit/internal/stringsutil"
)

// untrackedPrefix marks untracked entries in `git status --porcelain` output.
const untrackedPrefix = "??"

// NewFilePrefix is prepended to every untracked path in an untracked summary.
const NewFilePrefix = "New file: "

// Options configures a Client.
type Options struct {
	Dir     string
	Verbose bool
	Logger  zerolog.Logger
	// Output receives the streamed output of commit and push. Nil discards it.
	Output io.Writer
}

// Client runs git operations against a single working tree.
type Client struct {
	runner gitcmd.Runner
	logger zerolog.Logger
	output io.Writer
}

// NewClient creates a git client.
func NewClient(opts Options) *Client {
	return &Client{
		runner: gitcmd.Runner{
			Verbose: opts.Verbose,
			Dir:     opts.Dir,
			Logger:  opts.Logger,
		},
		logger: opts.Logger,
		output: opts.Output,
	}
}

// IsRepository reports whether the working directory is inside a git work tree.
// Any failure to run git, including a missing binary, is reported as false.
func (c *Client) IsRepository(ctx context.Context) bool {
	if _, err := c.runner.Run(ctx, "rev-parse", "--is-inside-work-tree"); err != nil {
		c.logger.Debug().Err(err).Msg("repository check failed")
		return false
	}
	return true
}

// HasHistory reports whether HEAD resolves to a commit.
func (c *Client) HasHistory(ctx context.Context) bool {
	if _, err := c.runner.Run(ctx, "rev-parse", "HEAD"); err != nil {
		c.logger.Debug().Err(err).Msg("HEAD does not resolve")
		return false
	}
	return true
}

// StagedDiff returns the unified diff of the index against HEAD, verbatim.
func (c *Client) StagedDiff(ctx context.Context) (string, error) {
	result, err := c.runner.Run(ctx, "diff", "--cached")
	if err != nil {
		return "", gitutil.WrapGitError("diff", result, err)
	}
	return result.StdoutString(false), nil
}

// UntrackedSummary lists every untracked path as "New file: <path>", one per
// line, in the order git status reports them.
func (c *Client) UntrackedSummary(ctx context.Context) (string, error) {
	result, err := c.runner.Run(ctx, "status", "--porcelain")
	if err != nil {
		return "", gitutil.WrapGitError("status", result, err)
	}
	return strings.Join(ParseUntracked(result.StdoutString(false)), "\n"), nil
}

// ParseUntracked converts porcelain status output into "New file: <path>" lines.
// Tracked entries are skipped.
func ParseUntracked(status string) []string {
	var files []string
	for _, line := range stringsutil.Lines(status) {
		if !strings.HasPrefix(line, untrackedPrefix) || len(line) < len(untrackedPrefix)+1 {
			continue
		}
		files = append(files, NewFilePrefix+line[len(untrackedPrefix)+1:])
	}
	return files
}

// StageAll runs git add . in the working tree.
func (c *Client) StageAll(ctx context.Context) error {
	result, err := c.runner.Run(ctx, "add", ".")
	if err != nil {
		return gitutil.WrapGitError("add", result, err)
	}
	return nil
}

// Commit records the index with message used verbatim.
func (c *Client) Commit(ctx context.Context, message string) error {
	if err := checkTestSafety(c.runner.Dir); err != nil {
		return err
	}

	result, err := c.runner.RunWithWriters(ctx, c.output, c.output, "commit", "-m", message)
	if err != nil {
		return gitutil.WrapGitError("commit", result, err)
	}
	return nil
}

// Push pushes the current branch to its configured upstream.
func (c *Client) Push(ctx context.Context) error {
	if err := checkTestSafety(c.runner.Dir); err != nil {
		return err
	}

	result, err := c.runner.RunWithWriters(ctx, c.output, c.output, "push")
	if err != nil {
		return gitutil.WrapGitError("push", result, err)
	}
	return nil
}

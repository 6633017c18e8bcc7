package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/samzong/aicommit/internal/config"
	"github.com/samzong/aicommit/internal/credstore"
	"github.com/samzong/aicommit/internal/formatter"
	"github.com/samzong/aicommit/internal/git"
	"github.com/samzong/aicommit/internal/i18n"
	"github.com/samzong/aicommit/internal/llm"
	"github.com/samzong/aicommit/internal/logging"
	"github.com/samzong/aicommit/internal/workflow"
)

var (
	cfgFile   string
	noPush    bool
	dryRun    bool
	lang      string
	withAPI   string
	envFile   string
	verbose   bool
	configErr error
	rootCtx   = context.Background()
	rootCmd   = &cobra.Command{
		Use:   "aicommit",
		Short: "aicommit - AI generated commit messages",
		Long: `aicommit summarizes the pending changes of the current git repository, ` +
			`asks Gemini for a commit message, then stages, commits and pushes.`,
		Version:       fmt.Sprintf("%s (built at %s)", Version, BuildTime),
		Args:          cobra.NoArgs,
		SilenceErrors: true,
		SilenceUsage:  true,
	}
)

// Execute runs the root command with the context set by SetContext.
func Execute() error {
	return rootCmd.ExecuteContext(rootCtx)
}

// SetContext sets the context passed to every command.
func SetContext(ctx context.Context) {
	rootCtx = ctx
}

// RootCmd returns the root command, used by the man page generator.
func RootCmd() *cobra.Command {
	return rootCmd
}

func init() {
	// Assigned here rather than in the literal to avoid an initialization cycle
	// (rootCmd -> runCommit -> outWriter -> rootCmd).
	rootCmd.RunE = func(cmd *cobra.Command, _ []string) error {
		return runCommit(cmd.Context())
	}

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		"Configuration file path (default is $XDG_CONFIG_HOME/aicommit/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "V", false, "Show debug logs and git command details")
	rootCmd.Flags().BoolVar(&noPush, "no-push", false, "Commit without pushing to the remote")
	rootCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Generate and print the message only, do not commit")
	rootCmd.Flags().StringVar(&lang, "lang", "", "Prompt and message language (en, ru)")
	rootCmd.Flags().StringVar(&withAPI, "with-api", "", "Save this Gemini API key to the credential file before running")
	rootCmd.Flags().StringVar(&envFile, "env-file", "", "Credential file path (default is ./.env)")

	rootCmd.AddCommand(configCmd)
}

func initConfig() {
	configErr = config.InitConfig(cfgFile)
}

// localizedError replaces the text of a sentinel error while keeping it matchable.
type localizedError struct {
	msg string
	err error
}

func (e *localizedError) Error() string { return e.msg }
func (e *localizedError) Unwrap() error { return e.err }

func handleErrors(err error, language formatter.Language) error {
	if errors.Is(err, workflow.ErrNotARepository) {
		msg := i18n.NewTranslations(language.String()).GetMessage(i18n.MsgNotARepository, nil)
		return &localizedError{msg: msg, err: err}
	}
	return err
}

// loadConfig falls back to defaults when the config file cannot be created.
func loadConfig(logger zerolog.Logger) (*config.Config, error) {
	if configErr != nil {
		if !errors.Is(configErr, config.ErrNotPersisted) {
			return nil, fmt.Errorf("configuration error: %w", configErr)
		}
		logger.Warn().Err(configErr).Msg("using default configuration")
	}
	return config.GetConfig()
}

// resolveLanguage picks the --lang flag first, then the configured language.
// Unknown values select English.
func resolveLanguage(cfg *config.Config, logger zerolog.Logger) formatter.Language {
	requested := lang
	if requested == "" && cfg != nil {
		requested = cfg.Lang
	}
	if requested == "" {
		return formatter.DefaultLanguage
	}
	if !formatter.IsSupported(requested) {
		logger.Warn().Str("lang", requested).Msgf("unsupported language, using %s", formatter.DefaultLanguage)
	}
	return formatter.ParseLanguage(requested)
}

// Language returns the language selected by --lang or the configuration.
func Language() formatter.Language {
	cfg, err := config.GetConfig()
	if err != nil {
		return resolveLanguage(nil, zerolog.Nop())
	}
	return resolveLanguage(cfg, zerolog.Nop())
}

func resolveEnvFile(cfg *config.Config) string {
	if envFile != "" {
		return envFile
	}
	if cfg != nil && cfg.EnvFile != "" {
		return cfg.EnvFile
	}
	return credstore.DefaultFileName
}

func runCommit(ctx context.Context) error {
	logger := newLogger()
	cfg, err := loadConfig(logger)
	if err != nil {
		return err
	}

	language := resolveLanguage(cfg, logger)
	creds := credstore.NewFileStore(resolveEnvFile(cfg))

	logger.Debug().
		Str("model", cfg.Model).
		Str("api_base", cfg.APIBase).
		Dur("timeout", cfg.Timeout).
		Str("env_file", creds.Path()).
		Msg("configuration loaded")

	repo := git.NewClient(git.Options{
		Verbose: verbose,
		Logger:  logger,
		Output:  errWriter(),
	})
	client := llm.NewClient(llm.Options{
		BaseURL:     cfg.APIBase,
		Model:       cfg.Model,
		Timeout:     cfg.Timeout,
		Credentials: creds,
		Logger:      logger,
	})

	flow := workflow.NewCommitFlow(repo, client, creds, workflow.CommitOptions{
		Push:           !noPush,
		DryRun:         dryRun,
		Language:       language,
		APIKeyOverride: withAPI,
		CredentialPath: creds.Path(),
		ErrWriter:      errWriter(),
		OutWriter:      outWriter(),
		Logger:         logger,
	})
	return handleErrors(flow.Run(ctx), language)
}

func newLogger() zerolog.Logger {
	return logging.New(errWriter(), verbose)
}

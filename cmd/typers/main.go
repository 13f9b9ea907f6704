// Package main provides the CLI entrypoint for typers.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"time"
	"unicode/utf8"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/verte-zerg/typers/internal/config"
	"github.com/verte-zerg/typers/internal/logging"
	"github.com/verte-zerg/typers/internal/session"
	"github.com/verte-zerg/typers/internal/source"
	"github.com/verte-zerg/typers/internal/store"
	"github.com/verte-zerg/typers/internal/tui"
)

type rootOptions struct {
	wikipedia bool
	files     []string
	rounds    int
	separator string
	timeout   time.Duration
	plain     bool
	verbose   bool
}

func main() {
	rootCmd := newRootCmd()
	rootCmd.SetArgs(resolveArgs(os.Args[1:], loadDefaultArgs()))
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	rootCmd := &cobra.Command{
		Use:           "typers",
		Short:         "Terminal typing trainer",
		SilenceUsage:  true,
		SilenceErrors: false,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runRootCmd(cmd, opts)
		},
	}

	rootCmd.Flags().BoolVarP(&opts.wikipedia, "wikipedia", "w", false, "type extracts of random Wikipedia articles")
	rootCmd.Flags().StringArrayVarP(&opts.files, "file", "f", nil, "sentence file (.json, .yaml, .yml, .txt); repeatable")
	rootCmd.Flags().IntVarP(&opts.rounds, "number", "n", config.DefaultRounds, "number of sentences to type")
	rootCmd.Flags().StringVar(&opts.separator, "separator", config.DefaultSeparator, "character that ends a sentence in piped text")
	rootCmd.Flags().DurationVar(&opts.timeout, "timeout", config.DefaultTimeout, "timeout for fetching one sentence")
	rootCmd.Flags().BoolVar(&opts.plain, "plain", false, "redraw in the plain terminal instead of the full-screen UI")
	rootCmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newCacheCmd())

	return rootCmd
}

func runRootCmd(cmd *cobra.Command, opts *rootOptions) error {
	logs := logging.NewSwitch(os.Stderr)
	logger, notices := logging.New(logs, opts.verbose)
	slog.SetDefault(logger)

	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := applyDurationConfig(cmd, "timeout", &opts.timeout, fileCfg.Timeout); err != nil {
		return err
	}
	applyStringConfig(cmd, "separator", &opts.separator, fileCfg.Input.Separator)

	if opts.rounds <= 0 {
		return fmt.Errorf("--number must be > 0")
	}
	if opts.timeout <= 0 {
		return fmt.Errorf("--timeout must be > 0")
	}
	separator, err := parseSeparator(opts.separator)
	if err != nil {
		return err
	}

	pool := source.NewPool(logger, opts.timeout)
	stdinPiped := !term.IsTerminal(int(os.Stdin.Fd()))
	if stdinPiped {
		if err := registerStdin(pool, os.Stdin, separator, logger); err != nil {
			return err
		}
	}
	for _, path := range dedupePaths(opts.files) {
		f, err := source.NewFile(path)
		if err != nil {
			logger.Warn("skipping sentence file", "path", path, "err", err)
			continue
		}
		logger.Debug("registered sentence file", "path", f.Path(), "sentences", f.Len())
		pool.Register(f)
	}
	if opts.wikipedia {
		closeCache, err := registerWikipedia(pool, fileCfg, opts.timeout, logger)
		if err != nil {
			return err
		}
		defer closeCache()
	}
	if pool.Len() == 0 {
		return fmt.Errorf("%w: use --wikipedia or --file, or pipe text on stdin", source.ErrNoProvider)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	s := session.New(pool, opts.rounds, logger)
	var runErr error
	if opts.plain {
		runErr = runPlain(ctx, s, logs, logger)
	} else {
		runErr = runTUI(ctx, s, notices, logs, stdinPiped)
	}

	if err := tui.RenderSummary(cmd.OutOrStdout(), s.Summary()); err != nil {
		return fmt.Errorf("failed to write summary: %w", err)
	}
	if errors.Is(runErr, session.ErrInterrupted) {
		return nil
	}
	return runErr
}

func registerStdin(pool *source.Pool, r io.Reader, separator rune, logger *slog.Logger) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("failed to read stdin: %w", err)
	}
	text := source.NewText(string(data), separator)
	if text.Len() == 0 {
		logger.Warn("stdin contains no sentences")
		return nil
	}
	logger.Debug("registered piped text", "sentences", text.Len())
	pool.Register(text)
	return nil
}

// registerWikipedia adds the Wikipedia provider, backed by the article cache
// when it is enabled. The returned func closes the cache.
func registerWikipedia(pool *source.Pool, fileCfg config.FileConfig, timeout time.Duration, logger *slog.Logger) (func(), error) {
	langs, err := fileCfg.Languages()
	if err != nil {
		return nil, err
	}
	opts := source.WikipediaOptions{Timeout: timeout, Logger: logger}
	closeCache := func() {}
	if cacheEnabled(fileCfg) {
		st, err := store.Open(config.DefaultCachePath(), cacheMaxEntries(fileCfg))
		if err != nil {
			logger.Warn("article cache unavailable", "err", err)
		} else {
			opts.Cache = st
			closeCache = func() {
				if cerr := st.Close(); cerr != nil {
					logger.Warn("failed to close article cache", "err", cerr)
				}
			}
		}
	}
	w, err := source.NewWikipedia(langs, opts)
	if err != nil {
		closeCache()
		return nil, err
	}
	logger.Debug("registered wikipedia", "languages", langs)
	pool.Register(w)
	return closeCache, nil
}

func runTUI(ctx context.Context, s *session.Session, notices tui.NoticeSource, logs *logging.Switch, stdinPiped bool) error {
	defer releaseLogs(logs.Hold(os.Stderr))

	model := tui.NewModel(ctx, s, notices)
	programOpts := []tea.ProgramOption{tea.WithAltScreen()}
	if stdinPiped {
		programOpts = append(programOpts, tea.WithInputTTY())
	}
	if _, err := tea.NewProgram(model, programOpts...).Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	if model.Interrupted() {
		return session.ErrInterrupted
	}
	return model.Err()
}

func runPlain(ctx context.Context, s *session.Session, logs *logging.Switch, logger *slog.Logger) error {
	tty, err := tui.OpenTTY()
	if err != nil {
		return err
	}
	// Deferred first so held logs replay after the terminal leaves raw mode.
	defer releaseLogs(logs.Hold(os.Stderr))
	defer func() {
		if cerr := tty.Close(); cerr != nil {
			logger.Warn("failed to restore terminal", "err", cerr)
		}
	}()
	_, err = s.Run(ctx, tty, tui.NewScreen(os.Stdout))
	return err
}

// releaseLogs replays log output held while the terminal was owned by the UI.
func releaseLogs(release func() error) {
	if err := release(); err != nil {
		logErrf("failed to flush logs: %v\n", err)
	}
}

// loadDefaultArgs creates the config on first run and returns its default-args.
func loadDefaultArgs() []string {
	path := config.DefaultConfigPath()
	created, err := config.EnsureDefault(path)
	if err != nil {
		logErrf("failed to create default config: %v\n", err)
		return nil
	}
	if created {
		logErrf("Created default config at %s\n", path)
	}
	fileCfg, err := config.LoadConfig(path)
	if err != nil {
		// Reported again when the root command loads the config.
		return nil
	}
	return fileCfg.DefaultArgs()
}

func resolveArgs(args, defaults []string) []string {
	if len(args) > 0 || len(defaults) == 0 {
		return args
	}
	return defaults
}

func parseSeparator(s string) (rune, error) {
	if utf8.RuneCountInString(s) != 1 {
		return 0, fmt.Errorf("--separator must be exactly one character, got %q", s)
	}
	r, _ := utf8.DecodeRuneInString(s)
	return r, nil
}

// dedupePaths drops repeated files, comparing cleaned absolute paths.
func dedupePaths(paths []string) []string {
	out := make([]string, 0, len(paths))
	seen := make(map[string]struct{}, len(paths))
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			abs = filepath.Clean(p)
		}
		if _, ok := seen[abs]; ok {
			continue
		}
		seen[abs] = struct{}{}
		out = append(out, abs)
	}
	return out
}

func cacheEnabled(fileCfg config.FileConfig) bool {
	if fileCfg.Cache.Enabled == nil {
		return true
	}
	return *fileCfg.Cache.Enabled
}

func cacheMaxEntries(fileCfg config.FileConfig) int {
	if fileCfg.Cache.MaxEntries == nil {
		return config.DefaultMaxEntries
	}
	return *fileCfg.Cache.MaxEntries
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyDurationConfig(cmd *cobra.Command, name string, target *time.Duration, value func() (time.Duration, bool, error)) error {
	if cmd.Flags().Changed(name) {
		return nil
	}
	d, ok, err := value()
	if err != nil {
		return err
	}
	if ok {
		*target = d
	}
	return nil
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}

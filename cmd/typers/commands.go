package main

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/spf13/cobra"

	"github.com/verte-zerg/typers/internal/config"
	"github.com/verte-zerg/typers/internal/store"
)

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if _, err := config.EnsureDefault(path); err != nil {
		return err
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func newCacheCmd() *cobra.Command {
	var clearCache bool
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Show or clear cached Wikipedia articles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCacheCmd(cmd, config.DefaultCachePath(), clearCache)
		},
	}
	cmd.Flags().BoolVar(&clearCache, "clear", false, "remove every cached article")
	return cmd
}

func runCacheCmd(cmd *cobra.Command, path string, clearCache bool) error {
	st, err := store.Open(path, 0)
	if err != nil {
		return fmt.Errorf("failed to open cache: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close cache: %v\n", cerr)
		}
	}()

	ctx := context.Background()
	out := cmd.OutOrStdout()
	if clearCache {
		n, err := st.Clear(ctx)
		if err != nil {
			return fmt.Errorf("failed to clear cache: %w", err)
		}
		if _, err := fmt.Fprintf(out, "Removed %d cached articles\n", n); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		return nil
	}

	counts, err := st.Counts(ctx)
	if err != nil {
		return fmt.Errorf("failed to read cache: %w", err)
	}
	if len(counts) == 0 {
		if _, err := fmt.Fprintln(out, "Cache is empty"); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		return nil
	}
	for _, c := range counts {
		if _, err := fmt.Fprintf(out, "%s\t%d\n", c.Lang, c.Count); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

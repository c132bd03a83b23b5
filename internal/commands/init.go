package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/aibos-dev/aibos/internal/config"
	"github.com/aibos-dev/aibos/internal/gitops"
	"github.com/aibos-dev/aibos/internal/ledger"
	"github.com/aibos-dev/aibos/internal/store"
)

func newInitCommand() *cobra.Command {
	var name string
	var backend string
	var gitInit bool

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Initialize a new ledger data directory",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}

			absDir, err := filepath.Abs(dir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}

			return runInit(cmd, absDir, name, backend, gitInit)
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "business name (required)")
	_ = cmd.MarkFlagRequired("name")
	cmd.Flags().StringVar(&backend, "backend", "auto", "storage backend: auto, sqlite or flatfile")
	cmd.Flags().BoolVar(&gitInit, "git", false, "initialize git versioning for the data directory")

	return cmd
}

func runInit(cmd *cobra.Command, dir, name, backend string, gitInit bool) error {
	if err := os.MkdirAll(filepath.Join(dir, "logs"), 0o755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	cfg := config.Default(name)
	cfg.Storage.Backend = backend
	cfg.Git.AutoCommit = gitInit
	if err := config.Save(filepath.Join(dir, config.FileName), cfg); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	// Opening the store and loading the ledger seeds the default chart,
	// the sample journal and the admin user exactly once.
	st, err := store.OpenBackend(dir, store.Backend(backend))
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	defer st.Close()

	svc, err := ledger.Load(cmd.Context(), st)
	if err != nil {
		return fmt.Errorf("seeding ledger: %w", err)
	}

	if gitInit {
		// Database files churn on every write and stay out of version
		// control; snapshots and config are what git tracks.
		gitignore := store.DatabaseFile + "\n" + store.DatabaseFile + "-wal\n" + store.DatabaseFile + "-shm\n"
		if err := os.WriteFile(filepath.Join(dir, ".gitignore"), []byte(gitignore), 0o644); err != nil {
			return fmt.Errorf("writing .gitignore: %w", err)
		}
		if err := gitops.Init(dir); err != nil {
			return fmt.Errorf("git init: %w", err)
		}
		hash, err := gitops.CommitAll(dir, "init: "+name, cfg.Git.AuthorName, cfg.Git.AuthorEmail)
		if err != nil {
			return fmt.Errorf("initial commit: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Initialized git repository (%s)\n", hash)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Initialized ledger for %s at %s (%d accounts)\n", name, dir, len(svc.Accounts()))
	return nil
}

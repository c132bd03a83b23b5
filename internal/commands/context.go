package commands

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/aibos-dev/aibos/internal/auditlog"
	"github.com/aibos-dev/aibos/internal/config"
	"github.com/aibos-dev/aibos/internal/gitops"
	"github.com/aibos-dev/aibos/internal/ledger"
	"github.com/aibos-dev/aibos/internal/store"
)

// env bundles everything a command needs: the resolved data directory, its
// config, the opened store and the loaded ledger.
type env struct {
	dir string
	cfg *config.Config
	st  store.Store
	svc *ledger.Service
}

// openEnv resolves dir, reads aibos.yaml (falling back to defaults when the
// file is absent) and loads the ledger over the configured backend.
func openEnv(ctx context.Context, dir string) (*env, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}

	cfg, err := config.Load(filepath.Join(absDir, config.FileName))
	if errors.Is(err, fs.ErrNotExist) {
		cfg = config.Default("")
	} else if err != nil {
		return nil, err
	}

	st, err := store.OpenBackend(absDir, store.Backend(cfg.Storage.Backend))
	if err != nil {
		return nil, fmt.Errorf("opening store: %w", err)
	}

	svc, err := ledger.Load(ctx, st)
	if err != nil {
		st.Close()
		return nil, err
	}
	return &env{dir: absDir, cfg: cfg, st: st, svc: svc}, nil
}

func (e *env) close() {
	e.st.Close()
}

// audit appends one entry to the data dir's audit log. Audit failures are
// reported but never fail the command.
func (e *env) audit(entry auditlog.Entry) {
	if err := auditlog.Append(e.dir, []auditlog.Entry{entry}); err != nil {
		fmt.Fprintf(os.Stderr, "warning: failed to write audit log: %v\n", err)
	}
}

// commit auto-commits the data directory when configured and versioned.
func (e *env) commit(message string) {
	if !e.cfg.Git.AutoCommit || !gitops.IsRepo(e.dir) {
		return
	}
	if _, err := gitops.CommitAll(e.dir, message, e.cfg.Git.AuthorName, e.cfg.Git.AuthorEmail); err != nil {
		fmt.Fprintf(os.Stderr, "warning: git commit failed: %v\n", err)
	}
}
